package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/weeklymix/internal/models"
	"github.com/desertthunder/weeklymix/internal/shared"
	mocks "github.com/desertthunder/weeklymix/internal/testing"
)

// dropsGateway serves canned search results keyed by query substring.
func dropsGateway(results map[string][]models.Track) *mocks.MockGateway {
	return &mocks.MockGateway{
		SearchTracksFunc: func(ctx context.Context, query, kind string, limit int) ([]models.Track, error) {
			for key, tracks := range results {
				if strings.Contains(query, key) {
					return tracks, nil
				}
			}
			return []models.Track{}, nil
		},
	}
}

func TestWeeklyEngine_RunDrops(t *testing.T) {
	ctx := context.Background()
	clock := fixedClock(2024, time.December, 11) // cutoff Dec 04

	t.Run("keeps only recent releases by the named artist", func(t *testing.T) {
		gw := dropsGateway(map[string][]models.Track{
			"Lil Tecca": {
				{ID: "t1", Title: "Fresh Drop", Artist: "Lil Tecca", ReleaseDate: "2024-12-06"},
				{ID: "t2", Title: "Old Hit", Artist: "Lil Tecca", ReleaseDate: "2023-08-01"},
				{ID: "t3", Title: "Cover", Artist: "Somebody Else", ReleaseDate: "2024-12-07"},
				{ID: "t4", Title: "No Date", Artist: "Lil Tecca", ReleaseDate: "Unknown"},
			},
		})

		engine := NewWeeklyEngine(gw, clock)
		result, err := engine.RunDrops(ctx, nil, DropsOpts{Artists: []string{"Lil Tecca"}})
		if err != nil {
			t.Fatalf("RunDrops() error = %v", err)
		}

		if result.Status != models.RunStatusFull {
			t.Errorf("status = %v, want %v", result.Status, models.RunStatusFull)
		}
		if len(result.Tracks) != 1 || result.Tracks[0].ID != "t1" {
			t.Errorf("tracks = %v, want only t1", result.Tracks)
		}
		if result.TracksAdded != 1 {
			t.Errorf("tracks added = %d, want 1", result.TracksAdded)
		}
		if len(gw.Added) != 1 || gw.Added[0][0] != "t1" {
			t.Errorf("AddTracks ids = %v, want [t1]", gw.Added)
		}
	})

	t.Run("dedupes across query variants", func(t *testing.T) {
		// Every variant returns the same track; it must be added once.
		gw := dropsGateway(map[string][]models.Track{
			"Dro": {
				{ID: "t1", Title: "Single", Artist: "Dro", ReleaseDate: "2024-12-08"},
			},
		})

		engine := NewWeeklyEngine(gw, clock)
		result, err := engine.RunDrops(ctx, nil, DropsOpts{Artists: []string{"Dro"}})
		if err != nil {
			t.Fatalf("RunDrops() error = %v", err)
		}

		if len(result.Tracks) != 1 {
			t.Errorf("tracks = %v, want one", result.Tracks)
		}
		if len(gw.Searches) != 3 {
			t.Errorf("searches = %v, want 3 query variants", gw.Searches)
		}
	})

	t.Run("caps tracks per artist", func(t *testing.T) {
		var many []models.Track
		for i := 0; i < 10; i++ {
			many = append(many, models.Track{
				ID:          fmt.Sprintf("t%d", i),
				Title:       fmt.Sprintf("Song %d", i),
				Artist:      "Prolific",
				ReleaseDate: "2024-12-09",
			})
		}
		gw := dropsGateway(map[string][]models.Track{"Prolific": many})

		engine := NewWeeklyEngine(gw, clock)
		result, err := engine.RunDrops(ctx, nil, DropsOpts{Artists: []string{"Prolific"}, MaxPerArtist: 3})
		if err != nil {
			t.Fatalf("RunDrops() error = %v", err)
		}

		if len(result.Tracks) != 3 {
			t.Errorf("tracks = %d, want 3", len(result.Tracks))
		}
	})

	t.Run("artist match is case insensitive", func(t *testing.T) {
		gw := dropsGateway(map[string][]models.Track{
			"lil tecca": {
				{ID: "t1", Title: "Feature", Artist: "Lil Tecca, Juice WRLD", ReleaseDate: "2024-12-10"},
			},
		})

		engine := NewWeeklyEngine(gw, clock)
		result, err := engine.RunDrops(ctx, nil, DropsOpts{Artists: []string{"lil tecca"}})
		if err != nil {
			t.Fatalf("RunDrops() error = %v", err)
		}

		if len(result.Tracks) != 1 {
			t.Errorf("tracks = %v, want the featured track", result.Tracks)
		}
	})

	t.Run("empty haul keeps the playlist without error", func(t *testing.T) {
		gw := dropsGateway(nil)

		engine := NewWeeklyEngine(gw, clock)
		result, err := engine.RunDrops(ctx, nil, DropsOpts{Artists: []string{"Quiet Artist"}})
		if err != nil {
			t.Fatalf("RunDrops() error = %v", err)
		}

		if result.Status != models.RunStatusEmpty {
			t.Errorf("status = %v, want %v", result.Status, models.RunStatusEmpty)
		}
		if result.Playlist == nil {
			t.Fatal("playlist = nil, want created playlist")
		}
		if len(gw.Added) != 0 {
			t.Error("AddTracks called with empty haul")
		}
	})

	t.Run("per-query failures degrade to warnings", func(t *testing.T) {
		gw := &mocks.MockGateway{
			SearchTracksFunc: func(ctx context.Context, query, kind string, limit int) ([]models.Track, error) {
				if strings.HasPrefix(query, "artist:") {
					return nil, fmt.Errorf("rate limited")
				}
				return []models.Track{
					{ID: "t1", Title: "Survivor", Artist: "Resilient", ReleaseDate: "2024-12-10"},
				}, nil
			},
		}

		engine := NewWeeklyEngine(gw, clock)
		result, err := engine.RunDrops(ctx, nil, DropsOpts{Artists: []string{"Resilient"}})
		if err != nil {
			t.Fatalf("RunDrops() error = %v", err)
		}

		if len(result.Tracks) != 1 {
			t.Errorf("tracks = %v, want the track from the surviving queries", result.Tracks)
		}
		if len(result.Warnings) == 0 {
			t.Error("warnings empty, want the failed query recorded")
		}
	})

	t.Run("add failure marks the run partial", func(t *testing.T) {
		gw := dropsGateway(map[string][]models.Track{
			"Artist": {{ID: "t1", Title: "Song", Artist: "Artist", ReleaseDate: "2024-12-10"}},
		})
		gw.AddTracksFunc = func(ctx context.Context, playlistID string, trackIDs []string) error {
			return fmt.Errorf("%w: rejected", shared.ErrTrackAdd)
		}

		engine := NewWeeklyEngine(gw, clock)
		result, err := engine.RunDrops(ctx, nil, DropsOpts{Artists: []string{"Artist"}})
		if err != nil {
			t.Fatalf("RunDrops() error = %v", err)
		}
		if result.Status != models.RunStatusPartial {
			t.Errorf("status = %v, want %v", result.Status, models.RunStatusPartial)
		}
	})

	t.Run("no artists configured", func(t *testing.T) {
		engine := NewWeeklyEngine(&mocks.MockGateway{}, clock)
		if _, err := engine.RunDrops(ctx, nil, DropsOpts{}); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("RunDrops() error = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("playlist name uses the drops prefix", func(t *testing.T) {
		gw := dropsGateway(nil)

		engine := NewWeeklyEngine(gw, clock)
		result, err := engine.RunDrops(ctx, nil, DropsOpts{Artists: []string{"Anyone"}})
		if err != nil {
			t.Fatalf("RunDrops() error = %v", err)
		}

		want := "Weekly New Drops - Dec 09 to Dec 15, 2024"
		if result.Playlist.Name != want {
			t.Errorf("playlist name = %q, want %q", result.Playlist.Name, want)
		}
	})
}
