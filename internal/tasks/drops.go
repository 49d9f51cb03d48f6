package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/weeklymix/internal/models"
	"github.com/desertthunder/weeklymix/internal/shared"
)

// RunDrops executes a new-release scan: creates this week's playlist and
// fills it with tracks the configured artists released inside the lookback
// window.
//
// Each artist is probed with three query variants (prefixed artist search,
// bare name, name plus current year) because Spotify's text search surfaces
// different result sets for each. Release-date filtering uses the dates the
// gateway reports rather than text matching. An empty haul still leaves the
// created playlist in place, ready for next week.
func (e *WeeklyEngine) RunDrops(ctx context.Context, progress chan<- ProgressUpdate, opts DropsOpts) (*RunResult, error) {
	if e.gateway == nil {
		return nil, fmt.Errorf("%w: gateway not configured", shared.ErrGatewayConnection)
	}
	if len(opts.Artists) == 0 {
		return nil, fmt.Errorf("%w: no artists configured", shared.ErrInvalidInput)
	}

	if opts.NamePrefix == "" {
		opts.NamePrefix = DefaultDropsPrefix
	}
	if opts.LookbackDays <= 0 {
		opts.LookbackDays = 7
	}
	if opts.MaxPerArtist <= 0 {
		opts.MaxPerArtist = 3
	}

	ref := e.now()
	start, end := Window(ref)
	cutoff := Cutoff(ref, opts.LookbackDays)
	name := PlaylistName(opts.NamePrefix, ref)
	description := DropsDescription(ref, opts.LookbackDays)

	result := &RunResult{
		WindowStart: start,
		WindowEnd:   end,
		Query:       fmt.Sprintf("%d artists, last %d days", len(opts.Artists), opts.LookbackDays),
	}

	e.sendProgress(progress, connectingUpdate())
	if err := e.gateway.Connect(ctx); err != nil {
		return nil, err
	}
	defer e.gateway.Close()
	e.sendProgress(progress, connectedUpdate())

	e.sendProgress(progress, creatingPlaylistUpdate(name))
	pl, err := e.gateway.CreatePlaylist(ctx, name, description, opts.Public)
	if err != nil {
		return nil, err
	}
	result.Playlist = pl
	e.sendProgress(progress, createdPlaylistUpdate(pl))

	seen := make(map[string]bool)
	var found []models.Track

	for i, artist := range opts.Artists {
		e.sendProgress(progress, scanningArtistUpdate(artist, i+1, len(opts.Artists)))

		tracks, warnings := e.searchArtistTracks(ctx, artist, ref, cutoff, opts.MaxPerArtist, seen)
		result.Warnings = append(result.Warnings, warnings...)

		for _, tr := range tracks {
			e.sendProgress(progress, trackFoundUpdate(tr))
		}
		found = append(found, tracks...)
	}

	result.Tracks = found

	if len(found) == 0 {
		result.Status = models.RunStatusEmpty
		e.sendProgress(progress, doneUpdate(result))
		return result, nil
	}

	ids := make([]string, 0, len(found))
	for _, tr := range found {
		ids = append(ids, tr.ID)
	}

	e.sendProgress(progress, addingTracksUpdate(len(ids)))
	if err := e.gateway.AddTracks(ctx, pl.ID, ids); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("failed to add tracks: %v", err))
		result.Status = models.RunStatusPartial
		e.sendProgress(progress, doneUpdate(result))
		return result, nil
	}

	result.TracksAdded = len(ids)
	result.Playlist.TrackCount = len(ids)
	result.Status = models.RunStatusFull
	e.sendProgress(progress, addedTracksUpdate(len(ids)))
	e.sendProgress(progress, doneUpdate(result))
	return result, nil
}

// searchArtistTracks probes the gateway for one artist's recent releases.
//
// Tracks must credit the artist, carry a release date on or after the
// cutoff, and not already be collected. At most max tracks are returned.
// Per-query errors degrade to warnings; the scan continues.
func (e *WeeklyEngine) searchArtistTracks(ctx context.Context, artist string, ref, cutoff time.Time, max int, seen map[string]bool) ([]models.Track, []string) {
	queries := []string{
		fmt.Sprintf("artist:%s", artist),
		artist,
		fmt.Sprintf("%s %d", artist, ref.Year()),
	}

	var found []models.Track
	var warnings []string

	for _, query := range queries {
		tracks, err := e.gateway.SearchTracks(ctx, query, "track", 50)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("search failed for %q: %v", query, err))
			continue
		}

		for _, tr := range tracks {
			if len(found) >= max {
				return found, warnings
			}
			if seen[tr.ID] {
				continue
			}
			if !strings.Contains(strings.ToLower(tr.Artist), strings.ToLower(artist)) {
				continue
			}
			if !IsRecentRelease(tr.ReleaseDate, cutoff) {
				continue
			}

			seen[tr.ID] = true
			found = append(found, tr)
		}
	}

	return found, warnings
}
