// package tasks implements the weekly playlist sequence against the MCP gateway.
//
// The core abstraction is Engine, which orchestrates playlist creation, track
// search, and track addition. Operations emit progress updates via channels
// for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/weeklymix/internal/gateway"
	"github.com/desertthunder/weeklymix/internal/models"
	"github.com/desertthunder/weeklymix/internal/shared"
)

// DefaultTrackQuery is the search used by a weekly run when the
// configuration does not override it.
const DefaultTrackQuery = "OWA OWA Lil Tecca"

// DefaultNamePrefix is the playlist name prefix for weekly runs.
const DefaultNamePrefix = "Weekly Mix"

// DefaultDropsPrefix is the playlist name prefix for new-release scans.
const DefaultDropsPrefix = "Weekly New Drops"

// RunOpts contains configuration for a single weekly run.
type RunOpts struct {
	NamePrefix string // Playlist name prefix (default: "Weekly Mix")
	Query      string // Track search query (default: DefaultTrackQuery)
	Public     bool   // Playlist visibility
}

// DropsOpts contains configuration for a new-release scan.
type DropsOpts struct {
	NamePrefix   string   // Playlist name prefix (default: "Weekly New Drops")
	Artists      []string // Artists to scan; required
	LookbackDays int      // Release recency window (default: 7)
	MaxPerArtist int      // Cap on tracks kept per artist (default: 3)
	Public       bool     // Playlist visibility
}

// RunOptsFromConfig builds weekly run options from playlist configuration.
func RunOptsFromConfig(cfg shared.PlaylistConfig) RunOpts {
	return RunOpts{
		NamePrefix: cfg.NamePrefix,
		Query:      cfg.TrackQuery,
		Public:     cfg.Public,
	}
}

// DropsOptsFromConfig builds new-release scan options from playlist configuration.
func DropsOptsFromConfig(cfg shared.PlaylistConfig) DropsOpts {
	return DropsOpts{
		NamePrefix:   DefaultDropsPrefix,
		Artists:      cfg.Artists,
		LookbackDays: cfg.LookbackDays,
		MaxPerArtist: cfg.MaxPerArtist,
		Public:       cfg.Public,
	}
}

// RunResult contains all data from one playlist run.
type RunResult struct {
	Playlist    *models.Playlist // Created playlist
	WindowStart time.Time        // Monday of the run's week
	WindowEnd   time.Time        // Sunday of the run's week
	Query       string           // Search query (weekly runs) or artist summary (drops)
	Tracks      []models.Track   // Tracks found by search
	TracksAdded int              // Tracks actually attached to the playlist
	Warnings    []string         // Recoverable failures encountered
	Status      models.RunStatus // Terminal status: full, partial, or empty
}

// Partial reports whether the run completed with recoverable failures.
func (r *RunResult) Partial() bool {
	return r.Status != models.RunStatusFull
}

// Engine defines the playlist operations driven by the CLI and TUI.
type Engine interface {
	// RunOnce creates this week's playlist and attaches the single track
	// matching the configured query. Recoverable failures (track missing,
	// add rejected) are recorded on the result; only connection and
	// creation failures return an error.
	RunOnce(ctx context.Context, progress chan<- ProgressUpdate, opts RunOpts) (*RunResult, error)

	// RunDrops creates this week's playlist and fills it with tracks the
	// configured artists released inside the lookback window.
	RunDrops(ctx context.Context, progress chan<- ProgressUpdate, opts DropsOpts) (*RunResult, error)
}

// WeeklyEngine implements Engine against an injected [gateway.Gateway].
type WeeklyEngine struct {
	gateway gateway.Gateway
	now     func() time.Time
}

// NewWeeklyEngine creates a WeeklyEngine. A nil clock defaults to [time.Now].
func NewWeeklyEngine(gw gateway.Gateway, clock func() time.Time) *WeeklyEngine {
	if clock == nil {
		clock = time.Now
	}
	return &WeeklyEngine{gateway: gw, now: clock}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *WeeklyEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// RunOnce executes the weekly sequence: connect, create playlist, search for
// the configured track, add it.
//
// Repeated runs always create additional playlists; there is no dedup against
// earlier weeks. A created playlist is left in place even when later steps fail.
func (e *WeeklyEngine) RunOnce(ctx context.Context, progress chan<- ProgressUpdate, opts RunOpts) (*RunResult, error) {
	if e.gateway == nil {
		return nil, fmt.Errorf("%w: gateway not configured", shared.ErrGatewayConnection)
	}

	if opts.NamePrefix == "" {
		opts.NamePrefix = DefaultNamePrefix
	}
	if opts.Query == "" {
		opts.Query = DefaultTrackQuery
	}

	ref := e.now()
	start, end := Window(ref)
	name := PlaylistName(opts.NamePrefix, ref)
	description := WeeklyDescription(ref)

	result := &RunResult{
		WindowStart: start,
		WindowEnd:   end,
		Query:       opts.Query,
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

	e.sendProgress(progress, searchingUpdate(opts.Query))
	tracks, err := e.gateway.SearchTracks(ctx, opts.Query, "track", 1)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("search failed for %q: %v", opts.Query, err))
		result.Status = models.RunStatusEmpty
		e.sendProgress(progress, doneUpdate(result))
		return result, nil
	}
	if len(tracks) == 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%v: %q", shared.ErrTrackNotFound, opts.Query))
		result.Status = models.RunStatusEmpty
		e.sendProgress(progress, trackNotFoundUpdate(opts.Query))
		e.sendProgress(progress, doneUpdate(result))
		return result, nil
	}

	track := tracks[0]
	result.Tracks = []models.Track{track}
	e.sendProgress(progress, trackFoundUpdate(track))

	e.sendProgress(progress, addingTracksUpdate(1))
	if err := e.gateway.AddTracks(ctx, pl.ID, []string{track.ID}); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("failed to add %q: %v", track.Title, err))
		result.Status = models.RunStatusPartial
		e.sendProgress(progress, doneUpdate(result))
		return result, nil
	}

	result.TracksAdded = 1
	result.Playlist.TrackCount = 1
	result.Status = models.RunStatusFull
	e.sendProgress(progress, addedTracksUpdate(1))
	e.sendProgress(progress, doneUpdate(result))
	return result, nil
}

var _ Engine = (*WeeklyEngine)(nil)
