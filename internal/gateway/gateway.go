// package gateway defines interface Gateway for the MCP process bridging weeklymix to the Spotify Web API
package gateway

import (
	"context"

	"github.com/desertthunder/weeklymix/internal/models"
)

// Gateway defines the four remote operations the playlist sequence consumes.
//
// The concrete implementation is an external, host-managed process; callers
// hold the interface so tests can substitute a fake.
type Gateway interface {
	// Connect acquires a session with the gateway process.
	// Must be called before any other operation; returns an error if the
	// handshake fails.
	Connect(ctx context.Context) error

	// Close releases the gateway session. Safe to call on all exit paths,
	// including after a failed Connect.
	Close() error

	// CreatePlaylist creates a playlist on the user's account and returns
	// its metadata. Fails if the response carries no playlist identifier.
	CreatePlaylist(ctx context.Context, name, description string, public bool) (*models.Playlist, error)

	// SearchTracks searches the music service. kind is the search type
	// (e.g. "track"); limit caps the number of results.
	// An empty result is not an error.
	SearchTracks(ctx context.Context, query, kind string, limit int) ([]models.Track, error)

	// AddTracks attaches the given track IDs to a playlist.
	AddTracks(ctx context.Context, playlistID string, trackIDs []string) error
}
