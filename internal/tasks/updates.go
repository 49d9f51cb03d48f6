package tasks

import (
	"fmt"

	"github.com/desertthunder/weeklymix/internal/models"
)

// ProgressUpdate represents a progress event during a playlist run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ConnectGateway Phase = iota
	CreatePlaylist
	SearchTracks
	AddTracks
	Done
)

func (p Phase) String() string {
	switch p {
	case ConnectGateway:
		return "connect_gateway"
	case CreatePlaylist:
		return "create_playlist"
	case SearchTracks:
		return "search_tracks"
	case AddTracks:
		return "add_tracks"
	case Done:
		return "done"
	default:
		return ""
	}
}

func connectingUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   ConnectGateway,
		Step:    0,
		Total:   1,
		Message: "Connecting to Spotify gateway...",
	}
}

func connectedUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   ConnectGateway,
		Step:    1,
		Total:   1,
		Message: "Connected to Spotify gateway",
	}
}

func creatingPlaylistUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    0,
		Total:   1,
		Message: fmt.Sprintf("Creating playlist: %s", name),
	}
}

func createdPlaylistUpdate(pl *models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist created: %s (ID: %s)", pl.Name, pl.ID),
		Data:    pl,
	}
}

func searchingUpdate(query string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchTracks,
		Step:    0,
		Total:   1,
		Message: fmt.Sprintf("Searching for %q...", query),
	}
}

func scanningArtistUpdate(artist string, step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Checking %s for recent releases...", step, total, artist),
	}
}

func trackFoundUpdate(tr models.Track) ProgressUpdate {
	msg := fmt.Sprintf("Found: %q by %s", tr.Title, tr.Artist)
	if tr.ReleaseDate != "" {
		msg = fmt.Sprintf("%s (Released: %s)", msg, tr.ReleaseDate)
	}
	return ProgressUpdate{
		Phase:   SearchTracks,
		Step:    1,
		Total:   1,
		Message: msg,
		Data:    tr,
	}
}

func trackNotFoundUpdate(query string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("No track found for %q", query),
	}
}

func addingTracksUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddTracks,
		Step:    0,
		Total:   1,
		Message: fmt.Sprintf("Adding %d track(s) to playlist...", count),
	}
}

func addedTracksUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Added %d track(s)", count),
	}
}

func doneUpdate(result *RunResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Done,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Run complete: %s", result.Status),
		Data:    result,
	}
}
