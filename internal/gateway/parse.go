package gateway

import (
	"regexp"
	"strings"

	"github.com/desertthunder/weeklymix/internal/models"
)

// The Spotify MCP server reports results as human-readable text blocks.
// These patterns mirror its output formats:
//
//	Playlist ID: 3cEYpjA9oz9GiPac4AsH4n
//	1. "Title" by Artist (2:31) - Released: 2024-12-06 - ID: 5E3XPRJVgYnxhMAFI7nZ7N
//	1. "Title" by Artist (2:31) - ID: 5E3XPRJVgYnxhMAFI7nZ7N
var (
	playlistIDPattern = regexp.MustCompile(`Playlist ID: ([a-zA-Z0-9]+)`)

	datedTrackPattern = regexp.MustCompile(
		`^\d+\.\s*"([^"]+)"\s+by\s+([^(]+)\s*\(([^)]+)\)\s*-\s*Released:\s*([0-9]{4}-[0-9]{2}-[0-9]{2}|[0-9]{4}-[0-9]{2}|[0-9]{4}|Unknown)\s*-\s*ID:\s*([a-zA-Z0-9]+)`)

	plainTrackPattern = regexp.MustCompile(
		`^\d+\.\s*"([^"]+)"\s+by\s+([^(]+)\s*\(([^)]+)\)\s*-\s*ID:\s*([a-zA-Z0-9]+)`)
)

// ExtractPlaylistID pulls the playlist identifier out of a createPlaylist
// response. Returns the empty string if no identifier is present.
func ExtractPlaylistID(text string) string {
	match := playlistIDPattern.FindStringSubmatch(text)
	if match == nil {
		return ""
	}
	return match[1]
}

// ParseTracks extracts the track listing from a searchSpotify response.
//
// Lines carrying a release date take the dated form; lines without one fall
// back to the plain form. Unparseable lines are skipped.
func ParseTracks(text string) []models.Track {
	var tracks []models.Track

	for _, line := range strings.Split(text, "\n") {
		if match := datedTrackPattern.FindStringSubmatch(line); match != nil {
			tracks = append(tracks, models.Track{
				Title:       strings.TrimSpace(match[1]),
				Artist:      strings.TrimSpace(match[2]),
				Duration:    strings.TrimSpace(match[3]),
				ReleaseDate: strings.TrimSpace(match[4]),
				ID:          strings.TrimSpace(match[5]),
			})
			continue
		}

		if match := plainTrackPattern.FindStringSubmatch(line); match != nil {
			tracks = append(tracks, models.Track{
				Title:    strings.TrimSpace(match[1]),
				Artist:   strings.TrimSpace(match[2]),
				Duration: strings.TrimSpace(match[3]),
				ID:       strings.TrimSpace(match[4]),
			})
		}
	}

	return tracks
}

// AddConfirmed reports whether an addTracksToPlaylist response confirms
// the tracks were added.
func AddConfirmed(text string) bool {
	return strings.Contains(text, "Successfully added")
}
