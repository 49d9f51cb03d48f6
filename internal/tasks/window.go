package tasks

import (
	"fmt"
	"strings"
	"time"
)

// Window returns the Monday on or before ref and the following Sunday,
// truncated to midnight in ref's location.
//
// Pure function of the reference date so callers can test naming without
// mocking the system clock.
func Window(ref time.Time) (start, end time.Time) {
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	offset := (int(day.Weekday()) + 6) % 7 // days since Monday
	start = day.AddDate(0, 0, -offset)
	end = start.AddDate(0, 0, 6)
	return start, end
}

// PlaylistName generates the playlist name for the week containing ref,
// e.g. "Weekly Mix - Dec 09 to Dec 15, 2024".
func PlaylistName(prefix string, ref time.Time) string {
	start, end := Window(ref)
	return fmt.Sprintf("%s - %s to %s", prefix, start.Format("Jan 02"), end.Format("Jan 02, 2006"))
}

// WeeklyDescription generates the playlist description for a weekly run.
func WeeklyDescription(ref time.Time) string {
	start, end := Window(ref)
	return fmt.Sprintf("Weekly mix for %s to %s - created %s",
		start.Format("Jan 02"), end.Format("Jan 02, 2006"), ref.Format("2006-01-02"))
}

// DropsDescription generates the playlist description for a new-release scan.
func DropsDescription(ref time.Time, lookbackDays int) string {
	return fmt.Sprintf("Tracks released in the last %d days - %s", lookbackDays, ref.Format("2006-01-02"))
}

// Cutoff returns the earliest release date that still counts as recent.
func Cutoff(ref time.Time, lookbackDays int) time.Time {
	return ref.AddDate(0, 0, -lookbackDays)
}

// ParseReleaseDate parses a Spotify release date string.
//
// Spotify reports dates as YYYY-MM-DD, YYYY-MM, or YYYY depending on the
// release's precision; missing components resolve to the first day.
// Returns false for "Unknown" or unparseable values.
func ParseReleaseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "Unknown" {
		return time.Time{}, false
	}

	var layout string
	switch len(s) {
	case 10:
		layout = "2006-01-02"
	case 7:
		layout = "2006-01"
	case 4:
		layout = "2006"
	default:
		return time.Time{}, false
	}

	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// IsRecentRelease reports whether a release date string falls on or after
// the cutoff. Unknown dates are never recent.
func IsRecentRelease(releaseDate string, cutoff time.Time) bool {
	t, ok := ParseReleaseDate(releaseDate)
	if !ok {
		return false
	}
	return !t.Before(cutoff)
}
