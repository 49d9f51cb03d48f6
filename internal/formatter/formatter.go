// package formatter provides functions to export run results to various formats (JSON, Markdown, plain text)
package formatter

import (
	"bytes"
	"fmt"
	"os"

	"github.com/desertthunder/weeklymix/internal/models"
	"github.com/desertthunder/weeklymix/internal/shared"
	"github.com/desertthunder/weeklymix/internal/tasks"
)

// RunToText converts a RunResult to plain text format
func RunToText(result *tasks.RunResult) ([]byte, error) {
	if result == nil || result.Playlist == nil {
		return nil, fmt.Errorf("no playlist in run result")
	}

	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", result.Playlist.Name))
	buf.WriteString(fmt.Sprintf("ID: %s\n", result.Playlist.ID))
	buf.WriteString(fmt.Sprintf("Week: %s\n", shared.FormatWindow(result.WindowStart, result.WindowEnd)))
	buf.WriteString(fmt.Sprintf("Status: %s\n", result.Status))
	buf.WriteString(fmt.Sprintf("Tracks added: %d\n\n", result.TracksAdded))

	for i, track := range result.Tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, track.Artist, track.Title))
	}

	if len(result.Warnings) > 0 {
		buf.WriteString("\nWarnings:\n")
		for _, warning := range result.Warnings {
			buf.WriteString(fmt.Sprintf("  - %s\n", warning))
		}
	}

	return buf.Bytes(), nil
}

// RunToMarkdown converts a RunResult to Markdown format
func RunToMarkdown(result *tasks.RunResult) ([]byte, error) {
	if result == nil || result.Playlist == nil {
		return nil, fmt.Errorf("no playlist in run result")
	}

	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", result.Playlist.Name))

	if result.Playlist.Description != "" {
		buf.WriteString(fmt.Sprintf("**Description**: %s\n\n", result.Playlist.Description))
	}

	buf.WriteString(fmt.Sprintf("**Week**: %s\n", shared.FormatWindow(result.WindowStart, result.WindowEnd)))
	buf.WriteString(fmt.Sprintf("**Status**: %s\n", result.Status))
	buf.WriteString(fmt.Sprintf("**Tracks added**: %d\n", result.TracksAdded))
	buf.WriteString(fmt.Sprintf("**Visibility**: %s\n\n", shared.VisibilityString(result.Playlist.Public)))

	if len(result.Tracks) > 0 {
		buf.WriteString("## Tracks\n\n")
		for i, track := range result.Tracks {
			line := fmt.Sprintf("%d. %s - %s", i+1, track.Artist, track.Title)
			if track.ReleaseDate != "" {
				line = fmt.Sprintf("%s (Released: %s)", line, track.ReleaseDate)
			}
			buf.WriteString(line + "\n")
		}
	}

	if len(result.Warnings) > 0 {
		buf.WriteString("\n## Warnings\n\n")
		for _, warning := range result.Warnings {
			buf.WriteString(fmt.Sprintf("- %s\n", warning))
		}
	}

	return buf.Bytes(), nil
}

// runSummary is the JSON shape of an exported run.
type runSummary struct {
	Playlist    models.Playlist `json:"playlist"`
	WindowStart string          `json:"window_start"`
	WindowEnd   string          `json:"window_end"`
	Query       string          `json:"query"`
	Tracks      []models.Track  `json:"tracks,omitempty"`
	TracksAdded int             `json:"tracks_added"`
	Status      string          `json:"status"`
	Warnings    []string        `json:"warnings,omitempty"`
}

// RunToJSON converts a RunResult to indented JSON
func RunToJSON(result *tasks.RunResult) ([]byte, error) {
	if result == nil || result.Playlist == nil {
		return nil, fmt.Errorf("no playlist in run result")
	}

	summary := runSummary{
		Playlist:    *result.Playlist,
		WindowStart: result.WindowStart.Format("2006-01-02"),
		WindowEnd:   result.WindowEnd.Format("2006-01-02"),
		Query:       result.Query,
		Tracks:      result.Tracks,
		TracksAdded: result.TracksAdded,
		Status:      string(result.Status),
		Warnings:    result.Warnings,
	}

	return shared.MarshalJSON(summary, true)
}

// WriteRunExport writes a run result to disk in the requested format.
//
// Defaults to "{playlist id}.{ext}" when path is empty. Supported formats:
// json (default), markdown, txt.
func WriteRunExport(result *tasks.RunResult, format, path string) (string, error) {
	var data []byte
	var err error
	var ext string

	switch format {
	case "markdown", "md":
		data, err = RunToMarkdown(result)
		ext = "md"
	case "txt", "text":
		data, err = RunToText(result)
		ext = "txt"
	case "json", "":
		data, err = RunToJSON(result)
		ext = "json"
	default:
		return "", fmt.Errorf("unsupported export format: %s", format)
	}
	if err != nil {
		return "", err
	}

	if path == "" {
		path = fmt.Sprintf("%s.%s", result.Playlist.ID, ext)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}

	return path, nil
}
