package formatter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/weeklymix/internal/models"
	"github.com/desertthunder/weeklymix/internal/tasks"
)

func testResult() *tasks.RunResult {
	return &tasks.RunResult{
		Playlist: &models.Playlist{
			ID:          "playlist123",
			Name:        "Weekly Mix - Dec 09 to Dec 15, 2024",
			Description: "Weekly mix for Dec 09 to Dec 15, 2024 - created 2024-12-11",
			TrackCount:  1,
		},
		WindowStart: time.Date(2024, time.December, 9, 0, 0, 0, 0, time.UTC),
		WindowEnd:   time.Date(2024, time.December, 15, 0, 0, 0, 0, time.UTC),
		Query:       "OWA OWA Lil Tecca",
		Tracks: []models.Track{
			{ID: "5E3XPRJVgYnxhMAFI7nZ7N", Title: "OWA OWA", Artist: "Lil Tecca", Duration: "2:31", ReleaseDate: "2024-12-06"},
		},
		TracksAdded: 1,
		Status:      models.RunStatusFull,
	}
}

func TestRunToText(t *testing.T) {
	t.Run("renders playlist and tracks", func(t *testing.T) {
		out, err := RunToText(testResult())
		if err != nil {
			t.Fatalf("RunToText() error = %v", err)
		}

		text := string(out)
		for _, want := range []string{
			"Weekly Mix - Dec 09 to Dec 15, 2024",
			"playlist123",
			"Dec 09 - Dec 15",
			"1. Lil Tecca - OWA OWA",
			"Status: full",
		} {
			if !strings.Contains(text, want) {
				t.Errorf("output missing %q:\n%s", want, text)
			}
		}
		if strings.Contains(text, "Warnings") {
			t.Error("output mentions warnings for a clean run")
		}
	})

	t.Run("renders warnings", func(t *testing.T) {
		result := testResult()
		result.Warnings = []string{"track not found: \"OWA OWA Lil Tecca\""}

		out, err := RunToText(result)
		if err != nil {
			t.Fatalf("RunToText() error = %v", err)
		}
		if !strings.Contains(string(out), "Warnings:") {
			t.Errorf("output missing warnings section:\n%s", out)
		}
	})

	t.Run("nil playlist", func(t *testing.T) {
		if _, err := RunToText(&tasks.RunResult{}); err == nil {
			t.Error("RunToText() expected error for missing playlist")
		}
	})
}

func TestRunToMarkdown(t *testing.T) {
	out, err := RunToMarkdown(testResult())
	if err != nil {
		t.Fatalf("RunToMarkdown() error = %v", err)
	}

	text := string(out)
	if !strings.HasPrefix(text, "# Weekly Mix - Dec 09 to Dec 15, 2024") {
		t.Errorf("markdown missing title heading:\n%s", text)
	}
	if !strings.Contains(text, "## Tracks") {
		t.Errorf("markdown missing tracks section:\n%s", text)
	}
	if !strings.Contains(text, "(Released: 2024-12-06)") {
		t.Errorf("markdown missing release date:\n%s", text)
	}
	if !strings.Contains(text, "**Visibility**: Private") {
		t.Errorf("markdown missing visibility:\n%s", text)
	}
}

func TestRunToJSON(t *testing.T) {
	out, err := RunToJSON(testResult())
	if err != nil {
		t.Fatalf("RunToJSON() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if decoded["window_start"] != "2024-12-09" {
		t.Errorf("window_start = %v, want 2024-12-09", decoded["window_start"])
	}
	if decoded["status"] != "full" {
		t.Errorf("status = %v, want full", decoded["status"])
	}
	if decoded["tracks_added"] != float64(1) {
		t.Errorf("tracks_added = %v, want 1", decoded["tracks_added"])
	}
}

func TestWriteRunExport(t *testing.T) {
	t.Run("formats and default paths", func(t *testing.T) {
		dir := t.TempDir()

		tests := []struct {
			format  string
			path    string
			wantExt string
		}{
			{"json", filepath.Join(dir, "run.json"), ".json"},
			{"markdown", filepath.Join(dir, "run.md"), ".md"},
			{"txt", filepath.Join(dir, "run.txt"), ".txt"},
		}

		for _, tt := range tests {
			path, err := WriteRunExport(testResult(), tt.format, tt.path)
			if err != nil {
				t.Fatalf("WriteRunExport(%s) error = %v", tt.format, err)
			}
			if path != tt.path {
				t.Errorf("WriteRunExport(%s) path = %q, want %q", tt.format, path, tt.path)
			}
			if _, err := os.Stat(path); err != nil {
				t.Errorf("export file missing: %v", err)
			}
		}
	})

	t.Run("unsupported format", func(t *testing.T) {
		if _, err := WriteRunExport(testResult(), "xml", ""); err == nil {
			t.Error("WriteRunExport() expected error for unsupported format")
		}
	})
}
