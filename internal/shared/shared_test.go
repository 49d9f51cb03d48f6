package shared

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()

	if a == "" || b == "" {
		t.Fatal("GenerateID() returned empty string")
	}
	if a == b {
		t.Errorf("GenerateID() returned duplicate IDs: %s", a)
	}
	if len(a) != 36 {
		t.Errorf("GenerateID() length = %d, want 36", len(a))
	}
}

func TestFormatWindow(t *testing.T) {
	start := time.Date(2024, time.December, 9, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.December, 15, 0, 0, 0, 0, time.UTC)

	got := FormatWindow(start, end)
	want := "Dec 09 - Dec 15"
	if got != want {
		t.Errorf("FormatWindow() = %q, want %q", got, want)
	}
}

func TestVisibilityString(t *testing.T) {
	if got := VisibilityString(true); got != "Public" {
		t.Errorf("VisibilityString(true) = %q, want %q", got, "Public")
	}
	if got := VisibilityString(false); got != "Private" {
		t.Errorf("VisibilityString(false) = %q, want %q", got, "Private")
	}
}

func TestMarshalJSON(t *testing.T) {
	data := map[string]string{"key": "value"}

	t.Run("compact", func(t *testing.T) {
		out, err := MarshalJSON(data, false)
		if err != nil {
			t.Fatalf("MarshalJSON() error = %v", err)
		}
		if string(out) != `{"key":"value"}` {
			t.Errorf("MarshalJSON() = %s", out)
		}
	})

	t.Run("pretty", func(t *testing.T) {
		out, err := MarshalJSON(data, true)
		if err != nil {
			t.Fatalf("MarshalJSON() error = %v", err)
		}
		if !strings.Contains(string(out), "\n") {
			t.Errorf("MarshalJSON() pretty output not indented: %s", out)
		}
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)

	logger.Info("hello", "key", "value")

	out := buf.String()
	if !strings.Contains(out, "hello") {
		t.Errorf("log output missing message: %s", out)
	}
	if !strings.Contains(out, "key") {
		t.Errorf("log output missing field: %s", out)
	}
}
