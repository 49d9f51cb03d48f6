package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Playlist.NamePrefix != "Weekly Mix" {
		t.Errorf("name prefix = %q, want %q", config.Playlist.NamePrefix, "Weekly Mix")
	}
	if config.Playlist.TrackQuery != "OWA OWA Lil Tecca" {
		t.Errorf("track query = %q, want %q", config.Playlist.TrackQuery, "OWA OWA Lil Tecca")
	}
	if config.Playlist.Public {
		t.Error("default playlist visibility should be private")
	}
	if len(config.Playlist.Artists) == 0 {
		t.Error("default config should list favorite artists")
	}
	if config.Playlist.LookbackDays != 7 {
		t.Errorf("lookback days = %d, want 7", config.Playlist.LookbackDays)
	}
	if config.Gateway.Command == "" {
		t.Error("default config should set a gateway command")
	}
	if config.Gateway.RateLimit <= 0 {
		t.Errorf("rate limit = %f, want positive", config.Gateway.RateLimit)
	}
	if config.Database.Path == "" {
		t.Error("default config should set a database path")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `
[gateway]
command = "node"
args = ["dist/index.js"]
rate_limit = 2.5

[playlist]
name_prefix = "My Mix"
public = true
track_query = "some song"

[database]
path = "test.db"
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}

		if config.Gateway.Command != "node" {
			t.Errorf("gateway command = %q, want %q", config.Gateway.Command, "node")
		}
		if len(config.Gateway.Args) != 1 || config.Gateway.Args[0] != "dist/index.js" {
			t.Errorf("gateway args = %v", config.Gateway.Args)
		}
		if config.Gateway.RateLimit != 2.5 {
			t.Errorf("rate limit = %f, want 2.5", config.Gateway.RateLimit)
		}
		if config.Playlist.NamePrefix != "My Mix" {
			t.Errorf("name prefix = %q, want %q", config.Playlist.NamePrefix, "My Mix")
		}
		if !config.Playlist.Public {
			t.Error("playlist should be public")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("LoadConfig() expected error for missing file")
		}
	})

	t.Run("invalid TOML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.toml")
		if err := os.WriteFile(path, []byte("not [valid toml"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Error("LoadConfig() expected error for invalid TOML")
		}
	})
}

func TestSaveConfig(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")

		config := DefaultConfig()
		config.Playlist.NamePrefix = "Round Trip"

		if err := SaveConfig(path, config); err != nil {
			t.Fatalf("SaveConfig() error = %v", err)
		}

		loaded, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if loaded.Playlist.NamePrefix != "Round Trip" {
			t.Errorf("name prefix = %q, want %q", loaded.Playlist.NamePrefix, "Round Trip")
		}
	})

	t.Run("nil config", func(t *testing.T) {
		if err := SaveConfig(filepath.Join(t.TempDir(), "config.toml"), nil); err == nil {
			t.Error("SaveConfig() expected error for nil config")
		}
	})
}

func TestCreateConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := CreateConfigFile(path); err != nil {
		t.Fatalf("CreateConfigFile() error = %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("created config does not parse: %v", err)
	}
	if config.Playlist.NamePrefix != "Weekly Mix" {
		t.Errorf("name prefix = %q, want %q", config.Playlist.NamePrefix, "Weekly Mix")
	}

	if err := CreateConfigFile(path); err == nil {
		t.Error("CreateConfigFile() expected error when file exists")
	}
}
