// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/weeklymix/internal/models"
)

// MockGateway is a test double for [gateway.Gateway].
//
// Behavior is configured per-call through the function fields; nil fields
// fall back to benign defaults. Every call is recorded so tests can assert
// on invocation order and arguments.
type MockGateway struct {
	mu sync.Mutex

	ConnectFunc        func(ctx context.Context) error
	CloseFunc          func() error
	CreatePlaylistFunc func(ctx context.Context, name, description string, public bool) (*models.Playlist, error)
	SearchTracksFunc   func(ctx context.Context, query, kind string, limit int) ([]models.Track, error)
	AddTracksFunc      func(ctx context.Context, playlistID string, trackIDs []string) error

	ConnectCalls int
	CloseCalls   int
	Created      []string
	Searches     []string
	Added        [][]string
	AddedTo      []string
}

func (m *MockGateway) Connect(ctx context.Context) error {
	m.mu.Lock()
	m.ConnectCalls++
	m.mu.Unlock()
	if m.ConnectFunc != nil {
		return m.ConnectFunc(ctx)
	}
	return nil
}

func (m *MockGateway) Close() error {
	m.mu.Lock()
	m.CloseCalls++
	m.mu.Unlock()
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

func (m *MockGateway) CreatePlaylist(ctx context.Context, name, description string, public bool) (*models.Playlist, error) {
	m.mu.Lock()
	m.Created = append(m.Created, name)
	m.mu.Unlock()
	if m.CreatePlaylistFunc != nil {
		return m.CreatePlaylistFunc(ctx, name, description, public)
	}
	return &models.Playlist{ID: "mock-playlist", Name: name, Description: description, Public: public}, nil
}

func (m *MockGateway) SearchTracks(ctx context.Context, query, kind string, limit int) ([]models.Track, error) {
	m.mu.Lock()
	m.Searches = append(m.Searches, query)
	m.mu.Unlock()
	if m.SearchTracksFunc != nil {
		return m.SearchTracksFunc(ctx, query, kind, limit)
	}
	return []models.Track{}, nil
}

func (m *MockGateway) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	m.mu.Lock()
	m.AddedTo = append(m.AddedTo, playlistID)
	m.Added = append(m.Added, append([]string(nil), trackIDs...))
	m.mu.Unlock()
	if m.AddTracksFunc != nil {
		return m.AddTracksFunc(ctx, playlistID, trackIDs)
	}
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
