package gateway

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/desertthunder/weeklymix/internal/shared"
)

// toolHandler fabricates the response text for one tool invocation.
type toolHandler func(tool string, args json.RawMessage) (string, error)

// fakeServer speaks line-delimited JSON-RPC on the far side of a pipe pair,
// answering initialize and dispatching tools/call to the handler.
func fakeServer(t *testing.T, handle toolHandler) *StdioGateway {
	t.Helper()

	clientReader, serverWriter := io.Pipe()
	serverReader, clientWriter := io.Pipe()

	go func() {
		defer serverWriter.Close()
		scanner := bufio.NewScanner(serverReader)
		enc := json.NewEncoder(serverWriter)

		for scanner.Scan() {
			var req struct {
				ID     int64  `json:"id"`
				Method string `json:"method"`
				Params struct {
					Name      string          `json:"name"`
					Arguments json.RawMessage `json:"arguments"`
				} `json:"params"`
			}
			if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
				t.Errorf("server received invalid request: %v", err)
				return
			}

			resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
			switch req.Method {
			case "initialize":
				resp["result"] = map[string]any{
					"protocolVersion": protocolVersion,
					"serverInfo":      map[string]string{"name": "spotify-mcp", "version": "1.0.0"},
				}
			case "tools/call":
				text, err := handle(req.Params.Name, req.Params.Arguments)
				if err != nil {
					resp["error"] = map[string]any{"code": -32000, "message": err.Error()}
				} else {
					resp["result"] = toolResult{Content: []contentBlock{{Type: "text", Text: text}}}
				}
			default:
				resp["error"] = map[string]any{"code": -32601, "message": "method not found"}
			}

			if err := enc.Encode(resp); err != nil {
				return
			}
		}
	}()

	return NewStreamGateway(clientWriter, clientReader, Opts{RateLimit: 1000})
}

func TestStdioGateway(t *testing.T) {
	ctx := context.Background()

	t.Run("connect performs the initialize handshake", func(t *testing.T) {
		g := fakeServer(t, func(tool string, args json.RawMessage) (string, error) {
			return "", fmt.Errorf("no tools expected")
		})
		defer g.Close()

		if err := g.Connect(ctx); err != nil {
			t.Fatalf("Connect() error = %v", err)
		}
	})

	t.Run("create playlist extracts the identifier", func(t *testing.T) {
		g := fakeServer(t, func(tool string, args json.RawMessage) (string, error) {
			if tool != toolCreatePlaylist {
				return "", fmt.Errorf("unexpected tool %s", tool)
			}
			var got createPlaylistArgs
			if err := json.Unmarshal(args, &got); err != nil {
				return "", err
			}
			if got.Name == "" {
				return "", fmt.Errorf("missing playlist name")
			}
			return "Successfully created playlist!\nPlaylist ID: 3cEYpjA9oz9GiPac4AsH4n", nil
		})
		defer g.Close()

		if err := g.Connect(ctx); err != nil {
			t.Fatalf("Connect() error = %v", err)
		}

		pl, err := g.CreatePlaylist(ctx, "Weekly Mix - Dec 09 to Dec 15, 2024", "desc", false)
		if err != nil {
			t.Fatalf("CreatePlaylist() error = %v", err)
		}
		if pl.ID != "3cEYpjA9oz9GiPac4AsH4n" {
			t.Errorf("playlist ID = %q, want %q", pl.ID, "3cEYpjA9oz9GiPac4AsH4n")
		}
		if pl.Name != "Weekly Mix - Dec 09 to Dec 15, 2024" {
			t.Errorf("playlist name = %q", pl.Name)
		}
	})

	t.Run("creation without identifier is a creation error", func(t *testing.T) {
		g := fakeServer(t, func(tool string, args json.RawMessage) (string, error) {
			return "Created playlist successfully", nil
		})
		defer g.Close()

		if err := g.Connect(ctx); err != nil {
			t.Fatalf("Connect() error = %v", err)
		}

		if _, err := g.CreatePlaylist(ctx, "Weekly Mix", "", false); !errors.Is(err, shared.ErrPlaylistCreation) {
			t.Errorf("CreatePlaylist() error = %v, want ErrPlaylistCreation", err)
		}
	})

	t.Run("search parses the track listing", func(t *testing.T) {
		g := fakeServer(t, func(tool string, args json.RawMessage) (string, error) {
			if tool != toolSearch {
				return "", fmt.Errorf("unexpected tool %s", tool)
			}
			var got searchArgs
			if err := json.Unmarshal(args, &got); err != nil {
				return "", err
			}
			if got.Type != "track" || got.Limit != 1 {
				return "", fmt.Errorf("unexpected search args %+v", got)
			}
			return `Found 1 track:
1. "OWA OWA" by Lil Tecca (2:31) - Released: 2024-12-06 - ID: 5E3XPRJVgYnxhMAFI7nZ7N`, nil
		})
		defer g.Close()

		if err := g.Connect(ctx); err != nil {
			t.Fatalf("Connect() error = %v", err)
		}

		tracks, err := g.SearchTracks(ctx, "OWA OWA Lil Tecca", "track", 1)
		if err != nil {
			t.Fatalf("SearchTracks() error = %v", err)
		}
		if len(tracks) != 1 || tracks[0].ID != "5E3XPRJVgYnxhMAFI7nZ7N" {
			t.Errorf("tracks = %v, want the parsed track", tracks)
		}
	})

	t.Run("empty search is not an error", func(t *testing.T) {
		g := fakeServer(t, func(tool string, args json.RawMessage) (string, error) {
			return "No tracks found", nil
		})
		defer g.Close()

		if err := g.Connect(ctx); err != nil {
			t.Fatalf("Connect() error = %v", err)
		}

		tracks, err := g.SearchTracks(ctx, "nothing", "track", 1)
		if err != nil {
			t.Fatalf("SearchTracks() error = %v", err)
		}
		if len(tracks) != 0 {
			t.Errorf("tracks = %v, want empty", tracks)
		}
	})

	t.Run("add verifies the confirmation message", func(t *testing.T) {
		g := fakeServer(t, func(tool string, args json.RawMessage) (string, error) {
			var got addTracksArgs
			if err := json.Unmarshal(args, &got); err != nil {
				return "", err
			}
			if got.PlaylistID != "playlist123" || len(got.TrackIDs) != 1 {
				return "", fmt.Errorf("unexpected add args %+v", got)
			}
			return "Successfully added 1 track(s) to the playlist", nil
		})
		defer g.Close()

		if err := g.Connect(ctx); err != nil {
			t.Fatalf("Connect() error = %v", err)
		}

		if err := g.AddTracks(ctx, "playlist123", []string{"5E3XPRJVgYnxhMAFI7nZ7N"}); err != nil {
			t.Errorf("AddTracks() error = %v", err)
		}
	})

	t.Run("unconfirmed add is an add error", func(t *testing.T) {
		g := fakeServer(t, func(tool string, args json.RawMessage) (string, error) {
			return "Something odd happened", nil
		})
		defer g.Close()

		if err := g.Connect(ctx); err != nil {
			t.Fatalf("Connect() error = %v", err)
		}

		if err := g.AddTracks(ctx, "playlist123", []string{"t1"}); !errors.Is(err, shared.ErrTrackAdd) {
			t.Errorf("AddTracks() error = %v, want ErrTrackAdd", err)
		}
	})

	t.Run("rpc errors surface through tool calls", func(t *testing.T) {
		g := fakeServer(t, func(tool string, args json.RawMessage) (string, error) {
			return "", fmt.Errorf("playlist not found")
		})
		defer g.Close()

		if err := g.Connect(ctx); err != nil {
			t.Fatalf("Connect() error = %v", err)
		}

		if err := g.AddTracks(ctx, "missing", []string{"t1"}); !errors.Is(err, shared.ErrTrackAdd) {
			t.Errorf("AddTracks() error = %v, want ErrTrackAdd", err)
		}
	})

	t.Run("tool calls before connect are rejected", func(t *testing.T) {
		g := fakeServer(t, func(tool string, args json.RawMessage) (string, error) {
			return "", nil
		})
		defer g.Close()

		_, err := g.SearchTracks(ctx, "query", "track", 1)
		if !errors.Is(err, shared.ErrGatewayClosed) {
			t.Errorf("SearchTracks() error = %v, want ErrGatewayClosed", err)
		}
	})

	t.Run("spawn without command fails", func(t *testing.T) {
		g := NewStdioGateway(Opts{})
		if err := g.Connect(ctx); !errors.Is(err, shared.ErrGatewayConnection) {
			t.Errorf("Connect() error = %v, want ErrGatewayConnection", err)
		}
	})
}
