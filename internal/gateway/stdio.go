// Stdio JSON-RPC implementation of [Gateway]
//
// Speaks MCP (protocol version 2024-11-05) to a spawned server process over
// line-delimited JSON-RPC 2.0, the same wire exchange the Spotify MCP server
// expects from any client.
package gateway

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/weeklymix/internal/models"
	"github.com/desertthunder/weeklymix/internal/shared"
	"golang.org/x/time/rate"
)

const (
	protocolVersion = "2024-11-05"
	clientName      = "weeklymix"
	clientVersion   = "0.2.0"

	// Grace period for the server process to exit after stdin closes.
	shutdownTimeout = 5 * time.Second
)

// Tool names exposed by the Spotify MCP server.
const (
	toolCreatePlaylist = "createPlaylist"
	toolSearch         = "searchSpotify"
	toolAddTracks      = "addTracksToPlaylist"
)

// rpcRequest is a JSON-RPC 2.0 request envelope.
type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// rpcError is a JSON-RPC 2.0 error object.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// rpcResponse is a JSON-RPC 2.0 response envelope.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

// contentBlock is a single content entry in an MCP tool result.
type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// toolResult is the result payload of a tools/call response.
type toolResult struct {
	Content []contentBlock `json:"content"`
	IsError bool           `json:"isError"`
}

// initializeParams is the params payload of the initialize handshake.
type initializeParams struct {
	ProtocolVersion string         `json:"protocolVersion"`
	Capabilities    map[string]any `json:"capabilities"`
	ClientInfo      clientInfo     `json:"clientInfo"`
}

type clientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// toolCallParams is the params payload of a tools/call request.
type toolCallParams struct {
	Name      string `json:"name"`
	Arguments any    `json:"arguments"`
}

type createPlaylistArgs struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
}

type searchArgs struct {
	Query string `json:"query"`
	Type  string `json:"type"`
	Limit int    `json:"limit"`
}

type addTracksArgs struct {
	PlaylistID string   `json:"playlistId"`
	TrackIDs   []string `json:"trackIds"`
}

// StdioGateway implements [Gateway] over a spawned MCP server process.
//
// Requests are paced with a [rate.Limiter] so a drops scan cannot hammer
// the Spotify API behind the gateway. The transport streams are injectable
// so tests can drive the client over in-memory pipes.
type StdioGateway struct {
	command string
	args    []string

	proc    *exec.Cmd
	stdin   io.Writer
	closer  io.Closer
	scanner *bufio.Scanner

	limiter   *rate.Limiter
	logger    *log.Logger
	nextID    int64
	connected bool
}

// Opts contains configuration options for creating a StdioGateway.
type Opts struct {
	Command   string
	Args      []string
	RateLimit float64 // Requests per second (default: 5)
	Logger    *log.Logger
}

// NewStdioGateway creates a gateway that spawns the MCP server as a
// subprocess on Connect.
func NewStdioGateway(opts Opts) *StdioGateway {
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &StdioGateway{
		command: opts.Command,
		args:    opts.Args,
		limiter: rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
		logger:  opts.Logger,
		nextID:  1,
	}
}

// NewStreamGateway creates a gateway over existing reader/writer streams
// instead of a spawned process. Connect still performs the initialize
// handshake over the provided streams.
func NewStreamGateway(w io.Writer, r io.Reader, opts Opts) *StdioGateway {
	g := NewStdioGateway(opts)
	g.stdin = w
	g.scanner = newResponseScanner(r)
	if c, ok := w.(io.Closer); ok {
		g.closer = c
	}
	return g
}

// newResponseScanner wraps a reader in a line scanner with a buffer large
// enough for full search result payloads.
func newResponseScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return scanner
}

// Connect spawns the server process (unless streams were injected) and
// performs the MCP initialize handshake.
func (g *StdioGateway) Connect(ctx context.Context) error {
	if g.connected {
		return nil
	}

	if g.stdin == nil {
		if g.command == "" {
			return fmt.Errorf("%w: no gateway command configured", shared.ErrGatewayConnection)
		}

		proc := exec.Command(g.command, g.args...)

		stdin, err := proc.StdinPipe()
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrGatewayConnection, err)
		}
		stdout, err := proc.StdoutPipe()
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrGatewayConnection, err)
		}

		if err := proc.Start(); err != nil {
			return fmt.Errorf("%w: failed to start %s: %v", shared.ErrGatewayConnection, g.command, err)
		}

		g.proc = proc
		g.stdin = stdin
		g.closer = stdin
		g.scanner = newResponseScanner(stdout)
		g.logger.Info("started gateway process", "command", g.command, "pid", proc.Process.Pid)
	}

	result, err := g.call(ctx, "initialize", initializeParams{
		ProtocolVersion: protocolVersion,
		Capabilities:    map[string]any{},
		ClientInfo:      clientInfo{Name: clientName, Version: clientVersion},
	})
	if err != nil {
		g.Close()
		return fmt.Errorf("%w: initialize failed: %v", shared.ErrGatewayConnection, err)
	}
	if len(result) == 0 {
		g.Close()
		return fmt.Errorf("%w: empty initialize response", shared.ErrGatewayConnection)
	}

	g.connected = true
	g.logger.Debug("gateway session established", "protocol", protocolVersion)
	return nil
}

// Close releases the session and reaps the server process. Closing stdin
// signals the server to exit; a stubborn process is killed after a grace
// period.
func (g *StdioGateway) Close() error {
	g.connected = false

	if g.closer != nil {
		g.closer.Close()
		g.closer = nil
	}

	if g.proc != nil {
		done := make(chan error, 1)
		go func() { done <- g.proc.Wait() }()

		select {
		case <-done:
		case <-time.After(shutdownTimeout):
			g.logger.Warn("gateway process did not exit, killing", "pid", g.proc.Process.Pid)
			g.proc.Process.Kill()
			<-done
		}
		g.proc = nil
	}

	return nil
}

// call sends one JSON-RPC request and reads one response line.
//
// The exchange is strictly request/response: the run is a pipeline of one,
// so no concurrent writers exist and response IDs arrive in order.
func (g *StdioGateway) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	if g.stdin == nil || g.scanner == nil {
		return nil, shared.ErrGatewayClosed
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	id := g.nextID
	g.nextID++

	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      id,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	g.logger.Debug("gateway request", "method", method, "id", id)

	if _, err := g.stdin.Write(append(payload, '\n')); err != nil {
		return nil, fmt.Errorf("failed to write request: %w", err)
	}

	if !g.scanner.Scan() {
		if err := g.scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}
		return nil, fmt.Errorf("gateway closed the connection")
	}

	var resp rpcResponse
	if err := json.Unmarshal(g.scanner.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrGatewayResponse, err)
	}
	if resp.Error != nil {
		return nil, resp.Error
	}

	return resp.Result, nil
}

// callTool invokes an MCP tool and returns the text of its first content block.
func (g *StdioGateway) callTool(ctx context.Context, name string, args any) (string, error) {
	if !g.connected {
		return "", shared.ErrGatewayClosed
	}

	result, err := g.call(ctx, "tools/call", toolCallParams{Name: name, Arguments: args})
	if err != nil {
		return "", err
	}

	var tr toolResult
	if err := json.Unmarshal(result, &tr); err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrGatewayResponse, err)
	}
	if len(tr.Content) == 0 {
		return "", fmt.Errorf("%w: tool %s returned no content", shared.ErrGatewayResponse, name)
	}
	if tr.IsError {
		return "", fmt.Errorf("tool %s failed: %s", name, tr.Content[0].Text)
	}

	return tr.Content[0].Text, nil
}

// CallTool invokes an arbitrary MCP tool by name with raw arguments and
// returns the response text. Intended for debugging the gateway from the CLI.
func (g *StdioGateway) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	return g.callTool(ctx, name, args)
}

// CreatePlaylist creates a playlist and extracts its identifier from the
// tool response text.
func (g *StdioGateway) CreatePlaylist(ctx context.Context, name, description string, public bool) (*models.Playlist, error) {
	text, err := g.callTool(ctx, toolCreatePlaylist, createPlaylistArgs{
		Name:        name,
		Description: description,
		Public:      public,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrPlaylistCreation, err)
	}

	id := ExtractPlaylistID(text)
	if id == "" {
		return nil, fmt.Errorf("%w: no playlist identifier in response", shared.ErrPlaylistCreation)
	}

	return &models.Playlist{
		ID:          id,
		Name:        name,
		Description: description,
		Public:      public,
	}, nil
}

// SearchTracks searches the music service and parses the track listing from
// the tool response text. An empty listing returns an empty slice, not an error.
func (g *StdioGateway) SearchTracks(ctx context.Context, query, kind string, limit int) ([]models.Track, error) {
	text, err := g.callTool(ctx, toolSearch, searchArgs{
		Query: query,
		Type:  kind,
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}

	return ParseTracks(text), nil
}

// AddTracks attaches track IDs to a playlist and verifies the gateway's
// confirmation message.
func (g *StdioGateway) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	text, err := g.callTool(ctx, toolAddTracks, addTracksArgs{
		PlaylistID: playlistID,
		TrackIDs:   trackIDs,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrTrackAdd, err)
	}

	if !AddConfirmed(text) {
		return fmt.Errorf("%w: gateway did not confirm: %s", shared.ErrTrackAdd, text)
	}

	return nil
}

var _ Gateway = (*StdioGateway)(nil)
