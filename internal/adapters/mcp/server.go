package mcp

import (
	"context"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"schemer/internal/ports"
)

// SelectionSource is the origin name MCP selection messages carry.
const SelectionSource = "mcp"

// Option configures NewServer.
type Option func(*options)

type options struct {
	access ports.DiagramAccess
}

// WithAccess runs every diagram tool through access. Hosts that own the
// diagram in memory use it to apply tool calls on their own turn.
func WithAccess(access ports.DiagramAccess) Option {
	return func(o *options) {
		o.access = access
	}
}

// LockedAccess serializes tool calls with a mutex.
type LockedAccess struct {
	mu sync.Mutex
}

var _ ports.DiagramAccess = (*LockedAccess)(nil)

func (l *LockedAccess) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}

// NewServer builds an MCP server exposing every diagram tool. sink may be
// nil, in which case selection tools only report what they resolve.
func NewServer(name, version string, repo ports.DiagramStore, sink ports.SelectionSink, opts ...Option) *server.MCPServer {
	o := options{access: &LockedAccess{}}
	for _, opt := range opts {
		opt(&o)
	}

	s := server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(true),
	)

	s.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	RegisterReadTools(s, repo, o.access)
	RegisterWriteTools(s, repo, o.access)
	RegisterSelectionTools(s, repo, o.access, sink, SelectionSource)
	return s
}

// exclusive runs h inside access.
func exclusive(access ports.DiagramAccess, h server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var res *mcp.CallToolResult
		err := access.Do(ctx, func(ctx context.Context) error {
			var err error
			res, err = h(ctx, req)
			return err
		})
		if err != nil {
			return toolError(err)
		}
		return res, nil
	}
}
