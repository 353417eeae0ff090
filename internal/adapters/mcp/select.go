package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"schemer/internal/application/commands"
	"schemer/internal/engine"
	"schemer/internal/ports"
)

// RegisterSelectionTools adds link highlighting tools. Messages are resolved
// against repo inside access for the reply and, when sink is set, posted to
// it as source once access is released.
func RegisterSelectionTools(s *server.MCPServer, repo ports.DiagramStore, access ports.DiagramAccess, sink ports.SelectionSink, source string) {
	d := dispatcher{repo: repo, access: access, sink: sink, source: source}
	s.AddTool(selectLinkTool(), selectLinkHandler(d))
	s.AddTool(clearSelectionTool(), clearSelectionHandler(d))
}

type dispatcher struct {
	repo   ports.DiagramStore
	access ports.DiagramAccess
	sink   ports.SelectionSink
	source string
}

// --- select_link ---

func selectLinkTool() mcp.Tool {
	return mcp.NewTool("select_link",
		mcp.WithDescription("Highlight one link in the editor. Resolution order: id, then from/to titles, then label. An unresolved link clears the highlight."),
		mcp.WithString("id",
			mcp.Description("Link id"),
		),
		mcp.WithString("from",
			mcp.Description("Source entity title"),
		),
		mcp.WithString("to",
			mcp.Description("Target entity title"),
		),
		mcp.WithString("label",
			mcp.Description("Rendered label such as 'Users -> Orders'"),
		),
	)
}

func selectLinkHandler(d dispatcher) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		m := engine.Message{
			Type:  engine.MsgSelectLink,
			ID:    req.GetString("id", ""),
			From:  req.GetString("from", ""),
			To:    req.GetString("to", ""),
			Label: req.GetString("label", ""),
		}
		return d.dispatch(ctx, m)
	}
}

// --- clear_link_selection ---

func clearSelectionTool() mcp.Tool {
	return mcp.NewTool("clear_link_selection",
		mcp.WithDescription("Remove every link highlight in the editor."),
	)
}

func clearSelectionHandler(d dispatcher) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return d.dispatch(ctx, engine.Message{Type: engine.MsgClear})
	}
}

func (d dispatcher) dispatch(ctx context.Context, m engine.Message) (*mcp.CallToolResult, error) {
	payload, err := json.Marshal(m)
	if err != nil {
		return toolError(err)
	}

	var result *commands.SelectResult
	err = d.access.Do(ctx, func(ctx context.Context) error {
		var err error
		result, err = commands.NewSelectMessageCommand(d.repo, m).Execute(ctx)
		return err
	})
	if err != nil {
		return toolError(err)
	}
	if d.sink != nil {
		if err := d.sink.Post(d.source, payload); err != nil {
			return toolError(fmt.Errorf("post selection: %w", err))
		}
	}

	if len(result.Links) == 0 {
		return mcp.NewToolResultText("Selection cleared."), nil
	}
	var sb strings.Builder
	sb.WriteString("Selected:\n")
	for _, l := range result.Links {
		sb.WriteString(formatLink(l))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}
