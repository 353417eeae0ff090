package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"schemer/internal/application/commands"
	"schemer/internal/ports"
)

// RegisterWriteTools adds all diagram editing tools to the MCP server.
// Each call holds access for its whole load, modify and save cycle.
func RegisterWriteTools(s *server.MCPServer, repo ports.DiagramStore, access ports.DiagramAccess) {
	s.AddTool(addEntityTool(), exclusive(access, addEntityHandler(repo)))
	s.AddTool(addLinkTool(), exclusive(access, addLinkHandler(repo)))
	s.AddTool(deleteLinkTool(), exclusive(access, deleteLinkHandler(repo)))
	s.AddTool(renameTool(), exclusive(access, renameHandler(repo)))
	s.AddTool(setFieldsTool(), exclusive(access, setFieldsHandler(repo)))
	s.AddTool(setCardinalityTool(), exclusive(access, setCardinalityHandler(repo)))
	s.AddTool(moveTool(), exclusive(access, moveHandler(repo)))
}

// --- add_entity ---

func addEntityTool() mcp.Tool {
	return mcp.NewTool("add_entity",
		mcp.WithDescription("Create a new entity. Without a title it is named 'Entity N'."),
		mcp.WithString("title",
			mcp.Description("Entity title"),
		),
		mcp.WithString("fields",
			mcp.Description("Field lines, one 'name:type [meta]' per line"),
		),
		mcp.WithNumber("x",
			mcp.Description("Canvas x of the top-left corner"),
		),
		mcp.WithNumber("y",
			mcp.Description("Canvas y of the top-left corner"),
		),
	)
}

func addEntityHandler(repo ports.DiagramStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewCreateEntityCommand(repo,
			req.GetString("title", ""),
			req.GetFloat("x", 0),
			req.GetFloat("y", 0))
		cmd.Fields = req.GetString("fields", "")

		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- add_link ---

func addLinkTool() mcp.Tool {
	return mcp.NewTool("add_link",
		mcp.WithDescription("Link two entities. Cardinalities default to one -> many."),
		mcp.WithString("from",
			mcp.Description("Source entity id or title"),
			mcp.Required(),
		),
		mcp.WithString("to",
			mcp.Description("Target entity id or title"),
			mcp.Required(),
		),
		mcp.WithString("from_cardinality",
			mcp.Description("Source end marker"),
			mcp.Enum("one", "many", "zero-one"),
		),
		mcp.WithString("to_cardinality",
			mcp.Description("Target end marker"),
			mcp.Enum("one", "many", "zero-one"),
		),
	)
}

func addLinkHandler(repo ports.DiagramStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewCreateLinkCommand(repo, req.GetString("from", ""), req.GetString("to", ""))
		cmd.FromCardinality = req.GetString("from_cardinality", "")
		cmd.ToCardinality = req.GetString("to_cardinality", "")

		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- delete_link ---

func deleteLinkTool() mcp.Tool {
	return mcp.NewTool("delete_link",
		mcp.WithDescription("Delete a link. Link numbers are never reused."),
		mcp.WithString("link",
			mcp.Description("Link '#N', id or 'From -> To' label"),
			mcp.Required(),
		),
	)
}

func deleteLinkHandler(repo ports.DiagramStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewDeleteLinkCommand(repo, req.GetString("link", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- rename_entity ---

func renameTool() mcp.Tool {
	return mcp.NewTool("rename_entity",
		mcp.WithDescription("Change an entity's title."),
		mcp.WithString("entity",
			mcp.Description("Entity id or title"),
			mcp.Required(),
		),
		mcp.WithString("title",
			mcp.Description("New title"),
			mcp.Required(),
		),
	)
}

func renameHandler(repo ports.DiagramStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewRenameCommand(repo, req.GetString("entity", ""), req.GetString("title", ""))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- set_fields ---

func setFieldsTool() mcp.Tool {
	return mcp.NewTool("set_fields",
		mcp.WithDescription("Replace an entity's fields. Every malformed line is reported and nothing is changed."),
		mcp.WithString("entity",
			mcp.Description("Entity id or title"),
			mcp.Required(),
		),
		mcp.WithString("fields",
			mcp.Description("Field lines, one 'name:type [meta]' per line. Empty gives 'id:int [PK]'."),
			mcp.Required(),
		),
	)
}

func setFieldsHandler(repo ports.DiagramStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewSetFieldsCommand(repo, req.GetString("entity", ""), req.GetString("fields", ""))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- set_cardinality ---

func setCardinalityTool() mcp.Tool {
	return mcp.NewTool("set_cardinality",
		mcp.WithDescription("Change both end markers of a link."),
		mcp.WithString("link",
			mcp.Description("Link '#N', id or 'From -> To' label"),
			mcp.Required(),
		),
		mcp.WithString("from",
			mcp.Description("Source end marker"),
			mcp.Required(),
			mcp.Enum("one", "many", "zero-one"),
		),
		mcp.WithString("to",
			mcp.Description("Target end marker"),
			mcp.Required(),
			mcp.Enum("one", "many", "zero-one"),
		),
	)
}

func setCardinalityHandler(repo ports.DiagramStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewSetCardinalityCommand(repo,
			req.GetString("link", ""),
			req.GetString("from", ""),
			req.GetString("to", ""))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- move_entity ---

func moveTool() mcp.Tool {
	return mcp.NewTool("move_entity",
		mcp.WithDescription("Move an entity's top-left corner to canvas coordinates."),
		mcp.WithString("entity",
			mcp.Description("Entity id or title"),
			mcp.Required(),
		),
		mcp.WithNumber("x", mcp.Required()),
		mcp.WithNumber("y", mcp.Required()),
	)
}

func moveHandler(repo ports.DiagramStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewMoveCommand(repo,
			req.GetString("entity", ""),
			req.GetFloat("x", 0),
			req.GetFloat("y", 0))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}
