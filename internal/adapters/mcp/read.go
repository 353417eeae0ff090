package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"schemer/internal/application/commands"
	"schemer/internal/domain"
	"schemer/internal/ports"
)

// RegisterReadTools adds all read-only diagram tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, repo ports.DiagramStore, access ports.DiagramAccess) {
	s.AddTool(listEntitiesTool(), exclusive(access, listEntitiesHandler(repo)))
	s.AddTool(listLinksTool(), exclusive(access, listLinksHandler(repo)))
	s.AddTool(referencesTool(), exclusive(access, referencesHandler(repo)))
	s.AddTool(pathTool(), exclusive(access, pathHandler(repo)))
	s.AddTool(searchTool(), exclusive(access, searchHandler(repo)))

	if history, ok := repo.(ports.SnapshotHistory); ok {
		s.AddTool(historyTool(), historyHandler(history))
	}
}

// --- list_entities ---

func listEntitiesTool() mcp.Tool {
	return mcp.NewTool("list_entities",
		mcp.WithDescription("List every entity with its id, position and fields."),
	)
}

func listEntitiesHandler(repo ports.DiagramStore) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		nodes, err := commands.NewListEntitiesCommand(repo).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(nodes, formatNode)
	}
}

// --- list_links ---

func listLinksTool() mcp.Tool {
	return mcp.NewTool("list_links",
		mcp.WithDescription("List every link as '#N From -> To (from-cardinality:to-cardinality)'."),
	)
}

func listLinksHandler(repo ports.DiagramStore) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		links, err := commands.NewListLinksCommand(repo).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(links, formatLink)
	}
}

// --- references ---

func referencesTool() mcp.Tool {
	return mcp.NewTool("references",
		mcp.WithDescription("List the entities reachable from an entity, with the number of the first link of a shortest path."),
		mcp.WithString("entity",
			mcp.Description("Entity id or title"),
			mcp.Required(),
		),
		mcp.WithString("locale",
			mcp.Description("Collation locale for ordering titles (default ru)"),
		),
	)
}

func referencesHandler(repo ports.DiagramStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		entity := req.GetString("entity", "")
		locale := req.GetString("locale", "")

		result, err := commands.NewReferencesCommand(repo, entity, locale).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(result.References) == 0 {
			return mcp.NewToolResultText(fmt.Sprintf("%s references nothing.", result.Entity.Title)), nil
		}
		return formatEntities(result.References, commands.Reference.String)
	}
}

// --- path ---

func pathTool() mcp.Tool {
	return mcp.NewTool("path",
		mcp.WithDescription("Find a shortest directed chain of links between two entities."),
		mcp.WithString("from",
			mcp.Description("Source entity id or title"),
			mcp.Required(),
		),
		mcp.WithString("to",
			mcp.Description("Target entity id or title"),
			mcp.Required(),
		),
	)
}

func pathHandler(repo ports.DiagramStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		from := req.GetString("from", "")
		to := req.GetString("to", "")

		result, err := commands.NewPathCommand(repo, from, to).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(result.Links) == 0 {
			return mcp.NewToolResultText(fmt.Sprintf("No path from %s to %s.", result.From.Title, result.To.Title)), nil
		}
		return formatEntities(result.Links, formatLink)
	}
}

// --- search ---

func searchTool() mcp.Tool {
	return mcp.NewTool("search",
		mcp.WithDescription("Search entities by title or field name."),
		mcp.WithString("query",
			mcp.Description("Search query"),
			mcp.Required(),
		),
	)
}

func searchHandler(repo ports.DiagramStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		if query == "" {
			return toolError(fmt.Errorf("query is required"))
		}

		results, err := commands.NewSearchCommand(repo, query).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		if len(results) == 0 {
			return mcp.NewToolResultText("No results found."), nil
		}

		var sb strings.Builder
		for _, r := range results {
			fmt.Fprintf(&sb, "%d  %s  %s\n", r.Entity.ID, r.Entity.Title, r.MatchedText)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- history ---

func historyTool() mcp.Tool {
	return mcp.NewTool("history",
		mcp.WithDescription("List saved revisions of the diagram, newest first."),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of revisions (default 20)"),
		),
	)
}

func historyHandler(history ports.SnapshotHistory) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		infos, err := commands.NewHistoryCommand(history, req.GetInt("limit", 0)).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(infos, func(i domain.SnapshotInfo) string {
			return fmt.Sprintf("%d  %s  %d entities  %d links", i.ID, i.SavedAt.Format("2006-01-02 15:04:05"), i.Entities, i.Links)
		})
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func formatEntities[T any](entities []T, format func(T) string) (*mcp.CallToolResult, error) {
	if len(entities) == 0 {
		return mcp.NewToolResultText("No results."), nil
	}
	var sb strings.Builder
	for _, e := range entities {
		sb.WriteString(format(e))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func formatNode(n domain.Node) string {
	return fmt.Sprintf("%d  %s  (%g, %g)  %s", n.ID, n.Title, n.X, n.Y, strings.Join(fieldNames(n.Fields), ", "))
}

func fieldNames(fields []domain.Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Display()
	}
	return out
}

func formatLink(l commands.LinkSummary) string {
	return fmt.Sprintf("#%d  %s  (%s:%s)  id=%s", l.Num, l.Label, l.FromCardinality, l.ToCardinality, l.ID)
}
