package commands

import (
	"context"
	"strings"

	"schemer/internal/application"
	"schemer/internal/domain"
	"schemer/internal/ports"
)

// SearchResult is an entity matched by title or field name
type SearchResult struct {
	Entity      domain.Node
	MatchedOn   string // "title" or "field"
	MatchedText string
}

// SearchCommand finds entities whose title or field names contain a query
type SearchCommand struct {
	repo  ports.DiagramStore
	Query string
}

// NewSearchCommand creates a new SearchCommand
func NewSearchCommand(repo ports.DiagramStore, query string) *SearchCommand {
	return &SearchCommand{repo: repo, Query: query}
}

// Validate checks if the search is valid
func (c *SearchCommand) Validate() error {
	return application.ValidateRequired("query", c.Query)
}

// Execute runs the search command
func (c *SearchCommand) Execute(ctx context.Context) ([]SearchResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	s, err := application.Open(ctx, c.repo)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(c.Query))
	var results []SearchResult
	for _, n := range s.Snapshot().Nodes {
		if strings.Contains(strings.ToLower(n.Title), q) {
			results = append(results, SearchResult{Entity: n, MatchedOn: "title", MatchedText: n.Title})
			continue
		}
		for _, f := range n.Fields {
			if strings.Contains(strings.ToLower(f.Name), q) {
				results = append(results, SearchResult{Entity: n, MatchedOn: "field", MatchedText: f.Display()})
				break
			}
		}
	}
	return results, nil
}
