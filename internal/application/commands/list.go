package commands

import (
	"context"

	"schemer/internal/application"
	"schemer/internal/domain"
	"schemer/internal/ports"
)

// LinkSummary is a link together with its endpoint titles
type LinkSummary struct {
	domain.Link
	FromTitle string `json:"fromTitle"`
	ToTitle   string `json:"toTitle"`
	Label     string `json:"label"`
}

// ListEntitiesCommand lists every entity in draw order
type ListEntitiesCommand struct {
	repo ports.DiagramStore
}

// NewListEntitiesCommand creates a new ListEntitiesCommand
func NewListEntitiesCommand(repo ports.DiagramStore) *ListEntitiesCommand {
	return &ListEntitiesCommand{repo: repo}
}

// Execute runs the list entities command
func (c *ListEntitiesCommand) Execute(ctx context.Context) ([]domain.Node, error) {
	s, err := application.Open(ctx, c.repo)
	if err != nil {
		return nil, err
	}
	return s.Snapshot().Nodes, nil
}

// ListLinksCommand lists every link with endpoint titles
type ListLinksCommand struct {
	repo ports.DiagramStore
}

// NewListLinksCommand creates a new ListLinksCommand
func NewListLinksCommand(repo ports.DiagramStore) *ListLinksCommand {
	return &ListLinksCommand{repo: repo}
}

// Execute runs the list links command
func (c *ListLinksCommand) Execute(ctx context.Context) ([]LinkSummary, error) {
	s, err := application.Open(ctx, c.repo)
	if err != nil {
		return nil, err
	}

	out := make([]LinkSummary, 0, len(s.Links()))
	for _, l := range s.Links() {
		out = append(out, summarize(s, l))
	}
	return out, nil
}
