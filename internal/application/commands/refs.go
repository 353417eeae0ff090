package commands

import (
	"context"
	"fmt"

	"schemer/internal/application"
	"schemer/internal/domain"
	"schemer/internal/graph"
	"schemer/internal/ports"
)

// Reference is one row of an entity's References listing
type Reference struct {
	Title string `json:"title"`
	Num   int    `json:"num,omitempty"` // 0 when no route resolves
}

// String renders the row the way the canvas does.
func (r Reference) String() string {
	if r.Num > 0 {
		return fmt.Sprintf("#%d → %s", r.Num, r.Title)
	}
	return "→ " + r.Title
}

// ReferencesResult lists everything an entity reaches
type ReferencesResult struct {
	Entity     domain.Node
	References []Reference
}

// ReferencesCommand lists the transitive references of an entity
type ReferencesCommand struct {
	repo   ports.DiagramStore
	Entity string
	Locale string
}

// NewReferencesCommand creates a new ReferencesCommand
func NewReferencesCommand(repo ports.DiagramStore, entity, locale string) *ReferencesCommand {
	return &ReferencesCommand{repo: repo, Entity: entity, Locale: locale}
}

// Validate checks the entity reference
func (c *ReferencesCommand) Validate() error {
	return application.ValidateRequired("entity", c.Entity)
}

// Execute runs the references command
func (c *ReferencesCommand) Execute(ctx context.Context) (*ReferencesResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	s, err := application.Open(ctx, c.repo)
	if err != nil {
		return nil, err
	}
	n, err := application.ResolveEntity(s, c.Entity)
	if err != nil {
		return nil, err
	}

	locale := c.Locale
	if locale == "" {
		locale = graph.DefaultLocale
	}
	titles := graph.NewRefs(locale).Update(s).Of(n.ID)

	res := &ReferencesResult{Entity: *n, References: make([]Reference, 0, len(titles))}
	for _, t := range titles {
		ref := Reference{Title: t}
		if l, ok := s.FirstLinkTo(n.ID, t); ok {
			ref.Num = l.Num
		}
		res.References = append(res.References, ref)
	}
	return res, nil
}

// PathResult is a shortest chain of links between two entities
type PathResult struct {
	From  domain.Node
	To    domain.Node
	Links []LinkSummary
}

// PathCommand finds a shortest directed link path
type PathCommand struct {
	repo ports.DiagramStore
	From string
	To   string
}

// NewPathCommand creates a new PathCommand
func NewPathCommand(repo ports.DiagramStore, from, to string) *PathCommand {
	return &PathCommand{repo: repo, From: from, To: to}
}

// Validate checks both endpoints
func (c *PathCommand) Validate() error {
	if err := application.ValidateRequired("from", c.From); err != nil {
		return err
	}
	return application.ValidateRequired("to", c.To)
}

// Execute runs the path command. No route yields an empty Links slice.
func (c *PathCommand) Execute(ctx context.Context) (*PathResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	s, err := application.Open(ctx, c.repo)
	if err != nil {
		return nil, err
	}
	from, err := application.ResolveEntity(s, c.From)
	if err != nil {
		return nil, err
	}
	to, err := application.ResolveEntity(s, c.To)
	if err != nil {
		return nil, err
	}

	res := &PathResult{From: *from, To: *to, Links: []LinkSummary{}}
	for _, id := range s.ShortestLinkPath(from.ID, to.ID) {
		l, _ := s.Link(id)
		res.Links = append(res.Links, summarize(s, *l))
	}
	return res, nil
}

func summarize(s *graph.Store, l domain.Link) LinkSummary {
	sum := LinkSummary{Link: l, Label: s.Label(l)}
	if n, ok := s.Node(l.From); ok {
		sum.FromTitle = n.Title
	}
	if n, ok := s.Node(l.To); ok {
		sum.ToTitle = n.Title
	}
	return sum
}
