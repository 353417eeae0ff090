package commands

import (
	"context"
	"fmt"
	"strings"

	"schemer/internal/application"
	"schemer/internal/domain"
	"schemer/internal/geometry"
	"schemer/internal/graph"
	"schemer/internal/ports"
)

// CreateEntityResult contains the result of creating an entity
type CreateEntityResult struct {
	Entity  domain.Node
	Message string
}

// CreateEntityCommand places a new entity on the canvas
type CreateEntityCommand struct {
	repo   ports.DiagramStore
	Title  string // optional, defaults to "Entity N"
	Fields string // optional field text
	X, Y   float64
	Width  float64 // optional
}

// NewCreateEntityCommand creates a new CreateEntityCommand
func NewCreateEntityCommand(repo ports.DiagramStore, title string, x, y float64) *CreateEntityCommand {
	return &CreateEntityCommand{
		repo:  repo,
		Title: title,
		X:     x,
		Y:     y,
	}
}

// Validate checks if the create operation is valid
func (c *CreateEntityCommand) Validate() error {
	if err := application.ValidateCoordinate("x", c.X); err != nil {
		return err
	}
	if err := application.ValidateCoordinate("y", c.Y); err != nil {
		return err
	}
	if strings.TrimSpace(c.Fields) != "" {
		if _, err := domain.ParseFields(c.Fields); err != nil {
			return &application.ValidationError{Field: "fields", Message: err.Error()}
		}
	}
	return nil
}

// Execute runs the create command
func (c *CreateEntityCommand) Execute(ctx context.Context) (*CreateEntityResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	s, err := application.Open(ctx, c.repo, graph.WithEntityWidth(c.Width))
	if err != nil {
		return nil, err
	}

	n := s.AddNode(geometry.Point{X: c.X, Y: c.Y})
	if title := strings.TrimSpace(c.Title); title != "" {
		if err := s.RenameNode(n.ID, title); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(c.Fields) != "" {
		fields, _ := domain.ParseFields(c.Fields)
		if err := s.ReplaceFields(n.ID, fields); err != nil {
			return nil, err
		}
	}

	if err := application.Commit(ctx, c.repo, s); err != nil {
		return nil, err
	}

	created, _ := s.Node(n.ID)
	return &CreateEntityResult{
		Entity:  *created,
		Message: fmt.Sprintf("Created entity %d: %s", created.ID, created.Title),
	}, nil
}
