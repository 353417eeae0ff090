package commands

import (
	"context"
	"fmt"

	"schemer/internal/application"
	"schemer/internal/geometry"
	"schemer/internal/ports"
)

// MoveCommand moves an entity's top-left corner to world coordinates
type MoveCommand struct {
	repo   ports.DiagramStore
	Entity string
	X, Y   float64
}

// NewMoveCommand creates a new MoveCommand
func NewMoveCommand(repo ports.DiagramStore, entity string, x, y float64) *MoveCommand {
	return &MoveCommand{repo: repo, Entity: entity, X: x, Y: y}
}

// Validate checks if the move operation is valid
func (c *MoveCommand) Validate() error {
	if err := application.ValidateRequired("entity", c.Entity); err != nil {
		return err
	}
	if err := application.ValidateCoordinate("x", c.X); err != nil {
		return err
	}
	return application.ValidateCoordinate("y", c.Y)
}

// Execute runs the move command
func (c *MoveCommand) Execute(ctx context.Context) (*EntityResult, error) {
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
	if err := s.MoveNode(n.ID, geometry.Point{X: c.X, Y: c.Y}); err != nil {
		return nil, err
	}
	moved := *n

	if err := application.Commit(ctx, c.repo, s); err != nil {
		return nil, err
	}
	return &EntityResult{
		Entity:  moved,
		Message: fmt.Sprintf("Moved %s to (%g, %g)", moved.Title, moved.X, moved.Y),
	}, nil
}
