package commands

import (
	"context"
	"fmt"
	"strings"

	"schemer/internal/application"
	"schemer/internal/domain"
	"schemer/internal/ports"
)

// EntityResult contains an entity after a change
type EntityResult struct {
	Entity  domain.Node
	Message string
}

// RenameCommand renames an entity
type RenameCommand struct {
	repo   ports.DiagramStore
	Entity string
	Title  string
}

// NewRenameCommand creates a new RenameCommand
func NewRenameCommand(repo ports.DiagramStore, entity, title string) *RenameCommand {
	return &RenameCommand{
		repo:   repo,
		Entity: entity,
		Title:  title,
	}
}

// Validate checks if the rename operation is valid
func (c *RenameCommand) Validate() error {
	if err := application.ValidateRequired("entity", c.Entity); err != nil {
		return err
	}
	return application.ValidateRequired("title", c.Title)
}

// Execute runs the rename command
func (c *RenameCommand) Execute(ctx context.Context) (*EntityResult, error) {
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
	oldTitle := n.Title
	title := strings.TrimSpace(c.Title)
	if err := s.RenameNode(n.ID, title); err != nil {
		return nil, fmt.Errorf("failed to rename: %w", err)
	}
	renamed := *n

	if err := application.Commit(ctx, c.repo, s); err != nil {
		return nil, err
	}
	return &EntityResult{
		Entity:  renamed,
		Message: fmt.Sprintf("Renamed %s to %s", oldTitle, title),
	}, nil
}

// SetFieldsCommand replaces an entity's fields from field text
type SetFieldsCommand struct {
	repo   ports.DiagramStore
	Entity string
	Text   string
}

// NewSetFieldsCommand creates a new SetFieldsCommand
func NewSetFieldsCommand(repo ports.DiagramStore, entity, text string) *SetFieldsCommand {
	return &SetFieldsCommand{repo: repo, Entity: entity, Text: text}
}

// Validate checks the entity reference and parses the field text. Every bad
// line is reported at once.
func (c *SetFieldsCommand) Validate() error {
	if err := application.ValidateRequired("entity", c.Entity); err != nil {
		return err
	}
	if _, err := domain.ParseFields(c.Text); err != nil {
		return &application.ValidationError{Field: "fields", Message: err.Error()}
	}
	return nil
}

// Execute runs the set fields command
func (c *SetFieldsCommand) Execute(ctx context.Context) (*EntityResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	fields, _ := domain.ParseFields(c.Text)

	s, err := application.Open(ctx, c.repo)
	if err != nil {
		return nil, err
	}
	n, err := application.ResolveEntity(s, c.Entity)
	if err != nil {
		return nil, err
	}
	if err := s.ReplaceFields(n.ID, fields); err != nil {
		return nil, err
	}
	updated := *n

	if err := application.Commit(ctx, c.repo, s); err != nil {
		return nil, err
	}
	return &EntityResult{
		Entity:  updated,
		Message: fmt.Sprintf("Set %d field(s) on %s", len(updated.Fields), updated.Title),
	}, nil
}
