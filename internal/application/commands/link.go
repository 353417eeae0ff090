package commands

import (
	"context"
	"fmt"

	"schemer/internal/application"
	"schemer/internal/domain"
	"schemer/internal/ports"
)

// LinkResult contains a link and its rendered label
type LinkResult struct {
	Link    domain.Link
	Label   string
	Message string
}

// CreateLinkCommand connects two entities
type CreateLinkCommand struct {
	repo            ports.DiagramStore
	From            string
	To              string
	FromCardinality string // optional, defaults to one
	ToCardinality   string // optional, defaults to many
}

// NewCreateLinkCommand creates a new CreateLinkCommand
func NewCreateLinkCommand(repo ports.DiagramStore, from, to string) *CreateLinkCommand {
	return &CreateLinkCommand{repo: repo, From: from, To: to}
}

// Validate checks if the link operation is valid
func (c *CreateLinkCommand) Validate() error {
	if err := application.ValidateRequired("from", c.From); err != nil {
		return err
	}
	if err := application.ValidateRequired("to", c.To); err != nil {
		return err
	}
	if c.FromCardinality != "" {
		if err := application.ValidateCardinality("fromCardinality", c.FromCardinality); err != nil {
			return err
		}
	}
	if c.ToCardinality != "" {
		if err := application.ValidateCardinality("toCardinality", c.ToCardinality); err != nil {
			return err
		}
	}
	return nil
}

// Execute runs the link command
func (c *CreateLinkCommand) Execute(ctx context.Context) (*LinkResult, error) {
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

	l, err := s.AddLink(from.ID, to.ID)
	if err != nil {
		return nil, err
	}
	if c.FromCardinality != "" || c.ToCardinality != "" {
		fc, tc := l.FromCardinality, l.ToCardinality
		if c.FromCardinality != "" {
			fc = domain.Cardinality(c.FromCardinality)
		}
		if c.ToCardinality != "" {
			tc = domain.Cardinality(c.ToCardinality)
		}
		if err := s.SetCardinality(l.ID, fc, tc); err != nil {
			return nil, err
		}
		l.FromCardinality, l.ToCardinality = fc, tc
	}

	if err := application.Commit(ctx, c.repo, s); err != nil {
		return nil, err
	}

	label := s.Label(l)
	return &LinkResult{
		Link:    l,
		Label:   label,
		Message: fmt.Sprintf("Linked #%d: %s", l.Num, label),
	}, nil
}

// DeleteLinkCommand removes a link
type DeleteLinkCommand struct {
	repo ports.DiagramStore
	Ref  string // "#N", id or label
}

// NewDeleteLinkCommand creates a new DeleteLinkCommand
func NewDeleteLinkCommand(repo ports.DiagramStore, ref string) *DeleteLinkCommand {
	return &DeleteLinkCommand{repo: repo, Ref: ref}
}

// Validate checks if the delete operation is valid
func (c *DeleteLinkCommand) Validate() error {
	return application.ValidateRequired("link", c.Ref)
}

// Execute runs the delete command
func (c *DeleteLinkCommand) Execute(ctx context.Context) (*LinkResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	s, err := application.Open(ctx, c.repo)
	if err != nil {
		return nil, err
	}
	l, err := application.ResolveLink(s, c.Ref)
	if err != nil {
		return nil, err
	}
	deleted := *l
	label := s.Label(deleted)
	s.DeleteLink(deleted.ID)

	if err := application.Commit(ctx, c.repo, s); err != nil {
		return nil, err
	}
	return &LinkResult{
		Link:    deleted,
		Label:   label,
		Message: fmt.Sprintf("Deleted link #%d: %s", deleted.Num, label),
	}, nil
}

// SetCardinalityCommand changes both end markers of a link
type SetCardinalityCommand struct {
	repo ports.DiagramStore
	Ref  string
	From string
	To   string
}

// NewSetCardinalityCommand creates a new SetCardinalityCommand
func NewSetCardinalityCommand(repo ports.DiagramStore, ref, from, to string) *SetCardinalityCommand {
	return &SetCardinalityCommand{repo: repo, Ref: ref, From: from, To: to}
}

// Validate checks if the cardinality operation is valid
func (c *SetCardinalityCommand) Validate() error {
	if err := application.ValidateRequired("link", c.Ref); err != nil {
		return err
	}
	if err := application.ValidateCardinality("fromCardinality", c.From); err != nil {
		return err
	}
	return application.ValidateCardinality("toCardinality", c.To)
}

// Execute runs the cardinality command
func (c *SetCardinalityCommand) Execute(ctx context.Context) (*LinkResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	s, err := application.Open(ctx, c.repo)
	if err != nil {
		return nil, err
	}
	l, err := application.ResolveLink(s, c.Ref)
	if err != nil {
		return nil, err
	}
	if err := s.SetCardinality(l.ID, domain.Cardinality(c.From), domain.Cardinality(c.To)); err != nil {
		return nil, err
	}
	updated := *l

	if err := application.Commit(ctx, c.repo, s); err != nil {
		return nil, err
	}
	label := s.Label(updated)
	return &LinkResult{
		Link:    updated,
		Label:   label,
		Message: fmt.Sprintf("Link #%d %s is now %s -> %s", updated.Num, label, c.From, c.To),
	}, nil
}
