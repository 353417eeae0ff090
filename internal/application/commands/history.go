package commands

import (
	"context"
	"fmt"

	"schemer/internal/application"
	"schemer/internal/domain"
	"schemer/internal/ports"
)

// HistoryCommand lists saved revisions of the diagram
type HistoryCommand struct {
	history ports.SnapshotHistory
	Limit   int
}

// NewHistoryCommand creates a new HistoryCommand
func NewHistoryCommand(history ports.SnapshotHistory, limit int) *HistoryCommand {
	return &HistoryCommand{history: history, Limit: limit}
}

// Execute runs the history command
func (c *HistoryCommand) Execute(ctx context.Context) ([]domain.SnapshotInfo, error) {
	limit := c.Limit
	if limit <= 0 {
		limit = 20
	}
	return c.history.History(ctx, limit)
}

// RestoreResult contains the result of restoring a revision
type RestoreResult struct {
	SnapshotID int64
	Entities   int
	Links      int
	Message    string
}

// RestoreCommand saves a past revision as the current diagram
type RestoreCommand struct {
	repo    ports.DiagramStore
	history ports.SnapshotHistory
	ID      int64
}

// NewRestoreCommand creates a new RestoreCommand
func NewRestoreCommand(repo ports.DiagramStore, history ports.SnapshotHistory, id int64) *RestoreCommand {
	return &RestoreCommand{repo: repo, history: history, ID: id}
}

// Validate checks if the restore operation is valid
func (c *RestoreCommand) Validate() error {
	if c.ID <= 0 {
		return &application.ValidationError{Field: "id", Message: "snapshot id must be positive"}
	}
	return nil
}

// Execute runs the restore command
func (c *RestoreCommand) Execute(ctx context.Context) (*RestoreResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	d, err := c.history.Snapshot(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %d: %w", c.ID, err)
	}
	if d == nil {
		return nil, &application.NotFoundError{Kind: "snapshot", Ref: fmt.Sprint(c.ID)}
	}
	if err := c.repo.Save(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to restore: %w", err)
	}
	return &RestoreResult{
		SnapshotID: c.ID,
		Entities:   len(d.Nodes),
		Links:      len(d.Links),
		Message:    fmt.Sprintf("Restored snapshot %d (%d entities, %d links)", c.ID, len(d.Nodes), len(d.Links)),
	}, nil
}
