package ports

import (
	"context"

	"schemer/internal/domain"
)

// DiagramStore persists the diagram in its load/save shape.
type DiagramStore interface {
	// Load returns the stored diagram, or nil with no error when nothing has
	// been saved yet. A malformed payload returns domain.ErrMalformedDiagram.
	Load(ctx context.Context) (*domain.Diagram, error)

	// Save replaces the stored diagram.
	Save(ctx context.Context, d *domain.Diagram) error
}

// SnapshotHistory is implemented by stores that keep past saves.
type SnapshotHistory interface {
	// History lists saved snapshots, newest first.
	History(ctx context.Context, limit int) ([]domain.SnapshotInfo, error)

	// Snapshot loads one past save by id.
	Snapshot(ctx context.Context, id int64) (*domain.Diagram, error)
}

// SelectionSink receives external link selection messages.
type SelectionSink interface {
	Post(source string, payload []byte) error
}

// DiagramAccess gives fn exclusive use of the diagram store, so one load,
// modify and save cycle never interleaves with another writer.
type DiagramAccess interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
