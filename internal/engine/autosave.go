package engine

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"schemer/internal/domain"
	"schemer/internal/ports"
)

// Autosaver writes snapshots to a store, skipping any snapshot identical to
// the last one written.
type Autosaver struct {
	store  ports.DiagramStore
	last   []byte
	logger *slog.Logger
}

// NewAutosaver returns an Autosaver over store.
func NewAutosaver(store ports.DiagramStore, logger *slog.Logger) *Autosaver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Autosaver{store: store, logger: logger}
}

// Pending is a snapshot that differs from the last write.
type Pending struct {
	Diagram *domain.Diagram
	Data    []byte
}

// Check serializes the engine's diagram and returns it when it differs from
// the last written snapshot. Call it on the event loop.
func (a *Autosaver) Check(e *Engine) (*Pending, error) {
	d := e.Store.Snapshot()
	data, err := domain.EncodeDiagram(d)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	if bytes.Equal(data, a.last) {
		return nil, nil
	}
	return &Pending{Diagram: d, Data: data}, nil
}

// Write stores a pending snapshot. It is safe to call off the event loop as
// long as Commit runs back on it.
func (a *Autosaver) Write(ctx context.Context, p *Pending) error {
	if err := a.store.Save(ctx, p.Diagram); err != nil {
		return fmt.Errorf("save diagram: %w", err)
	}
	return nil
}

// Commit records data as the last written snapshot.
func (a *Autosaver) Commit(data []byte) {
	a.last = data
}

// Checkpoint marks the engine's current state as already saved, typically
// right after loading.
func (a *Autosaver) Checkpoint(e *Engine) {
	if data, err := domain.EncodeDiagram(e.Store.Snapshot()); err == nil {
		a.last = data
	}
}

// Flush saves synchronously when the state changed. It reports whether a
// write happened.
func (a *Autosaver) Flush(ctx context.Context, e *Engine) (bool, error) {
	p, err := a.Check(e)
	if err != nil || p == nil {
		return false, err
	}
	if err := a.Write(ctx, p); err != nil {
		return false, err
	}
	a.Commit(p.Data)
	a.logger.Debug("diagram saved", slog.Int("bytes", len(p.Data)))
	return true, nil
}
