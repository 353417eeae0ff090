package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"schemer/internal/domain"
	"schemer/internal/ports"
)

// ErrNotLoaded is returned to external writers before the first load ends.
var ErrNotLoaded = errors.New("diagram is still loading")

// runMsg carries a function to run on the program's own turn.
type runMsg struct {
	ctx  context.Context
	fn   func(ctx context.Context) error
	done chan error
}

// ProgramAccess runs functions inside a program's event loop, one per
// turn, so they never race the pointer and key handlers.
type ProgramAccess struct {
	program Sender
}

var _ ports.DiagramAccess = (*ProgramAccess)(nil)

// NewProgramAccess returns an access posting to p.
func NewProgramAccess(p Sender) *ProgramAccess {
	return &ProgramAccess{program: p}
}

// Do blocks until fn has run in the loop or ctx ends. Send is a no-op once
// the program has exited, in which case only ctx releases the caller.
func (a *ProgramAccess) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	done := make(chan error, 1)
	a.program.Send(runMsg{ctx: ctx, fn: fn, done: done})
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LiveStore is the app's diagram seen as a DiagramStore. Load snapshots the
// engine and Save applies a diagram back onto it; autosave then persists
// the change. It must only be used from inside the event loop, which
// ProgramAccess provides.
type LiveStore struct {
	app *App
}

var _ ports.DiagramStore = (*LiveStore)(nil)

// LiveStore returns the store view of a's engine.
func (a *App) LiveStore() *LiveStore {
	return &LiveStore{app: a}
}

func (s *LiveStore) Load(context.Context) (*domain.Diagram, error) {
	if !s.app.loaded {
		return nil, ErrNotLoaded
	}
	return s.app.engine.Store.Snapshot(), nil
}

func (s *LiveStore) Save(_ context.Context, d *domain.Diagram) error {
	if !s.app.loaded {
		return ErrNotLoaded
	}
	s.app.engine.Apply(d)
	return nil
}

func (a *App) onRun(msg runMsg) tea.Cmd {
	err := msg.ctx.Err()
	if err == nil {
		err = msg.fn(msg.ctx)
	}
	msg.done <- err
	return a.syncForm()
}
