// Package engine ties the graph store, camera and interaction state into one
// explicit context. Every pointer, key and selection event is a method call on
// an Engine; Prepare brings derived state up to date before each frame.
package engine

import (
	"log/slog"

	"schemer/internal/domain"
	"schemer/internal/geometry"
	"schemer/internal/graph"
	"schemer/internal/hittest"
	"schemer/internal/layout"
)

// Tool is the active editing tool.
type Tool int

const (
	ToolSelect Tool = iota
	ToolNode
	ToolLink
)

func (t Tool) String() string {
	switch t {
	case ToolSelect:
		return "select"
	case ToolNode:
		return "node"
	case ToolLink:
		return "link"
	}
	return "unknown"
}

// Draft is a link waiting for its second endpoint.
type Draft struct {
	FromID int
	End    geometry.Point // world space
}

// State is the ephemeral interaction state. It is never persisted.
type State struct {
	Tool Tool

	DragID     int
	Dragging   bool
	DragOffset geometry.Point

	Panning  bool
	PanStart geometry.Point // screen
	CamStart geometry.Point

	Selected    map[string]struct{}
	HoveredLink string
	HoveredRef  *hittest.RefHit

	Draft    *Draft
	Edit     *PendingEdit
	HelpOpen bool
}

// IsSelected reports whether a link is highlighted.
func (s *State) IsSelected(linkID string) bool {
	_, ok := s.Selected[linkID]
	return ok
}

// Engine is the diagram editing context owned by a host application.
type Engine struct {
	Store  *graph.Store
	Camera geometry.Camera
	State  State

	refs   *graph.Refs
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLocale sets the collation locale for reference titles.
func WithLocale(locale string) Option {
	return func(e *Engine) {
		e.refs = graph.NewRefs(locale)
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an engine over store. A nil store starts empty.
func New(store *graph.Store, opts ...Option) *Engine {
	if store == nil {
		store = graph.NewStore()
	}
	e := &Engine{
		Store:  store,
		Camera: geometry.NewCamera(),
		State:  State{Tool: ToolSelect, Selected: map[string]struct{}{}},
		refs:   graph.NewRefs(graph.DefaultLocale),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load replaces the diagram in place and resets the interaction state that
// points into it.
func (e *Engine) Load(d *domain.Diagram) {
	e.Store.Replace(d)
	e.State.Selected = map[string]struct{}{}
	e.State.HoveredLink = ""
	e.State.HoveredRef = nil
	e.State.Draft = nil
	e.State.Dragging = false
	e.State.DragID = 0
	e.Prepare()
}

// Apply replaces the diagram with one written by another editor while the
// view stays in place. Selection, hover, draft, drag and pending edit survive
// when what they point at still exists.
func (e *Engine) Apply(d *domain.Diagram) {
	e.Store.Replace(d)
	for id := range e.State.Selected {
		if _, ok := e.Store.Link(id); !ok {
			delete(e.State.Selected, id)
		}
	}
	if _, ok := e.Store.Link(e.State.HoveredLink); !ok {
		e.State.HoveredLink = ""
	}
	e.State.HoveredRef = nil
	if e.State.Draft != nil {
		if _, ok := e.Store.Node(e.State.Draft.FromID); !ok {
			e.State.Draft = nil
		}
	}
	if _, ok := e.Store.Node(e.State.DragID); !ok {
		e.State.Dragging = false
		e.State.DragID = 0
	}
	if e.State.Edit != nil {
		if _, ok := e.Store.Node(e.State.Edit.NodeID); !ok {
			e.State.Edit = nil
		}
	}
	e.Prepare()
}

// Prepare assigns missing identifiers, recomputes references when the graph
// changed and writes the derived height back onto every entity. Hosts call
// it once per frame before hit testing or drawing.
func (e *Engine) Prepare() graph.References {
	e.Store.EnsureEntityIDs()
	e.Store.EnsureLinkNumbers()
	refs := e.refs.Update(e.Store)
	for _, n := range e.Store.Nodes() {
		e.Store.SetHeight(n.ID, layout.Height(len(n.Fields), len(refs.Of(n.ID))))
	}
	return refs
}

// Refs returns the references computed by the last Prepare.
func (e *Engine) Refs() graph.References {
	return e.refs.Current()
}

// Tester returns a hit tester for the current frame.
func (e *Engine) Tester() hittest.Tester {
	return hittest.New(e.Store, e.refs.Update(e.Store), e.Camera.Scale)
}

// RefPrefix returns the number shown before a reference row: the direct link
// to target, else the first link of a shortest path. ok is false when no
// route resolves.
func (e *Engine) RefPrefix(fromID int, target string) (int, bool) {
	l, ok := e.Store.FirstLinkTo(fromID, target)
	if !ok || l.Num <= 0 {
		return 0, false
	}
	return l.Num, true
}

// SelectedLinks returns the highlighted links in draw order.
func (e *Engine) SelectedLinks() []domain.Link {
	var out []domain.Link
	for _, l := range e.Store.Links() {
		if e.State.IsSelected(l.ID) {
			out = append(out, l)
		}
	}
	return out
}
