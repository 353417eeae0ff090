// Package hittest answers what lies under a world point: an entity, a link,
// a reference row or a field row.
package hittest

import (
	"schemer/internal/domain"
	"schemer/internal/geometry"
	"schemer/internal/graph"
	"schemer/internal/layout"
)

// LinkThreshold is the link hit radius in screen pixels.
const LinkThreshold = 7.0

// RefHit identifies a reference row inside an entity.
type RefHit struct {
	NodeID      int
	TargetTitle string
}

// Tester runs hit tests against one frame's store, references and zoom.
type Tester struct {
	store *graph.Store
	refs  graph.References
	scale float64
}

// New returns a Tester. scale is the camera zoom used to keep the link hit
// radius constant on screen.
func New(store *graph.Store, refs graph.References, scale float64) Tester {
	if scale <= 0 {
		scale = 1
	}
	return Tester{store: store, refs: refs, scale: scale}
}

// Bounds returns an entity's current box.
func (t Tester) Bounds(n domain.Node) geometry.Rect {
	return layout.Bounds(n, len(t.refs.Of(n.ID)))
}

// Node returns the topmost entity containing p.
func (t Tester) Node(p geometry.Point) (*domain.Node, bool) {
	nodes := t.store.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		if t.Bounds(nodes[i]).Contains(p) {
			return t.store.Node(nodes[i].ID)
		}
	}
	return nil, false
}

// Endpoints returns the border-to-border segment of a link, or false when
// either entity is missing.
func (t Tester) Endpoints(l domain.Link) (geometry.Point, geometry.Point, bool) {
	a, okA := t.store.Node(l.From)
	b, okB := t.store.Node(l.To)
	if !okA || !okB {
		return geometry.Point{}, geometry.Point{}, false
	}
	p1, p2 := layout.Connector(t.Bounds(*a), t.Bounds(*b))
	return p1, p2, true
}

// Link returns the topmost link within LinkThreshold screen pixels of p.
func (t Tester) Link(p geometry.Point) (*domain.Link, bool) {
	threshold := LinkThreshold / t.scale
	links := t.store.Links()
	for i := len(links) - 1; i >= 0; i-- {
		p1, p2, ok := t.Endpoints(links[i])
		if !ok {
			continue
		}
		if geometry.PointToSegmentDistance(p, p1, p2) <= threshold {
			return t.store.Link(links[i].ID)
		}
	}
	return nil, false
}

// Reference returns the reference row under p, topmost entity first.
func (t Tester) Reference(p geometry.Point) (RefHit, bool) {
	nodes := t.store.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		refs := t.refs.Of(n.ID)
		if len(refs) == 0 {
			continue
		}
		box := layout.Measure(n, len(refs))
		if !box.Body.Contains(p) {
			continue
		}
		if r := box.RefAt(p.Y); r >= 0 {
			return RefHit{NodeID: n.ID, TargetTitle: refs[r]}, true
		}
	}
	return RefHit{}, false
}

// Field returns the index of the field row of n under p, or -1.
func (t Tester) Field(n domain.Node, p geometry.Point) int {
	return layout.FieldAt(n, p.Y)
}

// InHeader reports whether p lies in the header band of n.
func (t Tester) InHeader(n domain.Node, p geometry.Point) bool {
	return layout.InHeader(n, p.Y)
}
