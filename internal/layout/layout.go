// Package layout measures the derived geometry of an entity box. Hit testing
// and rendering both read rows from Measure so the two never disagree.
package layout

import (
	"math"

	"schemer/internal/domain"
	"schemer/internal/geometry"
)

// Row metrics in world units.
const (
	HeaderHeight  = 24
	Padding       = 16
	LineHeight    = 14
	RefLineHeight = LineHeight * 2
	TextInset     = 6
	RuleInset     = 4
	TitleBaseline = 16
	FirstBaseline = HeaderHeight + Padding
)

// Height is the derived height of an entity with the given row counts.
func Height(fields, refs int) float64 {
	refHeader := 0
	if refs > 0 {
		refHeader = 1
	}
	return HeaderHeight + Padding + float64(fields+refHeader)*LineHeight + float64(refs)*RefLineHeight
}

// Row is one line of text inside an entity.
type Row struct {
	Baseline geometry.Point // where text starts
	Band     geometry.Rect  // area that reacts to the pointer
}

// Box is the measured body of an entity.
type Box struct {
	Body      geometry.Rect
	Header    geometry.Rect
	Title     geometry.Point
	Fields    []Row
	Rule      float64 // y of the separator above references, valid when Refs is non-empty
	RefsTitle geometry.Point
	Refs      []Row
}

// Measure lays out n with refs reference rows.
func Measure(n domain.Node, refs int) Box {
	h := Height(len(n.Fields), refs)
	b := Box{
		Body:   geometry.Rect{X: n.X, Y: n.Y, W: n.Width, H: h},
		Header: geometry.Rect{X: n.X, Y: n.Y, W: n.Width, H: HeaderHeight},
		Title:  geometry.Point{X: n.X + TextInset, Y: n.Y + TitleBaseline},
	}

	x := n.X + TextInset
	cursor := n.Y + FirstBaseline
	b.Fields = make([]Row, len(n.Fields))
	for i := range n.Fields {
		b.Fields[i] = Row{
			Baseline: geometry.Point{X: x, Y: cursor},
			Band:     geometry.Rect{X: n.X, Y: cursor, W: n.Width, H: LineHeight},
		}
		cursor += LineHeight
	}
	if refs == 0 {
		return b
	}

	b.Rule = cursor + RuleInset
	cursor += LineHeight
	b.RefsTitle = geometry.Point{X: x, Y: cursor}
	cursor += LineHeight

	b.Refs = make([]Row, refs)
	for i := range b.Refs {
		b.Refs[i] = Row{
			Baseline: geometry.Point{X: x, Y: cursor},
			Band: geometry.Rect{
				X: n.X + RuleInset,
				Y: cursor - LineHeight + 2,
				W: n.Width - 2*RuleInset,
				H: LineHeight,
			},
		}
		cursor += RefLineHeight
	}
	return b
}

// FieldAt returns the field row index for a world y, or -1. Rows are counted
// from the first baseline, so a row spans [baseline, baseline+line).
func FieldAt(n domain.Node, wy float64) int {
	idx := int(math.Floor((wy - (n.Y + FirstBaseline)) / LineHeight))
	if idx < 0 || idx >= len(n.Fields) {
		return -1
	}
	return idx
}

// InHeader reports whether a world y lies in the entity's header band.
func InHeader(n domain.Node, wy float64) bool {
	return wy <= n.Y+HeaderHeight
}

// RefAt returns the reference row index whose band contains wy, or -1. Only
// the vertical extent is checked; the caller tests the body first.
func (b Box) RefAt(wy float64) int {
	for i, r := range b.Refs {
		if wy >= r.Band.Y && wy <= r.Band.Y+r.Band.H {
			return i
		}
	}
	return -1
}

// Bounds is the entity's body rectangle for the given reference count.
func Bounds(n domain.Node, refs int) geometry.Rect {
	return geometry.Rect{X: n.X, Y: n.Y, W: n.Width, H: Height(len(n.Fields), refs)}
}

// Connector returns the segment between two boxes, clipped to their borders
// along the line joining their centres.
func Connector(from, to geometry.Rect) (geometry.Point, geometry.Point) {
	p1 := geometry.RectRayIntersection(from, to.Center())
	p2 := geometry.RectRayIntersection(to, from.Center())
	return p1, p2
}
