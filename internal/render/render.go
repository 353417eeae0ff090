// Package render draws a prepared engine frame onto a ports.Surface.
package render

import (
	"fmt"
	"math"

	"schemer/internal/domain"
	"schemer/internal/engine"
	"schemer/internal/geometry"
	"schemer/internal/graph"
	"schemer/internal/hittest"
	"schemer/internal/layout"
	"schemer/internal/ports"
)

// Drawing constants. Sizes are in world units unless noted.
const (
	GridSpacing  = 38 // round(37.8), about one centimetre
	DotRadius    = 1
	EntityRadius = 6 // screen pixels
	LabelOffset  = 10
	TickLength   = 8
	ForkLength   = 10
	ZeroRadius   = 4
	BodyFontSize = 12
	BadgeFont    = 11
	MinFontSize  = 6 // screen pixels
)

var draftDash = []float64{6, 6}

// Renderer draws frames with a palette.
type Renderer struct {
	Palette Palette
	Grid    bool
}

// New returns a renderer with the default palette and the dot grid enabled.
func New() *Renderer {
	return &Renderer{Palette: DefaultPalette, Grid: true}
}

// Frame prepares e and draws it onto s.
func Frame(s ports.Surface, e *engine.Engine) {
	New().Draw(s, e)
}

// Draw prepares e and paints one frame: background, grid, links, entities,
// then the link draft on top.
func (r *Renderer) Draw(s ports.Surface, e *engine.Engine) {
	refs := e.Prepare()
	f := frame{
		r:     r,
		s:     s,
		e:     e,
		cam:   e.Camera,
		refs:  refs,
		hits:  hittest.New(e.Store, refs, e.Camera.Scale),
		scale: e.Camera.Scale,
	}

	s.Clear(r.Palette.Background)
	if r.Grid {
		f.grid()
	}
	for _, l := range e.Store.Links() {
		f.link(l)
	}
	for _, n := range e.Store.Nodes() {
		f.node(n)
	}
	f.draft()
}

type frame struct {
	r     *Renderer
	s     ports.Surface
	e     *engine.Engine
	cam   geometry.Camera
	refs  graph.References
	hits  hittest.Tester
	scale float64
}

func (f frame) font(size float64) float64 {
	return math.Max(MinFontSize, size*f.scale)
}

func (f frame) grid() {
	w, h := f.s.Size()
	step := GridSpacing * f.scale
	if step < 2 {
		return
	}
	topLeft := f.cam.ScreenToWorld(geometry.Point{})
	startX := math.Floor(topLeft.X/GridSpacing) * GridSpacing
	startY := math.Floor(topLeft.Y/GridSpacing) * GridSpacing
	for wy := startY; ; wy += GridSpacing {
		sy := f.cam.WorldToScreen(geometry.Point{Y: wy + GridSpacing/2}).Y
		if sy > h+step {
			break
		}
		for wx := startX; ; wx += GridSpacing {
			p := f.cam.WorldToScreen(geometry.Point{X: wx + GridSpacing/2, Y: wy + GridSpacing/2})
			if p.X > w+step {
				break
			}
			f.s.FillCircle(p, DotRadius*f.scale, f.r.Palette.GridDot)
		}
	}
}

func (f frame) link(l domain.Link) {
	p1, p2, ok := f.hits.Endpoints(l)
	if !ok {
		return
	}

	stroke := ports.Stroke{Color: f.r.Palette.Ink, Width: 1}
	switch {
	case f.e.State.IsSelected(l.ID):
		stroke = ports.Stroke{Color: f.r.Palette.Selected, Width: 2}
	case f.e.State.HoveredLink == l.ID:
		stroke = ports.Stroke{Color: f.r.Palette.Hovered, Width: 2}
	}

	s1 := f.cam.WorldToScreen(p1)
	s2 := f.cam.WorldToScreen(p2)
	f.s.Line(s1, s2, stroke)
	f.cardinality(l.FromCardinality, s1, geometry.Angle(p1, p2), stroke)
	f.cardinality(l.ToCardinality, s2, geometry.Angle(p2, p1), stroke)

	if l.Num > 0 {
		f.badge(fmt.Sprintf("#%d", l.Num), p1, p2)
	}
}

// cardinality draws the end marker at p, pointing along angle.
func (f frame) cardinality(c domain.Cardinality, p geometry.Point, angle float64, stroke ports.Stroke) {
	switch c {
	case domain.CardinalityOne:
		f.tick(p, angle, stroke)
	case domain.CardinalityMany:
		length := ForkLength * f.scale
		for _, i := range []float64{-1, 0, 1} {
			a := angle + i*math.Pi/6
			f.s.Line(p, geometry.Point{X: p.X + math.Cos(a)*length, Y: p.Y + math.Sin(a)*length}, stroke)
		}
	case domain.CardinalityZeroOne:
		f.s.StrokeCircle(p, ZeroRadius*f.scale, stroke)
		f.tick(p, angle, stroke)
	}
}

func (f frame) tick(p geometry.Point, angle float64, stroke ports.Stroke) {
	half := TickLength * f.scale
	a := angle + math.Pi/2
	dx, dy := math.Cos(a)*half, math.Sin(a)*half
	f.s.Line(geometry.Point{X: p.X + dx, Y: p.Y + dy}, geometry.Point{X: p.X - dx, Y: p.Y - dy}, stroke)
}

// badge draws the link number beside the segment midpoint, offset along the
// segment normal.
func (f frame) badge(label string, p1, p2 geometry.Point) {
	mid := geometry.Point{X: (p1.X + p2.X) / 2, Y: (p1.Y + p2.Y) / 2}
	nx, ny := p2.Y-p1.Y, -(p2.X - p1.X)
	nlen := math.Hypot(nx, ny)
	if nlen == 0 {
		nlen = 1
	}
	at := f.cam.WorldToScreen(geometry.Point{
		X: mid.X + nx/nlen*LabelOffset,
		Y: mid.Y + ny/nlen*LabelOffset,
	})

	size := f.font(BadgeFont)
	textW := f.s.MeasureText(label, ports.FontSans, size)
	textH := 12 * f.scale
	pad := 3 * f.scale
	box := geometry.Rect{
		X: at.X - textW/2 - pad,
		Y: at.Y - textH/2 - pad + 1,
		W: textW + pad*2,
		H: textH + pad*2,
	}
	f.s.FillRect(box, f.r.Palette.BadgeFill)
	f.s.StrokeRect(box, ports.Stroke{Color: f.r.Palette.BadgeOutline, Width: 1})
	f.s.Text(geometry.Point{X: at.X - textW/2, Y: at.Y + textH/2 - 2}, label, ports.FontSans, size, f.r.Palette.Text)
}

func (f frame) rect(r geometry.Rect) geometry.Rect {
	tl := f.cam.WorldToScreen(geometry.Point{X: r.X, Y: r.Y})
	return geometry.Rect{X: tl.X, Y: tl.Y, W: r.W * f.scale, H: r.H * f.scale}
}

func (f frame) node(n domain.Node) {
	refs := f.refs.Of(n.ID)
	box := layout.Measure(n, len(refs))
	pal := f.r.Palette

	body := f.rect(box.Body)
	f.s.FillRoundRect(body, EntityRadius, false, pal.EntityFill)
	f.s.StrokeRoundRect(body, EntityRadius, ports.Stroke{Color: pal.Ink, Width: 1})

	header := f.rect(box.Header)
	f.s.FillRoundRect(header, EntityRadius, true, pal.HeaderFill)
	ruleY := header.Y + header.H
	f.s.Line(geometry.Point{X: body.X + 1, Y: ruleY}, geometry.Point{X: body.X + body.W - 1, Y: ruleY},
		ports.Stroke{Color: pal.Rule, Width: 1})

	titleSize := f.font(BodyFontSize)
	f.s.Text(f.cam.WorldToScreen(box.Title), n.Title, ports.FontSansBold, titleSize, pal.Text)

	bodySize := f.font(BodyFontSize)
	for i, row := range box.Fields {
		f.s.Text(f.cam.WorldToScreen(row.Baseline), n.Fields[i].Display(), ports.FontMono, bodySize, pal.Text)
	}
	if len(refs) == 0 {
		return
	}

	rule := f.cam.WorldToScreen(geometry.Point{X: n.X + layout.RuleInset, Y: box.Rule})
	f.s.Line(rule, geometry.Point{X: body.X + body.W - layout.RuleInset*f.scale, Y: rule.Y},
		ports.Stroke{Color: pal.Rule, Width: 1})
	f.s.Text(f.cam.WorldToScreen(box.RefsTitle), "References:", ports.FontSansBold, titleSize, pal.Text)

	hovered := f.e.State.HoveredRef
	for i, row := range box.Refs {
		title := refs[i]
		if hovered != nil && hovered.NodeID == n.ID && hovered.TargetTitle == title {
			f.s.FillRect(f.rect(row.Band), pal.RefHighlight)
		}
		f.s.Text(f.cam.WorldToScreen(row.Baseline), f.refText(n.ID, title), ports.FontMono, bodySize, pal.Text)
	}
}

// refText renders a reference row, prefixed with the number of the link that
// starts the route when one resolves.
func (f frame) refText(fromID int, title string) string {
	if num, ok := f.e.RefPrefix(fromID, title); ok {
		return fmt.Sprintf("#%d → %s", num, title)
	}
	return "→ " + title
}

func (f frame) draft() {
	d := f.e.State.Draft
	if d == nil {
		return
	}
	from, ok := f.e.Store.Node(d.FromID)
	if !ok {
		return
	}
	start := geometry.RectRayIntersection(f.hits.Bounds(*from), d.End)
	f.s.Line(f.cam.WorldToScreen(start), f.cam.WorldToScreen(d.End),
		ports.Stroke{Color: f.r.Palette.Ink, Width: 1, Dash: draftDash})
}
