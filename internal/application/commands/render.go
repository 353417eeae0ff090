package commands

import (
	"context"
	"math"

	"schemer/internal/application"
	"schemer/internal/engine"
	"schemer/internal/geometry"
	"schemer/internal/ports"
	"schemer/internal/render"
)

// fitMargin is the screen padding kept around content when fitting.
const fitMargin = 40

// RenderCommand draws the stored diagram onto a surface
type RenderCommand struct {
	repo    ports.DiagramStore
	surface ports.Surface
	Camera  *geometry.Camera // nil fits the whole diagram
	Select  []string         // link refs to highlight
	Locale  string
	Grid    bool
}

// NewRenderCommand creates a new RenderCommand
func NewRenderCommand(repo ports.DiagramStore, surface ports.Surface) *RenderCommand {
	return &RenderCommand{repo: repo, surface: surface, Grid: true}
}

// Execute runs the render command and returns the camera it used
func (c *RenderCommand) Execute(ctx context.Context) (geometry.Camera, error) {
	s, err := application.Open(ctx, c.repo)
	if err != nil {
		return geometry.Camera{}, err
	}

	var opts []engine.Option
	if c.Locale != "" {
		opts = append(opts, engine.WithLocale(c.Locale))
	}
	e := engine.New(s, opts...)
	e.Prepare()

	var ids []string
	for _, ref := range c.Select {
		l, err := application.ResolveLink(s, ref)
		if err != nil {
			return geometry.Camera{}, err
		}
		ids = append(ids, l.ID)
	}
	e.SelectLinks(ids)

	if c.Camera != nil {
		e.Camera = *c.Camera
		e.Camera.Scale = geometry.ClampScale(e.Camera.Scale)
	} else {
		w, h := c.surface.Size()
		e.Camera = Fit(e, w, h)
	}

	r := render.New()
	r.Grid = c.Grid
	r.Draw(c.surface, e)
	return e.Camera, nil
}

// Fit returns a camera that shows every entity inside a w×h viewport.
func Fit(e *engine.Engine, w, h float64) geometry.Camera {
	nodes := e.Store.Nodes()
	if len(nodes) == 0 {
		return geometry.NewCamera()
	}
	ht := e.Tester()
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range nodes {
		b := ht.Bounds(n)
		minX, minY = math.Min(minX, b.X), math.Min(minY, b.Y)
		maxX, maxY = math.Max(maxX, b.X+b.W), math.Max(maxY, b.Y+b.H)
	}

	cw, ch := maxX-minX, maxY-minY
	scale := 1.0
	if cw > 0 && ch > 0 {
		scale = math.Min((w-2*fitMargin)/cw, (h-2*fitMargin)/ch)
	}
	scale = geometry.ClampScale(scale)
	return geometry.Camera{
		X:     (w-cw*scale)/2 - minX*scale,
		Y:     (h-ch*scale)/2 - minY*scale,
		Scale: scale,
	}
}
