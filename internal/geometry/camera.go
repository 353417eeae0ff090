package geometry

import "math"

// Zoom limits for the camera scale.
const (
	MinScale = 0.3
	MaxScale = 3.0
)

// WheelZoomRate converts a wheel delta into a zoom factor: exp(-delta*rate).
const WheelZoomRate = 0.0015

// Camera maps world coordinates to screen coordinates: translate, then scale.
type Camera struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
}

// NewCamera returns the identity camera.
func NewCamera() Camera {
	return Camera{Scale: 1}
}

// ClampScale limits v to [MinScale, MaxScale].
func ClampScale(v float64) float64 {
	return math.Max(MinScale, math.Min(MaxScale, v))
}

// WorldToScreen converts a world point to screen space.
func (c Camera) WorldToScreen(p Point) Point {
	return Point{X: p.X*c.Scale + c.X, Y: p.Y*c.Scale + c.Y}
}

// ScreenToWorld converts a screen point to world space.
func (c Camera) ScreenToWorld(p Point) Point {
	return Point{X: (p.X - c.X) / c.Scale, Y: (p.Y - c.Y) / c.Scale}
}

// ZoomAt multiplies the scale by factor while keeping the world point under
// the screen point anchor fixed. It reports whether the scale changed.
func (c *Camera) ZoomAt(anchor Point, factor float64) bool {
	prev := c.Scale
	next := ClampScale(prev * factor)
	if next == prev {
		return false
	}
	world := c.ScreenToWorld(anchor)
	c.Scale = next
	c.X = anchor.X - world.X*next
	c.Y = anchor.Y - world.Y*next
	return true
}

// WheelFactor returns the zoom factor for a wheel delta.
func WheelFactor(deltaY float64) float64 {
	return math.Exp(-deltaY * WheelZoomRate)
}

// PanBy shifts the camera by a screen-space delta.
func (c *Camera) PanBy(dx, dy float64) {
	c.X += dx
	c.Y += dy
}
