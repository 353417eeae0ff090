// Package geometry holds the stateless math shared by hit-testing and rendering:
// points, rectangles, the camera transform and segment distances.
package geometry

import "math"

// Epsilon replaces a zero delta in ray/rectangle intersection.
const Epsilon = 0.00001

// Point is a 2D coordinate, in world or screen space depending on context.
type Point struct {
	X, Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W &&
		p.Y >= r.Y && p.Y <= r.Y+r.H
}

// RectRayIntersection returns the point where the ray from the center of rect
// towards target crosses the rectangle boundary.
func RectRayIntersection(rect Rect, target Point) Point {
	c := rect.Center()
	dx := target.X - c.X
	dy := target.Y - c.Y
	adx := math.Abs(dx)
	if adx == 0 {
		adx = Epsilon
	}
	ady := math.Abs(dy)
	if ady == 0 {
		ady = Epsilon
	}
	scale := math.Min(rect.W/2/adx, rect.H/2/ady)
	return Point{X: c.X + dx*scale, Y: c.Y + dy*scale}
}

// PointToSegmentDistance returns the distance from p to the segment a-b.
func PointToSegmentDistance(p, a, b Point) float64 {
	vx := b.X - a.X
	vy := b.Y - a.Y
	wx := p.X - a.X
	wy := p.Y - a.Y

	c1 := wx*vx + wy*vy
	if c1 <= 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}

	c2 := vx*vx + vy*vy
	if c2 <= c1 {
		return math.Hypot(p.X-b.X, p.Y-b.Y)
	}

	t := c1 / c2
	return math.Hypot(p.X-(a.X+t*vx), p.Y-(a.Y+t*vy))
}

// Angle returns the direction of the vector from a to b in radians.
func Angle(a, b Point) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X)
}
