package ports

import (
	"image/color"

	"schemer/internal/geometry"
)

// FontFace picks one of the typefaces a surface can draw with.
type FontFace int

const (
	FontSans FontFace = iota
	FontSansBold
	FontMono
)

// Stroke describes how outlines and paths are drawn.
type Stroke struct {
	Color color.Color
	Width float64
	Dash  []float64 // nil for solid
}

// Surface is the drawing capability the renderer needs. All coordinates are
// in screen pixels.
type Surface interface {
	Size() (w, h float64)
	Clear(c color.Color)

	FillRect(r geometry.Rect, c color.Color)
	StrokeRect(r geometry.Rect, s Stroke)
	// FillRoundRect and StrokeRoundRect round all four corners, or only the
	// top two when topOnly is set.
	FillRoundRect(r geometry.Rect, radius float64, topOnly bool, c color.Color)
	StrokeRoundRect(r geometry.Rect, radius float64, s Stroke)

	Line(a, b geometry.Point, s Stroke)
	FillCircle(center geometry.Point, radius float64, c color.Color)
	StrokeCircle(center geometry.Point, radius float64, s Stroke)

	// Text draws s with its baseline starting at p.
	Text(p geometry.Point, s string, face FontFace, size float64, c color.Color)
	MeasureText(s string, face FontFace, size float64) float64
}
