// Package raster draws diagrams into images with fogleman/gg.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"schemer/internal/geometry"
	"schemer/internal/ports"
)

var (
	fontsOnce sync.Once
	fonts     map[ports.FontFace]*truetype.Font
	fontsErr  error
)

func loadFonts() (map[ports.FontFace]*truetype.Font, error) {
	fontsOnce.Do(func() {
		fonts = make(map[ports.FontFace]*truetype.Font, 3)
		for face, data := range map[ports.FontFace][]byte{
			ports.FontSans:     goregular.TTF,
			ports.FontSansBold: gobold.TTF,
			ports.FontMono:     gomono.TTF,
		} {
			f, err := truetype.Parse(data)
			if err != nil {
				fontsErr = fmt.Errorf("failed to parse font: %w", err)
				return
			}
			fonts[face] = f
		}
	})
	return fonts, fontsErr
}

type faceKey struct {
	face ports.FontFace
	size float64
}

// Surface implements ports.Surface on a gg drawing context.
type Surface struct {
	dc    *gg.Context
	fonts map[ports.FontFace]*truetype.Font
	faces map[faceKey]font.Face
}

var _ ports.Surface = (*Surface)(nil)

// New creates a w×h surface.
func New(w, h int) (*Surface, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid surface size %dx%d", w, h)
	}
	f, err := loadFonts()
	if err != nil {
		return nil, err
	}
	return &Surface{
		dc:    gg.NewContext(w, h),
		fonts: f,
		faces: make(map[faceKey]font.Face),
	}, nil
}

func (s *Surface) Size() (float64, float64) {
	return float64(s.dc.Width()), float64(s.dc.Height())
}

func (s *Surface) Clear(c color.Color) {
	s.dc.SetColor(c)
	s.dc.Clear()
}

func (s *Surface) FillRect(r geometry.Rect, c color.Color) {
	s.dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	s.fill(c)
}

func (s *Surface) StrokeRect(r geometry.Rect, st ports.Stroke) {
	s.dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	s.stroke(st)
}

func (s *Surface) FillRoundRect(r geometry.Rect, radius float64, topOnly bool, c color.Color) {
	if topOnly {
		s.topRoundedPath(r, radius)
	} else {
		s.dc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, radius)
	}
	s.fill(c)
}

func (s *Surface) StrokeRoundRect(r geometry.Rect, radius float64, st ports.Stroke) {
	s.dc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, radius)
	s.stroke(st)
}

func (s *Surface) Line(a, b geometry.Point, st ports.Stroke) {
	s.dc.DrawLine(a.X, a.Y, b.X, b.Y)
	s.stroke(st)
}

func (s *Surface) FillCircle(center geometry.Point, radius float64, c color.Color) {
	s.dc.DrawCircle(center.X, center.Y, radius)
	s.fill(c)
}

func (s *Surface) StrokeCircle(center geometry.Point, radius float64, st ports.Stroke) {
	s.dc.DrawCircle(center.X, center.Y, radius)
	s.stroke(st)
}

func (s *Surface) Text(p geometry.Point, text string, face ports.FontFace, size float64, c color.Color) {
	s.dc.SetFontFace(s.face(face, size))
	s.dc.SetColor(c)
	s.dc.DrawString(text, p.X, p.Y)
}

func (s *Surface) MeasureText(text string, face ports.FontFace, size float64) float64 {
	s.dc.SetFontFace(s.face(face, size))
	w, _ := s.dc.MeasureString(text)
	return w
}

// Image returns the drawn image.
func (s *Surface) Image() image.Image {
	return s.dc.Image()
}

// EncodePNG writes the drawn image as PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	return s.dc.EncodePNG(w)
}

// SavePNG writes the drawn image to a PNG file.
func (s *Surface) SavePNG(path string) error {
	return s.dc.SavePNG(path)
}

func (s *Surface) fill(c color.Color) {
	s.dc.SetColor(c)
	s.dc.Fill()
}

func (s *Surface) stroke(st ports.Stroke) {
	s.dc.SetColor(st.Color)
	s.dc.SetLineWidth(st.Width)
	if len(st.Dash) > 0 {
		s.dc.SetDash(st.Dash...)
	} else {
		s.dc.SetDash()
	}
	s.dc.Stroke()
}

// topRoundedPath traces a rectangle whose top corners are rounded.
func (s *Surface) topRoundedPath(r geometry.Rect, radius float64) {
	radius = math.Min(radius, math.Min(r.W, r.H)/2)
	dc := s.dc
	dc.NewSubPath()
	dc.MoveTo(r.X, r.Y+r.H)
	dc.LineTo(r.X, r.Y+radius)
	dc.DrawArc(r.X+radius, r.Y+radius, radius, math.Pi, 1.5*math.Pi)
	dc.LineTo(r.X+r.W-radius, r.Y)
	dc.DrawArc(r.X+r.W-radius, r.Y+radius, radius, 1.5*math.Pi, 2*math.Pi)
	dc.LineTo(r.X+r.W, r.Y+r.H)
	dc.ClosePath()
}

// face returns a cached face; sizes are rounded to half points.
func (s *Surface) face(f ports.FontFace, size float64) font.Face {
	key := faceKey{face: f, size: math.Round(size*2) / 2}
	if ff, ok := s.faces[key]; ok {
		return ff
	}
	ttf, ok := s.fonts[f]
	if !ok {
		ttf = s.fonts[ports.FontSans]
	}
	ff := truetype.NewFace(ttf, &truetype.Options{
		Size:    key.size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	s.faces[key] = ff
	return ff
}
