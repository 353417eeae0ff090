package raster

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemer/internal/geometry"
	"schemer/internal/ports"
)

func TestNew_RejectsEmpty(t *testing.T) {
	_, err := New(0, 10)
	assert.Error(t, err)
}

func TestSurface_DrawsPixels(t *testing.T) {
	s, err := New(40, 30)
	require.NoError(t, err)

	w, h := s.Size()
	assert.Equal(t, 40.0, w)
	assert.Equal(t, 30.0, h)

	s.Clear(color.White)
	s.FillRect(geometry.Rect{X: 10, Y: 10, W: 10, H: 10}, color.RGBA{R: 255, A: 255})

	r, g, b, _ := s.Image().At(15, 15).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Zero(t, g)
	assert.Zero(t, b)

	r, g, b, _ = s.Image().At(2, 2).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff}, []uint32{r, g, b})
}

func TestSurface_TopRoundedKeepsBottomCorners(t *testing.T) {
	s, err := New(40, 40)
	require.NoError(t, err)
	s.Clear(color.White)
	s.FillRoundRect(geometry.Rect{X: 0, Y: 0, W: 40, H: 40}, 12, true, color.Black)

	r, _, _, _ := s.Image().At(0, 39).RGBA()
	assert.Zero(t, r, "bottom-left corner should be filled")
	r, _, _, _ = s.Image().At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r, "top-left corner should stay background")
}

func TestSurface_MeasureText(t *testing.T) {
	s, err := New(10, 10)
	require.NoError(t, err)

	short := s.MeasureText("ab", ports.FontSans, 12)
	long := s.MeasureText("abcdef", ports.FontSans, 12)
	bigger := s.MeasureText("ab", ports.FontSans, 24)

	assert.Greater(t, short, 0.0)
	assert.Greater(t, long, short)
	assert.Greater(t, bigger, short)
}

func TestSurface_EncodePNG(t *testing.T) {
	s, err := New(8, 8)
	require.NoError(t, err)
	s.Clear(color.White)
	s.Line(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 8, Y: 8}, ports.Stroke{Color: color.Black, Width: 1, Dash: []float64{2, 2}})

	var buf bytes.Buffer
	require.NoError(t, s.EncodePNG(&buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
}
