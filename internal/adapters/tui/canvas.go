package tui

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"schemer/internal/geometry"
	"schemer/internal/ports"
)

// Every terminal cell stands for a CellWidth x CellHeight pixel block of the
// diagram's screen space.
const (
	CellWidth  = 7
	CellHeight = 14
)

// opaqueAlpha is the fill alpha at or above which a fill hides the glyphs
// underneath it.
const opaqueAlpha = 200

type rgb struct{ r, g, b uint8 }

func (c rgb) hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.r, c.g, c.b)
}

// over composites src onto c.
func (c rgb) over(src color.Color) rgb {
	n := color.NRGBAModel.Convert(src).(color.NRGBA)
	if n.A == 0xff {
		return rgb{n.R, n.G, n.B}
	}
	a := float64(n.A) / 0xff
	mix := func(s, d uint8) uint8 {
		return uint8(math.Round(float64(s)*a + float64(d)*(1-a)))
	}
	return rgb{mix(n.R, c.r), mix(n.G, c.g), mix(n.B, c.b)}
}

type cell struct {
	glyph rune // 0 for the trailing half of a wide rune
	fg    rgb
	bg    rgb
	bold  bool
}

// Canvas is a ports.Surface that rasterizes onto terminal cells. A cell is
// covered by a shape when its centre is.
type Canvas struct {
	cols, rows int
	cells      []cell
}

var _ ports.Surface = (*Canvas)(nil)

// NewCanvas returns a cols x rows canvas filled with white.
func NewCanvas(cols, rows int) *Canvas {
	cols, rows = max(cols, 0), max(rows, 0)
	c := &Canvas{cols: cols, rows: rows, cells: make([]cell, cols*rows)}
	c.Clear(color.White)
	return c
}

// CellCenter maps a terminal cell to the screen point at its centre.
func CellCenter(col, row int) geometry.Point {
	return geometry.Point{
		X: float64(col)*CellWidth + CellWidth/2.0,
		Y: float64(row)*CellHeight + CellHeight/2.0,
	}
}

func (c *Canvas) Size() (w, h float64) {
	return float64(c.cols * CellWidth), float64(c.rows * CellHeight)
}

// Rune returns the glyph at a cell, or a space for blank and out of range
// cells.
func (c *Canvas) Rune(col, row int) rune {
	cl := c.at(col, row)
	if cl == nil || cl.glyph == 0 {
		return ' '
	}
	return cl.glyph
}

// Background returns the background colour of a cell.
func (c *Canvas) Background(col, row int) color.NRGBA {
	cl := c.at(col, row)
	if cl == nil {
		return color.NRGBA{}
	}
	return color.NRGBA{R: cl.bg.r, G: cl.bg.g, B: cl.bg.b, A: 0xff}
}

// Row returns the glyphs of one row as plain text.
func (c *Canvas) Row(row int) string {
	var b strings.Builder
	for col := 0; col < c.cols; col++ {
		cl := c.at(col, row)
		if cl == nil {
			break
		}
		if cl.glyph == 0 {
			continue
		}
		b.WriteRune(cl.glyph)
	}
	return b.String()
}

func (c *Canvas) at(col, row int) *cell {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return nil
	}
	return &c.cells[row*c.cols+col]
}

func (c *Canvas) Clear(col color.Color) {
	bg := rgb{}.over(col)
	for i := range c.cells {
		c.cells[i] = cell{glyph: ' ', fg: bg, bg: bg}
	}
}

// span returns the cells whose centres fall inside r.
func span(r geometry.Rect) (col0, row0, col1, row1 int) {
	col0 = int(math.Ceil((r.X - CellWidth/2.0) / CellWidth))
	col1 = int(math.Floor((r.X + r.W - CellWidth/2.0) / CellWidth))
	row0 = int(math.Ceil((r.Y - CellHeight/2.0) / CellHeight))
	row1 = int(math.Floor((r.Y + r.H - CellHeight/2.0) / CellHeight))
	return
}

func cellOf(p geometry.Point) (col, row int) {
	return int(math.Floor(p.X / CellWidth)), int(math.Floor(p.Y / CellHeight))
}

func (c *Canvas) FillRect(r geometry.Rect, col color.Color) {
	hide := color.NRGBAModel.Convert(col).(color.NRGBA).A >= opaqueAlpha
	col0, row0, col1, row1 := span(r)
	for row := row0; row <= row1; row++ {
		for x := col0; x <= col1; x++ {
			cl := c.at(x, row)
			if cl == nil {
				continue
			}
			cl.bg = cl.bg.over(col)
			if hide {
				cl.glyph = ' '
			}
		}
	}
}

func (c *Canvas) FillRoundRect(r geometry.Rect, _ float64, _ bool, col color.Color) {
	c.FillRect(r, col)
}

func (c *Canvas) StrokeRect(r geometry.Rect, s ports.Stroke) {
	c.box(r, s, [4]rune{'┌', '┐', '└', '┘'})
}

func (c *Canvas) StrokeRoundRect(r geometry.Rect, _ float64, s ports.Stroke) {
	c.box(r, s, [4]rune{'╭', '╮', '╰', '╯'})
}

// box outlines the cells holding the rectangle's corners.
func (c *Canvas) box(r geometry.Rect, s ports.Stroke, corners [4]rune) {
	col0, row0 := cellOf(geometry.Point{X: r.X, Y: r.Y})
	col1, row1 := cellOf(geometry.Point{X: r.X + r.W - 1, Y: r.Y + r.H - 1})
	if col0 == col1 || row0 == row1 {
		c.Line(geometry.Point{X: r.X, Y: r.Y}, geometry.Point{X: r.X + r.W, Y: r.Y + r.H}, s)
		return
	}
	horiz, vert := '─', '│'
	if s.Width >= 2 {
		horiz, vert = '━', '┃'
	}
	for x := col0 + 1; x < col1; x++ {
		c.put(x, row0, horiz, s.Color, false)
		c.put(x, row1, horiz, s.Color, false)
	}
	for y := row0 + 1; y < row1; y++ {
		c.put(col0, y, vert, s.Color, false)
		c.put(col1, y, vert, s.Color, false)
	}
	c.put(col0, row0, corners[0], s.Color, false)
	c.put(col1, row0, corners[1], s.Color, false)
	c.put(col0, row1, corners[2], s.Color, false)
	c.put(col1, row1, corners[3], s.Color, false)
}

// put writes a glyph with col composited over the cell background.
func (c *Canvas) put(x, y int, glyph rune, col color.Color, bold bool) {
	cl := c.at(x, y)
	if cl == nil {
		return
	}
	cl.glyph = glyph
	cl.fg = cl.bg.over(col)
	cl.bold = bold
}

// lineGlyph picks the box drawing character closest to the segment's
// direction in pixel space.
func lineGlyph(dx, dy float64, heavy bool) rune {
	angle := math.Abs(math.Atan2(dy, dx) * 180 / math.Pi)
	if angle > 90 {
		angle = 180 - angle
	}
	switch {
	case angle < 22.5:
		if heavy {
			return '━'
		}
		return '─'
	case angle > 67.5:
		if heavy {
			return '┃'
		}
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}

// Line walks the cells between a and b with Bresenham's algorithm. Dashed
// strokes leave every other cell blank.
func (c *Canvas) Line(a, b geometry.Point, s ports.Stroke) {
	glyph := lineGlyph(b.X-a.X, b.Y-a.Y, s.Width >= 2)
	x0, y0 := cellOf(a)
	x1, y1 := cellOf(b)
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	e := dx + dy
	dashed := len(s.Dash) > 0
	for i := 0; ; i++ {
		if !dashed || i%2 == 0 {
			c.put(x0, y0, glyph, s.Color, false)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (c *Canvas) FillCircle(center geometry.Point, radius float64, col color.Color) {
	if radius < CellWidth {
		x, y := cellOf(center)
		glyph := '●'
		if radius < 2 {
			glyph = '·'
		}
		c.put(x, y, glyph, col, false)
		return
	}
	c.FillRect(geometry.Rect{X: center.X - radius, Y: center.Y - radius, W: 2 * radius, H: 2 * radius}, col)
}

func (c *Canvas) StrokeCircle(center geometry.Point, radius float64, s ports.Stroke) {
	if radius < CellWidth {
		x, y := cellOf(center)
		c.put(x, y, '○', s.Color, false)
		return
	}
	steps := int(math.Ceil(2 * math.Pi * radius / CellWidth))
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		x, y := cellOf(geometry.Point{X: center.X + math.Cos(a)*radius, Y: center.Y + math.Sin(a)*radius})
		c.put(x, y, '·', s.Color, false)
	}
}

// Text lays s out on the cell row holding the middle of its x-height. Wide
// runes take two cells.
func (c *Canvas) Text(p geometry.Point, s string, face ports.FontFace, size float64, col color.Color) {
	row := int(math.Floor((p.Y - 0.35*size) / CellHeight))
	x := int(math.Round(p.X / CellWidth))
	bold := face == ports.FontSansBold
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		c.put(x, row, r, col, bold)
		if w == 2 {
			if cl := c.at(x+1, row); cl != nil {
				cl.glyph = 0
			}
		}
		x += w
	}
}

func (c *Canvas) MeasureText(s string, _ ports.FontFace, _ float64) float64 {
	return float64(runewidth.StringWidth(s) * CellWidth)
}

// String renders the canvas as styled terminal rows, one lipgloss style per
// run of cells that look alike.
func (c *Canvas) String() string {
	lines := make([]string, c.rows)
	for row := 0; row < c.rows; row++ {
		var b, run strings.Builder
		var cur *cell
		flush := func() {
			if cur == nil || run.Len() == 0 {
				return
			}
			st := lipgloss.NewStyle().
				Foreground(lipgloss.Color(cur.fg.hex())).
				Background(lipgloss.Color(cur.bg.hex())).
				Bold(cur.bold)
			b.WriteString(st.Render(run.String()))
			run.Reset()
		}
		for col := 0; col < c.cols; col++ {
			cl := &c.cells[row*c.cols+col]
			if cl.glyph == 0 {
				continue
			}
			if cur == nil || cur.fg != cl.fg || cur.bg != cl.bg || cur.bold != cl.bold {
				flush()
				cur = cl
			}
			run.WriteRune(cl.glyph)
		}
		flush()
		lines[row] = b.String()
	}
	return strings.Join(lines, "\n")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
