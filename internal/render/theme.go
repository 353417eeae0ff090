package render

import "image/color"

// Palette holds every colour the renderer uses.
type Palette struct {
	Background   color.Color
	GridDot      color.Color
	Ink          color.Color
	Text         color.Color
	Selected     color.Color
	Hovered      color.Color
	EntityFill   color.Color
	HeaderFill   color.Color
	Rule         color.Color
	RefHighlight color.Color
	BadgeFill    color.Color
	BadgeOutline color.Color
}

// DefaultPalette matches the canvas editor's colours.
var DefaultPalette = Palette{
	Background:   color.White,
	GridDot:      color.NRGBA{A: 46},
	Ink:          color.NRGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff},
	Text:         color.Black,
	Selected:     color.NRGBA{R: 0x1e, G: 0x88, B: 0xe5, A: 0xff},
	Hovered:      color.NRGBA{R: 30, G: 136, B: 229, A: 217},
	EntityFill:   color.White,
	HeaderFill:   color.NRGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff},
	Rule:         color.NRGBA{A: 38},
	RefHighlight: color.NRGBA{R: 255, G: 241, B: 150, A: 179},
	BadgeFill:    color.NRGBA{R: 255, G: 255, B: 255, A: 230},
	BadgeOutline: color.NRGBA{A: 51},
}
