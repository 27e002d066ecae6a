package font

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

// Fonter exposes the table as a tinyfont.Fonter at 1x scale, with one
// column of spacing. The y passed to tinyfont is the baseline (row 6).
// Concurrent access is not safe due to internal glyph reuse.
var Fonter tinyfont.Fonter = &fonter{}

type fonter struct {
	g glyph
}

type glyph struct {
	r rune
}

func (g *glyph) Draw(display drivers.Displayer, x, y int16, c color.RGBA) {
	cols := Columns(g.r)
	for col := 0; col < Width; col++ {
		line := cols[col]
		for row := 0; row < Height; row++ {
			if line&(1<<row) == 0 {
				continue
			}
			display.SetPixel(x+int16(col), y-int16(Height-1-row), c)
		}
	}
}

func (g *glyph) Info() tinyfont.GlyphInfo {
	return tinyfont.GlyphInfo{
		Rune:     g.r,
		Width:    Width,
		Height:   Height,
		XAdvance: Width + 1,
		XOffset:  0,
		YOffset:  -(Height - 1),
	}
}

func (f *fonter) GetYAdvance() uint8 { return Height + 1 }

func (f *fonter) GetGlyph(r rune) tinyfont.Glypher {
	f.g.r = r
	return &f.g
}
