// Package render draws bitmap-font text and fixed-precision numbers onto a
// panel surface.
package render

import (
	"strconv"

	"altimeter/internal/font"
	"altimeter/internal/st7789"
)

// Surface is the part of the panel driver the renderer needs.
type Surface interface {
	Size() (w, h int16)
	DrawPixel(x, y int16, c st7789.Color)
	FillRect(x, y, w, h int16, c st7789.Color)
}

// Renderer blits glyphs at a fixed scale. Glyphs are separated by one
// scaled pixel column, so at 2x the advance is 12 px.
type Renderer struct {
	s     Surface
	scale int16
}

// New returns a renderer drawing on s at scale (minimum 1).
func New(s Surface, scale int16) *Renderer {
	if scale < 1 {
		scale = 1
	}
	return &Renderer{s: s, scale: scale}
}

func (r *Renderer) Scale() int16 { return r.scale }

// GlyphWidth is the scaled glyph width without spacing.
func (r *Renderer) GlyphWidth() int16 { return font.Width * r.scale }

// LineHeight is the scaled glyph height.
func (r *Renderer) LineHeight() int16 { return font.Height * r.scale }

// Advance is the cursor step per character.
func (r *Renderer) Advance() int16 { return r.GlyphWidth() + r.scale }

// DrawText draws text starting at (x, y), the glyph's top-left corner, and
// returns the cursor after the last drawn glyph. Drawing stops at the first
// glyph that would cross the right edge. Runes outside the font draw as
// spaces.
func (r *Renderer) DrawText(x, y int16, text string, c st7789.Color) int16 {
	return r.drawText(x, y, text, c, r.scale)
}

// DrawTextScaled is DrawText at an explicit scale.
func (r *Renderer) DrawTextScaled(x, y int16, text string, c st7789.Color, scale int16) int16 {
	if scale < 1 {
		scale = 1
	}
	return r.drawText(x, y, text, c, scale)
}

func (r *Renderer) drawText(x, y int16, text string, c st7789.Color, scale int16) int16 {
	w, _ := r.s.Size()
	gw := font.Width * scale
	for _, ch := range text {
		if x+gw > w {
			break
		}
		r.drawGlyph(x, y, ch, c, scale)
		x += gw + scale
	}
	return x
}

func (r *Renderer) drawGlyph(x, y int16, ch rune, c st7789.Color, scale int16) {
	cols := font.Columns(ch)
	for col := int16(0); col < font.Width; col++ {
		line := cols[col]
		for row := int16(0); row < font.Height; row++ {
			if line&(1<<uint(row)) == 0 {
				continue
			}
			px, py := x+col*scale, y+row*scale
			if scale == 1 {
				r.s.DrawPixel(px, py, c)
			} else {
				r.s.FillRect(px, py, scale, scale, c)
			}
		}
	}
}

// DrawNumber formats v with FormatNumber and draws it.
func (r *Renderer) DrawNumber(x, y int16, v float32, decimals int, c st7789.Color) int16 {
	return r.DrawText(x, y, FormatNumber(v, decimals), c)
}

// TextWidth returns the width text would occupy if nothing were clipped.
func (r *Renderer) TextWidth(text string) int16 {
	n := int16(0)
	for range text {
		n++
	}
	if n == 0 {
		return 0
	}
	return n*r.Advance() - r.scale
}

// FormatNumber renders v with exactly decimals fractional digits. Only 0, 1
// and 2 are supported; anything else formats with 2.
func FormatNumber(v float32, decimals int) string {
	if decimals < 0 || decimals > 2 {
		decimals = 2
	}
	return strconv.FormatFloat(float64(v), 'f', decimals, 64)
}
