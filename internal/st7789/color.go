package st7789

import "image/color"

// Color is a packed RGB565 pixel: rrrrrggggggbbbbb.
type Color uint16

// Color565 packs 8-bit channels by truncation.
func Color565(r, g, b uint8) Color {
	return Color(uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b>>3))
}

// FromRGBA converts c, ignoring alpha.
func FromRGBA(c color.RGBA) Color {
	return Color565(c.R, c.G, c.B)
}

// RGBA expands c back to 8-bit channels.
func (c Color) RGBA() color.RGBA {
	r := uint16(c>>11) & 0x1F
	g := uint16(c>>5) & 0x3F
	b := uint16(c) & 0x1F
	return color.RGBA{
		R: uint8(r * 255 / 31),
		G: uint8(g * 255 / 63),
		B: uint8(b * 255 / 31),
		A: 0xFF,
	}
}

// Colors used across the UI.
const (
	Black   Color = 0x0000
	Blue    Color = 0x001F
	Red     Color = 0xF800
	Green   Color = 0x07E0
	Cyan    Color = 0x07FF
	Magenta Color = 0xF81F
	Yellow  Color = 0xFFE0
	White   Color = 0xFFFF
)
