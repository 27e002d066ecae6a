// Package font is the 5x7 bitmap font used for every on-panel label.
package font

const (
	// First and Last bound the printable ASCII range covered by the table.
	First = 32
	Last  = 126

	Width  = 5
	Height = 7
)

// Columns returns the column bytes for r. Runes outside First..Last map to
// the space glyph.
func Columns(r rune) [Width]byte {
	if r < First || r > Last {
		return glyphs[0]
	}
	return glyphs[r-First]
}

// Supported reports whether r has its own glyph.
func Supported(r rune) bool {
	return r >= First && r <= Last
}
