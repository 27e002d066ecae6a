package font

import (
	"image/color"
	"testing"

	"tinygo.org/x/tinyfont"
)

func TestColumnsOutOfRangeIsSpace(t *testing.T) {
	space := Columns(' ')
	for _, r := range []rune{0, '\n', 31, 127, 'é', '°'} {
		if got := Columns(r); got != space {
			t.Fatalf("Columns(%q) = %v, want space %v", r, got, space)
		}
		if Supported(r) {
			t.Fatalf("Supported(%q) = true, want false", r)
		}
	}
}

func TestColumnsKnownGlyphs(t *testing.T) {
	tests := []struct {
		r    rune
		want [Width]byte
	}{
		{'!', [Width]byte{0x00, 0x00, 0x5F, 0x00, 0x00}},
		{'0', [Width]byte{0x3E, 0x51, 0x49, 0x45, 0x3E}},
		{'A', [Width]byte{0x7E, 0x11, 0x11, 0x11, 0x7E}},
		{'~', [Width]byte{0x08, 0x04, 0x08, 0x10, 0x08}},
	}
	for _, tt := range tests {
		if got := Columns(tt.r); got != tt.want {
			t.Fatalf("Columns(%q) = %v, want %v", tt.r, got, tt.want)
		}
	}
}

func TestGlyphsFitSevenRows(t *testing.T) {
	for r := rune(First); r <= Last; r++ {
		for col, b := range Columns(r) {
			if b&0x80 != 0 {
				t.Fatalf("glyph %q column %d uses row 7", r, col)
			}
		}
	}
}

type pixelSet map[[2]int16]bool

func (p pixelSet) Size() (x, y int16)                { return 64, 16 }
func (p pixelSet) SetPixel(x, y int16, c color.RGBA) { p[[2]int16{x, y}] = true }
func (p pixelSet) Display() error                    { return nil }

func TestFonterDrawsOnBaseline(t *testing.T) {
	px := pixelSet{}
	tinyfont.WriteLine(px, Fonter, 0, 6, "!", color.RGBA{A: 255})

	// '!' lights column 2, rows 0-4 and 6.
	for row := int16(0); row < Height; row++ {
		want := row != 5
		if got := px[[2]int16{2, row}]; got != want {
			t.Fatalf("pixel (2,%d) = %v, want %v", row, got, want)
		}
	}
	if len(px) != 6 {
		t.Fatalf("lit pixels = %d, want 6", len(px))
	}
}
