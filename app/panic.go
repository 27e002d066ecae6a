package app

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"unicode/utf8"

	"tinygo.org/x/tinyfont"

	"altimeter/internal/font"
	"altimeter/internal/st7789"
)

// ErrPanic wraps a panic recovered from the control loop.
var ErrPanic = errors.New("firmware panic")

// recoverPanic turns a panic in the loop into an error, logs the stack and
// leaves the panic text on the panel.
func (a *Altimeter) recoverPanic(err *error) {
	r := recover()
	if r == nil {
		return
	}
	a.logf("panic: %v", r)
	stack := strings.Split(string(debug.Stack()), "\n")
	for _, line := range stack {
		if line != "" {
			a.logf("%s", line)
		}
	}
	if a.panel != nil {
		a.setBacklight(true)
		drawPanic(a.panel, fmt.Sprint(r), stack)
	}
	*err = fmt.Errorf("%w: %v", ErrPanic, r)
}

func drawPanic(d *st7789.Device, msg string, stack []string) {
	d.FillScreen(st7789.White)

	w, h := d.Size()
	lineH := int16(font.Fonter.GetYAdvance())
	cols := w / (font.Width + 1)
	if cols <= 0 {
		cols = 1
	}

	lines := []string{"PANIC", msg}
	for _, l := range stack {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}

	fg := st7789.Black.RGBA()
	y := lineH
	for _, line := range lines {
		for len(line) > 0 {
			if y > h {
				return
			}
			chunk, rest := takeRunes(line, cols)
			tinyfont.WriteLine(d, font.Fonter, 0, y, chunk, fg)
			y += lineH
			line = strings.TrimLeft(rest, " ")
		}
	}
}

func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if int64(len(s)) <= int64(n) {
		return s, ""
	}
	var i int
	var count int16
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		if size <= 0 {
			break
		}
		i += size
		count++
	}
	if i >= len(s) {
		return s, ""
	}
	return s[:i], s[i:]
}
