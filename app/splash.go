package app

import (
	"tinygo.org/x/tinyfont"

	"altimeter/hal"
	"altimeter/internal/buildinfo"
	"altimeter/internal/font"
	"altimeter/internal/st7789"
)

// drawSplash shows the title, build and board while the sensors come up.
func drawSplash(d *st7789.Device, b hal.Board) {
	d.FillScreen(st7789.Black)

	_, h := d.Size()
	step := int16(font.Fonter.GetYAdvance()) + 4
	y := h/2 - step

	centered(d, y, "ALTIMETER", st7789.Cyan)
	centered(d, y+step, buildinfo.Short(), st7789.White)
	centered(d, y+2*step, b.Name, st7789.White)
}

// centered writes s with its baseline at y.
func centered(d *st7789.Device, y int16, s string, c st7789.Color) {
	w, _ := d.Size()
	_, outbox := tinyfont.LineWidth(font.Fonter, s)
	x := (w - int16(outbox)) / 2
	if x < 0 {
		x = 0
	}
	tinyfont.WriteLine(d, font.Fonter, x, y, s, c.RGBA())
}
