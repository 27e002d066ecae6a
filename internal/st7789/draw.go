package st7789

// DrawLine draws with integer Bresenham, one DrawPixel per point.
func (d *Device) DrawLine(x0, y0, x1, y1 int16, c Color) {
	steep := abs(y1-y0) > abs(x1-x0)
	if steep {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}

	dx := x1 - x0
	dy := abs(y1 - y0)
	err := dx / 2
	ystep := int16(-1)
	if y0 < y1 {
		ystep = 1
	}

	for ; x0 <= x1; x0++ {
		if steep {
			d.DrawPixel(y0, x0, c)
		} else {
			d.DrawPixel(x0, y0, c)
		}
		err -= dy
		if err < 0 {
			y0 += ystep
			err += dx
		}
	}
}

// DrawRect outlines a w x h rectangle.
func (d *Device) DrawRect(x, y, w, h int16, c Color) {
	if w <= 0 || h <= 0 {
		return
	}
	d.DrawLine(x, y, x+w-1, y, c)
	d.DrawLine(x, y, x, y+h-1, c)
	d.DrawLine(x+w-1, y, x+w-1, y+h-1, c)
	d.DrawLine(x, y+h-1, x+w-1, y+h-1, c)
}

// DrawCircle plots a midpoint circle of radius r.
func (d *Device) DrawCircle(x0, y0, r int16, c Color) {
	f := 1 - r
	ddFx := int16(1)
	ddFy := -2 * r
	x := int16(0)
	y := r

	d.DrawPixel(x0, y0+r, c)
	d.DrawPixel(x0, y0-r, c)
	d.DrawPixel(x0+r, y0, c)
	d.DrawPixel(x0-r, y0, c)

	for x < y {
		if f >= 0 {
			y--
			ddFy += 2
			f += ddFy
		}
		x++
		ddFx += 2
		f += ddFx

		d.DrawPixel(x0+x, y0+y, c)
		d.DrawPixel(x0-x, y0+y, c)
		d.DrawPixel(x0+x, y0-y, c)
		d.DrawPixel(x0-x, y0-y, c)
		d.DrawPixel(x0+y, y0+x, c)
		d.DrawPixel(x0-y, y0+x, c)
		d.DrawPixel(x0+y, y0-x, c)
		d.DrawPixel(x0-y, y0-x, c)
	}
}

func abs(v int16) int16 {
	if v < 0 {
		return -v
	}
	return v
}
