// Package st7789 drives ST7789-class TFT controllers without a frame buffer:
// every drawing call turns into bus transactions immediately.
package st7789

import (
	"image/color"
	"time"
)

// Rotation selects one of the four scan orientations.
type Rotation uint8

const (
	Rotation0 Rotation = iota
	Rotation90
	Rotation180
	Rotation270
)

// Config describes a panel as mounted at rotation 0.
type Config struct {
	Width  int16
	Height int16

	// XStart and YStart offset the visible area inside controller memory at
	// rotation 0. Rotations 90 and 270 swap them.
	XStart int16
	YStart int16

	Rotation Rotation

	// Sleep implements the reset and init delays. Nil means time.Sleep.
	Sleep func(time.Duration)
}

// Panel presets.
var (
	Panel128x128 = Config{Width: 128, Height: 128, XStart: 2, YStart: 1}
	Panel240x320 = Config{Width: 240, Height: 320}
)

const fillChunkPixels = 64

// Device is an ST7789 panel behind a Bus.
//
// Init must run before any drawing call. Drawing on an uninitialized
// device sends window and pixel traffic to a controller that is still in
// sleep mode; the result is undefined on hardware.
type Device struct {
	bus   Bus
	sleep func(time.Duration)
	cfg   Config

	width    int16
	height   int16
	rotation Rotation
	xstart   int16
	ystart   int16
	ready    bool

	buf [fillChunkPixels * 2]byte
}

// New returns a device for bus. Nothing is sent until Init.
func New(bus Bus, cfg Config) *Device {
	d := &Device{bus: bus, cfg: cfg, sleep: cfg.Sleep}
	if d.sleep == nil {
		d.sleep = time.Sleep
	}
	d.applyRotation(cfg.Rotation)
	return d
}

// Init pulses reset, sends the power-on table and applies the configured
// rotation.
func (d *Device) Init() {
	d.bus.Reset(true)
	d.sleep(10 * time.Millisecond)
	d.bus.Reset(false)
	d.sleep(10 * time.Millisecond)
	d.bus.Reset(true)
	d.sleep(120 * time.Millisecond)

	for _, s := range initSequence {
		d.bus.Command(s.Cmd, s.Params...)
		if s.Delay > 0 {
			d.sleep(s.Delay)
		}
	}

	d.SetRotation(d.cfg.Rotation)
	d.ready = true
}

// Ready reports whether Init has completed.
func (d *Device) Ready() bool { return d.ready }

// SetRotation switches orientation and writes MADCTL.
func (d *Device) SetRotation(r Rotation) {
	madctl := d.applyRotation(r)
	d.bus.Command(MADCTL, madctl|MADCTL_BGR)
}

func (d *Device) applyRotation(r Rotation) byte {
	d.rotation = r % 4
	switch d.rotation {
	case Rotation90:
		d.width, d.height = d.cfg.Height, d.cfg.Width
		d.xstart, d.ystart = d.cfg.YStart, d.cfg.XStart
		return MADCTL_MX | MADCTL_MV
	case Rotation180:
		d.width, d.height = d.cfg.Width, d.cfg.Height
		d.xstart, d.ystart = d.cfg.XStart, d.cfg.YStart
		return MADCTL_MY | MADCTL_MX
	case Rotation270:
		d.width, d.height = d.cfg.Height, d.cfg.Width
		d.xstart, d.ystart = d.cfg.YStart, d.cfg.XStart
		return MADCTL_MY | MADCTL_MV
	default:
		d.width, d.height = d.cfg.Width, d.cfg.Height
		d.xstart, d.ystart = d.cfg.XStart, d.cfg.YStart
		return 0
	}
}

// Rotation returns the current orientation.
func (d *Device) Rotation() Rotation { return d.rotation }

// Size returns the visible size in the current orientation.
func (d *Device) Size() (w, h int16) { return d.width, d.height }

// Offset returns the memory origin of the visible area in the current
// orientation.
func (d *Device) Offset() (x, y int16) { return d.xstart, d.ystart }

// SetWindow programs the inclusive address window and starts a memory
// write. Windows that are inverted or leave the panel are not sent and
// SetWindow returns false.
func (d *Device) SetWindow(x0, y0, x1, y1 int16) bool {
	if x0 < 0 || y0 < 0 || x0 > x1 || x1 >= d.width || y0 > y1 || y1 >= d.height {
		return false
	}
	cx0, cx1 := uint16(x0+d.xstart), uint16(x1+d.xstart)
	ry0, ry1 := uint16(y0+d.ystart), uint16(y1+d.ystart)
	d.bus.Command(CASET, byte(cx0>>8), byte(cx0), byte(cx1>>8), byte(cx1))
	d.bus.Command(RASET, byte(ry0>>8), byte(ry0), byte(ry1>>8), byte(ry1))
	d.bus.Command(RAMWR)
	return true
}

// FillRect fills the rectangle clipped to the panel. Edges are computed in
// int32 so wide or far-off rectangles do not wrap.
func (d *Device) FillRect(x, y, w, h int16, c Color) {
	x0, y0 := int32(x), int32(y)
	x1, y1 := x0+int32(w), y0+int32(h) // exclusive
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, int32(d.width)), min(y1, int32(d.height))
	if x0 >= x1 || y0 >= y1 {
		return
	}
	if !d.SetWindow(int16(x0), int16(y0), int16(x1-1), int16(y1-1)) {
		return
	}
	d.stream(c, int((x1-x0)*(y1-y0)))
}

// FillScreen fills the whole visible area.
func (d *Device) FillScreen(c Color) {
	d.FillRect(0, 0, d.width, d.height, c)
}

// DrawPixel sets one pixel; coordinates off the panel are ignored.
func (d *Device) DrawPixel(x, y int16, c Color) {
	if x < 0 || y < 0 || x >= d.width || y >= d.height {
		return
	}
	d.SetWindow(x, y, x, y)
	d.buf[0] = byte(c >> 8)
	d.buf[1] = byte(c)
	d.bus.Write(d.buf[:2])
}

func (d *Device) stream(c Color, n int) {
	hi, lo := byte(c>>8), byte(c)
	fill := n
	if fill > fillChunkPixels {
		fill = fillChunkPixels
	}
	for i := 0; i < fill; i++ {
		d.buf[2*i] = hi
		d.buf[2*i+1] = lo
	}
	for n > 0 {
		k := n
		if k > fillChunkPixels {
			k = fillChunkPixels
		}
		d.bus.Write(d.buf[:2*k])
		n -= k
	}
}

// SetPixel implements drivers.Displayer.
func (d *Device) SetPixel(x, y int16, c color.RGBA) {
	d.DrawPixel(x, y, FromRGBA(c))
}

// Display implements drivers.Displayer. There is no frame buffer to flush.
func (d *Device) Display() error { return nil }
