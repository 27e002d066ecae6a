// Package st7789sim emulates the controller side of an ST7789 bus. It
// decodes window and memory-write traffic into an RGB565 buffer and can
// record every transaction for tests.
package st7789sim

import (
	"image"
	"sync"
	"time"

	"altimeter/internal/st7789"
)

// EventKind tags a recorded bus event.
type EventKind uint8

const (
	EventCommand EventKind = iota
	EventData
	EventReset
	EventSleep
)

// Event is one recorded transaction.
type Event struct {
	Kind   EventKind
	Cmd    byte
	Params []byte
	Bytes  int
	Level  bool
	Delay  time.Duration
}

// Window is an inclusive address window in controller memory coordinates.
type Window struct {
	X0, Y0, X1, Y1 uint16
}

// Panel is an emulated controller. It satisfies st7789.Bus. Its Sleep
// method can be handed to st7789.Config so delays are recorded instead of
// slept.
type Panel struct {
	mu sync.Mutex

	width, height  int
	xstart, ystart int
	side           int
	mem            []st7789.Color

	madctl  byte
	awake   bool
	on      bool
	inReset bool

	win     Window
	writing bool
	col     uint16
	row     uint16
	hi      byte
	halfPix bool
	pixels  int

	recording bool
	events    []Event
	windows   []Window
}

// New returns a panel whose visible area is width x height at rotation 0,
// starting at (xstart, ystart) in controller memory. Recording starts
// enabled.
func New(width, height, xstart, ystart int) *Panel {
	side := width
	if height > side {
		side = height
	}
	off := xstart
	if ystart > off {
		off = ystart
	}
	side += off
	return &Panel{
		width:     width,
		height:    height,
		xstart:    xstart,
		ystart:    ystart,
		side:      side,
		mem:       make([]st7789.Color, side*side),
		recording: true,
	}
}

// NewFor returns a panel matching cfg.
func NewFor(cfg st7789.Config) *Panel {
	return New(int(cfg.Width), int(cfg.Height), int(cfg.XStart), int(cfg.YStart))
}

// SetRecording turns transaction recording on or off. Pixels are decoded
// either way.
func (p *Panel) SetRecording(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.recording = on
}

func (p *Panel) Command(cmd byte, params ...byte) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.recording {
		p.events = append(p.events, Event{Kind: EventCommand, Cmd: cmd, Params: append([]byte(nil), params...)})
	}
	p.writing = false
	p.halfPix = false

	switch cmd {
	case st7789.SWRESET:
		p.awake = false
		p.on = false
	case st7789.SLPOUT:
		p.awake = true
	case st7789.DISPON:
		p.on = true
	case st7789.DISPOFF:
		p.on = false
	case st7789.MADCTL:
		if len(params) > 0 {
			p.madctl = params[0]
		}
	case st7789.CASET:
		if len(params) >= 4 {
			p.win.X0 = uint16(params[0])<<8 | uint16(params[1])
			p.win.X1 = uint16(params[2])<<8 | uint16(params[3])
		}
	case st7789.RASET:
		if len(params) >= 4 {
			p.win.Y0 = uint16(params[0])<<8 | uint16(params[1])
			p.win.Y1 = uint16(params[2])<<8 | uint16(params[3])
		}
	case st7789.RAMWR:
		p.writing = true
		p.col = p.win.X0
		p.row = p.win.Y0
		if p.recording {
			p.windows = append(p.windows, p.win)
		}
	}
}

func (p *Panel) Write(data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.recording {
		p.events = append(p.events, Event{Kind: EventData, Bytes: len(data)})
	}
	if !p.writing {
		return
	}
	for _, b := range data {
		if !p.halfPix {
			p.hi = b
			p.halfPix = true
			continue
		}
		p.halfPix = false
		p.put(st7789.Color(uint16(p.hi)<<8 | uint16(b)))
	}
}

func (p *Panel) put(c st7789.Color) {
	if int(p.col) < p.side && int(p.row) < p.side {
		p.mem[int(p.row)*p.side+int(p.col)] = c
	}
	p.pixels++
	p.col++
	if p.col > p.win.X1 {
		p.col = p.win.X0
		p.row++
		if p.row > p.win.Y1 {
			p.row = p.win.Y0
		}
	}
}

func (p *Panel) Reset(level bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.recording {
		p.events = append(p.events, Event{Kind: EventReset, Level: level})
	}
	if !level {
		p.inReset = true
		return
	}
	if p.inReset {
		p.inReset = false
		p.awake = false
		p.on = false
		p.madctl = 0
		p.writing = false
	}
}

// Sleep records d without sleeping.
func (p *Panel) Sleep(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.recording {
		p.events = append(p.events, Event{Kind: EventSleep, Delay: d})
	}
}

// Size returns the visible size in the orientation selected by MADCTL.
func (p *Panel) Size() (w, h int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	w, h, _, _ = p.view()
	return w, h
}

func (p *Panel) view() (w, h, x0, y0 int) {
	if p.madctl&st7789.MADCTL_MV != 0 {
		return p.height, p.width, p.ystart, p.xstart
	}
	return p.width, p.height, p.xstart, p.ystart
}

// Pixel returns the visible pixel at (x, y).
func (p *Panel) Pixel(x, y int) st7789.Color {
	p.mu.Lock()
	defer p.mu.Unlock()
	w, h, x0, y0 := p.view()
	if x < 0 || y < 0 || x >= w || y >= h {
		return 0
	}
	return p.mem[(y+y0)*p.side+x+x0]
}

// Snapshot copies the visible area into dst row by row and returns its
// size. dst is grown as needed.
func (p *Panel) Snapshot(dst []st7789.Color) ([]st7789.Color, int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	w, h, x0, y0 := p.view()
	if cap(dst) < w*h {
		dst = make([]st7789.Color, w*h)
	}
	dst = dst[:w*h]
	for y := 0; y < h; y++ {
		copy(dst[y*w:(y+1)*w], p.mem[(y+y0)*p.side+x0:])
	}
	return dst, w, h
}

// Image renders the visible area as RGBA.
func (p *Panel) Image() *image.RGBA {
	px, w, h := p.Snapshot(nil)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i, c := range px {
		rgba := c.RGBA()
		j := i * 4
		img.Pix[j+0] = rgba.R
		img.Pix[j+1] = rgba.G
		img.Pix[j+2] = rgba.B
		img.Pix[j+3] = 0xFF
	}
	return img
}

// Awake reports whether SLPOUT was received since the last reset.
func (p *Panel) Awake() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.awake
}

// On reports whether the display output is enabled.
func (p *Panel) On() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.on
}

// MADCTL returns the last orientation byte written.
func (p *Panel) MADCTL() byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.madctl
}

// PixelsWritten counts decoded pixels, including ones outside memory.
func (p *Panel) PixelsWritten() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pixels
}

// Events returns a copy of the recorded transactions.
func (p *Panel) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.events...)
}

// Commands returns the recorded command events only.
func (p *Panel) Commands() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []Event
	for _, e := range p.events {
		if e.Kind == EventCommand {
			out = append(out, e)
		}
	}
	return out
}

// Windows returns every window that was opened with RAMWR.
func (p *Panel) Windows() []Window {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Window(nil), p.windows...)
}

// ClearLog drops recorded events, windows and the pixel counter.
func (p *Panel) ClearLog() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
	p.windows = nil
	p.pixels = 0
}
