// Package input turns raw active-low button levels into debounced press
// events.
package input

import (
	"time"
)

// DefaultDebounce is the lockout shared by all buttons after an accepted
// press.
const DefaultDebounce = 200 * time.Millisecond

// Button identifies one of the front-panel buttons.
type Button uint8

const (
	ButtonA Button = iota
	ButtonB
	ButtonC

	numButtons
)

func (b Button) String() string {
	switch b {
	case ButtonA:
		return "A"
	case ButtonB:
		return "B"
	case ButtonC:
		return "C"
	default:
		return "?"
	}
}

// Debouncer accepts a press on the released-to-pressed edge, and only when
// the previous accepted press on any button is more than the window ago.
// A press rejected by the window is dropped, not deferred.
type Debouncer struct {
	window   time.Duration
	last     time.Duration
	accepted bool
	prev     [numButtons]bool
}

func NewDebouncer(window time.Duration) *Debouncer {
	if window <= 0 {
		window = DefaultDebounce
	}
	return &Debouncer{window: window}
}

// Sample feeds the pressed state of b at now and reports whether it
// produced a press event.
func (d *Debouncer) Sample(b Button, pressed bool, now time.Duration) bool {
	if b >= numButtons {
		return false
	}
	edge := pressed && !d.prev[b]
	d.prev[b] = pressed
	if !edge {
		return false
	}
	if d.accepted && now-d.last <= d.window {
		return false
	}
	d.last = now
	d.accepted = true
	return true
}

// Pin is a raw digital input such as hal.GPIOPin.
type Pin interface {
	Read() (level bool, err error)
}

// Panel polls a set of active-low button pins.
type Panel struct {
	pins [numButtons]Pin
	deb  *Debouncer
}

// NewPanel wires pins a, b and c. Nil pins never report presses.
func NewPanel(a, b, c Pin, deb *Debouncer) *Panel {
	if deb == nil {
		deb = NewDebouncer(DefaultDebounce)
	}
	return &Panel{pins: [numButtons]Pin{a, b, c}, deb: deb}
}

// Poll samples every pin once and appends accepted presses to dst. A pin
// read error counts as released.
func (p *Panel) Poll(dst []Button, now time.Duration) []Button {
	for i, pin := range p.pins {
		pressed := false
		if pin != nil {
			level, err := pin.Read()
			pressed = err == nil && !level
		}
		if p.deb.Sample(Button(i), pressed, now) {
			dst = append(dst, Button(i))
		}
	}
	return dst
}
