// Package statusled drives the RGB status pixel: a slow breathing pulse
// tinted by sensor health, interrupted by short acknowledgement flashes.
package statusled

import (
	"time"
)

const (
	// Tick is how often the breathing brightness advances.
	Tick = 20 * time.Millisecond
	// Step is the brightness change per tick.
	Step = 5
	// DefaultFloor is the dimmest point of the breathing cycle.
	DefaultFloor = 50
	// FlashDuration is how long an acknowledgement flash is held.
	FlashDuration = 100 * time.Millisecond
)

// LED is a single RGB pixel.
type LED interface {
	SetRGB(r, g, b uint8)
}

// RGB is a packed status colour.
type RGB struct{ R, G, B uint8 }

var (
	Yellow = RGB{255, 255, 0}
	Orange = RGB{255, 100, 0}
	Blue   = RGB{0, 100, 255}
	Green  = RGB{0, 255, 0}
	Red    = RGB{255, 0, 0}
	Cyan   = RGB{0, 255, 255}
	Off    = RGB{}
)

// BootColor is shown once the sensors have been probed.
func BootColor(pressureOK, imuOK bool) RGB {
	switch {
	case pressureOK && imuOK:
		return Cyan
	case pressureOK:
		return Green
	default:
		return Orange
	}
}

// Tint scales the health colour to brightness b.
func Tint(b uint8, pressureOK, imuOK bool) RGB {
	switch {
	case pressureOK && imuOK:
		return RGB{0, b, b}
	case pressureOK:
		return RGB{0, b, 0}
	default:
		return RGB{b, 0, 0}
	}
}

// Breather owns the LED outside of boot.
type Breather struct {
	led   LED
	floor uint8

	level int
	dir   int
	last  time.Duration

	flashing   bool
	flashUntil time.Duration
}

// NewBreather returns a breather starting fully dark and rising.
func NewBreather(led LED, floor uint8) *Breather {
	return &Breather{led: led, floor: floor, dir: 1}
}

// Brightness reports the current breathing level.
func (b *Breather) Brightness() uint8 { return uint8(b.level) }

// Flashing reports whether a flash is holding the LED.
func (b *Breather) Flashing() bool { return b.flashing }

// Set shows c immediately, outside the breathing cycle.
func (b *Breather) Set(c RGB) {
	if b.led != nil {
		b.led.SetRGB(c.R, c.G, c.B)
	}
}

// Flash holds c for FlashDuration. Breathing resumes on the first Update
// after it expires.
func (b *Breather) Flash(c RGB, now time.Duration) {
	b.Set(c)
	b.flashing = true
	b.flashUntil = now + FlashDuration
}

// Update advances the pulse if a tick has elapsed and reports whether the
// LED was written.
func (b *Breather) Update(now time.Duration, pressureOK, imuOK bool) bool {
	if b.flashing {
		if now < b.flashUntil {
			return false
		}
		b.flashing = false
	}
	if now-b.last < Tick {
		return false
	}
	b.last = now

	b.level += b.dir * Step
	if b.level >= 255 {
		b.level = 255
		b.dir = -1
	} else if b.level <= int(b.floor) {
		b.level = int(b.floor)
		b.dir = 1
	}
	b.Set(Tint(uint8(b.level), pressureOK, imuOK))
	return true
}
