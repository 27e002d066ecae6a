//go:build tinygo && baremetal

package hal

import (
	"machine"
	"time"
)

type tinyGoClock struct {
	start time.Time
}

func newTinyGoClock() *tinyGoClock {
	return &tinyGoClock{start: time.Now()}
}

func (c *tinyGoClock) Now() time.Duration    { return time.Since(c.start) }
func (c *tinyGoClock) Sleep(d time.Duration) { time.Sleep(d) }

type byteWriter interface {
	WriteByte(c byte) error
}

type uartLogger struct {
	w byteWriter
}

func (l *uartLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.w.WriteByte(s[i])
	}
	l.w.WriteByte('\r')
	l.w.WriteByte('\n')
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		l.w.WriteByte(b[i])
	}
	l.w.WriteByte('\r')
	l.w.WriteByte('\n')
}

// machinePin is a GPIOPin over a machine.Pin.
type machinePin struct {
	name string
	pin  machine.Pin
	caps GPIOCaps
}

func (p *machinePin) Name() string   { return p.name }
func (p *machinePin) Caps() GPIOCaps { return p.caps }

func (p *machinePin) Configure(mode GPIOMode, pull GPIOPull) error {
	switch mode {
	case GPIOModeOutput:
		if p.caps&GPIOCapOutput == 0 {
			return ErrNotImplemented
		}
		p.pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	case GPIOModeInput:
		m := machine.PinInput
		switch pull {
		case GPIOPullUp:
			m = machine.PinInputPullup
		case GPIOPullDown:
			m = machine.PinInputPulldown
		}
		p.pin.Configure(machine.PinConfig{Mode: m})
	default:
		return ErrNotImplemented
	}
	return nil
}

func (p *machinePin) Read() (bool, error) { return p.pin.Get(), nil }

func (p *machinePin) Write(level bool) error {
	p.pin.Set(level)
	return nil
}
