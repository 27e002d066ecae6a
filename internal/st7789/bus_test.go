package st7789_test

import (
	"errors"
	"strings"
	"testing"

	"altimeter/internal/st7789"
)

type traceSPI struct {
	trace *strings.Builder
	err   error
}

func (s traceSPI) Tx(w, r []byte) error {
	for _, b := range w {
		s.trace.WriteString(" ")
		s.trace.WriteString(hex(b))
	}
	return s.err
}

func (s traceSPI) Transfer(b byte) (byte, error) {
	s.trace.WriteString(" " + hex(b))
	return 0, s.err
}

type tracePin struct {
	name  string
	trace *strings.Builder
}

func (p tracePin) High() { p.trace.WriteString(" " + p.name + "+") }
func (p tracePin) Low()  { p.trace.WriteString(" " + p.name + "-") }

func hex(b byte) string {
	const digits = "0123456789abcdef"
	return string([]byte{digits[b>>4], digits[b&0xF]})
}

func TestSPIBusFraming(t *testing.T) {
	var tr strings.Builder
	bus := st7789.NewSPIBus(traceSPI{trace: &tr}, tracePin{"cs", &tr}, tracePin{"dc", &tr}, tracePin{"rst", &tr})
	if got, want := tr.String(), " cs+ dc+ rst+"; got != want {
		t.Fatalf("idle = %q, want %q", got, want)
	}

	tr.Reset()
	bus.Command(st7789.MADCTL, 0x08)
	if got, want := tr.String(), " cs- dc- 36 dc+ 08 cs+"; got != want {
		t.Fatalf("Command = %q, want %q", got, want)
	}

	tr.Reset()
	bus.Command(st7789.RAMWR)
	if got, want := tr.String(), " cs- dc- 2c cs+"; got != want {
		t.Fatalf("bare Command = %q, want %q", got, want)
	}

	tr.Reset()
	bus.Write([]byte{0xF8, 0x00})
	if got, want := tr.String(), " cs- dc+ f8 00 cs+"; got != want {
		t.Fatalf("Write = %q, want %q", got, want)
	}

	tr.Reset()
	bus.Reset(false)
	bus.Reset(true)
	if got, want := tr.String(), " rst- rst+"; got != want {
		t.Fatalf("Reset = %q, want %q", got, want)
	}
}

func TestSPIBusOptionalPinsAndErr(t *testing.T) {
	var tr strings.Builder
	errBus := errors.New("bus fault")
	bus := st7789.NewSPIBus(traceSPI{trace: &tr, err: errBus}, nil, tracePin{"dc", &tr}, nil)
	bus.Reset(false)
	bus.Command(st7789.SLPOUT)
	if got, want := tr.String(), " dc+ dc- 11"; got != want {
		t.Fatalf("trace = %q, want %q", got, want)
	}
	if !errors.Is(bus.Err(), errBus) {
		t.Fatalf("Err() = %v, want %v", bus.Err(), errBus)
	}
}
