//go:build !tinygo

package hal

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"altimeter/internal/st7789"
)

func TestRunHeadlessTicks(t *testing.T) {
	calls := 0
	var last time.Duration
	err := RunHeadless(context.Background(), func(h HAL) func() error {
		return func() error {
			calls++
			last = h.Clock().Now()
			return nil
		}
	}, HeadlessConfig{Hz: 1000, Ticks: 5})
	if err != nil {
		t.Fatalf("RunHeadless() = %v", err)
	}
	if calls != 5 {
		t.Fatalf("steps = %d, want 5", calls)
	}
	if last != 50*time.Millisecond {
		t.Fatalf("virtual time = %v, want 50ms", last)
	}
}

func TestRunHeadlessStepError(t *testing.T) {
	boom := errors.New("boom")
	err := RunHeadless(context.Background(), func(h HAL) func() error {
		return func() error { return boom }
	}, HeadlessConfig{Hz: 1000})
	if !errors.Is(err, boom) {
		t.Fatalf("RunHeadless() = %v, want boom", err)
	}
}

func TestHostButtons(t *testing.T) {
	h := NewHost(HostOptions{Virtual: true})
	p := FindPin(h.GPIO(), PinButtonB)
	if p == nil {
		t.Fatal("BTN_B missing")
	}
	if err := p.Configure(GPIOModeInput, GPIOPullUp); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	h.Press(PinButtonB, true)
	if level, _ := p.Read(); level {
		t.Fatal("pressed button reads high")
	}
	h.Press(PinButtonB, false)
	if level, _ := p.Read(); !level {
		t.Fatal("released button reads low")
	}
}

func TestHostDefaults(t *testing.T) {
	h := NewHost(HostOptions{Virtual: true})
	if cfg := h.Display().Config(); cfg.Width != st7789.Panel128x128.Width {
		t.Fatalf("panel width = %d, want %d", cfg.Width, st7789.Panel128x128.Width)
	}
	if h.IMU() != nil {
		t.Fatal("simulator IMU() != nil")
	}
	if h.Storage() == nil {
		t.Fatal("Storage() = nil")
	}
	if h.Backlight() {
		t.Fatal("backlight on before the firmware drives it")
	}

	h.Advance(time.Second)
	if got := h.Clock().Now(); got != time.Second {
		t.Fatalf("Now() = %v after Advance, want 1s", got)
	}
}

func TestHostCloseReleasesFlash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.flash")
	var h io.Closer = newHostHAL(HostOptions{Virtual: true, FlashPath: path})
	if err := h.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := h.Close(); !errors.Is(err, os.ErrClosed) {
		t.Fatalf("second Close() error = %v, want os.ErrClosed", err)
	}

	ram := newHostHAL(HostOptions{Virtual: true})
	if err := ram.Close(); err != nil {
		t.Fatalf("Close() without flash file error = %v", err)
	}
}
