//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	// Hz is the wall-clock rate at which the firmware loop is stepped.
	Hz int
	// Ticks stops the runner after that many steps; 0 runs until ctx ends.
	Ticks uint64
	// Step is the virtual time added per tick. Zero means 10ms, one
	// firmware loop period.
	Step time.Duration
	Host HostOptions
}

// RunHeadless runs the firmware on the simulator board without opening a
// window. The board clock is virtual and advances by cfg.Step per tick.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 100
	}
	if cfg.Step <= 0 {
		cfg.Step = 10 * time.Millisecond
	}
	cfg.Host.Virtual = true

	h := newHostHAL(cfg.Host)
	step := newApp(h)

	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}
	t := time.NewTicker(d)
	defer t.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			h.clock.step(cfg.Step)
			if step != nil {
				if err := step(); err != nil {
					return err
				}
			}
			tick++
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				return nil
			}
		}
	}
}
