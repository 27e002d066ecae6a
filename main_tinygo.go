//go:build tinygo && baremetal

package main

import (
	"context"

	"altimeter/app"
	"altimeter/hal"
)

// Overridable with -ldflags "-X main.calibration=zero_at_boot".
var (
	calibration = "sea_level_standard"
	panel       = "128x128"
	imu         = "simulated"
)

func main() {
	h := hal.New()
	log := h.Logger()

	cfg := app.DefaultConfig()
	for _, f := range []struct {
		name, value string
		set         func(string) error
	}{
		{"calibration", calibration, cfg.Calibration.Set},
		{"panel", panel, cfg.Panel.Set},
		{"imu", imu, cfg.IMUSource.Set},
	} {
		if err := f.set(f.value); err != nil {
			log.WriteLineString("config: " + f.name + ": " + err.Error())
		}
	}

	a, err := app.New(h, cfg)
	if err != nil {
		log.WriteLineString("boot: " + err.Error())
		select {}
	}
	if err := a.Run(context.Background()); err != nil {
		log.WriteLineString("halt: " + err.Error())
	}
	select {}
}
