package app

import (
	"errors"
	"flag"
	"testing"

	"altimeter/internal/tracker"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Config)
	}{
		{"modes", func(c *Config) { c.Modes = 6 }},
		{"led floor", func(c *Config) { c.LEDFloor = 10 }},
		{"log interval", func(c *Config) { c.LogInterval = -1 }},
		{"log path", func(c *Config) { c.LogPath = "flight.csv" }},
		{"sea level", func(c *Config) { c.SeaLevelPa = 0 }},
		{"boot samples", func(c *Config) { c.BootSamples = 0 }},
		{"calibration", func(c *Config) { c.Calibration = 7 }},
		{"panel", func(c *Config) { c.Panel = 9 }},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.edit(&cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("%s: Validate() = %v, want ErrInvalidConfig", tt.name, err)
		}
	}

	cfg := DefaultConfig()
	cfg.Modes = 4
	cfg.LEDFloor = 0
	cfg.LogInterval = 0
	cfg.LogPath = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v for the four-mode variant", err)
	}
}

func TestFlagValues(t *testing.T) {
	cfg := DefaultConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.Var(&cfg.Calibration, "calibration", "")
	fs.Var(&cfg.Panel, "panel", "")
	fs.Var(&cfg.IMUSource, "imu", "")

	err := fs.Parse([]string{"-calibration", "zero_at_boot", "-panel", "240x320", "-imu", "real"})
	if err != nil {
		t.Fatalf("Parse() = %v", err)
	}
	if cfg.Calibration != tracker.ZeroAtBoot {
		t.Fatalf("Calibration = %v, want zero_at_boot", cfg.Calibration)
	}
	if pc := cfg.Panel.Config(); cfg.Panel != Panel240x320 || pc.Width != 240 || pc.Height != 320 {
		t.Fatalf("Panel = %v, want 240x320", cfg.Panel)
	}
	if cfg.IMUSource != IMUReal {
		t.Fatalf("IMUSource = %v, want real", cfg.IMUSource)
	}

	var p PanelSize
	if err := p.Set("100x100"); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Set(100x100) = %v, want ErrInvalidConfig", err)
	}
	var s IMUSource
	if err := s.Set("magic"); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Set(magic) = %v, want ErrInvalidConfig", err)
	}
}
