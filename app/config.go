package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"altimeter/internal/flightlog"
	"altimeter/internal/st7789"
	"altimeter/internal/statusled"
	"altimeter/internal/tracker"
	"altimeter/internal/view"
)

var ErrInvalidConfig = errors.New("invalid config")

// PanelSize selects one of the supported panel geometries.
type PanelSize uint8

const (
	Panel128x128 PanelSize = iota
	Panel240x320
)

func (p PanelSize) String() string {
	if p == Panel240x320 {
		return "240x320"
	}
	return "128x128"
}

// Set implements flag.Value.
func (p *PanelSize) Set(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "128x128", "128":
		*p = Panel128x128
	case "240x320", "320x240", "240":
		*p = Panel240x320
	default:
		return fmt.Errorf("%w: panel %q", ErrInvalidConfig, s)
	}
	return nil
}

// Config returns the driver preset for p.
func (p PanelSize) Config() st7789.Config {
	if p == Panel240x320 {
		return st7789.Panel240x320
	}
	return st7789.Panel128x128
}

// IMUSource selects where inertial readings come from.
type IMUSource uint8

const (
	// IMUReal uses the board's inertial unit. Views show IMU NOT FOUND
	// when it does not answer.
	IMUReal IMUSource = iota
	// IMUSimulated uses the synthetic motion generator.
	IMUSimulated
)

func (s IMUSource) String() string {
	if s == IMUSimulated {
		return "simulated"
	}
	return "real"
}

// Set implements flag.Value.
func (s *IMUSource) Set(v string) error {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "real", "hw", "hardware":
		*s = IMUReal
	case "simulated", "sim":
		*s = IMUSimulated
	default:
		return fmt.Errorf("%w: imu source %q", ErrInvalidConfig, v)
	}
	return nil
}

// Config is the firmware configuration.
type Config struct {
	Calibration tracker.Policy
	Panel       PanelSize
	IMUSource   IMUSource

	// Modes is the length of the display mode cycle, 4 or 5.
	Modes int
	// LEDFloor is the lowest breathing level, 50 or 0.
	LEDFloor uint8

	// LogInterval is the flight log period; 0 disables logging.
	LogInterval time.Duration
	// LogPath is the CSV file on the storage volume.
	LogPath string

	// SeaLevelPa is the pressure reference for sea_level_standard.
	SeaLevelPa float32
	// BootSamples is how many pressure readings are averaged under
	// zero_at_boot.
	BootSamples int

	// StatusInterval is the period of the status log line; 0 disables it.
	StatusInterval time.Duration
}

// DefaultConfig matches the shipped firmware.
func DefaultConfig() Config {
	return Config{
		Calibration:    tracker.SeaLevelStandard,
		Panel:          Panel128x128,
		IMUSource:      IMUSimulated,
		Modes:          view.MaxModes,
		LEDFloor:       statusled.DefaultFloor,
		LogInterval:    time.Second,
		LogPath:        flightlog.DefaultPath,
		SeaLevelPa:     tracker.StandardSeaLevelPa,
		BootSamples:    8,
		StatusInterval: 5 * time.Second,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.Calibration != tracker.SeaLevelStandard && c.Calibration != tracker.ZeroAtBoot:
		return fmt.Errorf("%w: calibration %d", ErrInvalidConfig, c.Calibration)
	case c.Panel > Panel240x320:
		return fmt.Errorf("%w: panel %d", ErrInvalidConfig, c.Panel)
	case c.IMUSource > IMUSimulated:
		return fmt.Errorf("%w: imu source %d", ErrInvalidConfig, c.IMUSource)
	case c.Modes != view.MaxModes-1 && c.Modes != view.MaxModes:
		return fmt.Errorf("%w: modes %d, want %d or %d", ErrInvalidConfig, c.Modes, view.MaxModes-1, view.MaxModes)
	case c.LEDFloor != 0 && c.LEDFloor != statusled.DefaultFloor:
		return fmt.Errorf("%w: led floor %d, want 0 or %d", ErrInvalidConfig, c.LEDFloor, statusled.DefaultFloor)
	case c.LogInterval < 0:
		return fmt.Errorf("%w: negative log interval", ErrInvalidConfig)
	case c.LogInterval > 0 && !strings.HasPrefix(c.LogPath, "/"):
		return fmt.Errorf("%w: log path %q must be absolute", ErrInvalidConfig, c.LogPath)
	case c.SeaLevelPa < 30000 || c.SeaLevelPa > 110000:
		return fmt.Errorf("%w: sea level %.0f Pa", ErrInvalidConfig, c.SeaLevelPa)
	case c.BootSamples < 1:
		return fmt.Errorf("%w: boot samples %d", ErrInvalidConfig, c.BootSamples)
	}
	return nil
}
