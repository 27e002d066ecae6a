// Package view selects what the panel shows: the current display mode, when
// to repaint, and how each mode lays out the tracker state.
package view

import (
	"time"

	"altimeter/internal/render"
	"altimeter/internal/st7789"
	"altimeter/internal/tracker"
)

// Mode is one screen of the display cycle.
type Mode uint8

const (
	Overview Mode = iota
	AltitudeDetail
	Environmental
	IMUDetail
	GyroDetail

	// MaxModes is the number of defined modes.
	MaxModes = int(GyroDetail) + 1
)

func (m Mode) String() string {
	switch m {
	case Overview:
		return "overview"
	case AltitudeDetail:
		return "altitude"
	case Environmental:
		return "environment"
	case IMUDetail:
		return "imu"
	case GyroDetail:
		return "gyro"
	default:
		return "unknown"
	}
}

// Title is the short header text for the mode.
func (m Mode) Title() string {
	switch m {
	case Environmental:
		return "ENV"
	case IMUDetail:
		return "IMU"
	case GyroDetail:
		return "GYR"
	default:
		return "ALT"
	}
}

// DefaultInterval is the periodic repaint interval of the data area.
const DefaultInterval = 500 * time.Millisecond

// Panel is the subset of *st7789.Device used to draw.
type Panel interface {
	render.Surface
	FillScreen(c st7789.Color)
	DrawRect(x, y, w, h int16, c st7789.Color)
}

// Wiring labels the I²C pins in the "not found" diagnostics.
type Wiring struct {
	SDA, SCL int
}

// Config parameterises a Machine.
type Config struct {
	// Modes is how many modes NextMode cycles through, starting at
	// Overview. Values outside 1..MaxModes select MaxModes-1, the four
	// classic screens.
	Modes    int
	Interval time.Duration
	Wiring   Wiring
}

// Machine is the display mode state machine. It is not safe for
// concurrent use.
type Machine struct {
	panel Panel
	small *render.Renderer
	big   *render.Renderer

	modes    int
	interval time.Duration
	wiring   Wiring

	mode    Mode
	dirty   bool
	drawn   bool
	last    time.Duration
	battery int
}

func New(p Panel, cfg Config) *Machine {
	if cfg.Modes < 1 || cfg.Modes > MaxModes {
		cfg.Modes = MaxModes - 1
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	return &Machine{
		panel:    p,
		small:    render.New(p, 1),
		big:      render.New(p, 2),
		modes:    cfg.Modes,
		interval: cfg.Interval,
		wiring:   cfg.Wiring,
		dirty:    true,
		battery:  -1,
	}
}

func (m *Machine) Mode() Mode { return m.mode }

// Modes is the length of the mode cycle.
func (m *Machine) Modes() int { return m.modes }

// NextMode advances the cycle and requests a full repaint.
func (m *Machine) NextMode() Mode {
	m.mode = Mode((int(m.mode) + 1) % m.modes)
	m.dirty = true
	return m.mode
}

// ForceRefresh requests a full repaint on the next Update.
func (m *Machine) ForceRefresh() { m.dirty = true }

func (m *Machine) NeedsFullRefresh() bool { return m.dirty }

// Update repaints if a full refresh is pending or the interval has elapsed
// since the last paint, and reports whether it drew anything.
func (m *Machine) Update(s tracker.State, now time.Duration) bool {
	if !m.dirty && m.drawn && now-m.last < m.interval {
		return false
	}
	if m.dirty {
		m.panel.FillScreen(st7789.Black)
		m.drawHeader(s.BatteryPercent)
		m.dirty = false
	} else if s.BatteryPercent >= 0 && clampPercent(s.BatteryPercent) != m.battery {
		m.drawBattery(s.BatteryPercent)
	}
	m.drawData(s)
	m.drawn = true
	m.last = now
	return true
}
