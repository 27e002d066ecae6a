package hal

import (
	"errors"
	"time"

	"tinygo.org/x/tinyfs"

	"altimeter/internal/st7789"
	"altimeter/internal/tracker"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// StatusLED is the single RGB status pixel.
type StatusLED interface {
	SetRGB(r, g, b uint8)
}

var ErrNotImplemented = errors.New("not implemented")

// Clock is the monotonic time since boot.
type Clock interface {
	Now() time.Duration
	Sleep(d time.Duration)
}

// Display is the panel wiring: a command/data bus and the panel geometry.
type Display interface {
	Bus() st7789.Bus
	Config() st7789.Config
}

// BaroReading is one barometer sample.
type BaroReading struct {
	Temperature float32 // °C
	Pressure    float32 // Pa
}

// Barometer is a pressure/temperature sensor.
type Barometer interface {
	// Available reports whether the sensor answered its probe.
	Available() bool
	Read() (BaroReading, error)
}

// IMU is a 6-axis inertial unit polled from the control loop.
type IMU interface {
	Available() bool
	// Update samples the sensor if its own rate allows and reports whether
	// new values are available.
	Update(now time.Duration) bool
	Acceleration() tracker.Vector // g
	Rotation() tracker.Vector     // °/s
}

// Battery measures the cell voltage.
type Battery interface {
	Microvolts() (uint32, error)
}

// Board describes fixed wiring shown in diagnostics.
type Board struct {
	Name     string
	SDA, SCL int
}

// Pin names resolved through GPIO.
const (
	PinButtonA   = "BTN_A"
	PinButtonB   = "BTN_B"
	PinButtonC   = "BTN_C"
	PinBacklight = "BACKLIGHT"
)

// HAL provides the only contact point between the firmware and the outside
// world. Optional devices return nil when the board has none.
type HAL interface {
	Logger() Logger
	Clock() Clock
	LED() StatusLED
	GPIO() GPIO
	Display() Display
	Barometer() Barometer
	IMU() IMU
	Battery() Battery
	Storage() tinyfs.BlockDevice
	Board() Board
}
