// Package tracker folds sensor frames into the altimeter state: current
// readings, running maxima and sensor availability.
package tracker

import "math"

// Axis names the accelerometer axis that produced the maximum reading.
type Axis uint8

const (
	AxisNone Axis = iota
	AxisX
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	default:
		return "-"
	}
}

// Vector is a 3-axis reading.
type Vector struct {
	X, Y, Z float32
}

// Magnitude is the Euclidean norm.
func (v Vector) Magnitude() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}

// Frame is one sensor update.
type Frame struct {
	Temperature float32 // °C
	Pressure    float32 // Pa
	Altitude    float32 // m
	Accel       Vector  // g
	Gyro        Vector  // °/s

	BatteryVoltage float32
	BatteryPercent int

	// Fields of an unavailable sensor are ignored by Ingest.
	PressureOK bool
	IMUOK      bool
}

// State is the folded view of every frame since boot.
type State struct {
	Altitude    float32
	MaxAltitude float32
	Temperature float32
	Pressure    float32

	Accel          Vector
	Gyro           Vector
	AccelMagnitude float32

	// MaxAcceleration is the largest single-axis |a| since the last reset.
	MaxAcceleration     float32
	MaxAccelerationAxis Axis

	BatteryVoltage float32
	BatteryPercent int

	PressureOK bool
	IMUOK      bool

	Frames uint32
}

// Tracker owns a State. It is not safe for concurrent use.
type Tracker struct {
	s State
}

func New() *Tracker {
	return &Tracker{}
}

// State returns a copy of the current state.
func (t *Tracker) State() State { return t.s }

// Ingest folds f into the state. The maximum altitude starts at zero and
// only rises.
func (t *Tracker) Ingest(f Frame) {
	t.s.Frames++
	t.s.BatteryVoltage = f.BatteryVoltage
	t.s.BatteryPercent = f.BatteryPercent

	if f.PressureOK {
		t.s.Temperature = f.Temperature
		t.s.Pressure = f.Pressure
		t.s.Altitude = f.Altitude
		if f.Altitude > t.s.MaxAltitude {
			t.s.MaxAltitude = f.Altitude
		}
	}

	if f.IMUOK {
		t.s.Accel = f.Accel
		t.s.Gyro = f.Gyro
		t.s.AccelMagnitude = f.Accel.Magnitude()

		// Strict comparisons: on equal values the earlier axis wins.
		if v := abs(f.Accel.X); v > t.s.MaxAcceleration {
			t.s.MaxAcceleration, t.s.MaxAccelerationAxis = v, AxisX
		}
		if v := abs(f.Accel.Y); v > t.s.MaxAcceleration {
			t.s.MaxAcceleration, t.s.MaxAccelerationAxis = v, AxisY
		}
		if v := abs(f.Accel.Z); v > t.s.MaxAcceleration {
			t.s.MaxAcceleration, t.s.MaxAccelerationAxis = v, AxisZ
		}
	}
}

// ResetMaxAltitude re-baselines the maximum to the current altitude.
func (t *Tracker) ResetMaxAltitude() {
	t.s.MaxAltitude = t.s.Altitude
}

// Rebase sets the current altitude to alt and the maximum with it. It is
// used after the altitude reference moves.
func (t *Tracker) Rebase(alt float32) {
	t.s.Altitude = alt
	t.ResetMaxAltitude()
}

// ResetMaxAcceleration clears the acceleration maximum.
func (t *Tracker) ResetMaxAcceleration() {
	t.s.MaxAcceleration = 0
	t.s.MaxAccelerationAxis = AxisNone
}

// SetSensorStatus records availability and reports whether it changed. A
// change means every view must be redrawn from scratch.
func (t *Tracker) SetSensorStatus(pressureOK, imuOK bool) bool {
	changed := t.s.PressureOK != pressureOK || t.s.IMUOK != imuOK
	t.s.PressureOK = pressureOK
	t.s.IMUOK = imuOK
	return changed
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
