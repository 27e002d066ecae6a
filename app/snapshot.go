package app

import (
	"math"
	"runtime"
	"time"
)

// Snapshot is the published state read by the dashboard. Altitudes are in
// metres, pressure in hPa, uptime in milliseconds. FreeHeap is the heap
// memory the runtime holds but no object uses (idle minus released), in
// bytes, sampled every StatusInterval.
type Snapshot struct {
	Altitude       float64 `json:"altitude"`
	MaxAltitude    float64 `json:"max_altitude"`
	Temperature    float64 `json:"temperature"`
	Pressure       float64 `json:"pressure"`
	BMPStatus      bool    `json:"bmp_status"`
	IMUStatus      bool    `json:"imu_status"`
	DisplayEnabled bool    `json:"display_enabled"`
	Uptime         int64   `json:"uptime"`
	FreeHeap       uint64  `json:"free_heap"`

	Mode                string     `json:"mode"`
	MaxAcceleration     float64    `json:"max_acceleration"`
	MaxAccelerationAxis string     `json:"max_acceleration_axis"`
	Accel               [3]float64 `json:"accel"`
	Gyro                [3]float64 `json:"gyro"`
	BatteryPercent      int        `json:"battery_percent"`
	BatteryVoltage      float64    `json:"battery_voltage"`
	LogLines            int        `json:"log_lines"`
}

// Snapshot returns the state published by the last sensor update or
// command.
func (a *Altimeter) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snap
}

func (a *Altimeter) publish(now time.Duration) {
	s := a.tracker.State()

	snap := Snapshot{
		Altitude:            round(s.Altitude, 2),
		MaxAltitude:         round(s.MaxAltitude, 2),
		Temperature:         round(s.Temperature, 2),
		Pressure:            round(s.Pressure/100, 2),
		BMPStatus:           s.PressureOK,
		IMUStatus:           s.IMUOK,
		DisplayEnabled:      a.displayOn,
		Uptime:              now.Milliseconds(),
		FreeHeap:            a.freeHeap,
		MaxAcceleration:     round(s.MaxAcceleration, 3),
		MaxAccelerationAxis: s.MaxAccelerationAxis.String(),
		Accel:               [3]float64{round(s.Accel.X, 3), round(s.Accel.Y, 3), round(s.Accel.Z, 3)},
		Gyro:                [3]float64{round(s.Gyro.X, 2), round(s.Gyro.Y, 2), round(s.Gyro.Z, 2)},
		BatteryPercent:      s.BatteryPercent,
		BatteryVoltage:      round(s.BatteryVoltage, 2),
	}
	if a.view != nil {
		snap.Mode = a.view.Mode().String()
	}
	if fl := a.flight.Load(); fl != nil {
		snap.LogLines = fl.Lines()
	}

	a.mu.Lock()
	a.snap = snap
	a.mu.Unlock()
}

// sampleHeap reads the memory statistics. ReadMemStats stops the world, so
// it runs on the status interval rather than on every publish.
func (a *Altimeter) sampleHeap(now time.Duration) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	a.freeHeap = ms.HeapIdle - ms.HeapReleased
	a.lastHeap = now
}

func round(v float32, places int) float64 {
	p := math.Pow10(places)
	return math.Round(float64(v)*p) / p
}
