//go:build !tinygo

package dashboard

import (
	"github.com/prometheus/client_golang/prometheus"

	"altimeter/app"
)

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func (s *Server) registerMetrics() {
	gauge := func(name, help string, labels prometheus.Labels, fn func(app.Snapshot) float64) {
		s.reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   "altimeter",
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		}, func() float64 { return fn(s.src.Snapshot()) }))
	}

	gauge("altitude_meters", "Current altitude.", nil,
		func(v app.Snapshot) float64 { return v.Altitude })
	gauge("max_altitude_meters", "Maximum altitude since the last reset.", nil,
		func(v app.Snapshot) float64 { return v.MaxAltitude })
	gauge("temperature_celsius", "Barometer temperature.", nil,
		func(v app.Snapshot) float64 { return v.Temperature })
	gauge("pressure_hpa", "Barometric pressure.", nil,
		func(v app.Snapshot) float64 { return v.Pressure })
	gauge("max_acceleration_g", "Largest single-axis acceleration since the last reset.", nil,
		func(v app.Snapshot) float64 { return v.MaxAcceleration })
	gauge("battery_percent", "Estimated battery charge, -1 when unknown.", nil,
		func(v app.Snapshot) float64 { return float64(v.BatteryPercent) })
	gauge("uptime_seconds", "Time since boot.", nil,
		func(v app.Snapshot) float64 { return float64(v.Uptime) / 1000 })
	gauge("flight_log_lines", "Records in the flight log.", nil,
		func(v app.Snapshot) float64 { return float64(v.LogLines) })
	gauge("display_enabled", "1 while the panel is on.", nil,
		func(v app.Snapshot) float64 { return boolGauge(v.DisplayEnabled) })
	gauge("sensor_up", "1 while the sensor is answering.", prometheus.Labels{"sensor": "baro"},
		func(v app.Snapshot) float64 { return boolGauge(v.BMPStatus) })
	gauge("sensor_up", "1 while the sensor is answering.", prometheus.Labels{"sensor": "imu"},
		func(v app.Snapshot) float64 { return boolGauge(v.IMUStatus) })
}
