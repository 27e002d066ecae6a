// Package imusim synthesises plausible accelerometer and gyroscope
// readings for boards without an inertial unit.
package imusim

import (
	"math"
	"math/rand"
	"time"

	"altimeter/internal/tracker"
)

// Period is the minimum spacing between generated samples.
const Period = 50 * time.Millisecond

// Simulator produces a slow drift around 1 g on Z with small noise.
type Simulator struct {
	rng   *rand.Rand
	last  time.Duration
	accel tracker.Vector
	gyro  tracker.Vector
}

// New returns a simulator drawing noise from rng. A nil rng uses a fixed
// seed.
func New(rng *rand.Rand) *Simulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Simulator{rng: rng, last: -Period, accel: tracker.Vector{Z: 1}}
}

// Available is always true.
func (s *Simulator) Available() bool { return true }

// noise returns an integer in [lo, hi) scaled by 1/div.
func (s *Simulator) noise(lo, hi int, div float64) float64 {
	return float64(s.rng.Intn(hi-lo)+lo) / div
}

// Update regenerates the readings if Period has passed since the last
// sample and reports whether it did.
func (s *Simulator) Update(now time.Duration) bool {
	if now-s.last < Period {
		return false
	}
	s.last = now
	t := now.Seconds()

	s.accel = tracker.Vector{
		X: float32(0.05*math.Sin(0.2*t) + 0.02*math.Sin(1.1*t) + s.noise(-5, 5, 1000)),
		Y: float32(0.04*math.Cos(0.15*t) + 0.015*math.Cos(0.9*t) + s.noise(-5, 5, 1000)),
		Z: float32(1 + 0.03*math.Sin(0.3*t) + 0.01*math.Sin(2.1*t) + s.noise(-3, 3, 1000)),
	}
	s.gyro = tracker.Vector{
		X: float32(0.5*math.Sin(0.1*t) + s.noise(-2, 2, 10)),
		Y: float32(0.3*math.Cos(0.12*t) + s.noise(-2, 2, 10)),
		Z: float32(0.2*math.Sin(0.08*t) + s.noise(-1, 1, 10)),
	}
	return true
}

// Acceleration returns the last sample in g.
func (s *Simulator) Acceleration() tracker.Vector { return s.accel }

// Rotation returns the last sample in degrees per second.
func (s *Simulator) Rotation() tracker.Vector { return s.gyro }
