//go:build !tinygo

package hal

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// simBarometer integrates a climb rate into an altitude and reports the
// standard-atmosphere pressure for it.
type simBarometer struct {
	mu        sync.Mutex
	clock     Clock
	available bool
	rng       *rand.Rand

	altitude float64 // m
	climb    float64 // m/s
	last     time.Duration
}

func newSimBarometer(clock Clock, available bool, altitude float64, rng *rand.Rand) *simBarometer {
	return &simBarometer{
		clock:     clock,
		available: available,
		rng:       rng,
		altitude:  altitude,
		last:      clock.Now(),
	}
}

func (b *simBarometer) Available() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.available
}

func (b *simBarometer) setAvailable(ok bool) {
	b.mu.Lock()
	b.available = ok
	b.mu.Unlock()
}

// setClimb sets the vertical speed in m/s.
func (b *simBarometer) setClimb(v float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.advance()
	b.climb = v
}

func (b *simBarometer) advance() {
	now := b.clock.Now()
	b.altitude += b.climb * (now - b.last).Seconds()
	b.last = now
}

func (b *simBarometer) Read() (BaroReading, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.available {
		return BaroReading{}, ErrNotImplemented
	}
	b.advance()
	p := 101325 * math.Pow(1-b.altitude/44330, 1/0.1903)
	p += b.rng.Float64() - 0.5
	return BaroReading{
		Temperature: float32(15 - 0.0065*b.altitude),
		Pressure:    float32(p),
	}, nil
}

// simBattery discharges linearly from full to empty over a few hours.
type simBattery struct {
	clock Clock
	start time.Duration
}

const (
	simBatteryFull  = 4150_000
	simBatteryEmpty = 3450_000
	simBatteryLife  = 3 * time.Hour
)

func newSimBattery(clock Clock) *simBattery {
	return &simBattery{clock: clock, start: clock.Now()}
}

func (b *simBattery) Microvolts() (uint32, error) {
	used := float64(b.clock.Now()-b.start) / float64(simBatteryLife)
	if used > 1 {
		used = 1
	}
	return uint32(simBatteryFull - used*(simBatteryFull-simBatteryEmpty)), nil
}
