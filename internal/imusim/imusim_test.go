package imusim

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"altimeter/internal/tracker"
)

func TestInitialReading(t *testing.T) {
	s := New(nil)
	if got := s.Acceleration(); got != (tracker.Vector{Z: 1}) {
		t.Fatalf("Acceleration() = %v, want {0 0 1}", got)
	}
	if got := s.Rotation(); got != (tracker.Vector{}) {
		t.Fatalf("Rotation() = %v, want zero", got)
	}
	if !s.Available() {
		t.Fatal("Available() = false")
	}
}

func TestUpdateRate(t *testing.T) {
	s := New(rand.New(rand.NewSource(7)))
	if !s.Update(0) {
		t.Fatal("first Update skipped")
	}
	if s.Update(49 * time.Millisecond) {
		t.Fatal("Update inside period ran")
	}
	if !s.Update(50 * time.Millisecond) {
		t.Fatal("Update at period skipped")
	}
}

func TestBounds(t *testing.T) {
	s := New(rand.New(rand.NewSource(42)))
	for now := time.Duration(0); now < 120*time.Second; now += Period {
		s.Update(now)
		a, g := s.Acceleration(), s.Rotation()
		if math.Abs(float64(a.X)) > 0.075 || math.Abs(float64(a.Y)) > 0.06 {
			t.Fatalf("lateral accel out of range at %v: %v", now, a)
		}
		if a.Z < 0.955 || a.Z > 1.045 {
			t.Fatalf("vertical accel out of range at %v: %v", now, a)
		}
		if math.Abs(float64(g.X)) > 0.7 || math.Abs(float64(g.Y)) > 0.5 || math.Abs(float64(g.Z)) > 0.3 {
			t.Fatalf("gyro out of range at %v: %v", now, g)
		}
	}
}

func TestDeterministicWithSeed(t *testing.T) {
	a := New(rand.New(rand.NewSource(3)))
	b := New(rand.New(rand.NewSource(3)))
	for now := time.Duration(0); now < time.Second; now += Period {
		a.Update(now)
		b.Update(now)
	}
	if a.Acceleration() != b.Acceleration() || a.Rotation() != b.Rotation() {
		t.Fatal("same seed produced different samples")
	}
}
