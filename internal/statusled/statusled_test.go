package statusled

import (
	"testing"
	"time"
)

type recLED struct {
	writes []RGB
}

func (l *recLED) SetRGB(r, g, b uint8) { l.writes = append(l.writes, RGB{r, g, b}) }

func (l *recLED) last() RGB { return l.writes[len(l.writes)-1] }

func TestBreatherRange(t *testing.T) {
	led := &recLED{}
	b := NewBreather(led, DefaultFloor)
	sawTop, sawFloor := false, false
	for now := Tick; now < 10*time.Second; now += Tick {
		b.Update(now, true, true)
		lvl := b.Brightness()
		if lvl == 255 {
			sawTop = true
		}
		if sawTop && lvl < DefaultFloor {
			t.Fatalf("brightness %d fell below floor", lvl)
		}
		if sawTop && lvl == DefaultFloor {
			sawFloor = true
		}
	}
	if !sawTop || !sawFloor {
		t.Fatalf("sawTop=%v sawFloor=%v, want both", sawTop, sawFloor)
	}
}

func TestBreatherTickGate(t *testing.T) {
	led := &recLED{}
	b := NewBreather(led, DefaultFloor)
	if !b.Update(Tick, false, false) {
		t.Fatal("Update at first tick did not write")
	}
	if b.Update(Tick+10*time.Millisecond, false, false) {
		t.Fatal("Update inside tick wrote")
	}
	if got := b.Brightness(); got != Step {
		t.Fatalf("Brightness() = %d, want %d", got, Step)
	}
}

func TestTint(t *testing.T) {
	tests := []struct {
		p, i bool
		want RGB
	}{
		{true, true, RGB{0, 100, 100}},
		{true, false, RGB{0, 100, 0}},
		{false, true, RGB{100, 0, 0}},
		{false, false, RGB{100, 0, 0}},
	}
	for _, tt := range tests {
		if got := Tint(100, tt.p, tt.i); got != tt.want {
			t.Fatalf("Tint(100, %v, %v) = %v, want %v", tt.p, tt.i, got, tt.want)
		}
	}
}

func TestBootColor(t *testing.T) {
	if got := BootColor(true, true); got != Cyan {
		t.Fatalf("BootColor(true, true) = %v, want cyan", got)
	}
	if got := BootColor(true, false); got != Green {
		t.Fatalf("BootColor(true, false) = %v, want green", got)
	}
	if got := BootColor(false, true); got != Orange {
		t.Fatalf("BootColor(false, true) = %v, want orange", got)
	}
}

func TestFlashHoldsThenResumes(t *testing.T) {
	led := &recLED{}
	b := NewBreather(led, DefaultFloor)
	b.Flash(Blue, time.Second)
	if led.last() != Blue {
		t.Fatalf("LED = %v, want blue", led.last())
	}
	if b.Update(time.Second+50*time.Millisecond, true, true) {
		t.Fatal("Update during flash wrote")
	}
	if !b.Flashing() {
		t.Fatal("Flashing() = false during flash")
	}
	if !b.Update(time.Second+FlashDuration, true, true) {
		t.Fatal("Update after flash did not write")
	}
	if b.Flashing() {
		t.Fatal("Flashing() = true after expiry")
	}
}
