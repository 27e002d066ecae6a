package qmi8658

import (
	"errors"
	"testing"
	"time"
)

// fakeBus is a register file behind an auto-incrementing I²C address.
type fakeBus struct {
	regs  [256]byte
	fail  bool
	addrs []uint16
}

func (b *fakeBus) Tx(addr uint16, w, r []byte) error {
	b.addrs = append(b.addrs, addr)
	if b.fail {
		return errors.New("nack")
	}
	if len(w) == 0 {
		return nil
	}
	reg := w[0]
	if len(r) == 0 {
		copy(b.regs[reg:], w[1:])
		return nil
	}
	copy(r, b.regs[reg:])
	return nil
}

func (b *fakeBus) put16(reg byte, v int16) {
	b.regs[reg] = byte(uint16(v))
	b.regs[reg+1] = byte(uint16(v) >> 8)
}

func newBus() *fakeBus {
	b := &fakeBus{}
	b.regs[WHO_AM_I] = chipID
	return b
}

func TestConfigure(t *testing.T) {
	b := newBus()
	d := New(b)
	if err := d.Configure(); err != nil {
		t.Fatalf("Configure() = %v, want nil", err)
	}
	if !d.Available() {
		t.Fatal("Available() = false after Configure")
	}
	want := map[byte]byte{CTRL1: 0x40, CTRL2: 0x16, CTRL3: 0x56, CTRL7: 0x03}
	for reg, v := range want {
		if b.regs[reg] != v {
			t.Fatalf("reg %#02x = %#02x, want %#02x", reg, b.regs[reg], v)
		}
	}
	for _, a := range b.addrs {
		if a != Address {
			t.Fatalf("Tx address = %#x, want %#x", a, Address)
		}
	}
}

func TestConfigureNotConnected(t *testing.T) {
	b := &fakeBus{}
	d := New(b)
	if err := d.Configure(); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("Configure() = %v, want ErrNotConnected", err)
	}
	if d.Available() {
		t.Fatal("Available() = true without chip")
	}
	if d.Update(time.Second) {
		t.Fatal("Update() on absent chip = true")
	}
}

func TestUpdateScales(t *testing.T) {
	b := newBus()
	d := New(b)
	if err := d.Configure(); err != nil {
		t.Fatal(err)
	}
	b.put16(AX_L, 4096)
	b.put16(AX_L+2, -8192)
	b.put16(AX_L+4, 16384)
	b.put16(AX_L+6, 640)
	b.put16(AX_L+8, -32)
	b.put16(AX_L+10, 0)

	if !d.Update(0) {
		t.Fatal("Update(0) = false")
	}
	a, g := d.Acceleration(), d.Rotation()
	if a.X != 0.5 || a.Y != -1 || a.Z != 2 {
		t.Fatalf("Acceleration() = %v, want {0.5 -1 2}", a)
	}
	if g.X != 10 || g.Y != -0.5 || g.Z != 0 {
		t.Fatalf("Rotation() = %v, want {10 -0.5 0}", g)
	}
	if d.Update(10 * time.Millisecond) {
		t.Fatal("Update inside period read the bus")
	}
}

func TestUpdateReadErrorMarksUnavailable(t *testing.T) {
	b := newBus()
	d := New(b)
	if err := d.Configure(); err != nil {
		t.Fatal(err)
	}
	b.fail = true
	if d.Update(0) {
		t.Fatal("Update() with failing bus = true")
	}
	if d.Available() {
		t.Fatal("Available() = true after read error")
	}
	if d.Err() == nil {
		t.Fatal("Err() = nil after read error")
	}
}
