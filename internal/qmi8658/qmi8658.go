// Package qmi8658 reads acceleration and rotation from a QST QMI8658 6-axis
// inertial unit over I²C.
package qmi8658

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"altimeter/internal/tracker"
)

// Period is the polling interval used by Update.
const Period = 50 * time.Millisecond

var ErrNotConnected = errors.New("qmi8658: device not found")

// Bus is an I²C bus. Both drivers.I2C and periph's i2c.Bus satisfy it.
type Bus interface {
	Tx(addr uint16, w, r []byte) error
}

// Device is a QMI8658 configured for ±4 g and ±512 °/s.
type Device struct {
	bus     Bus
	Address uint16

	ok    bool
	err   error
	last  time.Duration
	polls int

	accel tracker.Vector
	gyro  tracker.Vector
	buf   [burstLen]byte
}

// New returns a device at the default address. Call Configure before use.
func New(bus Bus) *Device {
	return &Device{bus: bus, Address: Address}
}

// Connected reads WHO_AM_I.
func (d *Device) Connected() bool {
	id, err := d.readRegister(WHO_AM_I)
	return err == nil && id == chipID
}

// Configure probes the chip and enables both sensors.
func (d *Device) Configure() error {
	d.ok = false
	if !d.Connected() {
		return ErrNotConnected
	}
	for _, w := range [...][2]byte{
		{CTRL1, ctrl1AddrAI},
		{CTRL2, accelFS4G | odr117Hz},
		{CTRL3, gyroFS512DPS | odr117Hz},
		{CTRL7, ctrl7AccelEn | ctrl7GyroEn},
	} {
		if err := d.bus.Tx(d.Address, w[:], nil); err != nil {
			return fmt.Errorf("qmi8658: write %#02x: %w", w[0], err)
		}
	}
	d.ok = true
	d.err = nil
	d.last = -Period
	d.accel = tracker.Vector{Z: 1}
	return nil
}

// Available reports whether the last Configure or read succeeded.
func (d *Device) Available() bool { return d.ok }

// Err returns the last bus error, if any.
func (d *Device) Err() error { return d.err }

// Update performs a burst read if Period has passed and reports whether new
// values were stored. A failed read marks the device unavailable.
func (d *Device) Update(now time.Duration) bool {
	if !d.ok || now-d.last < Period {
		return false
	}
	d.last = now
	if err := d.bus.Tx(d.Address, []byte{AX_L}, d.buf[:]); err != nil {
		d.ok = false
		d.err = fmt.Errorf("qmi8658: read: %w", err)
		return false
	}
	d.accel = tracker.Vector{
		X: d.axis(0) / accelLSBPerG,
		Y: d.axis(1) / accelLSBPerG,
		Z: d.axis(2) / accelLSBPerG,
	}
	d.gyro = tracker.Vector{
		X: d.axis(3) / gyroLSBPerDPS,
		Y: d.axis(4) / gyroLSBPerDPS,
		Z: d.axis(5) / gyroLSBPerDPS,
	}
	return true
}

func (d *Device) axis(i int) float32 {
	return float32(int16(binary.LittleEndian.Uint16(d.buf[i*2:])))
}

func (d *Device) Acceleration() tracker.Vector { return d.accel }

func (d *Device) Rotation() tracker.Vector { return d.gyro }

func (d *Device) readRegister(reg byte) (byte, error) {
	var v [1]byte
	err := d.bus.Tx(d.Address, []byte{reg}, v[:])
	return v[0], err
}
