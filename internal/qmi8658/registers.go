package qmi8658

// Addresses. SA0 selects between them.
const (
	Address    = 0x6B
	AddressLow = 0x6A
)

// Registers.
const (
	WHO_AM_I = 0x00
	REVISION = 0x01
	CTRL1    = 0x02
	CTRL2    = 0x03
	CTRL3    = 0x04
	CTRL7    = 0x08
	TEMP_L   = 0x33
	AX_L     = 0x35
	RESET    = 0x60
)

const (
	chipID = 0x05

	// CTRL1: serial interface address auto-increment.
	ctrl1AddrAI = 0x40

	// CTRL2/CTRL3 full-scale fields, bits 6:4.
	accelFS4G    = 0x10
	gyroFS512DPS = 0x50
	// Output data rate nibble: 117.5 Hz in 6DOF mode.
	odr117Hz = 0x06

	// CTRL7 sensor enables.
	ctrl7AccelEn = 0x01
	ctrl7GyroEn  = 0x02
)

// Sensitivities for the configured ranges.
const (
	accelLSBPerG  = 8192
	gyroLSBPerDPS = 64
	burstLen      = 12
)
