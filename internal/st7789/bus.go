package st7789

import "tinygo.org/x/drivers"

// Bus carries bytes to the controller. It is write-only: there is no
// readback, so a missing panel turns every call into a silent no-op.
type Bus interface {
	// Command sends cmd with DC low, then params with DC high, inside one
	// chip-select frame.
	Command(cmd byte, params ...byte)
	// Write streams raw data bytes with DC high.
	Write(data []byte)
	// Reset drives the reset line. false asserts reset.
	Reset(level bool)
}

// OutputPin is a push-pull digital output such as machine.Pin.
type OutputPin interface {
	High()
	Low()
}

type noPin struct{}

func (noPin) High() {}
func (noPin) Low()  {}

// SPIBus frames commands over an SPI port with discrete CS, DC and RST
// lines. cs and rst may be nil when tied in hardware.
type SPIBus struct {
	spi drivers.SPI
	cs  OutputPin
	dc  OutputPin
	rst OutputPin

	cmd [1]byte
	err error
}

// NewSPIBus returns a bus with CS deasserted and DC in data mode.
func NewSPIBus(spi drivers.SPI, cs, dc, rst OutputPin) *SPIBus {
	if cs == nil {
		cs = noPin{}
	}
	if rst == nil {
		rst = noPin{}
	}
	b := &SPIBus{spi: spi, cs: cs, dc: dc, rst: rst}
	b.cs.High()
	b.dc.High()
	b.rst.High()
	return b
}

func (b *SPIBus) Command(cmd byte, params ...byte) {
	b.cs.Low()
	b.dc.Low()
	b.cmd[0] = cmd
	b.tx(b.cmd[:])
	if len(params) > 0 {
		b.dc.High()
		b.tx(params)
	}
	b.cs.High()
}

func (b *SPIBus) Write(data []byte) {
	if len(data) == 0 {
		return
	}
	b.cs.Low()
	b.dc.High()
	b.tx(data)
	b.cs.High()
}

func (b *SPIBus) Reset(level bool) {
	if level {
		b.rst.High()
	} else {
		b.rst.Low()
	}
}

// Err returns the first transfer error seen, if any.
func (b *SPIBus) Err() error { return b.err }

func (b *SPIBus) tx(p []byte) {
	if err := b.spi.Tx(p, nil); err != nil && b.err == nil {
		b.err = err
	}
}
