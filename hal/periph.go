//go:build !tinygo

package hal

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/bmxx80"
	"periph.io/x/host/v3"
	"tinygo.org/x/tinyfs"

	"altimeter/internal/qmi8658"
	"altimeter/internal/st7789"
)

// PeriphOptions wires the altimeter to a Linux single-board computer.
// Pin names are periph gpioreg names.
type PeriphOptions struct {
	SPI string // spireg port name; empty selects the first
	I2C string // i2creg bus name; empty selects the first

	DC, RST, Backlight string
	ButtonA, ButtonB   string
	ButtonC, LED       string

	SPIFrequency physic.Frequency
	BaroAddress  uint16
	Panel        st7789.Config
	FlashPath    string
	Log          *logrus.Logger
}

// DefaultPeriphOptions matches a Raspberry Pi with a 128x128 ST7789 hat.
func DefaultPeriphOptions() PeriphOptions {
	return PeriphOptions{
		DC:           "GPIO25",
		RST:          "GPIO27",
		Backlight:    "GPIO18",
		ButtonA:      "GPIO5",
		ButtonB:      "GPIO6",
		ButtonC:      "GPIO13",
		LED:          "GPIO26",
		SPIFrequency: 40 * physic.MegaHertz,
		BaroAddress:  0x77,
		Panel:        st7789.Panel128x128,
		FlashPath:    "altimeter.flash",
	}
}

type periphHAL struct {
	logger  *hostLogger
	clock   *hostClock
	led     StatusLED
	gpio    GPIO
	display *periphDisplay
	baro    *periphBaro
	imu     *qmi8658.Device
	storage tinyfs.BlockDevice
	bus     i2c.BusCloser
	spi     spi.PortCloser
}

// NewPeriph opens the buses and pins named in opts. A missing sensor is
// not an error; a missing bus or pin is.
func NewPeriph(opts PeriphOptions) (HAL, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph: init: %w", err)
	}
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	h := &periphHAL{
		logger: &hostLogger{entry: logrus.NewEntry(opts.Log)},
		clock:  newHostClock(false),
	}

	port, err := spireg.Open(opts.SPI)
	if err != nil {
		return nil, fmt.Errorf("periph: spi %q: %w", opts.SPI, err)
	}
	h.spi = port
	conn, err := port.Connect(opts.SPIFrequency, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("periph: spi connect: %w", err)
	}

	pins := map[string]gpio.PinIO{}
	for _, name := range []string{opts.DC, opts.RST, opts.Backlight, opts.ButtonA, opts.ButtonB, opts.ButtonC, opts.LED} {
		if name == "" {
			continue
		}
		p := gpioreg.ByName(name)
		if p == nil {
			port.Close()
			return nil, fmt.Errorf("periph: no pin %q", name)
		}
		pins[name] = p
	}

	dc, ok := pins[opts.DC]
	if !ok {
		port.Close()
		return nil, fmt.Errorf("periph: DC pin is required")
	}
	var rst st7789.OutputPin
	if p, ok := pins[opts.RST]; ok {
		rst = periphOut{p}
	}
	h.display = &periphDisplay{
		bus: st7789.NewSPIBus(periphSPI{conn}, nil, periphOut{dc}, rst),
		cfg: opts.Panel,
	}

	var gp []GPIOPin
	for _, b := range []struct{ name, pin string }{
		{PinButtonA, opts.ButtonA},
		{PinButtonB, opts.ButtonB},
		{PinButtonC, opts.ButtonC},
	} {
		if p, ok := pins[b.pin]; ok {
			gp = append(gp, &periphPin{name: b.name, pin: p, caps: GPIOCapInput | GPIOCapPullUp | GPIOCapPullDown})
		}
	}
	if p, ok := pins[opts.Backlight]; ok {
		gp = append(gp, newOutputPin(PinBacklight, periphOut{p}))
	}
	h.gpio = newVirtualGPIO(gp)
	if p, ok := pins[opts.LED]; ok {
		h.led = periphLED{p}
	}

	bus, err := i2creg.Open(opts.I2C)
	if err != nil {
		h.logger.WriteLineString("periph: i2c " + err.Error())
	} else {
		h.bus = bus
		h.baro = &periphBaro{}
		if dev, err := bmxx80.NewI2C(bus, opts.BaroAddress, &bmxx80.DefaultOpts); err == nil {
			h.baro.dev = dev
		}
		h.imu = qmi8658.New(bus)
	}

	if f, err := openHostFlash(opts.FlashPath); err == nil {
		h.storage = f
	} else {
		h.logger.WriteLineString("flash: " + err.Error() + ", using RAM")
		h.storage = tinyfs.NewMemoryDevice(256, 4096, 64)
	}
	return h, nil
}

func (h *periphHAL) Logger() Logger              { return h.logger }
func (h *periphHAL) Clock() Clock                { return h.clock }
func (h *periphHAL) GPIO() GPIO                  { return h.gpio }
func (h *periphHAL) Display() Display            { return h.display }
func (h *periphHAL) Battery() Battery            { return nil }
func (h *periphHAL) Storage() tinyfs.BlockDevice { return h.storage }

func (h *periphHAL) LED() StatusLED { return h.led }

func (h *periphHAL) Barometer() Barometer {
	if h.baro == nil {
		return nil
	}
	return h.baro
}

// IMU returns the QMI8658 on the I²C bus. The caller runs Configure, which
// probes for it.
func (h *periphHAL) IMU() IMU {
	if h.imu == nil {
		return nil
	}
	return h.imu
}

// Close releases the flash image and the buses.
func (h *periphHAL) Close() error {
	var errs []error
	if f, ok := h.storage.(*hostFlash); ok {
		errs = append(errs, f.Close())
	}
	if h.bus != nil {
		errs = append(errs, h.bus.Close())
	}
	if h.spi != nil {
		errs = append(errs, h.spi.Close())
	}
	return errors.Join(errs...)
}

func (h *periphHAL) Board() Board {
	return Board{Name: "linux (periph.io)", SDA: 2, SCL: 3}
}

type periphDisplay struct {
	bus *st7789.SPIBus
	cfg st7789.Config
}

func (d *periphDisplay) Bus() st7789.Bus       { return d.bus }
func (d *periphDisplay) Config() st7789.Config { return d.cfg }

// periphSPI adapts a periph spi.Conn to the tinygo drivers.SPI shape.
type periphSPI struct {
	conn spi.Conn
}

func (s periphSPI) Tx(w, r []byte) error { return s.conn.Tx(w, r) }

func (s periphSPI) Transfer(b byte) (byte, error) {
	var r [1]byte
	err := s.conn.Tx([]byte{b}, r[:])
	return r[0], err
}

type periphOut struct {
	pin gpio.PinOut
}

func (p periphOut) High() { p.pin.Out(gpio.High) }
func (p periphOut) Low()  { p.pin.Out(gpio.Low) }

type periphPin struct {
	name string
	pin  gpio.PinIO
	caps GPIOCaps
}

func (p *periphPin) Name() string   { return p.name }
func (p *periphPin) Caps() GPIOCaps { return p.caps }

func (p *periphPin) Configure(mode GPIOMode, pull GPIOPull) error {
	switch mode {
	case GPIOModeOutput:
		if p.caps&GPIOCapOutput == 0 {
			return fmt.Errorf("gpio: pin %s: output unsupported", p.name)
		}
		return p.pin.Out(gpio.Low)
	case GPIOModeInput:
		pp := gpio.Float
		switch pull {
		case GPIOPullUp:
			pp = gpio.PullUp
		case GPIOPullDown:
			pp = gpio.PullDown
		}
		return p.pin.In(pp, gpio.NoEdge)
	}
	return fmt.Errorf("gpio: pin %s: invalid mode", p.name)
}

func (p *periphPin) Read() (bool, error) {
	return p.pin.Read() == gpio.High, nil
}

func (p *periphPin) Write(level bool) error {
	return p.pin.Out(gpio.Level(level))
}

// periphLED shows the status colour as on/off on a single GPIO LED.
type periphLED struct {
	pin gpio.PinOut
}

func (l periphLED) SetRGB(r, g, b uint8) {
	l.pin.Out(gpio.Level(r >= 128 || g >= 128 || b >= 128))
}

type periphBaro struct {
	dev *bmxx80.Dev
}

func (b *periphBaro) Available() bool { return b.dev != nil }

func (b *periphBaro) Read() (BaroReading, error) {
	if b.dev == nil {
		return BaroReading{}, ErrNotImplemented
	}
	var e physic.Env
	if err := b.dev.Sense(&e); err != nil {
		return BaroReading{}, fmt.Errorf("bmxx80: %w", err)
	}
	return BaroReading{
		Temperature: float32(e.Temperature-physic.ZeroCelsius) / float32(physic.Celsius),
		Pressure:    float32(e.Pressure) / float32(physic.Pascal),
	}, nil
}
