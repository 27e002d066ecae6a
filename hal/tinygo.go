//go:build tinygo && baremetal

package hal

import (
	"image/color"
	"machine"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/bmp180"
	"tinygo.org/x/drivers/ws2812"
	"tinygo.org/x/tinyfs"

	"altimeter/internal/battery"
	"altimeter/internal/qmi8658"
	"altimeter/internal/st7789"
)

// LOLIN S3 Mini Pro wiring.
const (
	pinButtonA = machine.Pin(0)
	pinButtonB = machine.Pin(47)
	pinButtonC = machine.Pin(48)

	pinSDA = machine.Pin(12)
	pinSCL = machine.Pin(11)

	pinTFTCS   = machine.Pin(35)
	pinTFTDC   = machine.Pin(36)
	pinTFTRST  = machine.Pin(34)
	pinTFTBL   = machine.Pin(33)
	pinTFTMOSI = machine.Pin(38)
	pinTFTSCLK = machine.Pin(40)
	pinTFTMISO = machine.Pin(39)

	pinRGBData  = machine.Pin(8)
	pinRGBPower = machine.Pin(7)

	pinBattery = machine.Pin(1)
)

type tinyGoHAL struct {
	logger  *uartLogger
	clock   *tinyGoClock
	led     *ws2812LED
	gpio    GPIO
	display *tinyGoDisplay
	baro    *bmp180Baro
	imu     *qmi8658.Device
	battery *adcBattery
	storage tinyfs.BlockDevice
}

// New returns the LOLIN S3 Mini Pro HAL.
//
// Log output goes to the USB serial console. I²C runs at 400 kHz on
// GPIO12/GPIO11, the panel at 40 MHz on SPI.
func New() HAL {
	logger := &uartLogger{w: machine.Serial}

	pinRGBPower.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pinRGBPower.High()
	pinRGBData.Configure(machine.PinConfig{Mode: machine.PinOutput})
	led := &ws2812LED{dev: ws2812.New(pinRGBData)}

	var gp []GPIOPin
	for _, b := range []struct {
		name string
		pin  machine.Pin
	}{
		{PinButtonA, pinButtonA},
		{PinButtonB, pinButtonB},
		{PinButtonC, pinButtonC},
	} {
		gp = append(gp, &machinePin{name: b.name, pin: b.pin, caps: GPIOCapInput | GPIOCapPullUp | GPIOCapPullDown})
	}
	gp = append(gp, &machinePin{name: PinBacklight, pin: pinTFTBL, caps: GPIOCapOutput})

	spi := machine.SPI0
	if err := spi.Configure(machine.SPIConfig{
		Frequency: 40_000_000,
		SCK:       pinTFTSCLK,
		SDO:       pinTFTMOSI,
		SDI:       pinTFTMISO,
		Mode:      0,
	}); err != nil {
		logger.WriteLineString("spi: " + err.Error())
	}
	for _, p := range []machine.Pin{pinTFTCS, pinTFTDC, pinTFTRST} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	}

	i2c := machine.I2C0
	if err := i2c.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       pinSDA,
		SCL:       pinSCL,
	}); err != nil {
		logger.WriteLineString("i2c: " + err.Error())
	}
	var bus drivers.I2C = i2c

	baro := &bmp180Baro{dev: bmp180.New(bus)}
	baro.dev.Configure()
	baro.ok = baro.dev.Connected()

	machine.InitADC()
	adc := machine.ADC{Pin: pinBattery}
	adc.Configure(machine.ADCConfig{})

	return &tinyGoHAL{
		logger: logger,
		clock:  newTinyGoClock(),
		led:    led,
		gpio:   newVirtualGPIO(gp),
		display: &tinyGoDisplay{
			bus: st7789.NewSPIBus(spi, pinTFTCS, pinTFTDC, pinTFTRST),
			cfg: st7789.Panel128x128,
		},
		baro:    baro,
		imu:     qmi8658.New(bus),
		battery: &adcBattery{adc: adc, div: battery.DefaultDivider},
		storage: newFlashStorage(),
	}
}

func (h *tinyGoHAL) Logger() Logger              { return h.logger }
func (h *tinyGoHAL) Clock() Clock                { return h.clock }
func (h *tinyGoHAL) LED() StatusLED              { return h.led }
func (h *tinyGoHAL) GPIO() GPIO                  { return h.gpio }
func (h *tinyGoHAL) Display() Display            { return h.display }
func (h *tinyGoHAL) Barometer() Barometer        { return h.baro }
func (h *tinyGoHAL) IMU() IMU                    { return h.imu }
func (h *tinyGoHAL) Battery() Battery            { return h.battery }
func (h *tinyGoHAL) Storage() tinyfs.BlockDevice { return h.storage }

func (h *tinyGoHAL) Board() Board {
	return Board{Name: "LOLIN S3 Mini Pro", SDA: int(pinSDA), SCL: int(pinSCL)}
}

type tinyGoDisplay struct {
	bus *st7789.SPIBus
	cfg st7789.Config
}

func (d *tinyGoDisplay) Bus() st7789.Bus       { return d.bus }
func (d *tinyGoDisplay) Config() st7789.Config { return d.cfg }

type ws2812LED struct {
	dev ws2812.Device
	buf [1]color.RGBA
}

func (l *ws2812LED) SetRGB(r, g, b uint8) {
	l.buf[0] = color.RGBA{R: r, G: g, B: b, A: 0xFF}
	l.dev.WriteColors(l.buf[:])
}

type bmp180Baro struct {
	dev bmp180.Device
	ok  bool
}

func (b *bmp180Baro) Available() bool { return b.ok }

func (b *bmp180Baro) Read() (BaroReading, error) {
	if !b.ok {
		return BaroReading{}, ErrNotImplemented
	}
	t, err := b.dev.ReadTemperature()
	if err != nil {
		return BaroReading{}, err
	}
	p, err := b.dev.ReadPressure()
	if err != nil {
		return BaroReading{}, err
	}
	// Driver units are milli-degrees and milli-pascals.
	return BaroReading{Temperature: float32(t) / 1000, Pressure: float32(p) / 1000}, nil
}

type adcBattery struct {
	adc machine.ADC
	div battery.Divider
}

func (b *adcBattery) Microvolts() (uint32, error) {
	return b.div.Microvolts(b.adc.Get()), nil
}
