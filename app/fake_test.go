package app

import (
	"errors"
	"strings"
	"time"

	"tinygo.org/x/tinyfs"

	"altimeter/hal"
	"altimeter/internal/st7789"
	"altimeter/internal/st7789/st7789sim"
	"altimeter/internal/tracker"
)

type fakeClock struct{ now time.Duration }

func (c *fakeClock) Now() time.Duration    { return c.now }
func (c *fakeClock) Sleep(d time.Duration) { c.now += d }

type fakeLogger struct{ lines []string }

func (l *fakeLogger) WriteLineString(s string) { l.lines = append(l.lines, s) }
func (l *fakeLogger) WriteLineBytes(b []byte)  { l.lines = append(l.lines, string(b)) }

func (l *fakeLogger) contains(sub string) bool {
	for _, s := range l.lines {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

type fakeLED struct{ r, g, b uint8 }

func (l *fakeLED) SetRGB(r, g, b uint8) { l.r, l.g, l.b = r, g, b }

type fakePin struct {
	name  string
	level bool
	mode  hal.GPIOMode
}

func (p *fakePin) Name() string { return p.name }
func (p *fakePin) Caps() hal.GPIOCaps {
	return hal.GPIOCapInput | hal.GPIOCapOutput | hal.GPIOCapPullUp
}

func (p *fakePin) Configure(mode hal.GPIOMode, pull hal.GPIOPull) error {
	p.mode = mode
	if pull == hal.GPIOPullUp {
		p.level = true
	}
	return nil
}

func (p *fakePin) Read() (bool, error) { return p.level, nil }

func (p *fakePin) Write(level bool) error {
	p.level = level
	return nil
}

type fakeGPIO []*fakePin

func (g fakeGPIO) PinCount() int { return len(g) }

func (g fakeGPIO) Pin(id int) hal.GPIOPin {
	if id < 0 || id >= len(g) {
		return nil
	}
	return g[id]
}

type fakeDisplay struct {
	sim *st7789sim.Panel
	cfg st7789.Config
}

func (d *fakeDisplay) Bus() st7789.Bus       { return d.sim }
func (d *fakeDisplay) Config() st7789.Config { return d.cfg }

type fakeBaro struct {
	ok       bool
	pressure float32
	temp     float32
	err      error
	panics   bool
}

func (b *fakeBaro) Available() bool { return b.ok }

func (b *fakeBaro) Read() (hal.BaroReading, error) {
	if b.panics {
		panic("bus fault")
	}
	if b.err != nil {
		return hal.BaroReading{}, b.err
	}
	return hal.BaroReading{Temperature: b.temp, Pressure: b.pressure}, nil
}

type fakeBattery struct{ uv uint32 }

func (b *fakeBattery) Microvolts() (uint32, error) { return b.uv, nil }

type fakeIMU struct {
	ok    bool
	accel tracker.Vector
}

func (i *fakeIMU) Available() bool               { return i.ok }
func (i *fakeIMU) Update(now time.Duration) bool { return i.ok }
func (i *fakeIMU) Acceleration() tracker.Vector  { return i.accel }
func (i *fakeIMU) Rotation() tracker.Vector      { return tracker.Vector{} }
func (i *fakeIMU) Configure() error {
	if !i.ok {
		return errors.New("qmi8658: not connected")
	}
	return nil
}

type fakeHAL struct {
	log     *fakeLogger
	clock   *fakeClock
	led     *fakeLED
	pins    fakeGPIO
	display *fakeDisplay
	baro    *fakeBaro
	imu     *fakeIMU
	battery *fakeBattery
	storage tinyfs.BlockDevice
}

func newFakeHAL() *fakeHAL {
	sim := st7789sim.NewFor(st7789.Panel128x128)
	sim.SetRecording(false)
	cfg := st7789.Panel128x128
	cfg.Sleep = sim.Sleep
	return &fakeHAL{
		log:   &fakeLogger{},
		clock: &fakeClock{},
		led:   &fakeLED{},
		pins: fakeGPIO{
			{name: hal.PinButtonA, level: true},
			{name: hal.PinButtonB, level: true},
			{name: hal.PinButtonC, level: true},
			{name: hal.PinBacklight},
		},
		display: &fakeDisplay{sim: sim, cfg: cfg},
		baro:    &fakeBaro{ok: true, pressure: tracker.StandardSeaLevelPa, temp: 20},
		battery: &fakeBattery{uv: 4_100_000},
		storage: tinyfs.NewMemoryDevice(256, 4096, 64),
	}
}

func (h *fakeHAL) Logger() hal.Logger { return h.log }
func (h *fakeHAL) Clock() hal.Clock   { return h.clock }
func (h *fakeHAL) LED() hal.StatusLED { return h.led }
func (h *fakeHAL) GPIO() hal.GPIO     { return h.pins }

func (h *fakeHAL) Display() hal.Display {
	if h.display == nil {
		return nil
	}
	return h.display
}

func (h *fakeHAL) Barometer() hal.Barometer {
	if h.baro == nil {
		return nil
	}
	return h.baro
}

func (h *fakeHAL) IMU() hal.IMU {
	if h.imu == nil {
		return nil
	}
	return h.imu
}

func (h *fakeHAL) Battery() hal.Battery        { return h.battery }
func (h *fakeHAL) Storage() tinyfs.BlockDevice { return h.storage }
func (h *fakeHAL) Board() hal.Board            { return hal.Board{Name: "test", SDA: 12, SCL: 11} }
func (h *fakeHAL) pin(name string) *fakePin {
	for _, p := range h.pins {
		if p.name == name {
			return p
		}
	}
	return nil
}
