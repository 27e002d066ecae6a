//go:build !tinygo

package hal

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"tinygo.org/x/tinyfs"

	"altimeter/internal/st7789"
	"altimeter/internal/st7789/st7789sim"
)

// HostOptions configures the desktop simulator board.
type HostOptions struct {
	// Panel is the emulated panel geometry. Zero means 128x128.
	Panel st7789.Config
	// Log receives firmware log lines. Nil means the logrus standard
	// logger.
	Log *logrus.Logger
	// Virtual makes the clock advance only when the runner steps it.
	Virtual bool
	// NoBarometer simulates a missing pressure sensor.
	NoBarometer bool
	// StartAltitude is the simulated altitude at boot, in metres.
	StartAltitude float64
	// FlashPath backs the storage with a file; empty means RAM.
	FlashPath string
	// Seed drives sensor noise.
	Seed int64
}

type hostHAL struct {
	logger  *hostLogger
	clock   *hostClock
	led     *hostLED
	gpio    GPIO
	buttons [3]*virtualPin
	light   *virtualPin
	display *hostDisplay
	baro    *simBarometer
	battery *simBattery
	storage tinyfs.BlockDevice
}

// Host is the simulator board plus the hooks a desktop front end or a
// capture tool needs.
type Host interface {
	HAL
	Panel() *st7789sim.Panel
	Backlight() bool
	Press(name string, pressed bool)
	// Advance moves a virtual clock forward. It does nothing on a wall
	// clock.
	Advance(d time.Duration)
}

// NewHost returns the simulator HAL.
func NewHost(opts HostOptions) Host {
	return newHostHAL(opts)
}

func newHostHAL(opts HostOptions) *hostHAL {
	if opts.Panel.Width == 0 {
		opts.Panel = st7789.Panel128x128
	}
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	logger := &hostLogger{entry: logrus.NewEntry(opts.Log)}
	clock := newHostClock(opts.Virtual)

	h := &hostHAL{
		logger: logger,
		clock:  clock,
		led:    &hostLED{},
	}
	h.buttons = [3]*virtualPin{
		newButtonPin(PinButtonA),
		newButtonPin(PinButtonB),
		newButtonPin(PinButtonC),
	}
	h.light = newVirtualPin(PinBacklight, GPIOCapOutput)
	h.light.mode = GPIOModeOutput
	h.gpio = newVirtualGPIO([]GPIOPin{h.buttons[0], h.buttons[1], h.buttons[2], h.light})

	panel := st7789sim.NewFor(opts.Panel)
	panel.SetRecording(false)
	cfg := opts.Panel
	if opts.Virtual {
		cfg.Sleep = clock.Sleep
	}
	h.display = &hostDisplay{panel: panel, cfg: cfg}

	rng := rand.New(rand.NewSource(opts.Seed))
	h.baro = newSimBarometer(clock, !opts.NoBarometer, opts.StartAltitude, rng)
	h.battery = newSimBattery(clock)

	if opts.FlashPath != "" {
		if f, err := openHostFlash(opts.FlashPath); err == nil {
			h.storage = f
		} else {
			logger.WriteLineString("flash: " + err.Error() + ", using RAM")
		}
	}
	if h.storage == nil {
		h.storage = tinyfs.NewMemoryDevice(256, 4096, 64)
	}
	return h
}

func (h *hostHAL) Logger() Logger              { return h.logger }
func (h *hostHAL) Clock() Clock                { return h.clock }
func (h *hostHAL) LED() StatusLED              { return h.led }
func (h *hostHAL) GPIO() GPIO                  { return h.gpio }
func (h *hostHAL) Display() Display            { return h.display }
func (h *hostHAL) Battery() Battery            { return h.battery }
func (h *hostHAL) Storage() tinyfs.BlockDevice { return h.storage }

func (h *hostHAL) Board() Board {
	return Board{Name: "desktop simulator", SDA: 12, SCL: 11}
}

func (h *hostHAL) Barometer() Barometer { return h.baro }

// IMU is nil: the simulator has no real inertial unit, so the app falls
// back to its synthetic one when configured for it.
func (h *hostHAL) IMU() IMU { return nil }

// Close releases the flash image file, if any.
func (h *hostHAL) Close() error {
	if f, ok := h.storage.(*hostFlash); ok {
		return f.Close()
	}
	return nil
}

// Panel exposes the emulated panel for presentation and captures.
func (h *hostHAL) Panel() *st7789sim.Panel { return h.display.panel }

func (h *hostHAL) Advance(d time.Duration) {
	if h.clock.virtual {
		h.clock.step(d)
	}
}

// Backlight reports the backlight enable line.
func (h *hostHAL) Backlight() bool { return h.light.get() }

// Press drives a button line; pressed pulls it low.
func (h *hostHAL) Press(name string, pressed bool) {
	for _, b := range h.buttons {
		if b.name == name {
			b.drive(!pressed)
		}
	}
}

type hostDisplay struct {
	panel *st7789sim.Panel
	cfg   st7789.Config
}

func (d *hostDisplay) Bus() st7789.Bus       { return d.panel }
func (d *hostDisplay) Config() st7789.Config { return d.cfg }

// hostLogger forwards "component: message" lines to logrus with the
// component split into a field.
type hostLogger struct {
	entry *logrus.Entry
}

func (l *hostLogger) WriteLineString(s string) {
	if comp, msg, ok := strings.Cut(s, ": "); ok && comp != "" && !strings.ContainsAny(comp, " \t") {
		l.entry.WithField("component", comp).Info(msg)
		return
	}
	l.entry.Info(s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.WriteLineString(string(b))
}

type hostLED struct {
	mu      sync.Mutex
	r, g, b uint8
}

func (l *hostLED) SetRGB(r, g, b uint8) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.r, l.g, l.b = r, g, b
}

func (l *hostLED) RGB() (r, g, b uint8) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r, l.g, l.b
}
