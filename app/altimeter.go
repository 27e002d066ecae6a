// Package app is the altimeter firmware: boot sequence, the cooperative
// control loop and the command entry points shared by buttons and the
// dashboard.
package app

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"tinygo.org/x/tinyfs"

	"altimeter/hal"
	"altimeter/internal/battery"
	"altimeter/internal/flightlog"
	"altimeter/internal/imusim"
	"altimeter/internal/input"
	"altimeter/internal/st7789"
	"altimeter/internal/statusled"
	"altimeter/internal/tracker"
	"altimeter/internal/view"
)

// Loop periods.
const (
	SensorInterval  = 200 * time.Millisecond
	DisplayInterval = 100 * time.Millisecond
	LoopDelay       = 10 * time.Millisecond

	bootSettle = 500 * time.Millisecond
)

// Command is an action requested outside the control loop.
type Command uint8

const (
	// CmdZero zeroes the altitude and resets the maximum (button A).
	CmdZero Command = iota
	// CmdNextMode advances the display mode (button B).
	CmdNextMode
	// CmdToggleDisplay switches the panel on or off (button C).
	CmdToggleDisplay
	CmdResetAccel
	CmdClearLog
)

func (c Command) String() string {
	switch c {
	case CmdZero:
		return "zero"
	case CmdNextMode:
		return "next-mode"
	case CmdToggleDisplay:
		return "toggle-display"
	case CmdResetAccel:
		return "reset-accel"
	case CmdClearLog:
		return "clear-log"
	default:
		return "unknown"
	}
}

// imuConfigurer is implemented by inertial units that need a probe and
// register setup before the first Update.
type imuConfigurer interface {
	Configure() error
}

// Altimeter owns every piece of firmware state. Step, Tick and Run must be
// called from one goroutine; Submit and Snapshot are safe from any.
type Altimeter struct {
	cfg   Config
	log   hal.Logger
	clock hal.Clock
	board hal.Board

	panel     *st7789.Device
	view      *view.Machine
	backlight hal.GPIOPin
	displayOn bool

	buttons *input.Panel
	pressed []input.Button
	led     *statusled.Breather

	baro    hal.Barometer
	imu     hal.IMU
	battery hal.Battery
	cal     *tracker.Calibration
	tracker *tracker.Tracker
	flight  atomic.Pointer[flightlog.Log] // read by the dashboard

	lastSensor time.Duration
	lastView   time.Duration
	lastLog    time.Duration
	lastStatus time.Duration
	lastHeap   time.Duration
	freeHeap   uint64

	commands chan Command

	mu   sync.Mutex
	snap Snapshot
}

// New runs the boot sequence on h. Missing hardware leaves the matching
// feature off; only an invalid cfg is an error.
func New(h hal.HAL, cfg Config) (*Altimeter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &Altimeter{
		cfg:      cfg,
		log:      h.Logger(),
		clock:    h.Clock(),
		board:    h.Board(),
		baro:     h.Barometer(),
		battery:  h.Battery(),
		tracker:  tracker.New(),
		cal:      tracker.NewCalibration(cfg.Calibration, cfg.SeaLevelPa),
		commands: make(chan Command, 16),
	}
	a.logf("boot: %s, calibration %s, imu %s", a.board.Name, cfg.Calibration, cfg.IMUSource)

	a.led = statusled.NewBreather(h.LED(), cfg.LEDFloor)
	a.led.Set(statusled.Yellow)

	g := h.GPIO()
	a.buttons = input.NewPanel(
		buttonPin(g, hal.PinButtonA),
		buttonPin(g, hal.PinButtonB),
		buttonPin(g, hal.PinButtonC),
		input.NewDebouncer(input.DefaultDebounce),
	)

	a.initDisplay(h.Display(), g)

	pressureOK := a.initBarometer()
	imuOK := a.initIMU(h.IMU())
	a.initFlightLog(h.Storage())

	a.tracker.SetSensorStatus(pressureOK, imuOK)
	if a.panel != nil {
		a.view = view.New(a.panel, view.Config{
			Modes:  cfg.Modes,
			Wiring: view.Wiring{SDA: a.board.SDA, SCL: a.board.SCL},
		})
	}

	a.led.Set(statusled.BootColor(pressureOK, imuOK))

	now := a.clock.Now()
	a.lastSensor = now
	a.lastView = now
	a.lastLog = now
	a.lastStatus = now
	a.sampleHeap(now)
	a.publish(now)
	a.logf("boot: ready, baro %s, imu %s", okString(pressureOK), okString(imuOK))
	return a, nil
}

func buttonPin(g hal.GPIO, name string) input.Pin {
	p := hal.FindPin(g, name)
	if p == nil {
		return nil
	}
	_ = p.Configure(hal.GPIOModeInput, hal.GPIOPullUp)
	return p
}

func (a *Altimeter) initDisplay(d hal.Display, g hal.GPIO) {
	if d == nil || d.Bus() == nil {
		a.logf("display: none")
		return
	}
	pc := a.cfg.Panel.Config()
	hc := d.Config()
	pc.Sleep = hc.Sleep
	pc.Rotation = hc.Rotation

	a.panel = st7789.New(d.Bus(), pc)
	a.panel.Init()

	if bl := hal.FindPin(g, hal.PinBacklight); bl != nil {
		if err := bl.Configure(hal.GPIOModeOutput, hal.GPIOPullNone); err == nil {
			a.backlight = bl
		}
	}
	a.setBacklight(true)
	a.displayOn = true

	w, h := a.panel.Size()
	a.logf("display: %dx%d ready", w, h)
	drawSplash(a.panel, a.board)
}

func (a *Altimeter) initBarometer() bool {
	if a.baro == nil || !a.baro.Available() {
		a.logf("baro: not found, check SDA GPIO%d SCL GPIO%d", a.board.SDA, a.board.SCL)
		return false
	}
	a.clock.Sleep(bootSettle)

	n := 1
	if a.cfg.Calibration == tracker.ZeroAtBoot {
		n = a.cfg.BootSamples
	}
	samples := make([]float32, 0, n)
	for i := 0; i < n; i++ {
		r, err := a.baro.Read()
		if err != nil {
			a.logf("baro: read failed: %v", err)
			return false
		}
		samples = append(samples, r.Pressure)
	}
	a.cal.Boot(samples)

	p := samples[len(samples)-1]
	a.logf("baro: pressure %.2f hPa, baseline %.2f hPa, altitude %.2f m",
		p/100, a.cal.Baseline()/100, a.cal.Altitude(p))
	return true
}

func (a *Altimeter) initIMU(dev hal.IMU) bool {
	switch a.cfg.IMUSource {
	case IMUSimulated:
		a.imu = imusim.New(rand.New(rand.NewSource(int64(a.clock.Now()) + 1)))
		a.logf("imu: simulated")
		return true
	}
	if dev == nil {
		a.logf("imu: not found")
		return false
	}
	a.imu = dev
	if c, ok := dev.(imuConfigurer); ok {
		if err := c.Configure(); err != nil {
			a.logf("imu: %v", err)
			return false
		}
	}
	if !dev.Available() {
		a.logf("imu: not found")
		return false
	}
	a.logf("imu: ready")
	return true
}

func (a *Altimeter) initFlightLog(dev tinyfs.BlockDevice) {
	if a.cfg.LogInterval <= 0 {
		return
	}
	if dev == nil {
		a.logf("log: no storage")
		return
	}
	l, err := flightlog.Open(dev, a.cfg.LogPath, true)
	if err != nil {
		a.logf("log: %v", err)
		return
	}
	a.flight.Store(l)
	a.logf("log: %s, %d lines", l.Path(), l.Lines())
}

// Step runs one control loop iteration at now: buttons, queued commands,
// then each periodic task whose interval has elapsed.
func (a *Altimeter) Step(now time.Duration) error {
	a.pressed = a.buttons.Poll(a.pressed[:0], now)
	for _, b := range a.pressed {
		a.logf("button %s", b)
		a.handle(buttonCommand(b), now)
	}
	a.drain(now)

	if now-a.lastSensor >= SensorInterval {
		a.updateSensors(now)
		a.lastSensor = now
	}

	if a.displayOn && a.view != nil && now-a.lastView >= DisplayInterval {
		a.view.Update(a.tracker.State(), now)
		a.lastView = now
	}

	s := a.tracker.State()
	a.led.Update(now, s.PressureOK, s.IMUOK)

	if fl := a.flight.Load(); fl != nil && now-a.lastLog >= a.cfg.LogInterval {
		a.lastLog = now
		if err := fl.Append(flightlog.FromState(s, now)); err != nil {
			a.logf("log: %v, logging stopped", err)
			a.flight.Store(nil)
		}
	}
	return nil
}

// Tick runs Step at the current clock time.
func (a *Altimeter) Tick() (err error) {
	defer a.recoverPanic(&err)
	return a.Step(a.clock.Now())
}

// Run ticks until ctx ends, sleeping LoopDelay between iterations.
func (a *Altimeter) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.Tick(); err != nil {
			return err
		}
		a.clock.Sleep(LoopDelay)
	}
}

// Submit queues cmd for the next Step. It reports false when the queue is
// full.
func (a *Altimeter) Submit(cmd Command) bool {
	select {
	case a.commands <- cmd:
		return true
	default:
		return false
	}
}

// FlightLog returns the open flight log, or nil.
// It is safe to call from any goroutine.
func (a *Altimeter) FlightLog() *flightlog.Log { return a.flight.Load() }

// Close flushes and unmounts the flight log.
func (a *Altimeter) Close() error {
	fl := a.flight.Swap(nil)
	if fl == nil {
		return nil
	}
	return fl.Close()
}

// Config returns the configuration the firmware booted with.
func (a *Altimeter) Config() Config { return a.cfg }

func (a *Altimeter) drain(now time.Duration) {
	for {
		select {
		case cmd := <-a.commands:
			a.logf("command %s", cmd)
			a.handle(cmd, now)
		default:
			return
		}
	}
}

func buttonCommand(b input.Button) Command {
	switch b {
	case input.ButtonB:
		return CmdNextMode
	case input.ButtonC:
		return CmdToggleDisplay
	default:
		return CmdZero
	}
}

func (a *Altimeter) handle(cmd Command, now time.Duration) {
	switch cmd {
	case CmdZero:
		a.zero()
		a.led.Flash(statusled.Orange, now)
	case CmdNextMode:
		if a.view != nil {
			m := a.view.NextMode()
			a.logf("view: %s", m)
		}
		a.led.Flash(statusled.Blue, now)
	case CmdToggleDisplay:
		a.displayOn = !a.displayOn
		a.setBacklight(a.displayOn)
		if a.displayOn {
			if a.view != nil {
				a.view.ForceRefresh()
			}
			a.logf("display: on")
			a.led.Flash(statusled.Green, now)
		} else {
			a.logf("display: off")
			a.led.Flash(statusled.Red, now)
		}
	case CmdResetAccel:
		a.tracker.ResetMaxAcceleration()
	case CmdClearLog:
		if fl := a.flight.Load(); fl != nil {
			if err := fl.Truncate(); err != nil {
				a.logf("log: %v", err)
			}
		}
	}
	a.publish(now)
}

// zero makes the current pressure read 0 m and restarts the maximum from
// there. Without a barometer only the maximum is reset.
func (a *Altimeter) zero() {
	if !a.tracker.State().PressureOK || a.baro == nil {
		a.tracker.ResetMaxAltitude()
		return
	}
	r, err := a.baro.Read()
	if err != nil {
		a.logf("baro: read failed: %v", err)
		a.tracker.ResetMaxAltitude()
		return
	}
	a.cal.Zero(r.Pressure)
	a.tracker.Rebase(a.cal.Altitude(r.Pressure))
	a.logf("altitude: zeroed, offset %.2f m, baseline %.2f hPa", a.cal.Offset(), a.cal.Baseline()/100)
}

func (a *Altimeter) setBacklight(on bool) {
	if a.backlight != nil {
		_ = a.backlight.Write(on)
	}
}

func (a *Altimeter) updateSensors(now time.Duration) {
	var f tracker.Frame

	if a.baro != nil && a.baro.Available() {
		r, err := a.baro.Read()
		if err == nil {
			f.Temperature = r.Temperature
			f.Pressure = r.Pressure
			f.Altitude = a.cal.Altitude(r.Pressure)
			f.PressureOK = true
		} else if a.tracker.State().PressureOK {
			a.logf("baro: read failed: %v", err)
		}
	}

	if a.imu != nil && a.imu.Available() {
		a.imu.Update(now)
		if a.imu.Available() {
			f.Accel = a.imu.Acceleration()
			f.Gyro = a.imu.Rotation()
			f.IMUOK = true
		}
	}

	f.BatteryPercent = -1
	if a.battery != nil {
		if uv, err := a.battery.Microvolts(); err == nil {
			r := battery.Read(uv)
			f.BatteryVoltage = r.Volts
			f.BatteryPercent = int(r.Percent)
		}
	}

	if a.tracker.SetSensorStatus(f.PressureOK, f.IMUOK) {
		a.logf("sensors: baro %s, imu %s", okString(f.PressureOK), okString(f.IMUOK))
		if a.view != nil {
			a.view.ForceRefresh()
		}
	}
	a.tracker.Ingest(f)

	if a.cfg.StatusInterval > 0 && now-a.lastHeap >= a.cfg.StatusInterval {
		a.sampleHeap(now)
	}
	if a.cfg.StatusInterval > 0 && now-a.lastStatus >= a.cfg.StatusInterval && f.PressureOK {
		a.lastStatus = now
		s := a.tracker.State()
		a.logf("altitude: %.2f m (max %.2f m), temp %.1f C, pressure %.1f hPa",
			s.Altitude, s.MaxAltitude, s.Temperature, s.Pressure/100)
	}

	a.publish(now)
}

func (a *Altimeter) logf(format string, args ...any) {
	if a.log == nil {
		return
	}
	a.log.WriteLineString(fmt.Sprintf(format, args...))
}

func okString(ok bool) string {
	if ok {
		return "ok"
	}
	return "missing"
}
