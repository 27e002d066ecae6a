//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"altimeter/app"
	"altimeter/hal"
	"altimeter/internal/buildinfo"
	"altimeter/internal/dashboard"
)

func main() {
	cfg := app.DefaultConfig()
	var headless hal.HeadlessConfig
	var board, httpAddr, logLevel, flashPath string
	var scale int
	var noBaro bool
	var ledFloor uint
	flag.BoolVar(&headless.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&headless.Hz, "hz", 100, "Tick rate in headless mode.")
	flag.Uint64Var(&headless.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.StringVar(&board, "board", "sim", "Board: sim (desktop simulator) or periph (Linux GPIO/SPI/I2C).")
	flag.Var(&cfg.Calibration, "calibration", "Altitude reference: sea_level_standard or zero_at_boot.")
	flag.Var(&cfg.Panel, "panel", "Panel geometry: 128x128 or 240x320.")
	flag.Var(&cfg.IMUSource, "imu", "IMU source: real or simulated.")
	flag.IntVar(&cfg.Modes, "modes", cfg.Modes, "Display modes in the cycle (4 or 5).")
	flag.UintVar(&ledFloor, "led-floor", uint(cfg.LEDFloor), "Dimmest LED breathing level (0 or 50).")
	flag.DurationVar(&cfg.LogInterval, "log-interval", cfg.LogInterval, "Flight log period (0 disables).")
	flag.StringVar(&flashPath, "flash", "", "Flash image backing the flight log (empty = RAM on sim).")
	flag.StringVar(&httpAddr, "http", "", "Serve the dashboard on this address, e.g. :8080.")
	flag.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error.")
	flag.IntVar(&scale, "scale", 3, "Window zoom.")
	flag.BoolVar(&noBaro, "no-baro", false, "Simulate a missing barometer.")
	flag.Parse()
	cfg.LEDFloor = uint8(ledFloor)

	log := logrus.New()
	lvl, err := logrus.ParseLevel(logLevel)
	if err != nil {
		log.Fatal(err)
	}
	log.SetLevel(lvl)
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	log.WithFields(logrus.Fields{
		"build":       buildinfo.String(),
		"board":       board,
		"calibration": cfg.Calibration,
		"panel":       cfg.Panel,
		"imu":         cfg.IMUSource,
	}).Info("starting altimeter")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Released in order on exit: the app unmounts the flight log before the
	// board closes its flash image.
	var closers []io.Closer
	newApp := func(h hal.HAL) func() error {
		a, err := app.New(h, cfg)
		if err != nil {
			return func() error { return err }
		}
		closers = append(closers, a)
		if c, ok := h.(io.Closer); ok {
			closers = append(closers, c)
		}
		if l := a.FlightLog(); l != nil {
			log.Infof("flight log %s: %s records, %s device", l.Path(),
				humanize.Comma(int64(l.Lines())), humanize.Bytes(uint64(l.Capacity())))
		}
		if httpAddr != "" {
			go func() {
				if err := dashboard.New(a, log).ListenAndServe(ctx, httpAddr); err != nil {
					log.WithError(err).Error("dashboard stopped")
				}
			}()
		}
		return a.Tick
	}

	host := hal.HostOptions{
		Panel:       cfg.Panel.Config(),
		Log:         log,
		NoBarometer: noBaro,
		FlashPath:   flashPath,
	}

	switch {
	case board == "periph":
		err = runPeriph(ctx, cfg, flashPath, log, newApp)
	case board != "sim":
		log.Fatalf("unknown board %q", board)
	case headless.Enabled:
		headless.Host = host
		err = hal.RunHeadless(ctx, newApp, headless)
	default:
		err = hal.RunWindow(newApp, hal.WindowConfig{Scale: scale, Host: host})
	}
	for _, c := range closers {
		if cerr := c.Close(); cerr != nil {
			log.WithError(cerr).Warn("shutdown")
		}
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}

// runPeriph drives the firmware on real Linux hardware with the wall
// clock, sleeping between iterations like the microcontroller build.
func runPeriph(ctx context.Context, cfg app.Config, flashPath string, log *logrus.Logger, newApp func(hal.HAL) func() error) error {
	opts := hal.DefaultPeriphOptions()
	opts.Panel = cfg.Panel.Config()
	opts.Log = log
	if flashPath != "" {
		opts.FlashPath = flashPath
	}
	h, err := hal.NewPeriph(opts)
	if err != nil {
		return err
	}
	tick := newApp(h)
	clock := h.Clock()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := tick(); err != nil {
			return err
		}
		clock.Sleep(app.LoopDelay)
	}
}
