//go:build !tinygo

// Command panelshot boots the firmware on the simulator board and writes a
// PNG of the panel for every display mode.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"

	"altimeter/app"
	"altimeter/hal"
)

func main() {
	cfg := app.DefaultConfig()
	var outDir string
	var scale int
	var altitude float64
	var verbose bool
	flag.StringVar(&outDir, "out", "shots", "Output directory.")
	flag.IntVar(&scale, "scale", 4, "Integer zoom applied to each capture.")
	flag.Float64Var(&altitude, "altitude", 250, "Simulated altitude at boot, in metres.")
	flag.Var(&cfg.Panel, "panel", "Panel geometry: 128x128 or 240x320.")
	flag.Var(&cfg.IMUSource, "imu", "IMU source: real or simulated.")
	flag.IntVar(&cfg.Modes, "modes", cfg.Modes, "Display modes in the cycle (4 or 5).")
	flag.BoolVar(&verbose, "v", false, "Print firmware log lines.")
	flag.Parse()

	cfg.LogInterval = 0
	if err := run(cfg, outDir, scale, altitude, verbose); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(cfg app.Config, outDir string, scale int, altitude float64, verbose bool) error {
	if scale < 1 {
		return fmt.Errorf("invalid scale %d", scale)
	}
	log := logrus.New()
	if !verbose {
		log.SetOutput(io.Discard)
	}

	h := hal.NewHost(hal.HostOptions{
		Panel:         cfg.Panel.Config(),
		Log:           log,
		Virtual:       true,
		StartAltitude: altitude,
		Seed:          1,
	})
	a, err := app.New(h, cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	for i := 0; i < cfg.Modes; i++ {
		// Long enough for a sensor update and a repaint.
		for t := time.Duration(0); t < time.Second; t += app.LoopDelay {
			h.Advance(app.LoopDelay)
			if err := a.Tick(); err != nil {
				return err
			}
		}
		mode := a.Snapshot().Mode
		path := filepath.Join(outDir, fmt.Sprintf("%d-%s.png", i, mode))
		if err := writePNG(path, h.Panel().Image(), scale); err != nil {
			return err
		}
		fmt.Println(path)
		a.Submit(app.CmdNextMode)
	}
	return nil
}

func writePNG(path string, src image.Image, scale int) error {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, dst); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
