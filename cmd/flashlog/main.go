//go:build !tinygo

// Command flashlog reads or clears the flight log inside a simulator flash
// image written with -flash.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"altimeter/hal"
	"altimeter/internal/flightlog"
)

const defaultFlashPath = "altimeter.flash"

func main() {
	var flashPath, outPath, logPath string
	var truncate bool
	flag.StringVar(&flashPath, "flash", defaultFlashPath, "Flash image path.")
	flag.StringVar(&logPath, "path", flightlog.DefaultPath, "Log file inside the image.")
	flag.StringVar(&outPath, "out", "", "Write the CSV here instead of stdout.")
	flag.BoolVar(&truncate, "clear", false, "Truncate the log after reading it.")
	flag.Parse()

	if err := run(flashPath, logPath, outPath, truncate); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(flashPath, logPath, outPath string, truncate bool) error {
	if _, err := os.Stat(flashPath); err != nil {
		return fmt.Errorf("stat flash %q: %w", flashPath, err)
	}
	ff, err := hal.OpenFlashFile(flashPath)
	if err != nil {
		return err
	}
	defer func() { _ = ff.Close() }()

	l, err := flightlog.Open(ff, logPath, false)
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	var out io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create %q: %w", outPath, err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}
	if _, err := l.WriteTo(out); err != nil {
		return fmt.Errorf("read log: %w", err)
	}
	fmt.Fprintf(os.Stderr, "%s: %d records\n", l.Path(), l.Lines())

	if truncate {
		if err := l.Truncate(); err != nil {
			return fmt.Errorf("clear log: %w", err)
		}
	}
	return nil
}
