// Package flightlog appends CSV samples to a littlefs volume.
package flightlog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"tinygo.org/x/tinyfs"
	"tinygo.org/x/tinyfs/littlefs"

	"altimeter/internal/tracker"
)

// Header is the first line of every log file.
const Header = "timestamp,temperature,pressure,altitude,max_altitude,accel_x,accel_y,accel_z"

const DefaultPath = "/flight.csv"

var ErrClosed = errors.New("flightlog: closed")

// Record is one CSV line.
type Record struct {
	Timestamp   time.Duration // since boot
	Temperature float32       // °C
	Pressure    float32       // Pa
	Altitude    float32       // m
	MaxAltitude float32       // m
	Accel       tracker.Vector
}

// FromState builds a record from the tracker state at now.
func FromState(s tracker.State, now time.Duration) Record {
	return Record{
		Timestamp:   now,
		Temperature: s.Temperature,
		Pressure:    s.Pressure,
		Altitude:    s.Altitude,
		MaxAltitude: s.MaxAltitude,
		Accel:       s.Accel,
	}
}

// AppendCSV appends r as a CSV line, with trailing newline, to dst.
func (r Record) AppendCSV(dst []byte) []byte {
	dst = strconv.AppendInt(dst, r.Timestamp.Milliseconds(), 10)
	for _, f := range [...]struct {
		v    float32
		prec int
	}{
		{r.Temperature, 2},
		{r.Pressure, 1},
		{r.Altitude, 2},
		{r.MaxAltitude, 2},
		{r.Accel.X, 3},
		{r.Accel.Y, 3},
		{r.Accel.Z, 3},
	} {
		dst = append(dst, ',')
		dst = strconv.AppendFloat(dst, float64(f.v), 'f', f.prec, 32)
	}
	return append(dst, '\n')
}

// Log is an append-only CSV file. It is safe for concurrent use: the
// control loop appends while the dashboard streams the file.
type Log struct {
	mu     sync.Mutex
	dev    tinyfs.BlockDevice
	fs     *littlefs.LFS
	path   string
	lines  int
	closed bool
	buf    []byte
}

// Open mounts dev, formatting it if the mount fails and format is set, and
// makes sure path exists with a header line.
func Open(dev tinyfs.BlockDevice, path string, format bool) (*Log, error) {
	if path == "" {
		path = DefaultPath
	}
	lfs := littlefs.New(dev)
	lfs.Configure(&littlefs.Config{
		CacheSize:     512,
		LookaheadSize: 128,
	})
	if err := lfs.Mount(); err != nil {
		if !format {
			return nil, fmt.Errorf("flightlog: mount: %w", err)
		}
		if err := lfs.Format(); err != nil {
			return nil, fmt.Errorf("flightlog: format: %w", err)
		}
		if err := lfs.Mount(); err != nil {
			return nil, fmt.Errorf("flightlog: mount: %w", err)
		}
	}

	l := &Log{dev: dev, fs: lfs, path: path}
	if err := l.init(); err != nil {
		lfs.Unmount()
		return nil, err
	}
	return l, nil
}

// init writes the header to a new file or counts the lines of an existing
// one.
func (l *Log) init() error {
	info, err := l.fs.Stat(l.path)
	if err != nil || info.Size() == 0 {
		f, err := l.fs.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
		if err != nil {
			return fmt.Errorf("flightlog: create %s: %w", l.path, err)
		}
		if _, err := f.Write([]byte(Header + "\n")); err != nil {
			f.Close()
			return fmt.Errorf("flightlog: write header: %w", err)
		}
		return f.Close()
	}

	lines := 0
	err = l.read(func(p []byte) error {
		for _, b := range p {
			if b == '\n' {
				lines++
			}
		}
		return nil
	})
	if lines > 0 {
		lines-- // header
	}
	l.lines = lines
	return err
}

func (l *Log) Path() string { return l.path }

// Lines is the number of records in the file.
func (l *Log) Lines() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lines
}

// Capacity is the size of the underlying block device in bytes.
func (l *Log) Capacity() int64 { return l.dev.Size() }

// Append writes one record.
func (l *Log) Append(r Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}
	f, err := l.fs.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND)
	if err != nil {
		return fmt.Errorf("flightlog: open %s: %w", l.path, err)
	}
	l.buf = r.AppendCSV(l.buf[:0])
	if _, err := f.Write(l.buf); err != nil {
		f.Close()
		return fmt.Errorf("flightlog: append: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("flightlog: close: %w", err)
	}
	l.lines++
	return nil
}

// WriteTo streams the whole file, header included, to w.
func (l *Log) WriteTo(w io.Writer) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return 0, ErrClosed
	}
	var n int64
	err := l.read(func(p []byte) error {
		m, err := w.Write(p)
		n += int64(m)
		return err
	})
	return n, err
}

// Truncate removes every record, leaving only the header.
func (l *Log) Truncate() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}
	f, err := l.fs.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return fmt.Errorf("flightlog: open %s: %w", l.path, err)
	}
	if _, err := f.Write([]byte(Header + "\n")); err != nil {
		f.Close()
		return fmt.Errorf("flightlog: write header: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	l.lines = 0
	return nil
}

// read calls fn with successive chunks of the file. The caller holds mu or
// owns l exclusively.
func (l *Log) read(fn func([]byte) error) error {
	f, err := l.fs.Open(l.path)
	if err != nil {
		return fmt.Errorf("flightlog: open %s: %w", l.path, err)
	}
	defer f.Close()

	var chunk [256]byte
	for {
		n, err := f.Read(chunk[:])
		if n > 0 {
			if werr := fn(chunk[:n]); werr != nil {
				return werr
			}
		}
		if err == io.EOF || n == 0 {
			return nil
		}
		if err != nil {
			return fmt.Errorf("flightlog: read: %w", err)
		}
	}
}

// Close unmounts the volume. Later calls return ErrClosed.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}
	l.closed = true
	return l.fs.Unmount()
}
