package flightlog

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"tinygo.org/x/tinyfs"

	"altimeter/internal/tracker"
)

func newDevice() *tinyfs.MemBlockDevice {
	return tinyfs.NewMemoryDevice(256, 4096, 64)
}

func TestRecordCSV(t *testing.T) {
	r := Record{
		Timestamp:   1500 * time.Millisecond,
		Temperature: 21.5,
		Pressure:    101325,
		Altitude:    12.34,
		MaxAltitude: 20,
		Accel:       tracker.Vector{X: 0.01, Y: -0.5, Z: 1},
	}
	got := string(r.AppendCSV(nil))
	want := "1500,21.50,101325.0,12.34,20.00,0.010,-0.500,1.000\n"
	if got != want {
		t.Fatalf("AppendCSV() = %q, want %q", got, want)
	}
}

func TestAppendAndStream(t *testing.T) {
	l, err := Open(newDevice(), "", true)
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}
	defer l.Close()

	for i := 0; i < 3; i++ {
		if err := l.Append(Record{Timestamp: time.Duration(i) * time.Second, Altitude: float32(i)}); err != nil {
			t.Fatalf("Append(%d) = %v", i, err)
		}
	}
	if got := l.Lines(); got != 3 {
		t.Fatalf("Lines() = %d, want 3", got)
	}

	var buf bytes.Buffer
	n, err := l.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo() = %v", err)
	}
	if n != int64(buf.Len()) {
		t.Fatalf("WriteTo() n = %d, buffer has %d", n, buf.Len())
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4: %q", len(lines), buf.String())
	}
	if lines[0] != Header {
		t.Fatalf("first line = %q, want header", lines[0])
	}
	if !strings.HasPrefix(lines[3], "2000,") {
		t.Fatalf("last line = %q, want timestamp 2000", lines[3])
	}
}

func TestReopenKeepsRecords(t *testing.T) {
	dev := newDevice()
	l, err := Open(dev, "/log.csv", true)
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}
	l.Append(Record{})
	l.Append(Record{})
	if err := l.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}

	l, err = Open(dev, "/log.csv", false)
	if err != nil {
		t.Fatalf("reopen = %v", err)
	}
	defer l.Close()
	if got := l.Lines(); got != 2 {
		t.Fatalf("Lines() after reopen = %d, want 2", got)
	}
	var buf bytes.Buffer
	l.WriteTo(&buf)
	if c := strings.Count(buf.String(), Header); c != 1 {
		t.Fatalf("header appears %d times, want 1", c)
	}
}

func TestOpenWithoutFormat(t *testing.T) {
	if _, err := Open(newDevice(), "", false); err == nil {
		t.Fatal("Open() on blank device without format = nil error")
	}
}

func TestTruncate(t *testing.T) {
	l, err := Open(newDevice(), "", true)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	l.Append(Record{})
	if err := l.Truncate(); err != nil {
		t.Fatalf("Truncate() = %v", err)
	}
	if got := l.Lines(); got != 0 {
		t.Fatalf("Lines() = %d, want 0", got)
	}
	var buf bytes.Buffer
	l.WriteTo(&buf)
	if buf.String() != Header+"\n" {
		t.Fatalf("file = %q, want header only", buf.String())
	}
}

func TestClosed(t *testing.T) {
	l, err := Open(newDevice(), "", true)
	if err != nil {
		t.Fatal(err)
	}
	l.Close()
	if err := l.Append(Record{}); !errors.Is(err, ErrClosed) {
		t.Fatalf("Append() after Close = %v, want ErrClosed", err)
	}
	if _, err := l.WriteTo(&bytes.Buffer{}); !errors.Is(err, ErrClosed) {
		t.Fatalf("WriteTo() after Close = %v, want ErrClosed", err)
	}
	if err := l.Close(); !errors.Is(err, ErrClosed) {
		t.Fatalf("second Close() = %v, want ErrClosed", err)
	}
}
