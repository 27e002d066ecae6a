package tracker

import (
	"math"
	"math/rand"
	"testing"
)

func alt(a float32) Frame {
	return Frame{Altitude: a, PressureOK: true}
}

func accel(x, y, z float32) Frame {
	return Frame{Accel: Vector{x, y, z}, IMUOK: true}
}

func TestMaxAltitudeRebaselinesOnReset(t *testing.T) {
	tr := New()
	tr.Ingest(alt(100))
	tr.Ingest(alt(80))
	if got := tr.State().MaxAltitude; got != 100 {
		t.Fatalf("MaxAltitude = %v, want 100", got)
	}
	tr.ResetMaxAltitude()
	if got := tr.State().MaxAltitude; got != 80 {
		t.Fatalf("MaxAltitude after reset = %v, want 80", got)
	}
	tr.Ingest(alt(90))

	s := tr.State()
	if s.MaxAltitude != 90 {
		t.Fatalf("MaxAltitude = %v, want 90", s.MaxAltitude)
	}
	if s.Altitude != 90 {
		t.Fatalf("Altitude = %v, want 90", s.Altitude)
	}
}

func TestMaxAltitudeMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tr := New()
	var seenMax float32
	prevMax := float32(math.Inf(-1))

	for i := 0; i < 2000; i++ {
		if i%500 == 499 {
			tr.ResetMaxAltitude()
			seenMax = tr.State().Altitude
			prevMax = seenMax
			continue
		}
		a := rng.Float32()*400 - 200
		tr.Ingest(alt(a))
		if a > seenMax {
			seenMax = a
		}

		got := tr.State().MaxAltitude
		if got < prevMax {
			t.Fatalf("step %d: MaxAltitude decreased %v -> %v", i, prevMax, got)
		}
		if got != seenMax {
			t.Fatalf("step %d: MaxAltitude = %v, want %v", i, got, seenMax)
		}
		prevMax = got
	}
}

func TestMaxAltitudeStartsAtZero(t *testing.T) {
	tr := New()
	tr.Ingest(alt(-12))
	tr.Ingest(alt(-15))
	s := tr.State()
	if s.MaxAltitude != 0 {
		t.Fatalf("MaxAltitude below sea level = %v, want 0", s.MaxAltitude)
	}
	if s.Altitude != -15 {
		t.Fatalf("Altitude = %v, want -15", s.Altitude)
	}
	tr.ResetMaxAltitude()
	if got := tr.State().MaxAltitude; got != -15 {
		t.Fatalf("MaxAltitude after reset = %v, want -15", got)
	}
}

func TestMaxAccelerationAxis(t *testing.T) {
	tr := New()
	tr.Ingest(accel(0.1, 0.2, 1.0))
	tr.Ingest(accel(0.3, 0.05, 0.9))
	tr.Ingest(accel(0.05, 0.4, 0.95))

	s := tr.State()
	if s.MaxAcceleration != 1.0 {
		t.Fatalf("MaxAcceleration = %v, want 1.0", s.MaxAcceleration)
	}
	if s.MaxAccelerationAxis != AxisZ {
		t.Fatalf("MaxAccelerationAxis = %v, want Z", s.MaxAccelerationAxis)
	}
}

func TestMaxAccelerationTiesAndSign(t *testing.T) {
	tests := []struct {
		name   string
		frames []Frame
		want   float32
		axis   Axis
	}{
		{"tie prefers X", []Frame{accel(0.5, 0.5, 0.5)}, 0.5, AxisX},
		{"tie prefers Y over Z", []Frame{accel(0.1, -0.7, 0.7)}, 0.7, AxisY},
		{"negative counts", []Frame{accel(-2.5, 1, 1)}, 2.5, AxisX},
		{"later equal keeps first", []Frame{accel(0, 0, 1.5), accel(1.5, 0, 0)}, 1.5, AxisZ},
	}
	for _, tt := range tests {
		tr := New()
		for _, f := range tt.frames {
			tr.Ingest(f)
		}
		s := tr.State()
		if s.MaxAcceleration != tt.want || s.MaxAccelerationAxis != tt.axis {
			t.Fatalf("%s: max = %v/%v, want %v/%v", tt.name, s.MaxAcceleration, s.MaxAccelerationAxis, tt.want, tt.axis)
		}
	}
}

func TestMaxAccelerationMatchesLargestAxis(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	tr := New()
	var want float32
	for i := 0; i < 1000; i++ {
		f := accel(rng.Float32()*8-4, rng.Float32()*8-4, rng.Float32()*8-4)
		tr.Ingest(f)
		for _, v := range []float32{f.Accel.X, f.Accel.Y, f.Accel.Z} {
			if abs(v) > want {
				want = abs(v)
			}
		}
		if got := tr.State().MaxAcceleration; got != want {
			t.Fatalf("step %d: MaxAcceleration = %v, want %v", i, got, want)
		}
	}
}

func TestResetMaxAcceleration(t *testing.T) {
	tr := New()
	tr.Ingest(accel(0, 3, 0))
	tr.ResetMaxAcceleration()
	s := tr.State()
	if s.MaxAcceleration != 0 || s.MaxAccelerationAxis != AxisNone {
		t.Fatalf("after reset = %v/%v, want 0/-", s.MaxAcceleration, s.MaxAccelerationAxis)
	}
	tr.Ingest(accel(0, 0, -0.2))
	if s := tr.State(); s.MaxAcceleration != 0.2 || s.MaxAccelerationAxis != AxisZ {
		t.Fatalf("after ingest = %v/%v, want 0.2/Z", s.MaxAcceleration, s.MaxAccelerationAxis)
	}
}

func TestAccelMagnitude(t *testing.T) {
	tr := New()
	tr.Ingest(accel(3, 4, 0))
	if got := tr.State().AccelMagnitude; got != 5 {
		t.Fatalf("AccelMagnitude = %v, want 5", got)
	}
}

func TestUnavailableSensorFieldsIgnored(t *testing.T) {
	tr := New()
	tr.Ingest(Frame{Altitude: 50, Temperature: 20, PressureOK: true})
	tr.Ingest(Frame{Altitude: 999, Temperature: -40, Accel: Vector{9, 9, 9}})

	s := tr.State()
	if s.Altitude != 50 || s.MaxAltitude != 50 || s.Temperature != 20 {
		t.Fatalf("pressure fields changed by unavailable frame: %+v", s)
	}
	if s.MaxAcceleration != 0 {
		t.Fatalf("MaxAcceleration = %v, want 0", s.MaxAcceleration)
	}
	if s.Frames != 2 {
		t.Fatalf("Frames = %d, want 2", s.Frames)
	}
}

func TestSetSensorStatus(t *testing.T) {
	tr := New()
	if !tr.SetSensorStatus(true, false) {
		t.Fatal("first status change not reported")
	}
	if tr.SetSensorStatus(true, false) {
		t.Fatal("unchanged status reported as change")
	}
	if !tr.SetSensorStatus(true, true) {
		t.Fatal("IMU change not reported")
	}
	s := tr.State()
	if !s.PressureOK || !s.IMUOK {
		t.Fatalf("flags = %v/%v, want true/true", s.PressureOK, s.IMUOK)
	}
}

func TestRebase(t *testing.T) {
	tr := New()
	tr.Ingest(alt(300))
	tr.Rebase(0)
	s := tr.State()
	if s.Altitude != 0 || s.MaxAltitude != 0 {
		t.Fatalf("after Rebase = %v/%v, want 0/0", s.Altitude, s.MaxAltitude)
	}
}

func TestAxisString(t *testing.T) {
	for a, want := range map[Axis]string{AxisNone: "-", AxisX: "X", AxisY: "Y", AxisZ: "Z"} {
		if got := a.String(); got != want {
			t.Fatalf("Axis(%d).String() = %q, want %q", a, got, want)
		}
	}
}
