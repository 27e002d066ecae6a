package tracker

import (
	"errors"
	"math"
	"strings"
)

// StandardSeaLevelPa is the ISA sea-level pressure.
const StandardSeaLevelPa = 101325

// Altitude converts pressure to height above the level where the pressure
// equals baseline, using the barometric formula.
func Altitude(pressure, baseline float32) float32 {
	return 44330 * (1 - float32(math.Pow(float64(pressure/baseline), 0.1903)))
}

// Policy selects how the altitude reference is established.
type Policy uint8

const (
	// SeaLevelStandard measures against a fixed sea-level pressure. Zeroing
	// applies an altitude offset and leaves the pressure reference alone.
	SeaLevelStandard Policy = iota
	// ZeroAtBoot samples the local pressure at boot as the reference.
	// Zeroing replaces the reference with the current pressure.
	ZeroAtBoot
)

var ErrUnknownPolicy = errors.New("unknown calibration policy")

func (p Policy) String() string {
	switch p {
	case ZeroAtBoot:
		return "zero_at_boot"
	default:
		return "sea_level_standard"
	}
}

// ParsePolicy accepts the String forms, case-insensitively.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sea_level_standard", "sea-level", "sealevel":
		return SeaLevelStandard, nil
	case "zero_at_boot", "zero-at-boot", "zero":
		return ZeroAtBoot, nil
	}
	return 0, ErrUnknownPolicy
}

// Set implements flag.Value.
func (p *Policy) Set(s string) error {
	v, err := ParsePolicy(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Calibration turns pressure into displayed altitude under a Policy.
type Calibration struct {
	policy   Policy
	baseline float32
	offset   float32
}

// NewCalibration starts from seaLevelPa (StandardSeaLevelPa if <= 0) as
// the pressure reference for either policy.
func NewCalibration(p Policy, seaLevelPa float32) *Calibration {
	if seaLevelPa <= 0 {
		seaLevelPa = StandardSeaLevelPa
	}
	return &Calibration{policy: p, baseline: seaLevelPa}
}

func (c *Calibration) Policy() Policy    { return c.policy }
func (c *Calibration) Baseline() float32 { return c.baseline }
func (c *Calibration) Offset() float32   { return c.offset }

// Boot applies the boot-time reference from pressure samples. Under
// SeaLevelStandard it does nothing. It reports whether a reference was
// taken.
func (c *Calibration) Boot(samples []float32) bool {
	if c.policy != ZeroAtBoot {
		return false
	}
	var sum float32
	n := 0
	for _, p := range samples {
		if p > 0 {
			sum += p
			n++
		}
	}
	if n == 0 {
		return false
	}
	c.baseline = sum / float32(n)
	c.offset = 0
	return true
}

// Zero makes pressure read as 0 m.
func (c *Calibration) Zero(pressure float32) {
	if pressure <= 0 {
		return
	}
	if c.policy == ZeroAtBoot {
		c.baseline = pressure
		c.offset = 0
		return
	}
	c.offset = Altitude(pressure, c.baseline)
}

// Altitude converts pressure under the current reference.
func (c *Calibration) Altitude(pressure float32) float32 {
	return Altitude(pressure, c.baseline) - c.offset
}
