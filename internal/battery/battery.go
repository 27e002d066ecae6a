// Package battery estimates the state of charge of a single Li-ion cell
// from its terminal voltage.
package battery

// point is one entry of the discharge curve.
type point struct {
	microvolts uint32
	percent    int8
}

// lithiumCurve is a resting discharge curve for a 3.7V Li-ion/LiPo cell.
// Entries are sorted by voltage.
var lithiumCurve = [...]point{
	{3500_000, 0},
	{3610_000, 10},
	{3690_000, 20},
	{3710_000, 30},
	{3730_000, 40},
	{3750_000, 50},
	{3790_000, 60},
	{3840_000, 70},
	{3920_000, 80},
	{4050_000, 90},
	{4180_000, 100},
}

// Percent interpolates the curve, rounding down. Values outside the curve
// clamp to 0 and 100.
func Percent(microvolts uint32) int8 {
	if microvolts <= lithiumCurve[0].microvolts {
		return 0
	}
	for i := 1; i < len(lithiumCurve); i++ {
		hi := lithiumCurve[i]
		if microvolts >= hi.microvolts {
			continue
		}
		lo := lithiumCurve[i-1]
		span := hi.microvolts - lo.microvolts
		delta := uint64(microvolts-lo.microvolts) * uint64(hi.percent-lo.percent) / uint64(span)
		return lo.percent + int8(delta)
	}
	return 100
}

// Divider converts a raw ADC reading into cell microvolts.
type Divider struct {
	// RefMicrovolts is the ADC full-scale voltage.
	RefMicrovolts uint32
	// Ratio is the resistor divider ratio; 2 means the ADC sees half the
	// cell voltage.
	Ratio uint32
}

// DefaultDivider is a 2:1 divider feeding a 3.3V ADC.
var DefaultDivider = Divider{RefMicrovolts: 3300_000, Ratio: 2}

// Microvolts scales a 16-bit left-aligned ADC value, as returned by
// machine.ADC.Get.
func (d Divider) Microvolts(raw uint16) uint32 {
	ratio := d.Ratio
	if ratio == 0 {
		ratio = 1
	}
	return uint32(uint64(raw) * uint64(d.RefMicrovolts) * uint64(ratio) / 0xffff)
}

// Reading is one battery sample.
type Reading struct {
	Volts   float32
	Percent int8
}

// Read builds a Reading from cell microvolts.
func Read(microvolts uint32) Reading {
	return Reading{Volts: float32(microvolts) / 1e6, Percent: Percent(microvolts)}
}
