package st7789

import "time"

// Command bytes used by the driver.
const (
	SWRESET   = 0x01
	SLPOUT    = 0x11
	NORON     = 0x13
	INVON     = 0x21
	DISPOFF   = 0x28
	DISPON    = 0x29
	CASET     = 0x2A
	RASET     = 0x2B
	RAMWR     = 0x2C
	MADCTL    = 0x36
	COLMOD    = 0x3A
	PORCTRL   = 0xB2
	DFC       = 0xB6
	GCTRL     = 0xB7
	VCOMS     = 0xBB
	LCMCTRL   = 0xC0
	VDVVRHEN  = 0xC2
	VRHS      = 0xC3
	VDVS      = 0xC4
	FRCTRL2   = 0xC6
	PWCTRL1   = 0xD0
	PVGAMCTRL = 0xE0
	NVGAMCTRL = 0xE1
)

// MADCTL bits.
const (
	MADCTL_MY  = 0x80
	MADCTL_MX  = 0x40
	MADCTL_MV  = 0x20
	MADCTL_ML  = 0x10
	MADCTL_BGR = 0x08
)

// Step is one entry of the power-on command table.
type Step struct {
	Cmd    byte
	Params []byte
	Delay  time.Duration
}

var initSequence = []Step{
	{Cmd: SLPOUT, Delay: 120 * time.Millisecond},
	{Cmd: NORON},
	{Cmd: DFC, Params: []byte{0x0A, 0x82}},
	{Cmd: COLMOD, Params: []byte{0x55}, Delay: 10 * time.Millisecond}, // 16bpp
	{Cmd: PORCTRL, Params: []byte{0x0C, 0x0C, 0x00, 0x33, 0x33}},
	{Cmd: GCTRL, Params: []byte{0x35}},
	{Cmd: VCOMS, Params: []byte{0x28}},
	{Cmd: LCMCTRL, Params: []byte{0x0C}},
	{Cmd: VDVVRHEN, Params: []byte{0x01, 0xFF}},
	{Cmd: VRHS, Params: []byte{0x10}},
	{Cmd: VDVS, Params: []byte{0x20}},
	{Cmd: FRCTRL2, Params: []byte{0x0F}},
	{Cmd: PWCTRL1, Params: []byte{0xA4, 0xA1}},
	{Cmd: PVGAMCTRL, Params: []byte{0xD0, 0x00, 0x02, 0x07, 0x0A, 0x28, 0x32, 0x44, 0x42, 0x06, 0x0E, 0x12, 0x14, 0x17}},
	{Cmd: NVGAMCTRL, Params: []byte{0xD0, 0x00, 0x02, 0x07, 0x0A, 0x28, 0x31, 0x54, 0x47, 0x0E, 0x1C, 0x17, 0x1B, 0x1E}},
	{Cmd: INVON},
	{Cmd: DISPON, Delay: 120 * time.Millisecond},
}

// InitSequence returns a copy of the command table sent by Init after the
// reset pulse.
func InitSequence() []Step {
	out := make([]Step, len(initSequence))
	for i, s := range initSequence {
		out[i] = Step{Cmd: s.Cmd, Params: append([]byte(nil), s.Params...), Delay: s.Delay}
	}
	return out
}
