//go:build !tinygo && cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Climb rates bound to the arrow keys, in m/s. Shift makes them faster.
const (
	keyClimb     = 5.0
	keyClimbFast = 50.0
)

// hostKeyboard maps keys to the simulator board: A, B and C are the
// buttons, arrow up/down climb and descend, F toggles the barometer.
type hostKeyboard struct {
	h     *hostHAL
	climb float64
}

func newHostKeyboard(h *hostHAL) *hostKeyboard {
	return &hostKeyboard{h: h}
}

func (k *hostKeyboard) poll() {
	k.h.Press(PinButtonA, ebiten.IsKeyPressed(ebiten.KeyA))
	k.h.Press(PinButtonB, ebiten.IsKeyPressed(ebiten.KeyB))
	k.h.Press(PinButtonC, ebiten.IsKeyPressed(ebiten.KeyC))

	rate := keyClimb
	if ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		rate = keyClimbFast
	}
	climb := 0.0
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		climb += rate
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		climb -= rate
	}
	if climb != k.climb {
		k.climb = climb
		k.h.baro.setClimb(climb)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		k.h.baro.setAvailable(!k.h.baro.Available())
	}
}
