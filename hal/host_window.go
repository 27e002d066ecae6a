//go:build !tinygo && cgo

package hal

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"altimeter/internal/buildinfo"
)

// WindowConfig controls the desktop window.
type WindowConfig struct {
	// Scale is the integer zoom of the panel. Zero means 3.
	Scale int
	Host  HostOptions
}

// ledStrip is the height of the status LED bar under the panel.
const ledStrip = 6

// RunWindow starts a desktop window that shows the emulated panel and the
// status LED, and maps the keyboard to the buttons. It blocks until the
// window closes.
func RunWindow(newApp func(HAL) func() error, cfg WindowConfig) error {
	if cfg.Scale <= 0 {
		cfg.Scale = 3
	}
	h := newHostHAL(cfg.Host)
	step := newApp(h)

	w, hgt := h.Panel().Size()
	g := &hostGame{h: h, step: step, kbd: newHostKeyboard(h)}
	ebiten.SetWindowTitle("Altimeter (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(w*cfg.Scale, (hgt+ledStrip)*cfg.Scale)
	ebiten.SetTPS(100)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h     *hostHAL
	kbd   *hostKeyboard
	img   *image.RGBA
	fbImg *ebiten.Image
	step  func() error
}

func (g *hostGame) Update() error {
	g.kbd.poll()
	if g.step != nil {
		if err := g.step(); err != nil {
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	panel := g.h.Panel()
	w, h := panel.Size()
	if g.fbImg == nil || g.img.Bounds().Dx() != w || g.img.Bounds().Dy() != h {
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(w, h)
	}

	if g.h.Backlight() {
		g.img = panel.Image()
		g.fbImg.WritePixels(g.img.Pix)
	} else {
		g.img = image.NewRGBA(image.Rect(0, 0, w, h))
		g.fbImg.Fill(color.Black)
	}
	screen.DrawImage(g.fbImg, nil)

	r, gg, b := g.h.led.RGB()
	strip := screen.SubImage(image.Rect(0, h, w, h+ledStrip)).(*ebiten.Image)
	strip.Fill(color.RGBA{R: r, G: gg, B: b, A: 0xFF})
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := g.h.Panel().Size()
	return w, h + ledStrip
}
