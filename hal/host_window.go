//go:build cgo

package hal

import (
	"image"
	"time"

	"constellations/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
)

// WindowConfig controls the desktop window.
type WindowConfig struct {
	Title  string
	Width  int
	Height int
	TPS    int
}

// RunWindow starts a resizable desktop window that displays the framebuffer
// and forwards pointer and keyboard input. It blocks until the window closes.
func RunWindow(cfg WindowConfig, log zerolog.Logger, newApp func(HAL) (func() error, error)) error {
	if cfg.TPS <= 0 {
		cfg.TPS = 60
	}
	h := newHost(cfg.Width, cfg.Height, log)
	h.aud = newHostAudio()
	h.browser = newSystemBrowser(log)
	h.screen = monitorScreen{}

	step, err := newApp(h)
	if err != nil {
		return err
	}

	g := &hostGame{h: h, step: step}
	title := cfg.Title
	if title == "" {
		title = "Creative Constellations"
	}
	ebiten.SetWindowTitle(title + " (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.TPS)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h     *hostHAL
	img   *image.RGBA
	fbImg *ebiten.Image
	step  func() error

	outW, outH int
}

func (g *hostGame) Update() error {
	if g.outW > 0 && g.outH > 0 {
		g.h.fb.resize(g.outW, g.outH)
	}
	g.h.t.set(time.Now())
	g.h.kbd.poll()
	g.h.ptr.poll(g.h.fb.Width(), g.h.fb.Height())
	if g.step != nil {
		if err := g.step(); err != nil {
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	w, h := fb.Width(), fb.Height()
	if g.img == nil || g.img.Bounds().Dx() != w || g.img.Bounds().Dy() != h {
		g.img = image.NewRGBA(image.Rect(0, 0, w, h))
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(w, h)
	}

	fb.toRGBA(g.img.Pix)
	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

// Layout keeps one framebuffer pixel per window pixel. The framebuffer
// follows on the next Update.
func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.outW, g.outH = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// monitorScreen reports the size of the monitor holding the window.
type monitorScreen struct{}

func (monitorScreen) Size() (int, int) {
	if m := ebiten.Monitor(); m != nil {
		return m.Size()
	}
	return ebiten.ScreenSizeInFullscreen()
}
