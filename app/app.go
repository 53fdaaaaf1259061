// Package app wires the star field to a host and exposes the per-tick step
// the host runners call.
package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math/rand"
	"strings"
	"time"

	"constellations/hal"
	"constellations/internal/config"
	"constellations/internal/logging"
	"constellations/stars/catalog"
	"constellations/stars/interact"
	"constellations/stars/overlay"
	"constellations/stars/prefs"
	"constellations/stars/quarkgl"
	"constellations/stars/sched"
	"constellations/stars/sound"
	"constellations/stars/starfield"

	"github.com/rs/zerolog"
)

// Config carries everything the app needs besides the host.
type Config struct {
	Settings config.Settings
	Log      zerolog.Logger

	// Sites defaults to the embedded catalog.
	Sites []catalog.Site
	// Store defaults to the SQLite file named by Settings.Prefs.Path.
	Store prefs.Store
	// Metrics may be nil.
	Metrics interact.Metrics
	// Rand defaults to a source seeded from Settings.Scene.Seed, or the
	// clock when the seed is zero.
	Rand *rand.Rand
}

// App is the running star field.
type App struct {
	h   hal.HAL
	log zerolog.Logger

	fb       hal.Framebuffer
	target   quarkgl.RGB565Target
	renderer *quarkgl.Renderer
	fbW, fbH int

	field   *starfield.Field
	ctrl    *interact.Controller
	ui      *overlay.Overlay
	mute    *prefs.MuteFlag
	engine  *sound.Engine
	sched   *sched.Scheduler
	events  sched.Dispatcher
	closers []func() error

	start   time.Time
	nebula  <-chan image.Image
	watch   <-chan image.Image
	cancel  context.CancelFunc
	ptr     pointerState
	crashed bool
}

// NewWithConfig builds the app and returns its step function.
func NewWithConfig(h hal.HAL, cfg Config) (func() error, error) {
	a, err := New(h, cfg)
	if err != nil {
		return nil, err
	}
	return a.guard(a.Step), nil
}

// New builds the scene, loads preferences and hooks up input handling.
func New(h hal.HAL, cfg Config) (*App, error) {
	s := cfg.Settings
	log := cfg.Log

	sites := cfg.Sites
	if sites == nil {
		var err error
		sites, err = catalog.Default()
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
	}

	rng := cfg.Rand
	if rng == nil {
		seed := s.Scene.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}

	opts := starfield.Options{
		Spread:          s.Scene.Spread,
		SparkleCount:    s.Scene.SparkleCount,
		SparkleSpread:   s.Scene.SparkleSpread,
		AutoRotateSpeed: s.Scene.AutoRotateSpeed,
	}
	field, err := starfield.New(sites, rng, opts)
	if err != nil {
		return nil, err
	}

	a := &App{
		h:        h,
		log:      log,
		field:    field,
		renderer: quarkgl.NewRenderer(0, 0, true),
		start:    h.Clock().Now(),
	}
	a.renderer.ClearColor = quarkgl.RGB(0, 0, 0)
	a.renderer.Mode, err = quarkgl.ParseRenderMode(s.Scene.RenderMode)
	if err != nil {
		return nil, err
	}
	a.sched = sched.NewScheduler(a.start)

	store := cfg.Store
	if store == nil {
		store = a.openStore(s.Prefs.Path, logging.Component(log, "prefs"))
	}
	a.mute = prefs.LoadMuteFlag(store, logging.Component(log, "prefs"))
	a.ui = overlay.New(a.mute.Muted())

	audioLog := logging.Component(log, "audio")
	sampleRate := s.Audio.SampleRate
	a.engine = sound.NewEngine(func() (sound.Output, error) {
		if h.Audio() == nil {
			return nil, sound.ErrUnavailable
		}
		out, err := h.Audio().Open(sampleRate)
		if err != nil {
			return nil, err
		}
		return out, nil
	}, a.mute, rng, audioLog)

	a.ctrl = interact.New(interact.Config{
		Caster:    field,
		Overlay:   a.ui,
		Sound:     a.engine,
		Navigator: browserNavigator{b: h.Browser()},
		Screen:    h.Screen(),
		Mute:      a.mute,
		Scheduler: a.sched,
		Metrics:   cfg.Metrics,
		Log:       logging.Component(log, "interact"),
	})

	// Audio starts on the first user gesture. Registered ahead of click
	// handling, so the first selection is already audible.
	a.events.Once(a.engine.Resume, sched.EventClick, sched.EventKey)

	a.startNebula(s.Nebula)
	a.syncSize()

	log.Info().Int("stars", len(field.Markers)).Bool("muted", a.mute.Muted()).Msg("constellations ready")
	return a, nil
}

func (a *App) openStore(path string, log zerolog.Logger) prefs.Store {
	st, err := prefs.OpenSQLite(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("preferences not persisted, using memory")
		return prefs.NewMemoryStore()
	}
	a.closers = append(a.closers, st.Close)
	log.Debug().Str("path", path).Msg("preferences opened")
	return st
}

func (a *App) startNebula(cfg config.NebulaConfig) {
	if cfg.Source == "" {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	log := logging.Component(a.log, "nebula")
	a.nebula = starfield.LoadAsync(ctx, nil, cfg.Source, log)

	if !cfg.Watch || strings.HasPrefix(cfg.Source, "http://") || strings.HasPrefix(cfg.Source, "https://") {
		return
	}
	ch, err := starfield.WatchTexture(ctx, cfg.Source, log)
	if err != nil {
		log.Warn().Err(err).Msg("nebula watch disabled")
		return
	}
	a.watch = ch
}

// Step runs one frame: input, deferred work, animation and rendering.
func (a *App) Step() error {
	if a.crashed {
		return nil
	}
	now := a.h.Clock().Now()

	a.syncSize()
	a.drainKeys()
	a.drainPointer()
	a.ctrl.Advance(now)
	a.pollNebula()

	a.field.Step(now.Sub(a.start))
	a.renderer.Render(&a.target, a.field.Scene)
	a.ui.Draw(&a.target)
	return a.fb.Present()
}

// syncSize follows framebuffer reallocation after a window resize.
func (a *App) syncSize() {
	fb := a.h.Display().Framebuffer()
	w, h := fb.Width(), fb.Height()
	if fb == a.fb && w == a.fbW && h == a.fbH && len(fb.Buffer()) == len(a.target.Buf) {
		return
	}
	a.fb = fb
	a.fbW, a.fbH = w, h
	a.target = quarkgl.RGB565Target{Buf: fb.Buffer(), Stride: fb.StrideBytes(), W: w, H: h}
	a.field.SetAspect(w, h)
	a.ui.Resize(w, h)
	a.log.Debug().Int("width", w).Int("height", h).Msg("surface resized")
}

func (a *App) pollNebula() {
	for _, ch := range []*<-chan image.Image{&a.nebula, &a.watch} {
		if *ch == nil {
			continue
		}
		select {
		case img, ok := <-*ch:
			if !ok {
				*ch = nil
				continue
			}
			a.field.ShowNebula(img)
		default:
		}
	}
}

// Close stops background loading and closes the preference store.
func (a *App) Close() error {
	if a.cancel != nil {
		a.cancel()
	}
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Controller, Overlay, Field and Engine expose the parts for inspection.
func (a *App) Controller() *interact.Controller { return a.ctrl }
func (a *App) Overlay() *overlay.Overlay        { return a.ui }
func (a *App) Field() *starfield.Field          { return a.field }
func (a *App) Engine() *sound.Engine            { return a.engine }
func (a *App) Muted() bool                      { return a.mute.Muted() }

type browserNavigator struct {
	b hal.Browser
}

func (n browserNavigator) Navigate(url string, vp interact.Viewport) error {
	if n.b == nil {
		return hal.ErrNotImplemented
	}
	return n.b.Open(hal.OpenRequest{
		URL:      url,
		Width:    vp.Width,
		Height:   vp.Height,
		Top:      vp.Top,
		Left:     vp.Left,
		Features: vp.Features(),
	})
}
