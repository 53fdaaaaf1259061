package hal

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled      bool
	Hz           int
	Ticks        uint64
	Width        int
	Height       int
	ScreenWidth  int
	ScreenHeight int

	// Pointer events are delivered before the tick with the same index.
	Script map[uint64][]PointerEvent
}

// Headless is a host without window, audio or browser. Navigation requests
// are recorded.
type Headless struct {
	*hostHAL
	Recorder *RecordingBrowser
}

// NewHeadless builds the headless host.
func NewHeadless(cfg HeadlessConfig, log zerolog.Logger) *Headless {
	if cfg.Width <= 0 {
		cfg.Width = 960
	}
	if cfg.Height <= 0 {
		cfg.Height = 640
	}
	h := newHost(cfg.Width, cfg.Height, log)
	rec := &RecordingBrowser{Log: log}
	h.aud = nullAudio{}
	h.browser = rec
	h.screen = FixedScreen{W: cfg.ScreenWidth, H: cfg.ScreenHeight}
	return &Headless{hostHAL: h, Recorder: rec}
}

// Inject queues a pointer event as if the user produced it.
func (h *Headless) Inject(ev PointerEvent) { h.ptr.emit(ev) }

// InjectKey queues a key event.
func (h *Headless) InjectKey(ev KeyEvent) { h.kbd.emit(ev) }

// Advance moves the frame clock forward by d.
func (h *Headless) Advance(d time.Duration) { h.t.step(d) }

// Resize changes the framebuffer size as a window resize would.
func (h *Headless) Resize(w, ht int) { h.fb.resize(w, ht) }

// RunHeadless runs the app without opening a window. The frame clock advances
// by exactly one tick period per step.
func RunHeadless(ctx context.Context, cfg HeadlessConfig, log zerolog.Logger, newApp func(HAL) (func() error, error)) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	h := NewHeadless(cfg, log)
	step, err := newApp(h)
	if err != nil {
		return err
	}

	t := time.NewTicker(d)
	defer t.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			for _, ev := range cfg.Script[tick] {
				h.Inject(ev)
			}
			h.t.step(d)
			if step != nil {
				if err := step(); err != nil {
					return err
				}
			}
			tick++
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				return nil
			}
		}
	}
}
