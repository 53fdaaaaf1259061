// Package interact turns pointer input into hover and selection of stars.
//
// The Controller owns all interaction state. It is driven from the frame loop
// and is not safe for concurrent use.
package interact

import (
	"fmt"
	"time"

	"constellations/stars/catalog"
	"constellations/stars/sched"

	"github.com/rs/zerolog"
)

const (
	tooltipOffset = 15
	tooltipPrefix = "You will be transported to...\n"

	selectedScale = 1.5
	revertAfter   = 500 * time.Millisecond
)

// State is the interaction state.
type State uint8

const (
	Idle State = iota
	Hovering
	Selected
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Hovering:
		return "hovering"
	case Selected:
		return "selected"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Overlay is the part of the UI the controller writes to.
type Overlay interface {
	ShowTooltip(x, y int, text string)
	HideTooltip()
	ShowInfo(site catalog.Site)
	SetMuted(muted bool)
}

// Sound plays the selection cue. It reports whether a tone was played.
type Sound interface {
	Play() bool
}

// Navigator opens a URL outside the application.
type Navigator interface {
	Navigate(url string, vp Viewport) error
}

// Screen reports the size of the display the popup is placed on.
type Screen interface {
	Size() (w, h int)
}

// Muter is the persisted mute switch.
type Muter interface {
	Muted() bool
	Toggle() (bool, error)
}

// Metrics receives interaction counters.
type Metrics interface {
	Hovered(site string)
	Selected(site, marker string)
	MuteToggled(muted bool)
	NavigationFailed(url string)
}

type Config struct {
	Caster    RayCaster
	Overlay   Overlay
	Sound     Sound
	Navigator Navigator
	Screen    Screen
	Mute      Muter
	Scheduler *sched.Scheduler
	Metrics   Metrics
	Log       zerolog.Logger
}

// Controller is the hover/select state machine.
type Controller struct {
	cfg Config

	state     State
	hover     Selectable
	hoverSite catalog.Site

	// pending is the marker whose revert is scheduled.
	pending Selectable
}

func New(cfg Config) *Controller {
	if cfg.Metrics == nil {
		cfg.Metrics = nopMetrics{}
	}
	return &Controller{cfg: cfg}
}

func (c *Controller) State() State { return c.state }

// Hovered returns the site under the pointer, if any.
func (c *Controller) Hovered() (catalog.Site, bool) {
	if c.hover == nil {
		return catalog.Site{}, false
	}
	return c.hoverSite, true
}

// PointerMove updates hover state for a pointer at (x, y) on a w×h surface.
func (c *Controller) PointerMove(x, y, w, h int) {
	nx, ny := pointerNDC(x, y, w, h)
	origin, dir := c.cfg.Caster.Ray(nx, ny)
	sel, site, ok := nearestSelectable(c.cfg.Caster.CastRay(origin, dir))
	if !ok {
		c.clearHover()
		return
	}
	if sel != c.hover {
		c.cfg.Metrics.Hovered(site.Name)
	}
	c.hover = sel
	c.hoverSite = site
	c.state = Hovering
	c.cfg.Overlay.ShowTooltip(x+tooltipOffset, y+tooltipOffset, tooltipPrefix+site.Name)
}

// PointerLeave clears hover state when the pointer leaves the surface.
func (c *Controller) PointerLeave() { c.clearHover() }

func (c *Controller) clearHover() {
	c.hover = nil
	c.hoverSite = catalog.Site{}
	c.state = Idle
	c.cfg.Overlay.HideTooltip()
}

// Click selects the hovered star. It reports whether anything was selected.
func (c *Controller) Click() bool {
	if c.hover == nil {
		return false
	}
	c.selectMarker(c.hover, c.hoverSite)
	return true
}

func (c *Controller) selectMarker(sel Selectable, site catalog.Site) {
	if c.pending != nil {
		c.cfg.Scheduler.Cancel(c.pending.Key())
		c.pending.SetScale(1)
		c.pending = nil
	}

	c.state = Selected
	c.cfg.Overlay.ShowInfo(site)
	sel.SetScale(selectedScale)
	c.cfg.Metrics.Selected(site.Name, sel.Key())
	c.cfg.Log.Info().Str("marker", sel.Key()).Str("site", site.Name).Str("url", site.URL).Msg("star selected")

	if c.cfg.Sound != nil {
		c.cfg.Sound.Play()
	}
	c.Visit(site.URL)

	c.pending = sel
	c.cfg.Scheduler.After(sel.Key(), revertAfter, func() { c.revert(sel) })
}

func (c *Controller) revert(sel Selectable) {
	sel.SetScale(1)
	if c.pending == sel {
		c.pending = nil
	}
	if c.state != Selected {
		return
	}
	if c.hover != nil {
		c.state = Hovering
	} else {
		c.state = Idle
	}
}

// Visit opens url in a centered popup sized to 80% of the screen.
// Failures are logged and leave the state machine untouched.
func (c *Controller) Visit(url string) {
	if c.cfg.Navigator == nil {
		return
	}
	var vp Viewport
	if c.cfg.Screen != nil {
		vp = PopupViewport(c.cfg.Screen.Size())
	}
	if err := c.cfg.Navigator.Navigate(url, vp); err != nil {
		c.cfg.Metrics.NavigationFailed(url)
		c.cfg.Log.Error().Err(err).Str("url", url).Msg("navigation failed")
	}
}

// ToggleMute flips and persists the mute flag and relabels the button.
func (c *Controller) ToggleMute() bool {
	// A failed write is reported by the flag itself; the new value holds.
	muted, _ := c.cfg.Mute.Toggle()
	c.cfg.Overlay.SetMuted(muted)
	c.cfg.Metrics.MuteToggled(muted)
	return muted
}

// Advance runs deferred work that is due at now.
func (c *Controller) Advance(now time.Time) int {
	return c.cfg.Scheduler.Advance(now)
}

type nopMetrics struct{}

func (nopMetrics) Hovered(string)          {}
func (nopMetrics) Selected(string, string) {}
func (nopMetrics) MuteToggled(bool)        {}
func (nopMetrics) NavigationFailed(string) {}
