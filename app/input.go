package app

import (
	"constellations/hal"
	"constellations/stars/overlay"
	"constellations/stars/sched"
)

const (
	// dragThreshold is how far the pointer may travel while pressed and
	// still count as a click.
	dragThreshold = 4

	dragRadians   = 0.005
	keyRadians    = 0.05
	wheelDistance = 2
)

type pointerState struct {
	down         bool
	dragging     bool
	downX, downY int
	lastX, lastY int
}

func (a *App) drainKeys() {
	ch := a.h.Input().Keyboard().Events()
	for {
		select {
		case ev := <-ch:
			a.handleKey(ev)
		default:
			return
		}
	}
}

func (a *App) handleKey(ev hal.KeyEvent) {
	if !ev.Press {
		return
	}
	a.events.Emit(sched.EventKey)

	orbit := a.field.Orbit
	switch ev.Code {
	case hal.KeyLeft:
		orbit.Rotate(-keyRadians, 0)
	case hal.KeyRight:
		orbit.Rotate(keyRadians, 0)
	case hal.KeyUp:
		orbit.Rotate(0, keyRadians)
	case hal.KeyDown:
		orbit.Rotate(0, -keyRadians)
	case hal.KeyUnknown:
		if ev.Rune == 'm' || ev.Rune == 'M' {
			a.ctrl.ToggleMute()
		}
	}
}

func (a *App) drainPointer() {
	ch := a.h.Input().Pointer().Events()
	for {
		select {
		case ev := <-ch:
			a.handlePointer(ev)
		default:
			return
		}
	}
}

func (a *App) handlePointer(ev hal.PointerEvent) {
	p := &a.ptr
	switch ev.Kind {
	case hal.PointerMove:
		if p.down {
			if !p.dragging && (abs(ev.X-p.downX) > dragThreshold || abs(ev.Y-p.downY) > dragThreshold) {
				p.dragging = true
			}
			if p.dragging {
				a.field.Orbit.Rotate(-float32(ev.X-p.lastX)*dragRadians, float32(ev.Y-p.lastY)*dragRadians)
				p.lastX, p.lastY = ev.X, ev.Y
				return
			}
		}
		p.lastX, p.lastY = ev.X, ev.Y
		a.ctrl.PointerMove(ev.X, ev.Y, a.fbW, a.fbH)

	case hal.PointerDown:
		*p = pointerState{down: true, downX: ev.X, downY: ev.Y, lastX: ev.X, lastY: ev.Y}

	case hal.PointerUp:
		wasDrag := p.dragging
		p.down, p.dragging = false, false
		if !wasDrag {
			a.click(ev.X, ev.Y)
		}

	case hal.PointerWheel:
		a.field.Orbit.Zoom(-float32(ev.Wheel) * wheelDistance)

	case hal.PointerLeave:
		p.down, p.dragging = false, false
		a.ctrl.PointerLeave()
	}
}

// click routes a click to the overlay first; only clicks on empty overlay
// space reach the stars.
func (a *App) click(x, y int) {
	a.events.Emit(sched.EventClick)

	switch a.ui.HitTest(x, y) {
	case overlay.MuteButton:
		a.ctrl.ToggleMute()
	case overlay.VisitLink:
		if site, ok := a.ui.Info(); ok {
			a.ctrl.Visit(site.URL)
		}
	default:
		a.ctrl.Click()
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
