package hal

type hostPointer struct {
	ch chan PointerEvent

	x, y    int
	seen    bool
	inside  bool
	pressed bool
}

func newHostPointer() *hostPointer {
	return &hostPointer{ch: make(chan PointerEvent, 64)}
}

func (p *hostPointer) Events() <-chan PointerEvent { return p.ch }

func (p *hostPointer) emit(ev PointerEvent) {
	select {
	case p.ch <- ev:
	default:
	}
}

// update turns one polled pointer sample on a w×h surface into events.
func (p *hostPointer) update(x, y, w, h int, down bool, wheel float64) {
	in := x >= 0 && y >= 0 && x < w && y < h
	switch {
	case in && (!p.seen || x != p.x || y != p.y):
		p.emit(PointerEvent{Kind: PointerMove, X: x, Y: y})
	case !in && p.inside:
		p.emit(PointerEvent{Kind: PointerLeave, X: x, Y: y})
	}
	p.x, p.y, p.seen, p.inside = x, y, true, in

	if down && !p.pressed && in {
		p.pressed = true
		p.emit(PointerEvent{Kind: PointerDown, X: x, Y: y})
	} else if !down && p.pressed {
		p.pressed = false
		p.emit(PointerEvent{Kind: PointerUp, X: x, Y: y})
	}
	if wheel != 0 && in {
		p.emit(PointerEvent{Kind: PointerWheel, X: x, Y: y, Wheel: wheel})
	}
}
