package quarkgl

import (
	"fmt"
	"strings"
)

// Target is a minimal pixel target for software rendering.
//
// Implementations should clip out-of-bounds coordinates.
type Target interface {
	Size() (w, h int)
	SetPixel(x, y int, c Color)
	Clear(c Color)
}

// ReadTarget is a Target that can also read pixels back, which enables alpha
// blending. Targets without it get translucent colors written opaque.
type ReadTarget interface {
	Target
	Pixel(x, y int) Color
}

// RenderMode selects the rasterization mode.
type RenderMode uint8

const (
	RenderWireframe RenderMode = iota
	RenderSolidFlat
)

// ParseRenderMode maps "flat" and "wireframe" to a mode.
func ParseRenderMode(s string) (RenderMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "flat", "solid":
		return RenderSolidFlat, nil
	case "wireframe", "wire":
		return RenderWireframe, nil
	}
	return RenderSolidFlat, fmt.Errorf("quarkgl: unknown render mode %q", s)
}

func (m RenderMode) String() string {
	if m == RenderWireframe {
		return "wireframe"
	}
	return "flat"
}

func blendPixel(t Target, x, y int, c Color) {
	if c.A == 0 {
		return
	}
	if c.A == 0xFF {
		t.SetPixel(x, y, c)
		return
	}
	rt, ok := t.(ReadTarget)
	if !ok {
		t.SetPixel(x, y, c.WithAlpha(0xFF))
		return
	}
	t.SetPixel(x, y, c.Over(rt.Pixel(x, y)))
}
