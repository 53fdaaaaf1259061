package overlay

import (
	"image/color"

	"constellations/stars/quarkgl"

	"tinygo.org/x/drivers"
)

// display adapts a render target to the tinyfont drawing interface.
type display struct {
	t quarkgl.Target
}

var _ drivers.Displayer = display{}

func (d display) Size() (x, y int16) {
	w, h := d.t.Size()
	return int16(w), int16(h)
}

func (d display) SetPixel(x, y int16, c color.RGBA) {
	d.t.SetPixel(int(x), int(y), quarkgl.RGBA(c.R, c.G, c.B, c.A))
}

func (d display) Display() error { return nil }

// FillRectangle fills a rectangle, blending translucent colors.
func (d display) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	w, h := d.t.Size()
	x0 := clampInt(int(x), 0, w)
	y0 := clampInt(int(y), 0, h)
	x1 := clampInt(int(x)+int(width), 0, w)
	y1 := clampInt(int(y)+int(height), 0, h)
	if x0 >= x1 || y0 >= y1 {
		return nil
	}
	fill := quarkgl.RGBA(c.R, c.G, c.B, c.A)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			d.t.SetPixel(px, py, fill)
		}
	}
	return nil
}

// StrokeRectangle draws a one pixel border.
func (d display) StrokeRectangle(x, y, width, height int16, c color.RGBA) {
	if width <= 0 || height <= 0 {
		return
	}
	_ = d.FillRectangle(x, y, width, 1, c)
	_ = d.FillRectangle(x, y+height-1, width, 1, c)
	_ = d.FillRectangle(x, y, 1, height, c)
	_ = d.FillRectangle(x+width-1, y, 1, height, c)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
