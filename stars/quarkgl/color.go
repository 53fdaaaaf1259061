package quarkgl

import "math"

// Color is an RGBA color in 8-bit channels.
type Color struct {
	R, G, B, A uint8
}

func RGB(r, g, b uint8) Color     { return Color{R: r, G: g, B: b, A: 0xFF} }
func RGBA(r, g, b, a uint8) Color { return Color{R: r, G: g, B: b, A: a} }

// HSL builds an opaque color from hue, saturation and lightness, all in [0,1].
func HSL(h, s, l Scalar) Color {
	h = h - Scalar(math.Floor(float64(h)))
	s = Clamp01(s)
	l = Clamp01(l)
	if s == 0 {
		v := uint8(l*255 + 0.5)
		return RGB(v, v, v)
	}
	var q Scalar
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	r := hueToRGB(p, q, h+1.0/3)
	g := hueToRGB(p, q, h)
	b := hueToRGB(p, q, h-1.0/3)
	return RGB(uint8(r*255+0.5), uint8(g*255+0.5), uint8(b*255+0.5))
}

func hueToRGB(p, q, t Scalar) Scalar {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	}
	return p
}

func (c Color) MulScalar(s Scalar) Color {
	t := uint32(Clamp01(s) * 255)
	mul := func(ch uint8) uint8 {
		return uint8((uint32(ch) * t) / 255)
	}
	return Color{R: mul(c.R), G: mul(c.G), B: mul(c.B), A: c.A}
}

func (c Color) WithAlpha(a uint8) Color { c.A = a; return c }

// Over composites c over dst using c.A and returns an opaque color.
func (c Color) Over(dst Color) Color {
	a := uint32(c.A)
	if a == 0xFF {
		return c.WithAlpha(0xFF)
	}
	mix := func(src, d uint8) uint8 {
		return uint8((uint32(src)*a + uint32(d)*(255-a)) / 255)
	}
	return Color{R: mix(c.R, dst.R), G: mix(c.G, dst.G), B: mix(c.B, dst.B), A: 0xFF}
}
