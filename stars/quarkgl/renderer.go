package quarkgl

import (
	"image"
	"math"
)

// Renderer is a fixed-pipeline software renderer.
//
// Create it once and reuse it to avoid allocations.
type Renderer struct {
	Mode       RenderMode
	Depth      bool
	ClearColor Color

	depthBuf []float32
}

// NewRenderer creates a renderer for a given maximum target size.
//
// If enableDepth is true, a depth buffer of size w*h is allocated.
func NewRenderer(w, h int, enableDepth bool) *Renderer {
	r := &Renderer{
		Mode:       RenderSolidFlat,
		Depth:      enableDepth,
		ClearColor: RGB(0, 0, 0),
	}
	if enableDepth && w > 0 && h > 0 {
		r.depthBuf = make([]float32, w*h)
	}
	return r
}

func (r *Renderer) EnableDepth(on bool, w, h int) {
	r.Depth = on
	if !on || w <= 0 || h <= 0 {
		r.depthBuf = nil
		return
	}
	if cap(r.depthBuf) < w*h {
		r.depthBuf = make([]float32, w*h)
	} else {
		r.depthBuf = r.depthBuf[:w*h]
	}
}

func (r *Renderer) clearDepth() {
	for i := range r.depthBuf {
		r.depthBuf[i] = 1e9
	}
}

type frame struct {
	t      Target
	w, h   int
	view   Mat4
	proj   Mat4
	vp     Mat4
	camera Camera
}

// Render renders a scene into the target.
func (r *Renderer) Render(t Target, s *Scene) {
	if r == nil || t == nil || s == nil {
		return
	}
	w, h := t.Size()
	if w <= 0 || h <= 0 {
		return
	}
	t.Clear(r.ClearColor)

	if r.Depth {
		r.EnableDepth(true, w, h)
		r.clearDepth()
	}

	aspect := s.Camera.Aspect
	if aspect == 0 {
		aspect = Scalar(w) / Scalar(h)
	}
	view := s.Camera.View()
	proj := s.Camera.Projection(aspect)
	f := frame{t: t, w: w, h: h, view: view, proj: proj, vp: Mat4Mul(proj, view), camera: s.Camera}

	s.eachMesh(func(_ int, m *Mesh) {
		if m == nil || !m.Enabled {
			return
		}
		r.renderMesh(f, *m, s.Light)
	})
	for _, p := range s.points {
		if p.Enabled {
			r.renderPoints(f, p)
		}
	}
	for _, sp := range s.sprites {
		if sp.Enabled {
			r.renderSprite(f, sp)
		}
	}
}

func (r *Renderer) renderMesh(f frame, m Mesh, light Light) {
	if len(m.Vertices) == 0 || len(m.Indices) < 3 {
		return
	}
	if m.Transform == (Mat4{}) {
		m.Transform = Mat4Identity()
	}

	mvp := Mat4Mul(f.vp, m.Transform)

	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0 := int(m.Indices[i+0])
		i1 := int(m.Indices[i+1])
		i2 := int(m.Indices[i+2])
		if i0 >= len(m.Vertices) || i1 >= len(m.Vertices) || i2 >= len(m.Vertices) {
			continue
		}

		v0 := m.Vertices[i0]
		v1 := m.Vertices[i1]
		v2 := m.Vertices[i2]

		p0 := Mat4MulV4(mvp, Vec4{X: v0.Pos.X, Y: v0.Pos.Y, Z: v0.Pos.Z, W: 1})
		p1 := Mat4MulV4(mvp, Vec4{X: v1.Pos.X, Y: v1.Pos.Y, Z: v1.Pos.Z, W: 1})
		p2 := Mat4MulV4(mvp, Vec4{X: v2.Pos.X, Y: v2.Pos.Y, Z: v2.Pos.Z, W: 1})

		// Trivial clip: drop triangles touching the camera plane or behind it.
		if p0.W <= 0 || p1.W <= 0 || p2.W <= 0 {
			continue
		}

		ndc0, ok0 := clipToNDC(p0)
		ndc1, ok1 := clipToNDC(p1)
		ndc2, ok2 := clipToNDC(p2)
		if !ok0 || !ok1 || !ok2 {
			continue
		}

		x0, y0 := ndcToScreen(ndc0, f.w, f.h)
		x1, y1 := ndcToScreen(ndc1, f.w, f.h)
		x2, y2 := ndcToScreen(ndc2, f.w, f.h)

		base := m.Material.BaseColor
		if light.Mode != LightOff {
			n := Normalize(v0.Normal.Add(v1.Normal).Add(v2.Normal))
			if n == (Vec3{}) {
				n = triangleNormal(v0.Pos, v1.Pos, v2.Pos)
			}
			wn := Normalize(vec3FromV4(Mat4MulV4(m.Transform, Vec4{X: n.X, Y: n.Y, Z: n.Z})))
			center := Mat4MulPoint(m.Transform, v0.Pos.Add(v1.Pos).Add(v2.Pos).Mul(1.0/3))
			base = base.MulScalar(lightIntensity(light, wn, center))
		}

		switch r.Mode {
		case RenderWireframe:
			r.drawLine(f.t, x0, y0, x1, y1, base)
			r.drawLine(f.t, x1, y1, x2, y2, base)
			r.drawLine(f.t, x2, y2, x0, y0, base)
		default:
			r.fillTriangleFlat(f.t, f.w, f.h, x0, y0, ndc0.Z, x1, y1, ndc1.Z, x2, y2, ndc2.Z, base)
		}
	}
}

// renderPoints draws each point as a square whose side follows perspective.
func (r *Renderer) renderPoints(f frame, p *Points) {
	alpha := uint8(Clamp01(p.Opacity) * 255)
	if alpha == 0 {
		return
	}
	c := p.Color.WithAlpha(alpha)
	halfH := float32(f.h) / 2
	for _, pos := range p.Positions {
		clip := Mat4MulV4(f.vp, Vec4{X: pos.X, Y: pos.Y, Z: pos.Z, W: 1})
		if clip.W <= 0 {
			continue
		}
		ndc, ok := clipToNDC(clip)
		if !ok || ndc.Z < -1 || ndc.Z > 1 {
			continue
		}
		x, y := ndcToScreen(ndc, f.w, f.h)
		side := int(p.Size * f.proj[5] / clip.W * halfH)
		if side < 1 {
			side = 1
		}
		half := side / 2
		for py := y - half; py < y-half+side; py++ {
			for px := x - half; px < x-half+side; px++ {
				if px < 0 || py < 0 || px >= f.w || py >= f.h {
					continue
				}
				if !r.depthPeek(f.w, px, py, ndc.Z) {
					continue
				}
				blendPixel(f.t, px, py, c)
			}
		}
	}
}

// renderSprite draws a camera-facing textured quad with nearest sampling.
func (r *Renderer) renderSprite(f frame, sp *Sprite) {
	if sp.Texture == nil {
		return
	}
	alpha := Clamp01(sp.Opacity)
	if alpha == 0 {
		return
	}
	clip := Mat4MulV4(f.vp, Vec4{X: sp.Position.X, Y: sp.Position.Y, Z: sp.Position.Z, W: 1})
	if clip.W <= 0 {
		return
	}
	ndc, ok := clipToNDC(clip)
	if !ok || ndc.Z < -1 || ndc.Z > 1 {
		return
	}
	cx, cy := ndcToScreen(ndc, f.w, f.h)
	halfH := float32(f.h) / 2
	pw := int(sp.Width * f.proj[0] / clip.W * float32(f.w) / 2)
	ph := int(sp.Height * f.proj[5] / clip.W * halfH)
	if pw <= 0 || ph <= 0 {
		return
	}

	tint := sp.Tint
	if tint == (Color{}) {
		tint = RGB(0xFF, 0xFF, 0xFF)
	}
	b := sp.Texture.Bounds()
	x0, y0 := cx-pw/2, cy-ph/2
	for py := maxInt(y0, 0); py < minInt(y0+ph, f.h); py++ {
		ty := b.Min.Y + (py-y0)*b.Dy()/ph
		for px := maxInt(x0, 0); px < minInt(x0+pw, f.w); px++ {
			if !r.depthPeek(f.w, px, py, ndc.Z) {
				continue
			}
			tx := b.Min.X + (px-x0)*b.Dx()/pw
			c := sampleTexel(sp.Texture, tx, ty, tint)
			c.A = uint8(float32(c.A) * alpha)
			blendPixel(f.t, px, py, c)
		}
	}
}

func sampleTexel(img image.Image, x, y int, tint Color) Color {
	r, g, b, a := img.At(x, y).RGBA()
	if a == 0 {
		return Color{}
	}
	// Un-premultiply, then tint.
	un := func(v uint32) uint8 { return uint8(v * 0xFF / a) }
	mul := func(v uint8, t uint8) uint8 { return uint8(uint32(v) * uint32(t) / 0xFF) }
	return Color{
		R: mul(un(r), tint.R),
		G: mul(un(g), tint.G),
		B: mul(un(b), tint.B),
		A: uint8(a >> 8),
	}
}

type ndcPoint struct {
	X, Y, Z float32
}

func clipToNDC(p Vec4) (ndcPoint, bool) {
	if p.W == 0 {
		return ndcPoint{}, false
	}
	invW := 1.0 / p.W
	return ndcPoint{
		X: p.X * invW,
		Y: p.Y * invW,
		Z: p.Z * invW,
	}, true
}

func ndcToScreen(p ndcPoint, w, h int) (x, y int) {
	sx := (p.X*0.5 + 0.5) * float32(w-1)
	sy := (1 - (p.Y*0.5 + 0.5)) * float32(h-1)
	return int(float32(math.Floor(float64(sx + 0.5)))), int(float32(math.Floor(float64(sy + 0.5))))
}

func vec3FromV4(v Vec4) Vec3 { return Vec3{X: v.X, Y: v.Y, Z: v.Z} }

func triangleNormal(a, b, c Vec3) Vec3 {
	return Normalize(Cross(b.Sub(a), c.Sub(a)))
}

func lightIntensity(l Light, n, at Vec3) Scalar {
	amb := Clamp01(l.Ambient)
	switch l.Mode {
	case LightAmbientDirectional:
		ld := Normalize(l.Dir)
		if ld == (Vec3{}) {
			return amb
		}
		d := Dot(n, ld.Mul(-1))
		if d < 0 {
			d = 0
		}
		return Clamp01(amb + d*Clamp01(l.DirAmount))
	case LightAmbientPoint:
		toLight := Normalize(l.Pos.Sub(at))
		if toLight == (Vec3{}) {
			return amb
		}
		d := Dot(n, toLight)
		if d < 0 {
			d = 0
		}
		return Clamp01(amb + d*Clamp01(l.PosAmount))
	}
	return 1
}

func depthValue(z float32) float32 {
	// NDC z is typically in [-1,1]. Map to [0,1].
	d := z*0.5 + 0.5
	if d < 0 {
		d = 0
	}
	if d > 1 {
		d = 1
	}
	return d
}

func (r *Renderer) depthTest(w int, x, y int, z float32) bool {
	if !r.Depth || r.depthBuf == nil {
		return true
	}
	idx := y*w + x
	if x < 0 || y < 0 || x >= w || idx >= len(r.depthBuf) {
		return false
	}
	d := depthValue(z)
	if d >= r.depthBuf[idx] {
		return false
	}
	r.depthBuf[idx] = d
	return true
}

// depthPeek tests without writing.
func (r *Renderer) depthPeek(w int, x, y int, z float32) bool {
	if !r.Depth || r.depthBuf == nil {
		return true
	}
	idx := y*w + x
	if x < 0 || y < 0 || x >= w || idx >= len(r.depthBuf) {
		return false
	}
	return depthValue(z) < r.depthBuf[idx]
}

func (r *Renderer) drawLine(t Target, x0, y0, x1, y1 int, c Color) {
	dx := absInt(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -absInt(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		t.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func clipBox(w, h, x0, y0, x1, y1, x2, y2 int) (minX, minY, maxX, maxY int, ok bool) {
	minX, maxX = min3(x0, x1, x2), max3(x0, x1, x2)
	minY, maxY = min3(y0, y1, y2), max3(y0, y1, y2)
	minX, minY = maxInt(minX, 0), maxInt(minY, 0)
	maxX, maxY = minInt(maxX, w-1), minInt(maxY, h-1)
	return minX, minY, maxX, maxY, minX <= maxX && minY <= maxY
}

func (r *Renderer) fillTriangleFlat(t Target, w, h int, x0, y0 int, z0 float32, x1, y1 int, z1 float32, x2, y2 int, z2 float32, c Color) {
	minX, minY, maxX, maxY, ok := clipBox(w, h, x0, y0, x1, y1, x2, y2)
	if !ok {
		return
	}
	area := edgeFn(x0, y0, x1, y1, x2, y2)
	if area == 0 {
		return
	}
	invArea := 1.0 / float32(area)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			w0 := edgeFn(x1, y1, x2, y2, x, y)
			w1 := edgeFn(x2, y2, x0, y0, x, y)
			w2 := edgeFn(x0, y0, x1, y1, x, y)
			if !sameSign(w0, w1, w2, area) {
				continue
			}
			a0 := float32(w0) * invArea
			a1 := float32(w1) * invArea
			a2 := float32(w2) * invArea
			if !r.depthTest(w, x, y, a0*z0+a1*z1+a2*z2) {
				continue
			}
			t.SetPixel(x, y, c)
		}
	}
}

// sameSign accepts either winding so no face culling is implied.
func sameSign(w0, w1, w2, area int) bool {
	if area > 0 {
		return w0 >= 0 && w1 >= 0 && w2 >= 0
	}
	return w0 <= 0 && w1 <= 0 && w2 <= 0
}

func edgeFn(x0, y0, x1, y1, x, y int) int {
	return (x-x0)*(y1-y0) - (y-y0)*(x1-x0)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min3(a, b, c int) int { return minInt(minInt(a, b), c) }
func max3(a, b, c int) int { return maxInt(maxInt(a, b), c) }

func clampF32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
