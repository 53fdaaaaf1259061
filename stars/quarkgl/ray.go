package quarkgl

import (
	"math"
	"sort"
)

// HitKind tells which object list a hit came from.
type HitKind uint8

const (
	HitMesh HitKind = iota + 1
	HitPoints
	HitSprite
)

// Hit is one ray intersection.
type Hit struct {
	Kind     HitKind
	ID       int // mesh id, point index or sprite index
	Distance Scalar
	Point    Vec3
	UserData any
}

// RayFromNDC returns a world-space ray from the camera through normalized
// device coordinates (x right, y up, both in [-1,1]).
func (c Camera) RayFromNDC(nx, ny Scalar, aspect Scalar) (origin, dir Vec3) {
	if aspect == 0 {
		aspect = 1
	}
	f := Normalize(c.Target.Sub(c.Position))
	s := Normalize(Cross(f, c.up()))
	u := Cross(s, f)

	fov := c.FOVYRad
	if fov == 0 {
		fov = Scalar(1.0)
	}
	th := Scalar(math.Tan(float64(fov) / 2))
	d := f.Add(s.Mul(nx * th * aspect)).Add(u.Mul(ny * th))
	return c.Position, Normalize(d)
}

// CastRay returns all objects intersected by the ray, nearest first.
// dir must be normalized.
func (s *Scene) CastRay(origin, dir Vec3) []Hit {
	if s == nil {
		return nil
	}
	var hits []Hit

	s.eachMesh(func(id int, m *Mesh) {
		if !m.Enabled || m.BoundRadius <= 0 {
			return
		}
		center := Mat4MulPoint(m.Transform, Vec3{})
		r := m.BoundRadius * meshScale(m.Transform)
		t, ok := raySphere(origin, dir, center, r)
		if !ok {
			return
		}
		hits = append(hits, Hit{
			Kind:     HitMesh,
			ID:       id,
			Distance: t,
			Point:    origin.Add(dir.Mul(t)),
			UserData: m.UserData,
		})
	})

	for _, p := range s.points {
		if !p.Enabled || p.PickThreshold <= 0 {
			continue
		}
		th2 := p.PickThreshold * p.PickThreshold
		for i, pos := range p.Positions {
			rel := pos.Sub(origin)
			t := Dot(rel, dir)
			if t < 0 {
				continue
			}
			closest := origin.Add(dir.Mul(t))
			d := pos.Sub(closest)
			if Dot(d, d) > th2 {
				continue
			}
			hits = append(hits, Hit{
				Kind:     HitPoints,
				ID:       i,
				Distance: t,
				Point:    closest,
				UserData: p.UserData,
			})
		}
	}

	for i, sp := range s.sprites {
		if !sp.Enabled {
			continue
		}
		t, pt, ok := raySprite(origin, dir, sp, s.Camera)
		if !ok {
			continue
		}
		hits = append(hits, Hit{
			Kind:     HitSprite,
			ID:       i,
			Distance: t,
			Point:    pt,
			UserData: sp.UserData,
		})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}

func meshScale(m Mat4) Scalar {
	return Len(V3(m[0], m[1], m[2]))
}

func raySphere(o, d, c Vec3, r Scalar) (Scalar, bool) {
	oc := o.Sub(c)
	b := Dot(oc, d)
	cc := Dot(oc, oc) - r*r
	disc := b*b - cc
	if disc < 0 {
		return 0, false
	}
	sq := Scalar(math.Sqrt(float64(disc)))
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// raySprite intersects the sprite's camera-facing plane and checks the quad bounds.
func raySprite(o, d Vec3, sp *Sprite, cam Camera) (Scalar, Vec3, bool) {
	f := Normalize(cam.Target.Sub(cam.Position))
	right := Normalize(Cross(f, cam.up()))
	up := Cross(right, f)
	n := f.Mul(-1)

	denom := Dot(d, n)
	if denom > -1e-6 && denom < 1e-6 {
		return 0, Vec3{}, false
	}
	t := Dot(sp.Position.Sub(o), n) / denom
	if t < 0 {
		return 0, Vec3{}, false
	}
	p := o.Add(d.Mul(t))
	rel := p.Sub(sp.Position)
	if abs32(Dot(rel, right)) > sp.Width/2 || abs32(Dot(rel, up)) > sp.Height/2 {
		return 0, Vec3{}, false
	}
	return t, p, true
}

func abs32(v Scalar) Scalar {
	if v < 0 {
		return -v
	}
	return v
}
