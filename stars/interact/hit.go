package interact

import (
	"constellations/stars/catalog"
	"constellations/stars/quarkgl"
)

// Hit is one object under a ray, as reported by a RayCaster.
type Hit struct {
	Object   any
	Distance float32
}

// RayCaster answers ray queries against the rendered scene.
type RayCaster interface {
	// Ray returns a world-space ray through normalized device coordinates.
	Ray(nx, ny float32) (origin, dir quarkgl.Vec3)
	// CastRay returns every object the ray intersects, nearest first.
	CastRay(origin, dir quarkgl.Vec3) []Hit
}

// Selectable is an object that stands for a site record.
type Selectable interface {
	// Key identifies the object for its whole lifetime.
	Key() string
	Record() (catalog.Site, bool)
	SetScale(s float32)
}

// nearestSelectable returns the nearest hit if it carries a site record.
// Objects in front of a star hide it.
func nearestSelectable(hits []Hit) (Selectable, catalog.Site, bool) {
	if len(hits) == 0 {
		return nil, catalog.Site{}, false
	}
	best := 0
	for i := 1; i < len(hits); i++ {
		if hits[i].Distance < hits[best].Distance {
			best = i
		}
	}
	sel, ok := hits[best].Object.(Selectable)
	if !ok {
		return nil, catalog.Site{}, false
	}
	site, ok := sel.Record()
	if !ok {
		return nil, catalog.Site{}, false
	}
	return sel, site, true
}

// pointerNDC converts window pixels to normalized device coordinates.
func pointerNDC(x, y, w, h int) (float32, float32) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	nx := float32(x)/float32(w)*2 - 1
	ny := -(float32(y)/float32(h))*2 + 1
	return nx, ny
}
