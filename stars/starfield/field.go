package starfield

import (
	"image"
	"math/rand"
	"time"

	"constellations/stars/catalog"
	"constellations/stars/interact"
	"constellations/stars/quarkgl"
)

// Options sizes the generated scene.
type Options struct {
	Spread          float32
	SparkleCount    int
	SparkleSpread   float32
	AutoRotateSpeed float32
}

func DefaultOptions() Options {
	return Options{
		Spread:          60,
		SparkleCount:    1000,
		SparkleSpread:   500,
		AutoRotateSpeed: 1,
	}
}

// Field is the star scene and the ray-cast view over it.
type Field struct {
	Scene    *quarkgl.Scene
	Markers  []*Marker
	Sparkles *quarkgl.Points
	Nebula   *quarkgl.Sprite
	Orbit    *quarkgl.OrbitController

	aspect float32
}

// New builds the scene for sites: camera, lights, markers and sparkles.
func New(sites []catalog.Site, rng *rand.Rand, opts Options) (*Field, error) {
	s := quarkgl.CreateScene(len(sites))
	s.Camera = quarkgl.Camera{
		Position: quarkgl.V3(0, 0, 30),
		Target:   quarkgl.V3(0, 0, 0),
		Up:       quarkgl.V3(0, 1, 0),
		FOVYRad:  quarkgl.DegToRad(75),
		Near:     0.1,
		Far:      1000,
	}
	s.Light = quarkgl.Light{
		Mode:      quarkgl.LightAmbientPoint,
		Ambient:   0.4,
		Pos:       quarkgl.V3(0, 0, 0),
		PosAmount: 1,
	}

	markers, err := Populate(s, sites, rng, opts.Spread)
	if err != nil {
		return nil, err
	}

	f := &Field{
		Scene:   s,
		Markers: markers,
		Orbit: &quarkgl.OrbitController{
			Radius:          30,
			MinRadius:       5,
			MaxRadius:       400,
			AutoRotate:      opts.AutoRotateSpeed != 0,
			AutoRotateSpeed: opts.AutoRotateSpeed,
		},
		aspect: 1,
	}
	if opts.SparkleCount > 0 {
		f.Sparkles = NewSparkles(rng, opts.SparkleCount, opts.SparkleSpread)
		s.AddPoints(f.Sparkles)
	}
	return f, nil
}

// SetAspect records the render surface width/height ratio.
func (f *Field) SetAspect(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	f.aspect = float32(w) / float32(h)
	f.Scene.Camera.Aspect = f.aspect
}

func (f *Field) Aspect() float32 { return f.aspect }

// ShowNebula places the backdrop sprite, replacing the texture if it is
// already shown.
func (f *Field) ShowNebula(tex image.Image) {
	if tex == nil {
		return
	}
	if f.Nebula != nil {
		f.Nebula.Texture = tex
		return
	}
	f.Nebula = NewNebula(tex)
	f.Scene.AddSprite(f.Nebula)
}

// Step advances the orbit camera by one tick and animates the sparkles.
func (f *Field) Step(elapsed time.Duration) {
	f.Orbit.Update(&f.Scene.Camera)
	Twinkle(f.Sparkles, elapsed)
}

// MarkerFor returns the marker of the named site.
func (f *Field) MarkerFor(name string) (*Marker, bool) {
	for _, m := range f.Markers {
		if m.Site.Name == name {
			return m, true
		}
	}
	return nil, false
}

// Ray implements interact.RayCaster.
func (f *Field) Ray(nx, ny float32) (origin, dir quarkgl.Vec3) {
	return f.Scene.Camera.RayFromNDC(nx, ny, f.aspect)
}

// CastRay implements interact.RayCaster.
func (f *Field) CastRay(origin, dir quarkgl.Vec3) []interact.Hit {
	hits := f.Scene.CastRay(origin, dir)
	if len(hits) == 0 {
		return nil
	}
	out := make([]interact.Hit, len(hits))
	for i, h := range hits {
		out[i] = interact.Hit{Object: h.UserData, Distance: h.Distance}
	}
	return out
}

var _ interact.RayCaster = (*Field)(nil)
