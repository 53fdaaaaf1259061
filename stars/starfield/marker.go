// Package starfield turns the site catalog into a lit 3D scene: one sphere
// per site, a sparkle cloud and an optional nebula billboard.
package starfield

import (
	"fmt"
	"math/rand"

	"constellations/stars/catalog"
	"constellations/stars/quarkgl"

	"github.com/google/uuid"
)

const (
	markerRadius   = 2.0
	markerSegments = 16
)

// Marker is the star drawn for one site.
type Marker struct {
	ID       uuid.UUID
	Site     catalog.Site
	Position quarkgl.Vec3
	Color    quarkgl.Color

	scale  float32
	meshID int
	scene  *quarkgl.Scene
}

// Record returns the site the marker stands for.
func (m *Marker) Record() (catalog.Site, bool) {
	if m == nil {
		return catalog.Site{}, false
	}
	return m.Site, true
}

// Key is the marker's UUID in string form.
func (m *Marker) Key() string { return m.ID.String() }

func (m *Marker) Scale() float32 { return m.scale }

// SetScale resizes the marker around its position.
func (m *Marker) SetScale(s float32) {
	m.scale = s
	m.scene.UpdateMeshTransform(m.meshID, quarkgl.Mat4TRS(m.Position, s))
}

func (m *Marker) MeshID() int { return m.meshID }

// Populate adds one marker per site to the scene. Positions are uniform in a
// cube of side spread centered on the origin; colors are fully saturated
// random hues.
func Populate(scene *quarkgl.Scene, sites []catalog.Site, rng *rand.Rand, spread float32) ([]*Marker, error) {
	base := quarkgl.NewSphereMesh(markerRadius, markerSegments, markerSegments)
	markers := make([]*Marker, 0, len(sites))
	for _, site := range sites {
		m := &Marker{
			ID:    uuid.New(),
			Site:  site,
			scale: 1,
			scene: scene,
			Position: quarkgl.V3(
				(rng.Float32()-0.5)*spread,
				(rng.Float32()-0.5)*spread,
				(rng.Float32()-0.5)*spread,
			),
			Color: quarkgl.HSL(rng.Float32(), 1, 0.6),
		}

		mesh := base
		mesh.Transform = quarkgl.Mat4TRS(m.Position, 1)
		mesh.Material = quarkgl.Material{BaseColor: m.Color, Opacity: 0xFF}
		mesh.UserData = m

		m.meshID = scene.AddMesh(mesh)
		if m.meshID < 0 {
			return nil, fmt.Errorf("starfield: no room for %q (%d meshes)", site.Name, scene.MeshCount())
		}
		markers = append(markers, m)
	}
	return markers, nil
}
