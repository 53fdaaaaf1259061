package quarkgl

import "image"

// Material is a minimal surface description.
type Material struct {
	BaseColor Color
	Opacity   uint8 // 0..255. 255 means opaque.
}

// LightMode defines minimal lighting options.
type LightMode uint8

const (
	LightOff LightMode = iota
	LightAmbientDirectional
	LightAmbientPoint
)

// Light is a minimal light setup.
type Light struct {
	Mode    LightMode
	Ambient Scalar // 0..1

	// Directional: direction *towards* the scene.
	Dir       Vec3
	DirAmount Scalar // 0..1

	// Point: world position and intensity.
	Pos       Vec3
	PosAmount Scalar // 0..1
}

// Camera describes a perspective viewing transform.
type Camera struct {
	Position Vec3
	Target   Vec3
	Up       Vec3

	FOVYRad Scalar
	// Aspect is width/height of the render surface. Zero means "use the target".
	Aspect Scalar

	Near Scalar
	Far  Scalar
}

// View returns the camera view matrix.
func (c Camera) View() Mat4 {
	return Mat4LookAt(c.Position, c.Target, c.up())
}

// Projection returns the projection matrix for a target aspect.
func (c Camera) Projection(aspect Scalar) Mat4 {
	fov := c.FOVYRad
	if fov == 0 {
		fov = Scalar(1.0)
	}
	return Mat4Perspective(fov, aspect, c.Near, c.Far)
}

func (c Camera) up() Vec3 {
	if c.Up == (Vec3{}) {
		return V3(0, 1, 0)
	}
	return c.Up
}

// Vertex is a mesh vertex.
type Vertex struct {
	Pos    Vec3
	Normal Vec3
}

// Mesh is a triangle mesh with an object transform.
type Mesh struct {
	Enabled bool

	Vertices []Vertex
	Indices  []uint16 // triangle list

	// BoundRadius is the object-space bounding sphere radius around the
	// origin, used for ray queries. Zero disables picking.
	BoundRadius Scalar

	Transform Mat4
	Material  Material

	UserData any
}

// Points is a point cloud drawn as small squares.
type Points struct {
	Enabled bool

	Positions []Vec3
	Size      Scalar // world units, projected
	Color     Color
	Opacity   Scalar // 0..1

	// PickThreshold is the ray distance under which a point counts as hit.
	PickThreshold Scalar

	UserData any
}

// Sprite is a camera-facing textured quad.
type Sprite struct {
	Enabled bool

	Position Vec3
	Width    Scalar
	Height   Scalar
	Texture  image.Image
	Tint     Color
	Opacity  Scalar // 0..1

	UserData any
}

// Scene is a collection of objects to render.
type Scene struct {
	Camera Camera
	Light  Light

	meshes []Mesh
	alive  []bool

	points  []*Points
	sprites []*Sprite
}

// CreateScene allocates a scene with a fixed mesh capacity.
func CreateScene(maxMeshes int) *Scene {
	if maxMeshes < 0 {
		maxMeshes = 0
	}
	return &Scene{
		Camera: Camera{
			Position: V3(0, 0, 3),
			Target:   V3(0, 0, 0),
			Up:       V3(0, 1, 0),
			FOVYRad:  Scalar(1.0),
			Near:     Scalar(0.05),
			Far:      Scalar(100),
		},
		Light: Light{
			Mode:      LightAmbientDirectional,
			Ambient:   Scalar(0.25),
			Dir:       Normalize(V3(1, 1, 1)),
			DirAmount: Scalar(0.75),
		},
		meshes: make([]Mesh, maxMeshes),
		alive:  make([]bool, maxMeshes),
	}
}

// AddMesh adds a mesh to the scene and returns its id or -1 if full.
func (s *Scene) AddMesh(m Mesh) int {
	if s == nil {
		return -1
	}
	for i := range s.meshes {
		if s.alive[i] {
			continue
		}
		if m.Transform == (Mat4{}) {
			m.Transform = Mat4Identity()
		}
		if m.Material.Opacity == 0 {
			m.Material.Opacity = 0xFF
		}
		if m.Material.BaseColor == (Color{}) {
			m.Material.BaseColor = RGB(0xCC, 0xCC, 0xCC)
		}
		m.Enabled = true
		s.meshes[i] = m
		s.alive[i] = true
		return i
	}
	return -1
}

// RemoveMesh removes a mesh by id.
func (s *Scene) RemoveMesh(id int) {
	if s == nil || id < 0 || id >= len(s.meshes) {
		return
	}
	s.alive[id] = false
	s.meshes[id] = Mesh{}
}

// SetMeshEnabled enables/disables a mesh by id.
func (s *Scene) SetMeshEnabled(id int, enabled bool) {
	if s == nil || id < 0 || id >= len(s.meshes) || !s.alive[id] {
		return
	}
	s.meshes[id].Enabled = enabled
}

// UpdateMeshTransform updates a mesh transform by id.
func (s *Scene) UpdateMeshTransform(id int, m Mat4) {
	if s == nil || id < 0 || id >= len(s.meshes) || !s.alive[id] {
		return
	}
	s.meshes[id].Transform = m
}

// MeshCount returns the number of live meshes.
func (s *Scene) MeshCount() int {
	n := 0
	for _, ok := range s.alive {
		if ok {
			n++
		}
	}
	return n
}

// AddPoints adds a point cloud. The scene keeps the pointer so callers can
// animate it in place.
func (s *Scene) AddPoints(p *Points) {
	if s == nil || p == nil {
		return
	}
	p.Enabled = true
	s.points = append(s.points, p)
}

// AddSprite adds a sprite.
func (s *Scene) AddSprite(sp *Sprite) {
	if s == nil || sp == nil {
		return
	}
	sp.Enabled = true
	s.sprites = append(s.sprites, sp)
}

// SpriteCount returns the number of sprites.
func (s *Scene) SpriteCount() int { return len(s.sprites) }

func (s *Scene) eachMesh(fn func(id int, m *Mesh)) {
	for i := range s.meshes {
		if !s.alive[i] {
			continue
		}
		fn(i, &s.meshes[i])
	}
}
