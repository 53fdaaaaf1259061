package quarkgl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScene() *Scene {
	s := CreateScene(8)
	s.Camera.Position = V3(0, 0, 30)
	s.Camera.Target = V3(0, 0, 0)
	s.Camera.FOVYRad = DegToRad(75)
	s.Camera.Near = 0.1
	s.Camera.Far = 1000
	return s
}

func TestRayFromNDCCenterLooksAtTarget(t *testing.T) {
	s := testScene()
	o, d := s.Camera.RayFromNDC(0, 0, 1.5)
	assert.Equal(t, V3(0, 0, 30), o)
	assert.InDelta(t, 0, d.X, 1e-6)
	assert.InDelta(t, 0, d.Y, 1e-6)
	assert.InDelta(t, -1, d.Z, 1e-6)
}

func TestRayFromNDCRightIsPositiveX(t *testing.T) {
	s := testScene()
	_, d := s.Camera.RayFromNDC(1, 0, 1)
	assert.Greater(t, d.X, float32(0))
	_, d = s.Camera.RayFromNDC(0, 1, 1)
	assert.Greater(t, d.Y, float32(0))
}

func TestCastRayHitsSphere(t *testing.T) {
	s := testScene()
	m := NewSphereMesh(2, 16, 16)
	m.UserData = "star"
	id := s.AddMesh(m)
	require.GreaterOrEqual(t, id, 0)

	o, d := s.Camera.RayFromNDC(0, 0, 1)
	hits := s.CastRay(o, d)
	require.Len(t, hits, 1)
	assert.Equal(t, HitMesh, hits[0].Kind)
	assert.Equal(t, "star", hits[0].UserData)
	assert.InDelta(t, 28, hits[0].Distance, 1e-4)
}

func TestCastRayScaledSphere(t *testing.T) {
	s := testScene()
	m := NewSphereMesh(2, 8, 8)
	m.Transform = Mat4TRS(V3(0, 0, 0), 1.5)
	s.AddMesh(m)

	hits := s.CastRay(V3(0, 0, 30), V3(0, 0, -1))
	require.Len(t, hits, 1)
	assert.InDelta(t, 27, hits[0].Distance, 1e-4)
}

func TestCastRayOrdersNearestFirst(t *testing.T) {
	s := testScene()
	far := NewSphereMesh(2, 8, 8)
	far.Transform = Mat4Translate(V3(0, 0, -10))
	far.UserData = "far"
	near := NewSphereMesh(2, 8, 8)
	near.Transform = Mat4Translate(V3(0, 0, 10))
	near.UserData = "near"
	s.AddMesh(far)
	s.AddMesh(near)

	hits := s.CastRay(V3(0, 0, 30), V3(0, 0, -1))
	require.Len(t, hits, 2)
	assert.Equal(t, "near", hits[0].UserData)
	assert.Equal(t, "far", hits[1].UserData)
}

func TestCastRayMissesAndDisabled(t *testing.T) {
	s := testScene()
	m := NewSphereMesh(2, 8, 8)
	m.Transform = Mat4Translate(V3(10, 0, 0))
	id := s.AddMesh(m)

	assert.Empty(t, s.CastRay(V3(0, 0, 30), V3(0, 0, -1)))

	s.UpdateMeshTransform(id, Mat4Identity())
	s.SetMeshEnabled(id, false)
	assert.Empty(t, s.CastRay(V3(0, 0, 30), V3(0, 0, -1)))
}

func TestCastRayPointsThreshold(t *testing.T) {
	s := testScene()
	s.AddPoints(&Points{
		Positions:     []Vec3{V3(0.5, 0, 5), V3(3, 0, 0)},
		PickThreshold: 1,
		UserData:      "sparkles",
	})

	hits := s.CastRay(V3(0, 0, 30), V3(0, 0, -1))
	require.Len(t, hits, 1)
	assert.Equal(t, HitPoints, hits[0].Kind)
	assert.Equal(t, 0, hits[0].ID)
	assert.InDelta(t, 25, hits[0].Distance, 1e-4)
}

func TestCastRaySprite(t *testing.T) {
	s := testScene()
	s.AddSprite(&Sprite{Position: V3(0, 0, -70), Width: 100, Height: 100})

	hits := s.CastRay(V3(0, 0, 30), V3(0, 0, -1))
	require.Len(t, hits, 1)
	assert.Equal(t, HitSprite, hits[0].Kind)
	assert.InDelta(t, 100, hits[0].Distance, 1e-3)

	assert.Empty(t, s.CastRay(V3(0, 0, 30), Normalize(V3(1, 0, -0.1))))
}
