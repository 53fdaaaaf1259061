package quarkgl

import "math"

// OrbitController keeps a camera on a sphere around Target. Yaw turns around
// the vertical axis, Pitch tilts toward the poles and Radius is the distance.
//
// It knows nothing about input; callers translate drags, wheel notches and
// keys into Rotate and Zoom.
type OrbitController struct {
	Target Vec3
	Yaw    Scalar
	Pitch  Scalar
	Radius Scalar

	// Zero disables the bound.
	MinRadius Scalar
	MaxRadius Scalar

	AutoRotate bool
	// Speed 1 turns once every 60 seconds at 60 updates per second.
	AutoRotateSpeed Scalar
}

const (
	maxPitch      = Scalar(1.5)
	defaultRadius = Scalar(3)
	autoRotateRad = 2 * math.Pi / (60 * 60)
)

// Apply places cam on the orbit and aims it at Target.
func (c *OrbitController) Apply(cam *Camera) {
	if cam == nil {
		return
	}
	r := c.Radius
	if r == 0 {
		r = defaultRadius
	}
	r = c.clampRadius(r)

	p := Mat4MulV4(Mat4Mul(Mat4RotateY(c.Yaw), Mat4RotateX(c.Pitch)), Vec4{Z: r, W: 1})
	cam.Position = c.Target.Add(V3(p.X, p.Y, p.Z))
	cam.Target = c.Target
	if cam.Up == (Vec3{}) {
		cam.Up = V3(0, 1, 0)
	}
}

// Update advances auto-rotation by one tick and applies the result.
func (c *OrbitController) Update(cam *Camera) {
	if c.AutoRotate {
		c.Yaw += autoRotateRad * c.AutoRotateSpeed
	}
	c.Apply(cam)
}

// Rotate turns the orbit; pitch stops short of the poles.
func (c *OrbitController) Rotate(deltaYaw, deltaPitch Scalar) {
	c.Yaw += deltaYaw
	c.Pitch = clampF32(c.Pitch+deltaPitch, -maxPitch, maxPitch)
}

// Zoom moves the camera along the view axis; positive delta moves away.
func (c *OrbitController) Zoom(delta Scalar) {
	c.Radius = c.clampRadius(c.Radius + delta)
}

func (c *OrbitController) clampRadius(r Scalar) Scalar {
	if c.MinRadius != 0 && r < c.MinRadius {
		return c.MinRadius
	}
	if c.MaxRadius != 0 && r > c.MaxRadius {
		return c.MaxRadius
	}
	return r
}
