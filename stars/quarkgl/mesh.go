package quarkgl

import "math"

// NewSphereMesh builds a UV sphere centered at the origin.
func NewSphereMesh(radius Scalar, widthSegs, heightSegs int) Mesh {
	if widthSegs < 3 {
		widthSegs = 3
	}
	if heightSegs < 2 {
		heightSegs = 2
	}

	verts := make([]Vertex, 0, (widthSegs+1)*(heightSegs+1))
	indices := make([]uint16, 0, widthSegs*heightSegs*6)

	for y := 0; y <= heightSegs; y++ {
		v := float64(y) / float64(heightSegs)
		theta := v * math.Pi
		for x := 0; x <= widthSegs; x++ {
			u := float64(x) / float64(widthSegs)
			phi := u * 2 * math.Pi
			n := V3(
				Scalar(-math.Cos(phi)*math.Sin(theta)),
				Scalar(math.Cos(theta)),
				Scalar(math.Sin(phi)*math.Sin(theta)),
			)
			verts = append(verts, Vertex{Pos: n.Mul(radius), Normal: n})
		}
	}

	row := widthSegs + 1
	for y := 0; y < heightSegs; y++ {
		for x := 0; x < widthSegs; x++ {
			a := uint16(y*row + x + 1)
			b := uint16(y*row + x)
			c := uint16((y+1)*row + x)
			d := uint16((y+1)*row + x + 1)
			if y != 0 {
				indices = append(indices, a, b, d)
			}
			if y != heightSegs-1 {
				indices = append(indices, b, c, d)
			}
		}
	}

	return Mesh{
		Vertices:    verts,
		Indices:     indices,
		BoundRadius: radius,
	}
}
