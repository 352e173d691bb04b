package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// NewUVSphere builds a sphere from latitude rings and longitude segments.
func NewUVSphere(radius float32, rings, segments int) *Mesh {
	if rings < 2 {
		rings = 2
	}
	if segments < 3 {
		segments = 3
	}
	m := &Mesh{Name: "sphere"}
	for r := 0; r <= rings; r++ {
		phi := math.Pi * float64(r) / float64(rings)
		for s := 0; s <= segments; s++ {
			theta := 2 * math.Pi * float64(s) / float64(segments)
			n := mgl32.Vec3{
				float32(math.Sin(phi) * math.Cos(theta)),
				float32(math.Cos(phi)),
				float32(math.Sin(phi) * math.Sin(theta)),
			}
			m.Positions = append(m.Positions, n.Mul(radius))
			m.Normals = append(m.Normals, n)
		}
	}
	stride := uint32(segments + 1)
	for r := uint32(0); r < uint32(rings); r++ {
		for s := uint32(0); s < uint32(segments); s++ {
			a := r*stride + s
			b := a + stride
			m.Indices = append(m.Indices, a, a+1, b, b, a+1, b+1)
		}
	}
	return m
}

// NewCube builds an axis-aligned box centred on the origin with flat faces.
func NewCube(w, h, d float32) *Mesh {
	hx, hy, hz := w/2, h/2, d/2
	faces := []struct {
		n       mgl32.Vec3
		corners [4]mgl32.Vec3
	}{
		{mgl32.Vec3{1, 0, 0}, [4]mgl32.Vec3{{hx, -hy, hz}, {hx, -hy, -hz}, {hx, hy, -hz}, {hx, hy, hz}}},
		{mgl32.Vec3{-1, 0, 0}, [4]mgl32.Vec3{{-hx, -hy, -hz}, {-hx, -hy, hz}, {-hx, hy, hz}, {-hx, hy, -hz}}},
		{mgl32.Vec3{0, 1, 0}, [4]mgl32.Vec3{{-hx, hy, hz}, {hx, hy, hz}, {hx, hy, -hz}, {-hx, hy, -hz}}},
		{mgl32.Vec3{0, -1, 0}, [4]mgl32.Vec3{{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, -hy, hz}, {-hx, -hy, hz}}},
		{mgl32.Vec3{0, 0, 1}, [4]mgl32.Vec3{{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz}}},
		{mgl32.Vec3{0, 0, -1}, [4]mgl32.Vec3{{hx, -hy, -hz}, {-hx, -hy, -hz}, {-hx, hy, -hz}, {hx, hy, -hz}}},
	}
	m := &Mesh{Name: "cube"}
	for _, f := range faces {
		base := uint32(len(m.Positions))
		for _, c := range f.corners {
			m.Positions = append(m.Positions, c)
			m.Normals = append(m.Normals, f.n)
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return m
}

// NewTorus builds a ring around the Y axis.
func NewTorus(major, minor float32, rings, sides int) *Mesh {
	if rings < 3 {
		rings = 3
	}
	if sides < 3 {
		sides = 3
	}
	m := &Mesh{Name: "torus"}
	for i := 0; i <= rings; i++ {
		u := 2 * math.Pi * float64(i) / float64(rings)
		centre := mgl32.Vec3{float32(math.Cos(u)) * major, 0, float32(math.Sin(u)) * major}
		for j := 0; j <= sides; j++ {
			v := 2 * math.Pi * float64(j) / float64(sides)
			n := mgl32.Vec3{
				float32(math.Cos(v) * math.Cos(u)),
				float32(math.Sin(v)),
				float32(math.Cos(v) * math.Sin(u)),
			}
			m.Positions = append(m.Positions, centre.Add(n.Mul(minor)))
			m.Normals = append(m.Normals, n)
		}
	}
	stride := uint32(sides + 1)
	for i := uint32(0); i < uint32(rings); i++ {
		for j := uint32(0); j < uint32(sides); j++ {
			a := i*stride + j
			b := a + stride
			m.Indices = append(m.Indices, a, a+1, b, b, a+1, b+1)
		}
	}
	return m
}
