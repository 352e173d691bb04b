package render

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// outward reports whether every triangle winds counter-clockwise seen from outside.
func outward(t *testing.T, m *Mesh) {
	t.Helper()
	for i := 0; i < m.TriangleCount(); i++ {
		a, b, c := m.Triangle(i)
		pa, pb, pc := m.Positions[a], m.Positions[b], m.Positions[c]
		n := pb.Sub(pa).Cross(pc.Sub(pa))
		if n.Len() < 1e-9 {
			continue // degenerate pole triangles
		}
		avg := m.Normals[a].Add(m.Normals[b]).Add(m.Normals[c])
		require.Greater(t, n.Dot(avg), float32(0), "%s triangle %d winds inward", m.Name, i)
	}
}

func TestPrimitivesAreValidAndOutward(t *testing.T) {
	for _, m := range []*Mesh{
		NewUVSphere(1, 12, 16),
		NewCube(1, 2, 3),
		NewTorus(1, 0.3, 16, 8),
	} {
		require.NoError(t, m.Validate(), m.Name)
		require.Len(t, m.Normals, len(m.Positions), m.Name)
		outward(t, m)
	}
}

func TestCubeBounds(t *testing.T) {
	lo, hi := NewCube(2, 4, 6).Bounds()
	assert.Equal(t, mgl32.Vec3{-1, -2, -3}, lo)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, hi)
}

func TestComputeNormals(t *testing.T) {
	m := &Mesh{
		Name:      "quad",
		Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
	}
	m.ComputeNormals()
	require.Len(t, m.Normals, 4)
	for _, n := range m.Normals {
		assert.InDelta(t, 1, n.Z(), 1e-6)
	}
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, (&Mesh{Name: "empty"}).Validate(), ErrInvalidMesh)
	assert.ErrorIs(t, (&Mesh{
		Positions: []mgl32.Vec3{{}, {}, {}},
		Indices:   []uint32{0, 1, 3},
	}).Validate(), ErrInvalidMesh)
	assert.ErrorIs(t, (&Mesh{
		Positions: []mgl32.Vec3{{}, {}, {}},
		Normals:   []mgl32.Vec3{{}},
	}).Validate(), ErrInvalidMesh)
	assert.NoError(t, (&Mesh{Positions: []mgl32.Vec3{{}, {1, 0, 0}, {0, 1, 0}}}).Validate())
}

func TestNormalMatrixOfSingularModel(t *testing.T) {
	d := DrawItem{Model: mgl32.Scale3D(0, 1, 1)}
	assert.Equal(t, mgl32.Ident4(), d.NormalMatrix())
}
