// Package render holds the backend-neutral geometry and per-frame draw
// lists consumed by the soft and gpu renderers.
package render

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

var ErrInvalidMesh = errors.New("render: invalid mesh")

// Mesh is an indexed triangle list. Backends cache their own copy keyed by
// the *Mesh pointer, so geometry must not be mutated after first draw.
type Mesh struct {
	Name      string
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Indices   []uint32
}

func (m *Mesh) TriangleCount() int {
	if len(m.Indices) > 0 {
		return len(m.Indices) / 3
	}
	return len(m.Positions) / 3
}

// Triangle returns the three vertex indices of triangle i.
func (m *Mesh) Triangle(i int) (uint32, uint32, uint32) {
	if len(m.Indices) > 0 {
		return m.Indices[3*i], m.Indices[3*i+1], m.Indices[3*i+2]
	}
	b := uint32(3 * i)
	return b, b + 1, b + 2
}

func (m *Mesh) Validate() error {
	if len(m.Positions) == 0 {
		return fmt.Errorf("%w: %q has no vertices", ErrInvalidMesh, m.Name)
	}
	if len(m.Normals) != 0 && len(m.Normals) != len(m.Positions) {
		return fmt.Errorf("%w: %q has %d normals for %d vertices", ErrInvalidMesh, m.Name, len(m.Normals), len(m.Positions))
	}
	if len(m.Indices)%3 != 0 || (len(m.Indices) == 0 && len(m.Positions)%3 != 0) {
		return fmt.Errorf("%w: %q is not a triangle list", ErrInvalidMesh, m.Name)
	}
	n := uint32(len(m.Positions))
	for _, idx := range m.Indices {
		if idx >= n {
			return fmt.Errorf("%w: %q index %d out of range", ErrInvalidMesh, m.Name, idx)
		}
	}
	return nil
}

// ComputeNormals fills Normals with area-weighted smooth vertex normals when
// the source did not provide any.
func (m *Mesh) ComputeNormals() {
	if len(m.Normals) == len(m.Positions) {
		return
	}
	normals := make([]mgl32.Vec3, len(m.Positions))
	for i := 0; i < m.TriangleCount(); i++ {
		a, b, c := m.Triangle(i)
		pa, pb, pc := m.Positions[a], m.Positions[b], m.Positions[c]
		n := pb.Sub(pa).Cross(pc.Sub(pa))
		normals[a] = normals[a].Add(n)
		normals[b] = normals[b].Add(n)
		normals[c] = normals[c].Add(n)
	}
	for i, n := range normals {
		if n.Len() > 0 {
			normals[i] = n.Normalize()
		}
	}
	m.Normals = normals
}

// Bounds returns the axis-aligned box enclosing all positions.
func (m *Mesh) Bounds() (lo, hi mgl32.Vec3) {
	if len(m.Positions) == 0 {
		return
	}
	lo, hi = m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		for k := 0; k < 3; k++ {
			if p[k] < lo[k] {
				lo[k] = p[k]
			}
			if p[k] > hi[k] {
				hi[k] = p[k]
			}
		}
	}
	return lo, hi
}
