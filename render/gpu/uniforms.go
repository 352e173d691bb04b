package gpu

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/halftone/render"
)

const (
	vertexStride      = 24
	cameraUniformSize = 80
	objectUniformSize = 128
)

// cameraUniform mirrors Camera in halftone.wgsl.
type cameraUniform struct {
	ViewProj mgl32.Mat4
	Eye      mgl32.Vec4
}

// depthRemap maps OpenGL clip depth [-w, w] to the [0, w] WebGPU expects.
var depthRemap = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

func newCameraUniform(f *render.Frame) cameraUniform {
	return cameraUniform{
		ViewProj: depthRemap.Mul4(f.ViewProjection()),
		Eye:      f.Eye.Vec4(1),
	}
}

// objectUniform mirrors Object in halftone.wgsl.
type objectUniform struct {
	Model  mgl32.Mat4
	Normal mgl32.Mat4
}

func newObjectUniform(d render.DrawItem) objectUniform {
	return objectUniform{Model: d.Model, Normal: d.NormalMatrix()}
}

// interleave packs positions and normals as position.xyz, normal.xyz per vertex.
func interleave(m *render.Mesh) []float32 {
	out := make([]float32, 0, len(m.Positions)*6)
	for i, p := range m.Positions {
		n := m.Normals[i]
		out = append(out, p[0], p[1], p[2], n[0], n[1], n[2])
	}
	return out
}

// indices returns the mesh index list, synthesizing one for unindexed meshes.
func indices(m *render.Mesh) []uint32 {
	if len(m.Indices) > 0 {
		return m.Indices
	}
	out := make([]uint32, len(m.Positions))
	for i := range out {
		out[i] = uint32(i)
	}
	return out
}
