package gpu

import (
	"testing"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/gekko3d/halftone/render"
)

func TestUniformSizes(t *testing.T) {
	assert.Equal(t, uintptr(cameraUniformSize), unsafe.Sizeof(cameraUniform{}))
	assert.Equal(t, uintptr(objectUniformSize), unsafe.Sizeof(objectUniform{}))
}

func TestInterleave(t *testing.T) {
	m := &render.Mesh{
		Positions: []mgl32.Vec3{{1, 2, 3}, {4, 5, 6}},
		Normals:   []mgl32.Vec3{{0, 1, 0}, {0, 0, 1}},
	}
	got := interleave(m)
	assert.Equal(t, []float32{1, 2, 3, 0, 1, 0, 4, 5, 6, 0, 0, 1}, got)
	assert.Equal(t, vertexStride, 4*len(got)/len(m.Positions))
}

func TestIndicesForUnindexedMesh(t *testing.T) {
	m := &render.Mesh{Positions: make([]mgl32.Vec3, 6)}
	assert.Equal(t, []uint32{0, 1, 2, 3, 4, 5}, indices(m))

	m.Indices = []uint32{2, 1, 0}
	assert.Equal(t, []uint32{2, 1, 0}, indices(m))
}

func TestCameraUniform(t *testing.T) {
	f := &render.Frame{
		View:       mgl32.Translate3D(0, 0, -5),
		Projection: mgl32.Perspective(1, 1, 0.1, 100),
		Eye:        mgl32.Vec3{0, 0, 5},
	}
	u := newCameraUniform(f)
	assert.Equal(t, depthRemap.Mul4(f.Projection.Mul4(f.View)), u.ViewProj)
	assert.Equal(t, mgl32.Vec4{0, 0, 5, 1}, u.Eye)
}

func TestDepthRemap(t *testing.T) {
	proj := mgl32.Perspective(1, 1, 0.1, 100)
	near := depthRemap.Mul4(proj).Mul4x1(mgl32.Vec4{0, 0, -0.1, 1})
	far := depthRemap.Mul4(proj).Mul4x1(mgl32.Vec4{0, 0, -100, 1})
	assert.InDelta(t, 0, near.Z()/near.W(), 1e-5)
	assert.InDelta(t, 1, far.Z()/far.W(), 1e-4)
}
