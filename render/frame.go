package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/halftone/shading"
)

// DrawItem places one mesh in the world.
type DrawItem struct {
	Mesh  *Mesh
	Model mgl32.Mat4
}

// NormalMatrix is the inverse-transpose of Model, used to carry normals into world space.
func (d DrawItem) NormalMatrix() mgl32.Mat4 {
	if d.Model.Det() == 0 {
		return mgl32.Ident4()
	}
	return d.Model.Inv().Transpose()
}

// Frame is everything a backend needs to draw one image.
type Frame struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Eye        mgl32.Vec3
	ClearColor mgl32.Vec3
	Halftone   shading.Params
	Items      []DrawItem
}

func (f *Frame) ViewProjection() mgl32.Mat4 {
	return f.Projection.Mul4(f.View)
}

// Renderer is implemented by every backend.
type Renderer interface {
	// Resize sets the physical pixel size of the output surface.
	Resize(width, height int)
	Render(frame *Frame) error
}
