// Package soft rasterizes halftone frames on the CPU with fauxgl. It needs no
// window or GPU and is what headless runs and tests draw with.
package soft

import (
	"github.com/fogleman/fauxgl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/halftone/shading"
)

// HalftoneShader is a fauxgl.Shader that evaluates the halftone fragment
// stage per pixel.
type HalftoneShader struct {
	// Matrix maps object space to clip space.
	Matrix fauxgl.Matrix
	// Normal maps object normals to world space.
	Normal fauxgl.Matrix
	Params shading.Params
}

func (s *HalftoneShader) Vertex(v fauxgl.Vertex) fauxgl.Vertex {
	v.Output = s.Matrix.MulPositionW(v.Position)
	v.Normal = s.Normal.MulDirection(v.Normal)
	return v
}

func (s *HalftoneShader) Fragment(v fauxgl.Vertex) fauxgl.Color {
	c := shading.ShadeNormal(toVec3(v.Normal), s.fragCoord(v.Output), s.Params)
	return fauxgl.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2]), A: 1}
}

// fragCoord recovers the pixel position, origin bottom-left, from the
// interpolated clip position.
func (s *HalftoneShader) fragCoord(clip fauxgl.VectorW) mgl32.Vec2 {
	if clip.W == 0 {
		return mgl32.Vec2{}
	}
	res := s.Params.Resolution
	x := (clip.X/clip.W + 1) / 2 * float64(res.X())
	y := (clip.Y/clip.W + 1) / 2 * float64(res.Y())
	return mgl32.Vec2{float32(x), float32(y)}
}

func toVec3(v fauxgl.Vector) mgl32.Vec3 {
	return mgl32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

func toVector(v mgl32.Vec3) fauxgl.Vector {
	return fauxgl.Vector{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
}

func toColor(v mgl32.Vec3) fauxgl.Color {
	return fauxgl.Color{R: float64(v[0]), G: float64(v[1]), B: float64(v[2]), A: 1}
}

// toMatrix converts a column-major mgl32 matrix into fauxgl's row-major form.
func toMatrix(m mgl32.Mat4) fauxgl.Matrix {
	f := func(row, col int) float64 { return float64(m.At(row, col)) }
	return fauxgl.Matrix{
		X00: f(0, 0), X01: f(0, 1), X02: f(0, 2), X03: f(0, 3),
		X10: f(1, 0), X11: f(1, 1), X12: f(1, 2), X13: f(1, 3),
		X20: f(2, 0), X21: f(2, 1), X22: f(2, 2), X23: f(2, 3),
		X30: f(3, 0), X31: f(3, 1), X32: f(3, 2), X33: f(3, 3),
	}
}
