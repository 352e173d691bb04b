package halftone

import (
	"fmt"

	"github.com/gekko3d/halftone/render"
)

// Primitive names accepted by PrimitiveModel.
const (
	PrimitiveSphere = "sphere"
	PrimitiveCube   = "cube"
	PrimitiveTorus  = "torus"
)

// PrimitiveModel builds a single-mesh model of the given kind, sized to fit a
// box of edge 2*size.
func PrimitiveModel(kind string, size float32) (*Node, error) {
	if size <= 0 {
		size = 1
	}
	var mesh *render.Mesh
	switch kind {
	case PrimitiveSphere:
		mesh = render.NewUVSphere(size, 32, 48)
	case PrimitiveCube:
		mesh = render.NewCube(2*size, 2*size, 2*size)
	case PrimitiveTorus:
		mesh = render.NewTorus(size*0.7, size*0.3, 48, 24)
	default:
		return nil, fmt.Errorf("%w: primitive %q", ErrUnsupportedModel, kind)
	}
	n := NewNode(kind)
	n.Mesh = mesh
	return n, nil
}

// CreatePrimitive registers a primitive as an already loaded model.
func (s *AssetServer) CreatePrimitive(kind string, size float32) (ModelHandle, error) {
	root, err := PrimitiveModel(kind, size)
	if err != nil {
		return ModelHandle{}, err
	}
	return s.CreateModel(PrimitiveScheme+kind, root), nil
}
