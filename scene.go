package halftone

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/halftone/render"
	"github.com/gekko3d/halftone/shading"
)

// Transform is a local TRS transform. Rotation holds Euler angles in radians
// applied in XYZ order.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
}

func IdentityTransform() Transform {
	return Transform{Scale: mgl32.Vec3{1, 1, 1}}
}

func (t Transform) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position.Elem()).
		Mul4(mgl32.HomogRotate3DX(t.Rotation.X())).
		Mul4(mgl32.HomogRotate3DY(t.Rotation.Y())).
		Mul4(mgl32.HomogRotate3DZ(t.Rotation.Z())).
		Mul4(mgl32.Scale3D(t.Scale.Elem()))
}

// TransformFromMatrix decomposes an affine matrix without shear into a Transform.
func TransformFromMatrix(m mgl32.Mat4) Transform {
	t := Transform{Position: m.Col(3).Vec3()}
	for i := 0; i < 3; i++ {
		t.Scale[i] = m.Col(i).Vec3().Len()
	}
	// Pure rotation, row-major element rc.
	r := func(row, col int) float32 {
		if t.Scale[col] == 0 {
			return 0
		}
		return m.At(row, col) / t.Scale[col]
	}
	m13 := mgl32.Clamp(r(0, 2), -1, 1)
	t.Rotation[1] = math32.Asin(m13)
	if math32.Abs(m13) < 0.9999999 {
		t.Rotation[0] = math32.Atan2(-r(1, 2), r(2, 2))
		t.Rotation[2] = math32.Atan2(-r(0, 1), r(0, 0))
	} else {
		t.Rotation[0] = math32.Atan2(r(2, 1), r(1, 1))
	}
	return t
}

// Node is one element of the scene graph. A node with a Mesh and a Material
// is drawn; Visible hides the node and its subtree.
type Node struct {
	Name      string
	Transform Transform
	Mesh      *render.Mesh
	Material  *shading.Material
	Visible   bool
	Children  []*Node

	parent *Node
	world  mgl32.Mat4
}

func NewNode(name string) *Node {
	return &Node{
		Name:      name,
		Transform: IdentityTransform(),
		Visible:   true,
		world:     mgl32.Ident4(),
	}
}

func (n *Node) Parent() *Node { return n.parent }

// World is the node's world matrix as of the last UpdateWorld.
func (n *Node) World() mgl32.Mat4 { return n.world }

// Add reparents children under n.
func (n *Node) Add(children ...*Node) {
	for _, c := range children {
		if c.parent != nil {
			c.parent.Remove(c)
		}
		c.parent = n
		n.Children = append(n.Children, c)
	}
}

func (n *Node) Remove(child *Node) bool {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Traverse visits n and its descendants depth first. Returning false from fn
// skips the node's children.
func (n *Node) Traverse(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Traverse(fn)
	}
}

// Find returns the first node in the subtree with the given name.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Traverse(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.Name == name {
			found = c
			return false
		}
		return true
	})
	return found
}

// Clone copies the subtree. Meshes and materials are shared.
func (n *Node) Clone() *Node {
	c := &Node{
		Name:      n.Name,
		Transform: n.Transform,
		Mesh:      n.Mesh,
		Material:  n.Material,
		Visible:   n.Visible,
		world:     n.world,
	}
	for _, child := range n.Children {
		c.Add(child.Clone())
	}
	return c
}

// SetMaterial assigns m to every mesh in the subtree.
func (n *Node) SetMaterial(m *shading.Material) int {
	count := 0
	n.Traverse(func(c *Node) bool {
		if c.Mesh != nil {
			c.Material = m
			count++
		}
		return true
	})
	return count
}

// UpdateWorld recomputes world matrices for the subtree below parent.
func (n *Node) UpdateWorld(parent mgl32.Mat4) {
	n.world = parent.Mul4(n.Transform.Matrix())
	for _, c := range n.Children {
		c.UpdateWorld(n.world)
	}
}

// DrawItems appends a DrawItem for every visible node that has both a mesh
// and a material.
func (n *Node) DrawItems(items []render.DrawItem) []render.DrawItem {
	n.Traverse(func(c *Node) bool {
		if !c.Visible {
			return false
		}
		if c.Mesh != nil && c.Material != nil {
			items = append(items, render.DrawItem{Mesh: c.Mesh, Model: c.world})
		}
		return true
	})
	return items
}
