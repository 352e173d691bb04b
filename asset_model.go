package halftone

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fogleman/fauxgl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/gekko3d/halftone/render"
)

var ErrUnsupportedModel = errors.New("unsupported model")

// PrimitiveScheme prefixes model paths that name a built-in primitive, as in
// "primitive:torus".
const PrimitiveScheme = "primitive:"

// FileModelLoader decodes glTF (.gltf, .glb) scenes and single-mesh STL, OBJ,
// PLY and 3DS files. Paths starting with PrimitiveScheme build a primitive.
type FileModelLoader struct{}

func (FileModelLoader) LoadModel(path string) (*Node, error) {
	if kind, ok := strings.CutPrefix(path, PrimitiveScheme); ok {
		return PrimitiveModel(kind, 1)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
		return loadGLTF(path)
	case ".stl", ".obj", ".ply", ".3ds":
		return loadFauxMesh(path)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedModel, path)
}

func loadFauxMesh(path string) (*Node, error) {
	fm, err := fauxgl.LoadMesh(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	mesh := &render.Mesh{Name: filepath.Base(path)}
	for _, t := range fm.Triangles {
		flat := toVec3(t.V2.Position.Sub(t.V1.Position).Cross(t.V3.Position.Sub(t.V1.Position)))
		if flat.Len() > 0 {
			flat = flat.Normalize()
		}
		for _, v := range []fauxgl.Vertex{t.V1, t.V2, t.V3} {
			n := toVec3(v.Normal)
			if n.Len() == 0 {
				n = flat
			}
			mesh.Positions = append(mesh.Positions, toVec3(v.Position))
			mesh.Normals = append(mesh.Normals, n)
		}
	}
	if err := mesh.Validate(); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	root := NewNode(mesh.Name)
	root.Mesh = mesh
	return root, nil
}

func toVec3(v fauxgl.Vector) mgl32.Vec3 {
	return mgl32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

func loadGLTF(path string) (*Node, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	root := NewNode(filepath.Base(path))

	var roots []int
	switch {
	case doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes):
		roots = doc.Scenes[*doc.Scene].Nodes
	case len(doc.Scenes) > 0:
		roots = doc.Scenes[0].Nodes
	default:
		for i := range doc.Nodes {
			roots = append(roots, i)
		}
	}

	meshes := make(map[int][]*render.Mesh)
	for _, idx := range roots {
		n, err := gltfNode(doc, idx, meshes, 0)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		root.Add(n)
	}
	return root, nil
}

const maxGLTFDepth = 64

func gltfNode(doc *gltf.Document, idx int, meshes map[int][]*render.Mesh, depth int) (*Node, error) {
	if idx < 0 || idx >= len(doc.Nodes) {
		return nil, fmt.Errorf("%w: node %d out of range", ErrUnsupportedModel, idx)
	}
	if depth > maxGLTFDepth {
		return nil, fmt.Errorf("%w: node hierarchy deeper than %d", ErrUnsupportedModel, maxGLTFDepth)
	}
	src := doc.Nodes[idx]
	n := NewNode(src.Name)
	n.Transform = gltfTransform(src)

	if src.Mesh != nil {
		prims, err := gltfMesh(doc, int(*src.Mesh), meshes)
		if err != nil {
			return nil, err
		}
		// Every primitive becomes its own child so each can be drawn separately.
		for i, m := range prims {
			if len(prims) == 1 {
				n.Mesh = m
				break
			}
			child := NewNode(fmt.Sprintf("%s#%d", src.Name, i))
			child.Mesh = m
			n.Add(child)
		}
	}
	for _, c := range src.Children {
		child, err := gltfNode(doc, int(c), meshes, depth+1)
		if err != nil {
			return nil, err
		}
		n.Add(child)
	}
	return n, nil
}

func gltfTransform(src *gltf.Node) Transform {
	if m := src.MatrixOrDefault(); m != gltf.DefaultMatrix {
		var mat mgl32.Mat4
		for i, v := range m {
			mat[i] = float32(v)
		}
		return TransformFromMatrix(mat)
	}
	t, r, s := src.TranslationOrDefault(), src.RotationOrDefault(), src.ScaleOrDefault()
	q := mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}
	tr := TransformFromMatrix(q.Normalize().Mat4())
	tr.Position = mgl32.Vec3{float32(t[0]), float32(t[1]), float32(t[2])}
	tr.Scale = mgl32.Vec3{float32(s[0]), float32(s[1]), float32(s[2])}
	return tr
}

func gltfMesh(doc *gltf.Document, idx int, cache map[int][]*render.Mesh) ([]*render.Mesh, error) {
	if ms, ok := cache[idx]; ok {
		return ms, nil
	}
	if idx < 0 || idx >= len(doc.Meshes) {
		return nil, fmt.Errorf("%w: mesh %d out of range", ErrUnsupportedModel, idx)
	}
	src := doc.Meshes[idx]
	var out []*render.Mesh
	for pi, p := range src.Primitives {
		if p.Mode != gltf.PrimitiveTriangles {
			continue
		}
		pos, ok := p.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		m := &render.Mesh{Name: fmt.Sprintf("%s/%d", src.Name, pi)}
		acc, err := gltfAccessor(doc, pos)
		if err != nil {
			return nil, fmt.Errorf("mesh %q positions: %w", src.Name, err)
		}
		positions, err := modeler.ReadPosition(doc, acc, nil)
		if err != nil {
			return nil, fmt.Errorf("mesh %q positions: %w", src.Name, err)
		}
		for _, v := range positions {
			m.Positions = append(m.Positions, mgl32.Vec3(v))
		}
		if nrm, ok := p.Attributes[gltf.NORMAL]; ok {
			acc, err := gltfAccessor(doc, nrm)
			if err != nil {
				return nil, fmt.Errorf("mesh %q normals: %w", src.Name, err)
			}
			normals, err := modeler.ReadNormal(doc, acc, nil)
			if err != nil {
				return nil, fmt.Errorf("mesh %q normals: %w", src.Name, err)
			}
			for _, v := range normals {
				m.Normals = append(m.Normals, mgl32.Vec3(v))
			}
		}
		if p.Indices != nil {
			acc, err := gltfAccessor(doc, *p.Indices)
			if err != nil {
				return nil, fmt.Errorf("mesh %q indices: %w", src.Name, err)
			}
			m.Indices, err = modeler.ReadIndices(doc, acc, nil)
			if err != nil {
				return nil, fmt.Errorf("mesh %q indices: %w", src.Name, err)
			}
		}
		if err := m.Validate(); err != nil {
			return nil, err
		}
		m.ComputeNormals()
		out = append(out, m)
	}
	cache[idx] = out
	return out, nil
}

// gltfAccessor resolves an accessor index. Files are not validated on open,
// so every index taken from the document is checked before use.
func gltfAccessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) || doc.Accessors[idx] == nil {
		return nil, fmt.Errorf("%w: accessor %d out of range", ErrUnsupportedModel, idx)
	}
	return doc.Accessors[idx], nil
}
