package halftone

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/halftone/render"
	"github.com/gekko3d/halftone/shading"
)

// Orbit moves an object on a horizontal circle. Angles are in radians and
// Speed in radians per second.
type Orbit struct {
	Around string
	Center mgl32.Vec3
	Radius float32
	Speed  float32
	Phase  float32
	// Face turns the object to look along its direction of travel.
	Face bool
}

// SceneObject is a named placeholder in the scene that the model behind
// Handle is attached to once it has loaded.
type SceneObject struct {
	Name   string
	Handle ModelHandle
	Base   Transform
	Spin   mgl32.Vec3
	Orbit  *Orbit
	Node   *Node

	attached bool
	failed   bool
}

// Loaded reports whether the model has been attached to the scene.
func (o *SceneObject) Loaded() bool { return o.attached }

// Failed reports whether the model could not be loaded. A failed object stays
// empty for the rest of the run.
func (o *SceneObject) Failed() bool { return o.failed }

type Scene struct {
	Root    *Node
	Objects []*SceneObject
}

func NewScene() *Scene {
	return &Scene{Root: NewNode("scene")}
}

// AddObject creates the placeholder node for a model under the scene root.
func (s *Scene) AddObject(name string, h ModelHandle, base Transform) *SceneObject {
	n := NewNode(name)
	n.Transform = base
	s.Root.Add(n)
	obj := &SceneObject{Name: name, Handle: h, Base: base, Node: n}
	s.Objects = append(s.Objects, obj)
	return obj
}

func (s *Scene) Object(name string) *SceneObject {
	for _, o := range s.Objects {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// DrawList appends a draw item for every visible, attached mesh. World
// matrices are as of the last hierarchy update.
func (s *Scene) DrawList(items []render.DrawItem) []render.DrawItem {
	return s.Root.DrawItems(items)
}

// attach clones the loaded model under the object's placeholder and gives
// every mesh in it the shared material.
func (s *Scene) attach(obj *SceneObject, model *Node, mat *shading.Material) int {
	c := model.Clone()
	n := c.SetMaterial(mat)
	obj.Node.Add(c)
	obj.attached = true
	return n
}

// LoadScene starts loading every object's model. Names of the form
// "primitive:<kind>" are built in place and are ready on the first frame.
func LoadScene(server *AssetServer, objects []ObjectConfig) (*Scene, error) {
	scene := NewScene()
	for _, o := range objects {
		var h ModelHandle
		if kind, ok := strings.CutPrefix(o.Model, PrimitiveScheme); ok {
			var err error
			if h, err = server.CreatePrimitive(kind, 1); err != nil {
				return nil, fmt.Errorf("object %q: %w", o.Name, err)
			}
		} else {
			h = server.LoadModel(o.Model)
		}
		obj := scene.AddObject(o.Name, h, o.Transform())
		obj.Spin = vec3Or(o.Spin, mgl32.Vec3{})
		if o.Orbit != nil {
			obj.Orbit = &Orbit{
				Around: o.Orbit.Around,
				Center: vec3Or(o.Orbit.Center, mgl32.Vec3{}),
				Radius: o.Orbit.Radius,
				Speed:  o.Orbit.Speed,
				Phase:  o.Orbit.Phase,
				Face:   o.Orbit.Face,
			}
		}
	}
	return scene, nil
}

// SceneModule loads the configured objects through the AssetServer and
// attaches them as their loads complete. It needs AssetServerModule and
// HalftoneModule installed first.
type SceneModule struct {
	Objects []ObjectConfig
}

func (mod SceneModule) Install(app *App, cmd *Commands) {
	server := MustResource[AssetServer](app)
	scene, err := LoadScene(server, mod.Objects)
	if err != nil {
		app.Logger().Errorf("Scene: %v", err)
		scene = NewScene()
	}
	cmd.AddResources(scene)
	app.UseSystem(System(sceneAttachSystem).InStage(PreUpdate))
}

func sceneAttachSystem(scene *Scene, server *AssetServer, mat *shading.Material, log Logger) {
	for _, obj := range scene.Objects {
		if obj.attached || obj.failed {
			continue
		}
		switch server.State(obj.Handle) {
		case LoadLoaded:
			model, _ := server.Model(obj.Handle)
			n := scene.attach(obj, model, mat)
			log.Infof("Object %s attached with %d meshes", obj.Name, n)
		case LoadFailed:
			obj.failed = true
		}
	}
}
