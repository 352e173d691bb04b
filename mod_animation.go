package halftone

import (
	"github.com/chewxy/math32"
)

// AnimationModule drives spins and orbits from the elapsed time.
type AnimationModule struct{}

func (AnimationModule) Install(app *App, cmd *Commands) {
	app.UseSystem(System(animationSystem).InStage(Update))
}

func animationSystem(scene *Scene, t *Time) {
	animateScene(scene, t.Elapsed())
}

// animateScene poses every loaded object for the given elapsed time. Objects
// that have not loaded are left alone, as are orbits around them.
func animateScene(scene *Scene, elapsed float32) {
	for _, obj := range scene.Objects {
		if !obj.attached {
			continue
		}
		tr := obj.Base
		tr.Rotation = tr.Rotation.Add(obj.Spin.Mul(elapsed))
		if o := obj.Orbit; o != nil {
			center, ok := o.Center, true
			if o.Around != "" {
				other := scene.Object(o.Around)
				if ok = other != nil && other.attached; ok {
					center = other.Node.Transform.Position
				}
			}
			if ok {
				angle := o.Phase + elapsed*o.Speed
				tr.Position[0] = center[0] + o.Radius*math32.Cos(angle)
				tr.Position[2] = center[2] + o.Radius*math32.Sin(angle)
				if o.Face {
					tr.Rotation[1] -= angle
				}
			}
		}
		obj.Node.Transform = tr
	}
}
