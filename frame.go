package halftone

import (
	"github.com/gekko3d/halftone/render"
	"github.com/gekko3d/halftone/shading"
)

// BuildFrame snapshots the scene, camera and material for a renderer.
func BuildFrame(scene *Scene, cam *Camera, mat *shading.Material, settings *RenderSettings) *render.Frame {
	return &render.Frame{
		View:       cam.View(),
		Projection: cam.Projection(),
		Eye:        cam.Position,
		ClearColor: settings.ClearColor,
		Halftone:   mat.Params(),
		Items:      scene.DrawList(nil),
	}
}
