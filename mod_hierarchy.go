package halftone

import (
	"github.com/go-gl/mathgl/mgl32"
)

// HierarchyModule propagates world matrices from parents to children after
// animation has run.
type HierarchyModule struct{}

func (HierarchyModule) Install(app *App, cmd *Commands) {
	app.UseSystem(System(hierarchySystem).InStage(PostUpdate))
}

func hierarchySystem(scene *Scene) {
	scene.Root.UpdateWorld(mgl32.Ident4())
}
