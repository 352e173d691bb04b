package halftone

import (
	"fmt"
	"strings"

	"github.com/gekko3d/halftone/render/soft"
	"github.com/gekko3d/halftone/shading"
)

// SoftRendererModule renders on the CPU. Output, when set, is where frames are
// written: a path containing a verb such as "frame-%04d.png" gets one file per
// frame, any other path gets the last frame when the app shuts down.
type SoftRendererModule struct {
	Supersample int
	Output      string
}

type softOutput struct {
	path     string
	perFrame bool
}

func (mod SoftRendererModule) Install(app *App, cmd *Commands) {
	ensureViewport(app, 0, 0, 0)
	vp := MustResource[Viewport](app)
	w, h := vp.PhysicalSize()
	r := soft.New(w, h, mod.Supersample)
	cmd.AddResources(r)
	app.UseSystem(System(softRenderSystem).InStage(Render))

	if mod.Output == "" {
		return
	}
	out := &softOutput{path: mod.Output, perFrame: strings.Contains(mod.Output, "%")}
	cmd.AddResources(out)
	if out.perFrame {
		app.UseSystem(System(softSaveSystem).InStage(PostRender))
		return
	}
	log := app.Logger().Named("soft")
	app.OnShutdown(func() {
		if r.Frames() == 0 {
			log.Warnf("No frame rendered, %s not written", out.path)
			return
		}
		if err := soft.SaveImage(out.path, r.Image()); err != nil {
			log.Errorf("Save %s: %v", out.path, err)
			return
		}
		log.Infof("Wrote %s", out.path)
	})
}

func softRenderSystem(r *soft.Renderer, vp *Viewport, scene *Scene, cam *Camera, mat *shading.Material, settings *RenderSettings) error {
	r.Resize(vp.PhysicalSize())
	return r.Render(BuildFrame(scene, cam, mat, settings))
}

func softSaveSystem(r *soft.Renderer, out *softOutput, t *Time) error {
	path := fmt.Sprintf(out.path, t.Frame)
	if err := soft.SaveImage(path, r.Image()); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
