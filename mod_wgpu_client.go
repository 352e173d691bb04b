package halftone

import (
	"github.com/gekko3d/halftone/render/gpu"
	"github.com/gekko3d/halftone/shading"
)

// WGPURendererModule opens a window and renders into it with WebGPU. Closing
// the window or pressing Escape stops the app.
type WGPURendererModule struct {
	Width  int
	Height int
	Title  string
}

func (mod WGPURendererModule) Install(app *App, cmd *Commands) {
	log := app.Logger().Named("wgpu")
	ensureViewport(app, mod.Width, mod.Height, 0)
	vp := MustResource[Viewport](app)

	title := mod.Title
	if title == "" {
		title = "Halftone"
	}
	win, err := gpu.OpenWindow(vp.Width, vp.Height, title)
	if err != nil {
		log.Errorf("WGPU renderer: %v", err)
		app.Stop()
		return
	}
	r, err := gpu.New(win)
	if err != nil {
		log.Errorf("WGPU renderer: %v", err)
		win.Close()
		app.Stop()
		return
	}

	resize := func(fbWidth, fbHeight int) {
		w, h := win.Size()
		vp.ResizeFramebuffer(w, h, fbWidth, fbHeight)
	}
	resize(win.FramebufferSize())
	win.OnResize(resize)

	cmd.AddResources(win, r)
	app.UseSystem(System(windowPollSystem).InStage(Prelude))
	app.UseSystem(System(wgpuRenderSystem).InStage(Render))
	app.OnShutdown(func() {
		r.Release()
		win.Close()
	})
	log.Infof("Window %dx%d at pixel ratio %.2f", vp.Width, vp.Height, win.PixelRatio())
}

func windowPollSystem(win *gpu.Window, cmd *Commands) {
	win.PollEvents()
	if win.ShouldClose() {
		cmd.Stop()
	}
}

func wgpuRenderSystem(r *gpu.Renderer, vp *Viewport, scene *Scene, cam *Camera, mat *shading.Material, settings *RenderSettings) error {
	r.Resize(vp.PhysicalSize())
	return r.Render(BuildFrame(scene, cam, mat, settings))
}
