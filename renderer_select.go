package halftone

import (
	"fmt"
	"strings"
)

// RendererName identifies a renderer module.
type RendererName string

const (
	RendererSoft RendererName = "soft"
	RendererWGPU RendererName = "wgpu"
)

func ParseRendererName(s string) (RendererName, error) {
	switch name := RendererName(strings.ToLower(strings.TrimSpace(s))); name {
	case RendererSoft, RendererWGPU:
		return name, nil
	}
	return "", fmt.Errorf("%w: unknown renderer %q", ErrInvalidConfig, s)
}

// UseRenderer installs exactly one renderer module and makes sure a Viewport
// exists for it to size its output from.
//
//	app.UseRenderer(RendererSoft, SoftRendererModule{})
func (app *App) UseRenderer(name RendererName, mod Module) *App {
	ensureSingleRenderer(app, name)
	ensureViewport(app, 0, 0, 0)
	app.Logger().Infof("Renderer selected: %s", name)
	app.UseModules(mod)
	return app
}

// UseRendererWithViewport is UseRenderer with an explicit initial viewport.
func (app *App) UseRendererWithViewport(name RendererName, mod Module, width, height int, pixelRatio float32) *App {
	ensureSingleRenderer(app, name)
	ensureViewport(app, width, height, pixelRatio)
	app.Logger().Infof("Renderer selected: %s", name)
	app.UseModules(mod)
	return app
}

// RendererModuleFor builds the renderer module a config asks for. out is the
// soft renderer's image path and is ignored by the window renderer.
func RendererModuleFor(cfg Config, out string) (RendererName, Module, error) {
	name, err := ParseRendererName(cfg.Renderer.Backend)
	if err != nil {
		return "", nil, err
	}
	switch name {
	case RendererWGPU:
		return name, WGPURendererModule{
			Width:  cfg.Window.Width,
			Height: cfg.Window.Height,
			Title:  cfg.Window.Title,
		}, nil
	default:
		return name, SoftRendererModule{
			Supersample: cfg.Renderer.Supersample,
			Output:      out,
		}, nil
	}
}
