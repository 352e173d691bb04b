package halftone

import (
	"io"
)

// Options adjust how NewAppFromConfig assembles an App.
type Options struct {
	// ConfigPath is watched for changes when Watch is set.
	ConfigPath string
	Watch      bool
	// Output is the soft renderer's image path.
	Output    string
	Frames    uint64
	Debug     bool
	LogLevel  Level
	Clock     Clock
	Loader    ModelLoader
	LogOutput io.Writer
}

// NewAppFromConfig wires every module for cfg: logging, time, viewport,
// material, camera, config reload, assets, scene, animation, hierarchy and
// the configured renderer.
func NewAppFromConfig(cfg Config, opts Options) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	name, renderer, err := RendererModuleFor(cfg, opts.Output)
	if err != nil {
		return nil, err
	}
	material, err := HalftoneModuleFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	b := NewAppBuilder().WithFrameLimit(opts.Frames)
	if opts.Clock != nil {
		b.WithClock(opts.Clock)
	}
	app := b.UseModule(
		LoggingModule{Prefix: "halftone", Level: opts.LogLevel, Debug: opts.Debug, Output: opts.LogOutput},
		TimeModule{},
		ViewportModule{Width: cfg.Window.Width, Height: cfg.Window.Height, PixelRatio: cfg.Window.PixelRatio},
		material,
		CameraModule{Camera: CameraFromConfig(cfg.Camera)},
		ConfigModule{Config: cfg, Path: opts.ConfigPath, Watch: opts.Watch},
		AssetServerModule{Loader: opts.Loader},
		SceneModule{Objects: cfg.Objects},
		AnimationModule{},
		HierarchyModule{},
	).Build()
	app.UseRenderer(name, renderer)
	return app, nil
}
