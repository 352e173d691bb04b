// Command halftone renders a scene with the halftone material, either into a
// window (wgpu) or to image files (soft).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gekko3d/halftone"
)

func init() {
	// GLFW must run on the main thread.
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "TOML or YAML config file")
	renderer := flag.String("renderer", "", "renderer to use: soft or wgpu (overrides the config)")
	frames := flag.Uint64("frames", 0, "stop after this many frames, 0 runs until closed")
	out := flag.String("out", "", "image written by the soft renderer; a %d verb writes every frame")
	watch := flag.Bool("watch", false, "apply material edits when the config file changes")
	debug := flag.Bool("debug", false, "enable debug logging, same as -log-level debug")
	logLevel := flag.String("log-level", "info", "minimum log level: debug, info, warn or error")
	loadTimeout := flag.Duration("load-timeout", 30*time.Second, "how long the soft renderer waits for models before the first frame")
	flag.Parse()

	level, err := halftone.ParseLevel(*logLevel)
	if err == nil {
		err = run(*configPath, *renderer, *frames, *out, *watch, *debug, level, *loadTimeout)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "halftone:", err)
		os.Exit(1)
	}
}

func run(configPath, renderer string, frames uint64, out string, watch, debug bool, level halftone.Level, loadTimeout time.Duration) error {
	cfg := halftone.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = halftone.LoadConfig(configPath); err != nil {
			return err
		}
	}
	if renderer != "" {
		cfg.Renderer.Backend = renderer
	}
	name, err := halftone.ParseRendererName(cfg.Renderer.Backend)
	if err != nil {
		return err
	}
	// Without a window nothing else would end a soft run.
	if name == halftone.RendererSoft && frames == 0 && !watch {
		frames = 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := halftone.NewAppFromConfig(cfg, halftone.Options{
		ConfigPath: configPath,
		Watch:      watch,
		Output:     out,
		Frames:     frames,
		Debug:      debug,
		LogLevel:   level,
	})
	if err != nil {
		return err
	}

	if name == halftone.RendererSoft {
		server := halftone.MustResource[halftone.AssetServer](app)
		wctx, cancel := context.WithTimeout(ctx, loadTimeout)
		if err := server.Wait(wctx); err != nil {
			app.Logger().Warnf("Rendering with %d models still loading: %v", server.Pending(), err)
		}
		cancel()
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
