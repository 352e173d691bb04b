package halftone

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/gekko3d/halftone/shading"
)

// ConfigWatcher reloads a config file whenever it changes on disk. Only the
// latest successfully parsed config is kept for the frame thread.
type ConfigWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	updates chan Config
	log     Logger
	done    chan struct{}
}

func WatchConfig(path string, log Logger) (*ConfigWatcher, error) {
	if log == nil {
		log = NewNopLogger()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	// Editors often replace the file, so watch its directory.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	w := &ConfigWatcher{
		path:    abs,
		watcher: watcher,
		updates: make(chan Config, 1),
		log:     log,
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *ConfigWatcher) loop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			cfg, err := LoadConfig(w.path)
			if err != nil {
				w.log.Warnf("Config reload ignored: %v", err)
				continue
			}
			w.publish(cfg)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Errorf("Config watcher: %v", err)
		}
	}
}

func (w *ConfigWatcher) publish(cfg Config) {
	for {
		select {
		case w.updates <- cfg:
			return
		default:
		}
		select {
		case <-w.updates:
		default:
		}
	}
}

// Updates delivers reloaded configs.
func (w *ConfigWatcher) Updates() <-chan Config {
	return w.updates
}

func (w *ConfigWatcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}

// ConfigModule makes Config available as a resource and, with Watch set,
// applies material and clear colour edits from Path on the next frame.
type ConfigModule struct {
	Config Config
	Path   string
	Watch  bool
}

func (mod ConfigModule) Install(app *App, cmd *Commands) {
	cfg := mod.Config
	cmd.AddResources(&cfg)
	if !mod.Watch || mod.Path == "" {
		return
	}
	log := app.Logger().Named("config")
	w, err := WatchConfig(mod.Path, log)
	if err != nil {
		log.Errorf("Hot reload disabled: %v", err)
		return
	}
	cmd.AddResources(w)
	app.OnShutdown(func() { w.Close() })
	app.UseSystem(System(configReloadSystem).InStage(PreUpdate))
	log.Infof("Watching %s for changes", mod.Path)
}

func configReloadSystem(w *ConfigWatcher, cfg *Config, mat *shading.Material, settings *RenderSettings, log Logger) {
	select {
	case next := <-w.Updates():
		applyConfig(next, cfg, mat, settings, log)
	default:
	}
}

// applyConfig pushes the live-editable parts of next into the running app.
// Scene layout changes need a restart.
func applyConfig(next Config, cfg *Config, mat *shading.Material, settings *RenderSettings, log Logger) {
	p, err := next.Material.Params(mat.Params())
	if err != nil {
		log.Warnf("Config reload: %v", err)
		return
	}
	before := mat.Version()
	mat.Apply(p)
	if c, err := shading.ParseHex(next.Renderer.ClearColor); err == nil {
		settings.ClearColor = c
	}
	if len(next.Objects) != len(cfg.Objects) {
		log.Infof("Config reload: object changes apply on restart")
	}
	*cfg = next
	log.Infof("Config reloaded, material version %d -> %d", before, mat.Version())
}
