// Package halftone is a small frame-driven scene engine whose one material is
// a halftone shader. Systems are plain functions scheduled into stages; their
// arguments are resolved from the App's resources by type.
package halftone

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"sync/atomic"
)

type systemFn any

// Module installs resources and systems into an App.
type Module interface {
	Install(app *App, cmd *Commands)
}

type App struct {
	stages     []Stage
	systems    map[string][]systemFn
	resources  map[reflect.Type]any
	clock      Clock
	frameLimit uint64
	frames     uint64
	stopped    atomic.Bool
	shutdown   []func()
	deferred   []func()
}

func newApp() *App {
	app := &App{
		systems:   make(map[string][]systemFn),
		resources: make(map[reflect.Type]any),
		clock:     SystemClock{},
	}
	for _, stage := range defaultStages {
		app.stages = append(app.stages, stage)
		app.systems[stage.Name] = nil
	}
	return app
}

func (app *App) Commands() *Commands {
	return &Commands{app: app}
}

// Frames returns how many frames have completed.
func (app *App) Frames() uint64 {
	return app.frames
}

// Clock returns the time source that drives the frame loop.
func (app *App) Clock() Clock {
	return app.clock
}

// Step runs every stage once, flushing deferred commands after each stage.
func (app *App) Step() {
	for _, stage := range app.stages {
		for _, system := range app.systems[stage.Name] {
			app.callSystem(system)
		}
		app.flushCommands()
	}
	app.frames++
}

// Run steps frames until ctx is done, Stop is called or the frame limit is
// reached. Shutdown hooks run before it returns.
func (app *App) Run(ctx context.Context) error {
	defer app.runShutdown()
	app.Logger().Debugf("Running with %d stages", len(app.stages))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if app.stopped.Load() {
			return nil
		}
		if app.frameLimit > 0 && app.frames >= app.frameLimit {
			return nil
		}
		app.Step()
	}
}

// Stop ends Run after the current frame. Safe to call from any goroutine.
func (app *App) Stop() {
	app.stopped.Store(true)
}

// OnShutdown registers fn to run when Run returns. Hooks run in reverse order.
func (app *App) OnShutdown(fn func()) {
	app.shutdown = append(app.shutdown, fn)
}

func (app *App) runShutdown() {
	for i := len(app.shutdown) - 1; i >= 0; i-- {
		app.shutdown[i]()
	}
	app.shutdown = nil
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if resourceType.Kind() != reflect.Pointer {
			panic(fmt.Sprintf("resource %s must be a pointer", resourceType))
		}
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}
		app.resources[resourceType.Elem()] = resource
	}
	return app
}

// Resource returns the resource of type *T, if one was added.
func Resource[T any](app *App) (*T, bool) {
	r, ok := app.resources[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		return nil, false
	}
	return r.(*T), true
}

// MustResource is Resource for wiring code that cannot continue without it.
func MustResource[T any](app *App) *T {
	r, ok := Resource[T](app)
	if !ok {
		panic(fmt.Sprintf("missing resource %s", reflect.TypeOf((*T)(nil)).Elem()))
	}
	return r
}

var (
	typeOfCommands = reflect.TypeOf(Commands{})
	typeOfApp      = reflect.TypeOf(App{})
	typeOfError    = reflect.TypeOf((*error)(nil)).Elem()
)

func (app *App) callSystem(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())
	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		arg, ok := app.resolve(argType)
		if !ok {
			panic(fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
				runtime.FuncForPC(systemValue.Pointer()).Name(),
				systemType,
				argType,
			))
		}
		args[i] = arg
	}

	out := systemValue.Call(args)
	if n := len(out); n > 0 && systemType.Out(n-1) == typeOfError {
		if err, _ := out[n-1].Interface().(error); err != nil {
			app.Logger().Errorf("%s: %v", runtime.FuncForPC(systemValue.Pointer()).Name(), err)
		}
	}
}

func (app *App) resolve(argType reflect.Type) (reflect.Value, bool) {
	if argType.Kind() == reflect.Interface {
		for _, r := range app.resources {
			if reflect.TypeOf(r).Implements(argType) {
				return reflect.ValueOf(r), true
			}
		}
		if argType == reflect.TypeOf((*Logger)(nil)).Elem() {
			return reflect.ValueOf(NewNopLogger()), true
		}
		return reflect.Value{}, false
	}
	if argType.Kind() != reflect.Pointer {
		return reflect.Value{}, false
	}
	switch argType.Elem() {
	case typeOfCommands:
		return reflect.ValueOf(&Commands{app: app}), true
	case typeOfApp:
		return reflect.ValueOf(app), true
	}
	if resource, ok := app.resources[argType.Elem()]; ok {
		return reflect.ValueOf(resource), true
	}
	return reflect.Value{}, false
}

func (app *App) flushCommands() {
	if len(app.deferred) == 0 {
		return
	}
	pending := app.deferred
	app.deferred = nil
	for _, fn := range pending {
		fn()
	}
}
