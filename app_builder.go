package halftone

type AppBuilder struct {
	app     *App
	modules []Module
}

func NewAppBuilder() *AppBuilder {
	return &AppBuilder{app: newApp()}
}

// WithClock replaces the wall clock, typically with a ManualClock in tests.
func (b *AppBuilder) WithClock(clock Clock) *AppBuilder {
	b.app.clock = clock
	return b
}

// WithFrameLimit makes Run return after n frames. Zero means no limit.
func (b *AppBuilder) WithFrameLimit(n uint64) *AppBuilder {
	b.app.frameLimit = n
	return b
}

func (b *AppBuilder) UseModule(modules ...Module) *AppBuilder {
	b.modules = append(b.modules, modules...)
	return b
}

// Build installs the modules in the order they were added.
func (b *AppBuilder) Build() *App {
	app := b.app
	commands := app.Commands()
	for _, module := range b.modules {
		module.Install(app, commands)
	}
	return app
}

// UseModules installs modules into an already built App.
func (app *App) UseModules(modules ...Module) *App {
	commands := app.Commands()
	for _, module := range modules {
		module.Install(app, commands)
	}
	return app
}
