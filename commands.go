package halftone

// Commands is handed to modules and systems to change the App from inside a frame.
type Commands struct {
	app *App
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

// Defer runs fn after the current stage has finished.
func (cmd *Commands) Defer(fn func()) {
	cmd.app.deferred = append(cmd.app.deferred, fn)
}

// Stop ends the frame loop after the current frame.
func (cmd *Commands) Stop() {
	cmd.app.Stop()
}

func (cmd *Commands) Logger() Logger {
	return cmd.app.Logger()
}
