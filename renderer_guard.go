package halftone

import (
	"fmt"
	"reflect"
)

// RendererTag records which renderer module was installed into the App.
type RendererTag struct {
	Name RendererName
}

// ensureSingleRenderer panics when a different renderer is already installed.
func ensureSingleRenderer(app *App, name RendererName) {
	if app == nil {
		panic("ensureSingleRenderer: app is nil")
	}
	t := reflect.TypeOf((*RendererTag)(nil)).Elem()
	if res, ok := app.resources[t]; ok {
		tag, ok := res.(*RendererTag)
		if !ok {
			panic("RendererTag resource present with unexpected type")
		}
		if tag.Name != name {
			app.Logger().Errorf("Multiple renderers installed: %s and %s", tag.Name, name)
			panic(fmt.Sprintf("Multiple renderers installed: %s and %s", tag.Name, name))
		}
		return
	}
	app.addResources(&RendererTag{Name: name})
}
