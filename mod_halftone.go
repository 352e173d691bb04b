package halftone

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/halftone/shading"
)

// RenderSettings holds per-app render state that is not part of the material.
type RenderSettings struct {
	ClearColor mgl32.Vec3
}

// HalftoneModule installs the one shared halftone Material and the render
// settings. Every field change is logged at debug level.
type HalftoneModule struct {
	Params     shading.Params
	ClearColor mgl32.Vec3
}

// HalftoneModuleFromConfig builds the module from the material and renderer
// sections of cfg.
func HalftoneModuleFromConfig(cfg Config) (HalftoneModule, error) {
	p, err := cfg.Material.Params(shading.DefaultParams())
	if err != nil {
		return HalftoneModule{}, err
	}
	bg, err := shading.ParseHex(cfg.Renderer.ClearColor)
	if err != nil {
		return HalftoneModule{}, err
	}
	return HalftoneModule{Params: p, ClearColor: bg}, nil
}

func (mod HalftoneModule) Install(app *App, cmd *Commands) {
	p := mod.Params
	if p == (shading.Params{}) {
		p = shading.DefaultParams()
	}
	mat := shading.NewMaterial(p)
	log := app.Logger()
	for _, f := range shading.Fields() {
		f := f
		mat.OnChange(f, func(shading.Params) {
			if !log.DebugEnabled() {
				return
			}
			v, _ := mat.Get(f.String())
			log.Debugf("Material %s = %s", f, v)
		})
	}
	cmd.AddResources(mat, &RenderSettings{ClearColor: mod.ClearColor})
}
