package halftone

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/halftone/shading"
)

func TestApplyConfig_UpdatesMaterialAndClearColor(t *testing.T) {
	cfg := DefaultConfig()
	mat := shading.NewMaterial(shading.DefaultParams())
	mat.SetResolution(800, 600)
	settings := &RenderSettings{}
	var changed []shading.Field
	for _, f := range shading.Fields() {
		f := f
		mat.OnChange(f, func(shading.Params) { changed = append(changed, f) })
	}

	next := DefaultConfig()
	next.Material.LightColor = "#00ff00"
	next.Material.ShadowRepetitions = 5
	next.Renderer.ClearColor = "#ffffff"
	applyConfig(next, &cfg, mat, settings, NewNopLogger())

	p := mat.Params()
	assert.Equal(t, shading.MustParseHex("#00ff00"), p.LightColor)
	assert.Equal(t, shading.MinRepetitions, p.ShadowRepetitions)
	assert.Equal(t, float32(800), p.Resolution.X(), "the config never overrides the viewport resolution")
	assert.Equal(t, shading.MustParseHex("#ffffff"), settings.ClearColor)
	assert.ElementsMatch(t, []shading.Field{shading.FieldLightColor, shading.FieldShadowRepetitions}, changed)
	assert.Equal(t, next, cfg)
}

func TestApplyConfig_RejectsBadMaterial(t *testing.T) {
	cfg := DefaultConfig()
	mat := shading.NewMaterial(shading.DefaultParams())
	before := mat.Version()
	next := DefaultConfig()
	next.Material.Color = "not a colour"
	applyConfig(next, &cfg, mat, &RenderSettings{}, NewNopLogger())
	assert.Equal(t, before, mat.Version())
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestConfigModule_HotReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "halftone.toml")
	require.NoError(t, os.WriteFile(path, []byte("[material]\ncolor = \"#ff0000\"\n"), 0o644))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	app := NewAppBuilder().UseModule(
		HalftoneModule{},
		ConfigModule{Config: cfg, Path: path, Watch: true},
	).Build()
	_, ok := Resource[ConfigWatcher](app)
	require.True(t, ok)
	mat := MustResource[shading.Material](app)
	app.Step()

	// A broken edit is ignored and the previous settings stay.
	require.NoError(t, os.WriteFile(path, []byte("[material]\ncolor = \n"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("[material]\ncolor = \"#0000ff\"\n"), 0o644))
	require.Eventually(t, func() bool {
		app.Step()
		return mat.Params().BaseColor == shading.MustParseHex("#0000ff")
	}, 5*time.Second, 5*time.Millisecond)

	app.runShutdown()
}

func TestConfigModule_WithoutWatch(t *testing.T) {
	app := NewAppBuilder().UseModule(ConfigModule{Config: DefaultConfig()}).Build()
	cfg, ok := Resource[Config](app)
	require.True(t, ok)
	assert.Equal(t, DefaultConfig(), *cfg)
	_, ok = Resource[ConfigWatcher](app)
	assert.False(t, ok)
}
