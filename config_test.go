package halftone

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/halftone/shading"
)

const tomlConfig = `
[window]
width = 640
height = 480

[renderer]
clear_color = "#000000"

[material]
color = "#112233"
shadow_repetitions = 500
light_pattern = "lines"

[[objects]]
name = "ball"
model = "primitive:sphere"
spin = [0, 1, 0]

[[objects]]
name = "moon"
model = "primitive:cube"
scale = [0.2, 0.2, 0.2]
[objects.orbit]
around = "ball"
radius = 2
speed = 1
`

const yamlConfig = `
window:
  width: 640
  height: 480
renderer:
  clear_color: "#000000"
material:
  color: "#112233"
  shadow_repetitions: 500
  light_pattern: lines
objects:
  - name: ball
    model: primitive:sphere
    spin: [0, 1, 0]
  - name: moon
    model: primitive:cube
    scale: [0.2, 0.2, 0.2]
    orbit:
      around: ball
      radius: 2
      speed: 1
`

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	p, err := cfg.Material.Params(shading.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, shading.DefaultParams(), p)
	assert.Len(t, cfg.Objects, 2)
}

func TestParseConfig_TOMLAndYAMLAgree(t *testing.T) {
	fromTOML, err := ParseConfig([]byte(tomlConfig), "toml")
	require.NoError(t, err)
	fromYAML, err := ParseConfig([]byte(yamlConfig), "yaml")
	require.NoError(t, err)
	assert.Equal(t, fromTOML, fromYAML)

	assert.Equal(t, 640, fromTOML.Window.Width)
	assert.Equal(t, "Halftone", fromTOML.Window.Title, "unset fields keep their defaults")
	require.Len(t, fromTOML.Objects, 2, "listed objects replace the default scene")
	require.NotNil(t, fromTOML.Objects[1].Orbit)
	assert.Equal(t, "ball", fromTOML.Objects[1].Orbit.Around)

	p, err := fromTOML.Material.Params(shading.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, shading.MustParseHex("#112233"), p.BaseColor)
	assert.Equal(t, shading.MaxRepetitions, p.ShadowRepetitions, "repetitions are clamped")
	assert.Equal(t, shading.PatternLines, p.LightPattern)
	assert.Equal(t, shading.DefaultParams().ShadowColor, p.ShadowColor)
}

func TestParseConfig_KeepsDefaultObjects(t *testing.T) {
	cfg, err := ParseConfig([]byte("[camera]\nfov = 40\n"), "toml")
	require.NoError(t, err)
	assert.Equal(t, float32(40), cfg.Camera.Fov)
	assert.Equal(t, DefaultConfig().Objects, cfg.Objects)
}

func TestParseConfig_Errors(t *testing.T) {
	cases := map[string]struct {
		data, format string
	}{
		"unknown field":   {"[window]\ncolour = 1\n", "toml"},
		"unknown format":  {"", "ini"},
		"bad colour":      {"material:\n  color: nope\n", "yaml"},
		"bad pattern":     {"[material]\nshadow_pattern = \"stars\"\n", "toml"},
		"bad renderer":    {"[renderer]\nbackend = \"vulkan\"\n", "toml"},
		"zero window":     {"[window]\nwidth = 0\n", "toml"},
		"duplicate names": {"objects:\n  - {name: a, model: x.glb}\n  - {name: a, model: y.glb}\n", "yaml"},
		"orbit unknown":   {"objects:\n  - {name: a, model: x.glb, orbit: {around: b}}\n", "yaml"},
		"short vector":    {"objects:\n  - {name: a, model: x.glb, position: [1, 2]}\n", "yaml"},
		"fov":             {"[camera]\nfov = 180\n", "toml"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tc.data), tc.format)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Window.Width = 0
	cfg.Camera.Near = 0
	cfg.Objects[1].Name = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "window size")
	assert.Contains(t, err.Error(), "camera near")
	assert.Contains(t, err.Error(), "has no name")
}

func TestLoadConfig_ByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yml")
	require.NoError(t, os.WriteFile(path, []byte(yamlConfig), 0o644))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 480, cfg.Window.Height)

	_, err = LoadConfig(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestObjectConfig_Transform(t *testing.T) {
	car := DefaultConfig().Objects[1]
	tr := car.Transform()
	assert.Equal(t, mgl32.Vec3{-5, -1.5, 0}, tr.Position)
	assert.InDelta(t, mgl32.DegToRad(90), tr.Rotation.Y(), 1e-6)
	assert.Equal(t, mgl32.Vec3{0.5, 0.5, 0.5}, tr.Scale)

	assert.Equal(t, IdentityTransform(), ObjectConfig{}.Transform())
}
