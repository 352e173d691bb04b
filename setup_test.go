package halftone

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/halftone/render/soft"
	"github.com/gekko3d/halftone/shading"
)

func primitiveConfig() Config {
	cfg := DefaultConfig()
	cfg.Window.Width, cfg.Window.Height = 160, 120
	cfg.Objects = []ObjectConfig{
		{Name: "ball", Model: "primitive:sphere", Spin: []float32{0, 0.2, 0}},
		{Name: "ring", Model: "primitive:torus", Position: []float32{-2, 0, 0}, Orbit: &OrbitConfig{Around: "ball", Radius: 2, Speed: 0.5}},
	}
	return cfg
}

func countColor(img image.Image, c mgl32.Vec3) int {
	want := color.NRGBA{R: uint8(c[0]*255 + 0.5), G: uint8(c[1]*255 + 0.5), B: uint8(c[2]*255 + 0.5), A: 255}
	near := func(a, b uint8) bool {
		d := int(a) - int(b)
		return d >= -1 && d <= 1
	}
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			got := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if near(got.R, want.R) && near(got.G, want.G) && near(got.B, want.B) {
				n++
			}
		}
	}
	return n
}

func TestNewAppFromConfig_SoftRun(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "frame-%02d.png")
	var logs bytes.Buffer
	app, err := NewAppFromConfig(primitiveConfig(), Options{
		Output:    out,
		Frames:    3,
		Clock:     NewManualClock(time.Unix(0, 0)),
		LogOutput: &logs,
	})
	require.NoError(t, err)
	require.NoError(t, app.Run(context.Background()))

	r := MustResource[soft.Renderer](app)
	assert.Equal(t, uint64(3), r.Frames())
	w, h := r.Size()
	assert.Equal(t, []int{160, 120}, []int{w, h})
	for i := 1; i <= 3; i++ {
		_, err := os.Stat(fmt.Sprintf(out, i))
		assert.NoError(t, err, "frame %d written", i)
	}
	assert.Contains(t, logs.String(), "Renderer selected: soft")

	img := r.Image()
	assert.Positive(t, countColor(img, shading.DefaultParams().BaseColor))
	assert.Positive(t, countColor(img, shading.MustParseHex(DefaultClearColor)))
}

func TestNewAppFromConfig_LastFrameOnShutdown(t *testing.T) {
	out := filepath.Join(t.TempDir(), "last.bmp")
	app, err := NewAppFromConfig(primitiveConfig(), Options{Output: out, Frames: 2})
	require.NoError(t, err)
	require.NoError(t, app.Run(context.Background()))
	_, err = os.Stat(out)
	assert.NoError(t, err)
}

func TestNewAppFromConfig_ParameterChangeVisibleNextFrame(t *testing.T) {
	app, err := NewAppFromConfig(primitiveConfig(), Options{Clock: NewManualClock(time.Unix(0, 0))})
	require.NoError(t, err)
	r := MustResource[soft.Renderer](app)
	mat := MustResource[shading.Material](app)

	app.Step()
	green := mgl32.Vec3{0, 1, 0}
	require.Zero(t, countColor(r.Image(), green))

	mat.SetBaseColor(green)
	app.Step()
	assert.Positive(t, countColor(r.Image(), green))
	assert.Zero(t, countColor(r.Image(), shading.DefaultParams().BaseColor))
}

func TestNewAppFromConfig_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Renderer.Backend = "vulkan"
	_, err := NewAppFromConfig(cfg, Options{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestHalftoneModule_LogsFieldChanges(t *testing.T) {
	var logs bytes.Buffer
	app := NewAppBuilder().UseModule(
		LoggingModule{Debug: true, Output: &logs},
		HalftoneModule{},
	).Build()
	mat := MustResource[shading.Material](app)
	mat.SetShadowRepetitions(42)
	mat.SetShadowRepetitions(42)
	assert.Equal(t, 1, bytes.Count(logs.Bytes(), []byte("Material shadowRepetitions = 42")))
}
