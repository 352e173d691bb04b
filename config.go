package halftone

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gekko3d/halftone/shading"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Window   WindowConfig   `toml:"window" yaml:"window"`
	Renderer RendererConfig `toml:"renderer" yaml:"renderer"`
	Material MaterialConfig `toml:"material" yaml:"material"`
	Camera   CameraConfig   `toml:"camera" yaml:"camera"`
	Objects  []ObjectConfig `toml:"objects" yaml:"objects"`
}

type WindowConfig struct {
	Title  string `toml:"title" yaml:"title"`
	Width  int    `toml:"width" yaml:"width"`
	Height int    `toml:"height" yaml:"height"`
	// PixelRatio is the device pixel ratio for headless runs. Windows report their own.
	PixelRatio float32 `toml:"pixel_ratio" yaml:"pixel_ratio"`
}

type RendererConfig struct {
	Backend     string `toml:"backend" yaml:"backend"`
	ClearColor  string `toml:"clear_color" yaml:"clear_color"`
	Supersample int    `toml:"supersample" yaml:"supersample"`
}

type MaterialConfig struct {
	Color             string `toml:"color" yaml:"color"`
	ShadowColor       string `toml:"shadow_color" yaml:"shadow_color"`
	LightColor        string `toml:"light_color" yaml:"light_color"`
	ShadowRepetitions int    `toml:"shadow_repetitions" yaml:"shadow_repetitions"`
	LightRepetitions  int    `toml:"light_repetitions" yaml:"light_repetitions"`
	ShadowPattern     string `toml:"shadow_pattern" yaml:"shadow_pattern"`
	LightPattern      string `toml:"light_pattern" yaml:"light_pattern"`
}

type CameraConfig struct {
	Fov      float32   `toml:"fov" yaml:"fov"`
	Near     float32   `toml:"near" yaml:"near"`
	Far      float32   `toml:"far" yaml:"far"`
	Position []float32 `toml:"position" yaml:"position"`
	Target   []float32 `toml:"target" yaml:"target"`
}

// ObjectConfig places one model in the scene. Model is a file path or a
// "primitive:" name; Rotation is in degrees, Spin in radians per second.
type ObjectConfig struct {
	Name     string       `toml:"name" yaml:"name"`
	Model    string       `toml:"model" yaml:"model"`
	Position []float32    `toml:"position" yaml:"position"`
	Rotation []float32    `toml:"rotation" yaml:"rotation"`
	Scale    []float32    `toml:"scale" yaml:"scale"`
	Spin     []float32    `toml:"spin" yaml:"spin"`
	Orbit    *OrbitConfig `toml:"orbit" yaml:"orbit"`
}

// OrbitConfig moves an object on a horizontal circle around Center, or
// around the object named Around when set.
type OrbitConfig struct {
	Around string    `toml:"around" yaml:"around"`
	Center []float32 `toml:"center" yaml:"center"`
	Radius float32   `toml:"radius" yaml:"radius"`
	Speed  float32   `toml:"speed" yaml:"speed"`
	Phase  float32   `toml:"phase" yaml:"phase"`
	Face   bool      `toml:"face" yaml:"face"`
}

const DefaultClearColor = "#26132f"

func DefaultConfig() Config {
	p := shading.DefaultParams()
	return Config{
		Window: WindowConfig{
			Title:      "Halftone",
			Width:      1280,
			Height:     720,
			PixelRatio: 1,
		},
		Renderer: RendererConfig{
			Backend:     string(RendererSoft),
			ClearColor:  DefaultClearColor,
			Supersample: 1,
		},
		Material: MaterialConfig{
			Color:             shading.Hex(p.BaseColor),
			ShadowColor:       shading.Hex(p.ShadowColor),
			LightColor:        shading.Hex(p.LightColor),
			ShadowRepetitions: p.ShadowRepetitions,
			LightRepetitions:  p.LightRepetitions,
			ShadowPattern:     p.ShadowPattern.String(),
			LightPattern:      p.LightPattern.String(),
		},
		Camera: CameraConfig{
			Fov:      25,
			Near:     0.1,
			Far:      100,
			Position: []float32{7, 7, 7},
			Target:   []float32{0, 0, 0},
		},
		Objects: []ObjectConfig{
			{
				Name:  "bear",
				Model: "baby_bear.glb",
				Scale: []float32{1, 1, 1},
				Spin:  []float32{0, 0.2, 0},
			},
			{
				Name:     "car",
				Model:    "3d_car.glb",
				Position: []float32{-5, -1.5, 0},
				Rotation: []float32{0, 90, 0},
				Scale:    []float32{0.5, 0.5, 0.5},
			},
		},
	}
}

// LoadConfig reads a TOML (.toml) or YAML (.yaml, .yml) file over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := ParseConfig(data, strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes data in the given format ("toml", "yaml" or "yml")
// over DefaultConfig and validates the result.
func ParseConfig(data []byte, format string) (Config, error) {
	lenient, err := configDecoder(format, false)
	if err != nil {
		return Config{}, err
	}
	strict, _ := configDecoder(format, true)
	cfg := DefaultConfig()

	// A file that lists objects replaces the default scene instead of merging into it.
	var probe struct {
		Objects []ObjectConfig `toml:"objects" yaml:"objects"`
	}
	if err := lenient(data, &probe); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if probe.Objects != nil {
		cfg.Objects = nil
	}
	if err := strict(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func configDecoder(format string, strict bool) (func([]byte, any) error, error) {
	switch format {
	case "toml":
		return func(data []byte, v any) error {
			dec := toml.NewDecoder(bytes.NewReader(data))
			if strict {
				dec.DisallowUnknownFields()
			}
			return dec.Decode(v)
		}, nil
	case "yaml", "yml":
		return func(data []byte, v any) error {
			dec := yaml.NewDecoder(bytes.NewReader(data))
			dec.KnownFields(strict)
			if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			return nil
		}, nil
	}
	return nil, fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, format)
}

// Validate reports every problem in the config at once.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		bad("window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.PixelRatio < 0 {
		bad("pixel ratio %g", c.Window.PixelRatio)
	}
	if _, err := ParseRendererName(c.Renderer.Backend); err != nil {
		errs = append(errs, err)
	}
	if _, err := shading.ParseHex(c.Renderer.ClearColor); err != nil {
		bad("clear_color: %v", err)
	}
	if _, err := c.Material.Params(shading.DefaultParams()); err != nil {
		errs = append(errs, err)
	}
	if c.Camera.Fov <= 0 || c.Camera.Fov >= 180 {
		bad("camera fov %g", c.Camera.Fov)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		bad("camera near %g far %g", c.Camera.Near, c.Camera.Far)
	}

	names := make(map[string]bool, len(c.Objects))
	for i, o := range c.Objects {
		switch {
		case o.Name == "":
			bad("object %d has no name", i)
		case names[o.Name]:
			bad("object %q defined twice", o.Name)
		}
		names[o.Name] = true
		if o.Model == "" {
			bad("object %q has no model", o.Name)
		}
		for field, v := range map[string][]float32{"position": o.Position, "rotation": o.Rotation, "scale": o.Scale, "spin": o.Spin} {
			if v != nil && len(v) != 3 {
				bad("object %q %s needs 3 components, got %d", o.Name, field, len(v))
			}
		}
	}
	for _, o := range c.Objects {
		if o.Orbit == nil {
			continue
		}
		if o.Orbit.Around != "" && !names[o.Orbit.Around] {
			bad("object %q orbits unknown object %q", o.Name, o.Orbit.Around)
		}
		if o.Orbit.Around == o.Name {
			bad("object %q orbits itself", o.Name)
		}
		if o.Orbit.Center != nil && len(o.Orbit.Center) != 3 {
			bad("object %q orbit center needs 3 components", o.Name)
		}
	}
	return errors.Join(errs...)
}

// Params applies the material section over base. Repetitions are clamped,
// colours and patterns must parse.
func (m MaterialConfig) Params(base shading.Params) (shading.Params, error) {
	p := base
	var errs []error
	color := func(field, s string, dst *mgl32.Vec3) {
		if s == "" {
			return
		}
		c, err := shading.ParseHex(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: material %s: %v", ErrInvalidConfig, field, err))
			return
		}
		*dst = c
	}
	pattern := func(field, s string, dst *shading.Pattern) {
		if s == "" {
			return
		}
		pat, err := shading.ParsePattern(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: material %s: %v", ErrInvalidConfig, field, err))
			return
		}
		*dst = pat
	}
	color("color", m.Color, &p.BaseColor)
	color("shadow_color", m.ShadowColor, &p.ShadowColor)
	color("light_color", m.LightColor, &p.LightColor)
	if m.ShadowRepetitions != 0 {
		p.ShadowRepetitions = m.ShadowRepetitions
	}
	if m.LightRepetitions != 0 {
		p.LightRepetitions = m.LightRepetitions
	}
	pattern("shadow_pattern", m.ShadowPattern, &p.ShadowPattern)
	pattern("light_pattern", m.LightPattern, &p.LightPattern)
	if err := errors.Join(errs...); err != nil {
		return base, err
	}
	return p.Clamped(), nil
}

func vec3Or(v []float32, def mgl32.Vec3) mgl32.Vec3 {
	if len(v) != 3 {
		return def
	}
	return mgl32.Vec3{v[0], v[1], v[2]}
}

// Transform converts the object's placement to a scene Transform.
func (o ObjectConfig) Transform() Transform {
	rot := vec3Or(o.Rotation, mgl32.Vec3{})
	return Transform{
		Position: vec3Or(o.Position, mgl32.Vec3{}),
		Rotation: mgl32.Vec3{mgl32.DegToRad(rot[0]), mgl32.DegToRad(rot[1]), mgl32.DegToRad(rot[2])},
		Scale:    vec3Or(o.Scale, mgl32.Vec3{1, 1, 1}),
	}
}
