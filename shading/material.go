package shading

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Field names one independently editable member of Params.
type Field int

const (
	FieldBaseColor Field = iota
	FieldShadowColor
	FieldLightColor
	FieldShadowRepetitions
	FieldLightRepetitions
	FieldResolution
	FieldShadowPattern
	FieldLightPattern
	fieldCount
)

var fieldNames = [fieldCount]string{
	FieldBaseColor:         "color",
	FieldShadowColor:       "shadowColor",
	FieldLightColor:        "lightColor",
	FieldShadowRepetitions: "shadowRepetitions",
	FieldLightRepetitions:  "lightRepetitions",
	FieldResolution:        "resolution",
	FieldShadowPattern:     "shadowPattern",
	FieldLightPattern:      "lightPattern",
}

func (f Field) String() string {
	if f < 0 || f >= fieldCount {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldNames[f]
}

// ParseField resolves a binding name (case-insensitive) to a Field.
func ParseField(name string) (Field, error) {
	for i, n := range fieldNames {
		if strings.EqualFold(n, name) {
			return Field(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// Fields lists every bindable field in declaration order.
func Fields() []Field {
	fs := make([]Field, fieldCount)
	for i := range fs {
		fs[i] = Field(i)
	}
	return fs
}

// Material holds the live halftone parameters shared by every mesh it is
// attached to. It belongs to the frame thread and is not safe for
// concurrent use; other goroutines hand changes over through the app.
type Material struct {
	params  Params
	version uint64
	hooks   [fieldCount][]func(Params)
}

func NewMaterial(p Params) *Material {
	return &Material{params: p.Clamped(), version: 1}
}

func (m *Material) Params() Params { return m.params }

// Version increases on every effective change. Renderers may compare it to
// skip redundant uniform uploads.
func (m *Material) Version() uint64 { return m.version }

// OnChange registers fn to be called with the new Params after f changes.
func (m *Material) OnChange(f Field, fn func(Params)) {
	if f < 0 || f >= fieldCount || fn == nil {
		return
	}
	m.hooks[f] = append(m.hooks[f], fn)
}

func (m *Material) changed(f Field) {
	m.version++
	for _, fn := range m.hooks[f] {
		fn(m.params)
	}
}

func (m *Material) SetBaseColor(c mgl32.Vec3) {
	if m.params.BaseColor == c {
		return
	}
	m.params.BaseColor = c
	m.changed(FieldBaseColor)
}

func (m *Material) SetShadowColor(c mgl32.Vec3) {
	if m.params.ShadowColor == c {
		return
	}
	m.params.ShadowColor = c
	m.changed(FieldShadowColor)
}

func (m *Material) SetLightColor(c mgl32.Vec3) {
	if m.params.LightColor == c {
		return
	}
	m.params.LightColor = c
	m.changed(FieldLightColor)
}

func (m *Material) SetShadowRepetitions(n int) {
	n = ClampRepetitions(n)
	if m.params.ShadowRepetitions == n {
		return
	}
	m.params.ShadowRepetitions = n
	m.changed(FieldShadowRepetitions)
}

func (m *Material) SetLightRepetitions(n int) {
	n = ClampRepetitions(n)
	if m.params.LightRepetitions == n {
		return
	}
	m.params.LightRepetitions = n
	m.changed(FieldLightRepetitions)
}

// SetResolution takes the physical pixel size of the display surface.
func (m *Material) SetResolution(width, height float32) {
	r := clampResolution(mgl32.Vec2{width, height})
	if m.params.Resolution == r {
		return
	}
	m.params.Resolution = r
	m.changed(FieldResolution)
}

func (m *Material) SetShadowPattern(p Pattern) {
	if p > PatternLines || m.params.ShadowPattern == p {
		return
	}
	m.params.ShadowPattern = p
	m.changed(FieldShadowPattern)
}

func (m *Material) SetLightPattern(p Pattern) {
	if p > PatternLines || m.params.LightPattern == p {
		return
	}
	m.params.LightPattern = p
	m.changed(FieldLightPattern)
}

// Get returns the textual value of the named field, in the same format Set accepts.
func (m *Material) Get(name string) (string, error) {
	f, err := ParseField(name)
	if err != nil {
		return "", err
	}
	p := m.params
	switch f {
	case FieldBaseColor:
		return Hex(p.BaseColor), nil
	case FieldShadowColor:
		return Hex(p.ShadowColor), nil
	case FieldLightColor:
		return Hex(p.LightColor), nil
	case FieldShadowRepetitions:
		return strconv.Itoa(p.ShadowRepetitions), nil
	case FieldLightRepetitions:
		return strconv.Itoa(p.LightRepetitions), nil
	case FieldResolution:
		return fmt.Sprintf("%gx%g", p.Resolution.X(), p.Resolution.Y()), nil
	case FieldShadowPattern:
		return p.ShadowPattern.String(), nil
	default:
		return p.LightPattern.String(), nil
	}
}

// Set parses value and assigns it to the named field. Colors are hex
// strings, repetitions integers (clamped), resolution "WxH", patterns
// "dots" or "lines".
func (m *Material) Set(name, value string) error {
	f, err := ParseField(name)
	if err != nil {
		return err
	}
	switch f {
	case FieldBaseColor, FieldShadowColor, FieldLightColor:
		c, err := ParseHex(value)
		if err != nil {
			return err
		}
		switch f {
		case FieldBaseColor:
			m.SetBaseColor(c)
		case FieldShadowColor:
			m.SetShadowColor(c)
		default:
			m.SetLightColor(c)
		}
	case FieldShadowRepetitions, FieldLightRepetitions:
		n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) || math.IsNaN(n) {
			return fmt.Errorf("%w: %s=%q", ErrInvalidValue, f, value)
		}
		// Clamp before converting; int() of an out-of-range float is undefined.
		reps := int(math.Round(math.Max(MinRepetitions, math.Min(MaxRepetitions, n))))
		if f == FieldShadowRepetitions {
			m.SetShadowRepetitions(reps)
		} else {
			m.SetLightRepetitions(reps)
		}
	case FieldResolution:
		w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(value)), "x")
		if !ok {
			return fmt.Errorf("%w: %s=%q", ErrInvalidValue, f, value)
		}
		fw, errW := strconv.ParseFloat(w, 32)
		fh, errH := strconv.ParseFloat(h, 32)
		if errW != nil || errH != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidValue, f, value)
		}
		m.SetResolution(float32(fw), float32(fh))
	case FieldShadowPattern, FieldLightPattern:
		p, err := ParsePattern(value)
		if err != nil {
			return err
		}
		if f == FieldShadowPattern {
			m.SetShadowPattern(p)
		} else {
			m.SetLightPattern(p)
		}
	}
	return nil
}

// Apply copies every field of p except Resolution, which follows the
// viewport, through the setters so each effective change fires its own hooks.
func (m *Material) Apply(p Params) {
	m.SetBaseColor(p.BaseColor)
	m.SetShadowColor(p.ShadowColor)
	m.SetLightColor(p.LightColor)
	m.SetShadowRepetitions(p.ShadowRepetitions)
	m.SetLightRepetitions(p.LightRepetitions)
	m.SetShadowPattern(p.ShadowPattern)
	m.SetLightPattern(p.LightPattern)
}
