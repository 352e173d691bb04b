package shading

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	MinRepetitions = 10
	MaxRepetitions = 300

	DefaultShadowRepetitions = 100
	DefaultLightRepetitions  = 130
)

// Pattern selects the repeating shape used by one halftone layer.
type Pattern uint32

const (
	PatternDots Pattern = iota
	PatternLines
)

func (p Pattern) String() string {
	switch p {
	case PatternLines:
		return "lines"
	default:
		return "dots"
	}
}

// ParsePattern accepts "dots" or "lines". An empty string means dots.
func ParsePattern(s string) (Pattern, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dots":
		return PatternDots, nil
	case "lines":
		return PatternLines, nil
	}
	return PatternDots, fmt.Errorf("%w: pattern %q", ErrInvalidValue, s)
}

// Params is the uniform state of one halftone draw call.
type Params struct {
	BaseColor   mgl32.Vec3
	ShadowColor mgl32.Vec3
	LightColor  mgl32.Vec3

	ShadowRepetitions int
	LightRepetitions  int

	// Resolution is the physical pixel size of the display surface
	// (logical size times device pixel ratio).
	Resolution mgl32.Vec2

	ShadowPattern Pattern
	LightPattern  Pattern
}

func DefaultParams() Params {
	return Params{
		BaseColor:         MustParseHex("#ff794d"),
		ShadowColor:       MustParseHex("#8e19b8"),
		LightColor:        MustParseHex("#e5ffe0"),
		ShadowRepetitions: DefaultShadowRepetitions,
		LightRepetitions:  DefaultLightRepetitions,
		Resolution:        mgl32.Vec2{1, 1},
	}
}

// ClampRepetitions maps any repetition count into [MinRepetitions, MaxRepetitions].
func ClampRepetitions(n int) int {
	if n < MinRepetitions {
		return MinRepetitions
	}
	if n > MaxRepetitions {
		return MaxRepetitions
	}
	return n
}

func clampResolution(r mgl32.Vec2) mgl32.Vec2 {
	if !(r[0] >= 1) {
		r[0] = 1
	}
	if !(r[1] >= 1) {
		r[1] = 1
	}
	return r
}

// Clamped returns a copy of p with every field inside its valid range.
func (p Params) Clamped() Params {
	p.ShadowRepetitions = ClampRepetitions(p.ShadowRepetitions)
	p.LightRepetitions = ClampRepetitions(p.LightRepetitions)
	p.Resolution = clampResolution(p.Resolution)
	if p.ShadowPattern > PatternLines {
		p.ShadowPattern = PatternDots
	}
	if p.LightPattern > PatternLines {
		p.LightPattern = PatternDots
	}
	return p
}

// ParseHex parses "#rrggbb" (or "#rgb") into an RGB triple in [0,1].
func ParseHex(s string) (mgl32.Vec3, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return mgl32.Vec3{}, fmt.Errorf("%w: color %q", ErrInvalidValue, s)
	}
	return mgl32.Vec3{float32(c.R), float32(c.G), float32(c.B)}, nil
}

func MustParseHex(s string) mgl32.Vec3 {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats an RGB triple as "#rrggbb".
func Hex(c mgl32.Vec3) string {
	return colorful.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2])}.Clamped().Hex()
}
