package shading

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// Intensities strictly below ShadowThreshold may show the shadow pattern.
	ShadowThreshold float32 = 0.35
	// Intensities strictly above LightThreshold may show the light pattern.
	LightThreshold float32 = 0.65
)

// LightDirection is the fixed, normalized direction the diffuse term is measured against.
var LightDirection = mgl32.Vec3{1, 1, 0}.Normalize()

// Intensity is the clamped diffuse term max(0, N·L), in [0,1].
func Intensity(normal mgl32.Vec3) float32 {
	l := normal.Len()
	if l == 0 || math32.IsNaN(l) {
		return 0
	}
	d := normal.Mul(1 / l).Dot(LightDirection)
	return math32.Min(1, math32.Max(0, d))
}

// CellSize is the pixel edge length of one pattern cell. It scales with the
// surface width so the number of cells across the viewport stays fixed.
func CellSize(resolution mgl32.Vec2, repetitions int) float32 {
	return clampResolution(resolution).X() / float32(ClampRepetitions(repetitions))
}

func fract(x float32) float32 {
	return x - math32.Floor(x)
}

// cellDistance is the distance of fragCoord from the centre line or point of
// its cell, in cell units. Dots measure radially, lines only vertically.
func cellDistance(fragCoord mgl32.Vec2, resolution mgl32.Vec2, repetitions int, pattern Pattern) float32 {
	size := CellSize(resolution, repetitions)
	u := fract(fragCoord.X()/size) - 0.5
	v := fract(fragCoord.Y()/size) - 0.5
	if pattern == PatternLines {
		return math32.Abs(v)
	}
	return math32.Sqrt(u*u + v*v)
}

// ShadowRadius grows from 0 at ShadowThreshold to 0.5 at zero intensity.
func ShadowRadius(intensity float32) float32 {
	if !(intensity < ShadowThreshold) {
		return 0
	}
	return 0.5 * (1 - math32.Max(0, intensity)/ShadowThreshold)
}

// LightRadius grows from 0 at LightThreshold to 0.5 at full intensity.
func LightRadius(intensity float32) float32 {
	if !(intensity > LightThreshold) {
		return 0
	}
	return 0.5 * (math32.Min(1, intensity) - LightThreshold) / (1 - LightThreshold)
}

// ShadowMask reports whether the shadow pattern covers fragCoord.
func ShadowMask(fragCoord mgl32.Vec2, intensity float32, p Params) bool {
	r := ShadowRadius(intensity)
	return r > 0 && cellDistance(fragCoord, p.Resolution, p.ShadowRepetitions, p.ShadowPattern) < r
}

// LightMask reports whether the light pattern covers fragCoord.
func LightMask(fragCoord mgl32.Vec2, intensity float32, p Params) bool {
	r := LightRadius(intensity)
	return r > 0 && cellDistance(fragCoord, p.Resolution, p.LightRepetitions, p.LightPattern) < r
}

// Shade is the fragment stage: a pure function of intensity, the fragment's
// screen position (pixels, origin bottom-left) and p.
func Shade(intensity float32, fragCoord mgl32.Vec2, p Params) mgl32.Vec3 {
	switch {
	case intensity < ShadowThreshold && ShadowMask(fragCoord, intensity, p):
		return p.ShadowColor
	case intensity > LightThreshold && LightMask(fragCoord, intensity, p):
		return p.LightColor
	}
	return p.BaseColor
}

func ShadeNormal(normal mgl32.Vec3, fragCoord mgl32.Vec2, p Params) mgl32.Vec3 {
	return Shade(Intensity(normal), fragCoord, p)
}
