package shading

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullHD() Params {
	p := DefaultParams()
	p.Resolution = mgl32.Vec2{1920, 1080}
	return p
}

// cellPoint returns the fragment coordinate at a relative offset inside cell (i, j).
func cellPoint(p Params, reps int, i, j int, ox, oy float32) mgl32.Vec2 {
	size := CellSize(p.Resolution, reps)
	return mgl32.Vec2{(float32(i) + ox) * size, (float32(j) + oy) * size}
}

func TestClampRepetitions(t *testing.T) {
	for _, tc := range []struct {
		in, want int
	}{
		{-5, MinRepetitions},
		{0, MinRepetitions},
		{9, MinRepetitions},
		{10, 10},
		{100, 100},
		{300, 300},
		{301, MaxRepetitions},
		{1 << 20, MaxRepetitions},
	} {
		assert.Equal(t, tc.want, ClampRepetitions(tc.in), "ClampRepetitions(%d)", tc.in)
	}
}

func TestParamsClamped(t *testing.T) {
	p := Params{ShadowRepetitions: 0, LightRepetitions: 999, ShadowPattern: 7}
	c := p.Clamped()
	assert.Equal(t, MinRepetitions, c.ShadowRepetitions)
	assert.Equal(t, MaxRepetitions, c.LightRepetitions)
	assert.Equal(t, mgl32.Vec2{1, 1}, c.Resolution)
	assert.Equal(t, PatternDots, c.ShadowPattern)
}

func TestIntensity(t *testing.T) {
	assert.InDelta(t, 1.0, Intensity(mgl32.Vec3{1, 1, 0}), 1e-6)
	assert.InDelta(t, 1.0, Intensity(mgl32.Vec3{3, 3, 0}), 1e-6, "normal is normalized first")
	assert.InDelta(t, 0.7071, Intensity(mgl32.Vec3{1, 0, 0}), 1e-3)
	assert.Equal(t, float32(0), Intensity(mgl32.Vec3{0, -1, 0}))
	assert.Equal(t, float32(0), Intensity(mgl32.Vec3{-1, -1, 0}))
	assert.Equal(t, float32(0), Intensity(mgl32.Vec3{}))
}

func TestCellSizeScalesWithWidth(t *testing.T) {
	assert.InDelta(t, 19.2, CellSize(mgl32.Vec2{1920, 1080}, 100), 1e-4)
	assert.InDelta(t, 9.6, CellSize(mgl32.Vec2{960, 540}, 100), 1e-4)
	assert.InDelta(t, 1920.0/130, CellSize(mgl32.Vec2{1920, 1080}, 130), 1e-4)
	// Out-of-range repetitions are clamped before use.
	assert.InDelta(t, 1920.0/300, CellSize(mgl32.Vec2{1920, 1080}, 5000), 1e-4)
}

func TestShadeUnlitCellCentreIsShadow(t *testing.T) {
	p := fullHD()
	frag := cellPoint(p, p.ShadowRepetitions, 3, 7, 0.5, 0.5)
	got := Shade(0, frag, p)
	assert.Equal(t, p.ShadowColor, got)
	assert.NotEqual(t, p.BaseColor, got)
	assert.NotEqual(t, p.LightColor, got)
}

func TestShadeFullyLitCellCentreIsLight(t *testing.T) {
	p := fullHD()
	frag := cellPoint(p, p.LightRepetitions, 11, 2, 0.5, 0.5)
	assert.Equal(t, p.LightColor, Shade(1, frag, p))
}

func TestShadeCellCornerIsBase(t *testing.T) {
	p := fullHD()
	assert.Equal(t, p.BaseColor, Shade(0.1, cellPoint(p, p.ShadowRepetitions, 4, 4, 0.02, 0.02), p))
	assert.Equal(t, p.BaseColor, Shade(0.9, cellPoint(p, p.LightRepetitions, 4, 4, 0.02, 0.02), p))
}

func TestShadeThresholdsResolveToBase(t *testing.T) {
	p := fullHD()
	centreShadow := cellPoint(p, p.ShadowRepetitions, 1, 1, 0.5, 0.5)
	centreLight := cellPoint(p, p.LightRepetitions, 1, 1, 0.5, 0.5)

	assert.Equal(t, p.BaseColor, Shade(ShadowThreshold, centreShadow, p))
	assert.Equal(t, p.BaseColor, Shade(ShadowThreshold, centreLight, p))
	assert.Equal(t, p.BaseColor, Shade(LightThreshold, centreShadow, p))
	assert.Equal(t, p.BaseColor, Shade(LightThreshold, centreLight, p))
}

func TestShadeMidtonesAreBase(t *testing.T) {
	p := fullHD()
	for _, intensity := range []float32{0.36, 0.4, 0.5, 0.6, 0.64} {
		for x := float32(0.5); x < 64; x += 1 {
			for y := float32(0.5); y < 64; y += 1 {
				require.Equal(t, p.BaseColor, Shade(intensity, mgl32.Vec2{x, y}, p), "intensity %v at (%v,%v)", intensity, x, y)
			}
		}
	}
}

func TestShadeCompositingPolicy(t *testing.T) {
	p := fullHD()
	sawShadow, sawLight := false, false
	for i := 0; i <= 20; i++ {
		intensity := float32(i) / 20
		for x := float32(0.5); x < 48; x += 1 {
			for y := float32(0.5); y < 48; y += 1 {
				frag := mgl32.Vec2{x, y}
				got := Shade(intensity, frag, p)
				switch {
				case intensity < ShadowThreshold && ShadowMask(frag, intensity, p):
					require.Equal(t, p.ShadowColor, got)
					sawShadow = true
				case intensity > LightThreshold && LightMask(frag, intensity, p):
					require.Equal(t, p.LightColor, got)
					sawLight = true
				default:
					require.Equal(t, p.BaseColor, got)
				}
			}
		}
	}
	assert.True(t, sawShadow)
	assert.True(t, sawLight)
}

func TestPatternDensityIsResolutionInvariant(t *testing.T) {
	p := fullHD()
	offsets := [][2]float32{{0.5, 0.5}, {0.3, 0.6}, {0.05, 0.05}, {0.9, 0.1}, {0.5, 0.95}}
	for _, scale := range []float32{0.5, 1.5, 2} {
		q := p
		q.Resolution = p.Resolution.Mul(scale)
		for i := 0; i < 5; i++ {
			for _, o := range offsets {
				a := cellPoint(p, p.ShadowRepetitions, i, i+1, o[0], o[1])
				b := cellPoint(q, q.ShadowRepetitions, i, i+1, o[0], o[1])
				assert.Equal(t, ShadowMask(a, 0.1, p), ShadowMask(b, 0.1, q), "scale %v offset %v", scale, o)

				a = cellPoint(p, p.LightRepetitions, i, i+1, o[0], o[1])
				b = cellPoint(q, q.LightRepetitions, i, i+1, o[0], o[1])
				assert.Equal(t, LightMask(a, 0.9, p), LightMask(b, 0.9, q), "scale %v offset %v", scale, o)
			}
		}
	}
}

func TestRepetitionsChangeDensity(t *testing.T) {
	p := fullHD()
	coverage := func(p Params) int {
		n := 0
		for x := float32(0.5); x < 192; x++ {
			if ShadowMask(mgl32.Vec2{x, 2}, 0, p) {
				n++
			}
		}
		return n
	}
	before := coverage(p)
	p.ShadowRepetitions = 300
	after := coverage(p)
	assert.NotEqual(t, before, after)
}

func TestLinesPatternIgnoresX(t *testing.T) {
	p := fullHD()
	p.ShadowPattern = PatternLines
	for _, y := range []float32{1, 5, 9.6, 14, 18} {
		want := ShadowMask(mgl32.Vec2{0.5, y}, 0.1, p)
		for x := float32(0.5); x < 100; x += 3 {
			assert.Equal(t, want, ShadowMask(mgl32.Vec2{x, y}, 0.1, p))
		}
	}
}

func TestRadii(t *testing.T) {
	assert.InDelta(t, 0.5, ShadowRadius(0), 1e-6)
	assert.Equal(t, float32(0), ShadowRadius(ShadowThreshold))
	assert.Equal(t, float32(0), ShadowRadius(0.9))
	assert.InDelta(t, 0.5, LightRadius(1), 1e-6)
	assert.Equal(t, float32(0), LightRadius(LightThreshold))
	assert.Equal(t, float32(0), LightRadius(0.1))
	assert.Greater(t, ShadowRadius(0.1), ShadowRadius(0.2))
	assert.Greater(t, LightRadius(0.95), LightRadius(0.8))
}
