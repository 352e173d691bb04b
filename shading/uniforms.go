package shading

import (
	"bytes"
	"encoding/binary"
)

// Uniforms mirrors the Halftone struct in halftone.wgsl. Field order and
// padding follow WGSL uniform layout rules: each vec3 is 16-byte aligned
// and shares its last slot with the scalar that follows it.
type Uniforms struct {
	BaseColor         [3]float32
	ShadowRepetitions float32
	ShadowColor       [3]float32
	LightRepetitions  float32
	LightColor        [3]float32
	ShadowThreshold   float32
	LightDirection    [3]float32
	LightThreshold    float32
	Resolution        [2]float32
	ShadowPattern     uint32
	LightPattern      uint32
}

// UniformsSize is the byte size of the Halftone uniform block.
const UniformsSize = 80

func (p Params) Uniforms() Uniforms {
	p = p.Clamped()
	return Uniforms{
		BaseColor:         p.BaseColor,
		ShadowRepetitions: float32(p.ShadowRepetitions),
		ShadowColor:       p.ShadowColor,
		LightRepetitions:  float32(p.LightRepetitions),
		LightColor:        p.LightColor,
		ShadowThreshold:   ShadowThreshold,
		LightDirection:    LightDirection,
		LightThreshold:    LightThreshold,
		Resolution:        p.Resolution,
		ShadowPattern:     uint32(p.ShadowPattern),
		LightPattern:      uint32(p.LightPattern),
	}
}

func (u Uniforms) Bytes() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, UniformsSize))
	if err := binary.Write(buf, binary.LittleEndian, u); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
