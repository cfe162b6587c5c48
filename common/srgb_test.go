package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestSRGBRoundTrip(t *testing.T) {
	for i := 0; i <= 1000; i++ {
		x := float32(i) / 1000
		got := SRGBToLinear(LinearToSRGB(x))
		assert.InDelta(t, x, got, 1e-5, "x=%v", x)
	}
}

func TestLinearToSRGBSegments(t *testing.T) {
	// linear segment
	assert.InDelta(t, 12.92*0.001, LinearToSRGB(0.001), 1e-7)
	assert.InDelta(t, 12.92*srgbBreakpoint, LinearToSRGB(srgbBreakpoint), 1e-7)
	assert.Equal(t, float32(0), LinearToSRGB(0))

	// power-law segment
	assert.InDelta(t, 1.0, LinearToSRGB(1), 1e-6)
	assert.InDelta(t, 0.7353569, LinearToSRGB(0.5), 1e-5)
}

func TestLinearToSRGBContinuousAtBreakpoint(t *testing.T) {
	below := LinearToSRGB(srgbBreakpoint)
	above := LinearToSRGB(srgbBreakpoint + 1e-6)
	assert.InDelta(t, below, above, 1e-4)

	dec := SRGBToLinear(srgbEncodedBreakpoint)
	decAbove := SRGBToLinear(srgbEncodedBreakpoint + 1e-6)
	assert.InDelta(t, dec, decAbove, 1e-5)
}

func TestEncodeOutputBypassedForSRGBTarget(t *testing.T) {
	in := mgl32.Vec4{0.2, 0.0001, 0.9, 0.5}
	assert.Equal(t, in, EncodeOutput(in, true))
}

func TestEncodeOutputKeepsAlpha(t *testing.T) {
	out := EncodeOutput(mgl32.Vec4{0.5, 0.5, 0.5, 0.25}, false)
	assert.Equal(t, float32(0.25), out[3])
	assert.InDelta(t, LinearToSRGB(0.5), out[0], 1e-7)
}
