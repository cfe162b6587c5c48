package common

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// srgbBreakpoint is the linear value below which the sRGB transfer function is linear.
	srgbBreakpoint = 0.0031308
	// srgbEncodedBreakpoint is srgbBreakpoint after encoding, used by the inverse.
	srgbEncodedBreakpoint = 0.04045
	srgbA                 = 0.055
	srgbGamma             = 2.4
	srgbLinearSlope       = 12.92
)

// LinearToSRGB encodes a single linear channel value with the piecewise sRGB transfer function.
func LinearToSRGB(x float32) float32 {
	if x <= srgbBreakpoint {
		return srgbLinearSlope * x
	}
	return (1.0+srgbA)*math32.Pow(x, 1.0/srgbGamma) - srgbA
}

// SRGBToLinear decodes a single sRGB channel value back into linear space.
func SRGBToLinear(x float32) float32 {
	if x <= srgbEncodedBreakpoint {
		return x / srgbLinearSlope
	}
	return math32.Pow((x+srgbA)/(1.0+srgbA), srgbGamma)
}

// EncodeOutput applies LinearToSRGB to the RGB channels of color unless the output target
// already performs the conversion. Alpha is never modified.
//
// Parameters:
//   - color: linear RGBA color
//   - outputIsSRGB: true when the surface format is sRGB-aware
//
// Returns:
//   - mgl32.Vec4: the color ready to be written to the target
func EncodeOutput(color mgl32.Vec4, outputIsSRGB bool) mgl32.Vec4 {
	if outputIsSRGB {
		return color
	}
	return mgl32.Vec4{LinearToSRGB(color[0]), LinearToSRGB(color[1]), LinearToSRGB(color[2]), color[3]}
}
