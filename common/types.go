// package common contains plain types and helpers shared across the engine: texture staging data,
// WebGPU-convention math, color-space conversion and the shared logger.
package common

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/cogentcore/webgpu/wgpu"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// ErrEmptyTexture is returned when a texture source decodes to zero pixels.
var ErrEmptyTexture = errors.New("texture has no pixels")

// TextureStagingData holds RGBA pixel data for a texture binding pending GPU upload.
type TextureStagingData struct {
	// Pixels is tightly packed RGBA8 data, 4 bytes per pixel, row-major.
	Pixels []byte
	// Width is the texture width in pixels.
	Width uint32
	// Height is the texture height in pixels.
	Height uint32
}

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
// Zero fields fall back to the backend defaults (repeat addressing, linear filtering).
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode outside [0, 1].
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp bound the level of detail.
	LodMinClamp, LodMaxClamp float32
	// MaxAnisotropy is the anisotropic filtering limit.
	MaxAnisotropy uint16
}

// SolidTexture creates a 1x1 texture filled with a single RGBA8 color.
// The renderer uses these as stand-ins for texture maps a material does not provide.
//
// Parameters:
//   - r, g, b, a: the texel color
//
// Returns:
//   - TextureStagingData: the 1x1 staging data
func SolidTexture(r, g, b, a uint8) TextureStagingData {
	return TextureStagingData{
		Pixels: []byte{r, g, b, a},
		Width:  1,
		Height: 1,
	}
}

// WhiteTexture lets the constant color of a material through unchanged when multiplied.
func WhiteTexture() TextureStagingData { return SolidTexture(255, 255, 255, 255) }

// BlackTexture disables the lighting term it is bound to.
func BlackTexture() TextureStagingData { return SolidTexture(0, 0, 0, 255) }

// DecodeTexture decodes a PNG, JPEG or BMP image into RGBA staging data.
//
// Parameters:
//   - r: the encoded image stream
//
// Returns:
//   - TextureStagingData: the decoded pixels
//   - error: an error if the stream is not a supported image or is empty
func DecodeTexture(r io.Reader) (TextureStagingData, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return TextureStagingData{}, fmt.Errorf("failed to decode texture: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return TextureStagingData{}, ErrEmptyTexture
	}

	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	return TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
	}, nil
}

// DecodeTextureBytes is DecodeTexture over an in-memory buffer.
func DecodeTextureBytes(data []byte) (TextureStagingData, error) {
	return DecodeTexture(bytes.NewReader(data))
}
