package loader

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-forward/common"
)

// loaderBackend decodes one family of texture file formats.
type loaderBackend interface {
	// Extensions lists the lower-case file extensions the backend decodes, with the dot.
	Extensions() []string

	// Decode reads an encoded texture.
	//
	// Parameters:
	//   - r: the encoded stream
	//
	// Returns:
	//   - common.TextureStagingData: RGBA8 pixels
	//   - error: error if decoding fails
	Decode(r io.Reader) (common.TextureStagingData, error)
}

// imageLoaderBackend decodes PNG, JPEG and BMP through the image package registry.
type imageLoaderBackend struct{}

var _ loaderBackend = imageLoaderBackend{}

func (imageLoaderBackend) Extensions() []string {
	return []string{".png", ".jpg", ".jpeg", ".bmp"}
}

func (imageLoaderBackend) Decode(r io.Reader) (common.TextureStagingData, error) {
	return common.DecodeTexture(r)
}

func extension(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
