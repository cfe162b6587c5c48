package loader

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"

	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-forward/engine/shading"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestLoader(t *testing.T) Loader {
	t.Helper()
	fsys := fstest.MapFS{
		"textures/container.png":   {Data: encodePNG(t, color.NRGBA{R: 200, G: 100, B: 50, A: 255})},
		"textures/container_s.PNG": {Data: encodePNG(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255})},
		"textures/broken.png":      {Data: []byte("not a png")},
		"textures/notes.txt":       {Data: []byte("hello")},
	}
	l := NewLoader(WithFS(fsys), WithWorkers(2))
	t.Cleanup(l.Release)
	return l
}

func TestTextureDecodesAndCaches(t *testing.T) {
	l := newTestLoader(t)

	tex, err := l.Texture("textures/container.png")
	require.NoError(t, err)
	assert.Equal(t, uint32(2), tex.Width)
	assert.Equal(t, uint32(2), tex.Height)
	assert.Equal(t, []byte{200, 100, 50, 255}, tex.Pixels[:4])

	_, err = l.Texture("textures/container.png")
	require.NoError(t, err)
	assert.Equal(t, 1, l.CachedTextures())
}

func TestTextureErrors(t *testing.T) {
	l := newTestLoader(t)

	_, err := l.Texture("textures/notes.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = l.Texture("textures/missing.png")
	assert.Error(t, err)

	_, err = l.Texture("textures/broken.png")
	assert.Error(t, err)

	assert.Zero(t, l.CachedTextures())
}

func TestTexturesKeepsOrderAndJoinsErrors(t *testing.T) {
	l := newTestLoader(t)

	textures, err := l.Textures("textures/container.png", "textures/container_s.PNG")
	require.NoError(t, err)
	require.Len(t, textures, 2)
	assert.Equal(t, byte(200), textures[0].Pixels[0])
	assert.Equal(t, byte(255), textures[1].Pixels[1])

	_, err = l.Textures("textures/container.png", "textures/notes.txt", "textures/missing.png")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), "missing.png")
}

func TestMaterialFromDefinition(t *testing.T) {
	l := newTestLoader(t)

	m, err := l.Material(MaterialDefinition{
		Name:          "container",
		Ambient:       [3]float32{1, 0.5, 0.31},
		Diffuse:       [3]float32{1, 0.5, 0.31},
		Specular:      [3]float32{0.5, 0.5, 0.5},
		Shininess:     32,
		SpecularModel: "phong",
		DiffuseMap:    "textures/container.png",
		SpecularMap:   "textures/container_s.PNG",
	})
	require.NoError(t, err)

	assert.Equal(t, "container", m.Name())
	assert.Equal(t, mgl32.Vec3{0.5, 0.5, 0.5}, m.Specular())
	assert.Equal(t, float32(32), m.Shininess())
	assert.Equal(t, shading.Phong{}, m.SpecularModel())
	assert.True(t, m.HasTexture(material.TextureRoleDiffuse))
	assert.True(t, m.HasTexture(material.TextureRoleSpecular))
	assert.False(t, m.HasTexture(material.TextureRoleEmissive))
	assert.Equal(t, common.BlackTexture(), m.Texture(material.TextureRoleEmissive))
}

func TestMaterialCachedByName(t *testing.T) {
	l := newTestLoader(t)

	a, err := l.Material(MaterialDefinition{Name: "plain", Diffuse: [3]float32{1, 1, 1}})
	require.NoError(t, err)
	b, err := l.Material(MaterialDefinition{Name: "plain", Diffuse: [3]float32{0, 0, 0}})
	require.NoError(t, err)
	assert.Same(t, a, b)

	assert.Equal(t, shading.BlinnPhong{}, a.SpecularModel())
}

func TestMaterialErrors(t *testing.T) {
	l := newTestLoader(t)

	_, err := l.Material(MaterialDefinition{Name: "bad", SpecularModel: "cook_torrance"})
	assert.Error(t, err)

	_, err = l.Material(MaterialDefinition{Name: "broken", DiffuseMap: "textures/broken.png"})
	assert.Error(t, err)
}
