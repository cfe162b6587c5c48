package config

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-forward/engine/light"
	"github.com/Carmen-Shannon/oxy-forward/engine/loader"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer"
	"github.com/Carmen-Shannon/oxy-forward/engine/shading"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
	assert.Len(t, cfg.Lights, 3)
}

func TestDecodeEmptyInputYieldsDefault(t *testing.T) {
	for _, format := range []Format{FormatTOML, FormatYAML} {
		cfg, err := Decode(strings.NewReader(""), format)
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	}
}

const tomlConfig = `
log_level = "debug"

[window]
title = "lit cubes"
width = 800

[renderer]
present_mode = "uncapped"
specular_model = "phong"

[[lights]]
type = "spot"
position = [0.0, 2.0, 0.0]
direction = [0.0, -1.0, 0.0]
inner_cutoff = 10.0
outer_cutoff = 15.0

[[materials]]
name = "container"
diffuse = [1.0, 0.5, 0.31]
shininess = 32.0
diffuse_map = "textures/container.png"
`

const yamlConfig = `
log_level: debug
window:
  title: lit cubes
  width: 800
renderer:
  present_mode: uncapped
  specular_model: phong
lights:
  - type: spot
    position: [0, 2, 0]
    direction: [0, -1, 0]
    inner_cutoff: 10
    outer_cutoff: 15
materials:
  - name: container
    diffuse: [1, 0.5, 0.31]
    shininess: 32
    diffuse_map: textures/container.png
`

func TestDecodeFormats(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
	}{
		{"toml", FormatTOML, tomlConfig},
		{"yaml", FormatYAML, yamlConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Decode(strings.NewReader(tt.input), tt.format)
			require.NoError(t, err)

			assert.Equal(t, "debug", cfg.LogLevel)
			assert.Equal(t, "lit cubes", cfg.Window.Title)
			assert.Equal(t, 800, cfg.Window.Width)
			assert.Equal(t, Default().Window.Height, cfg.Window.Height)
			assert.Equal(t, "uncapped", cfg.Renderer.PresentMode)
			assert.Equal(t, shading.Phong{}, cfg.Renderer.Specular())
			assert.Equal(t, Default().Camera, cfg.Camera)

			require.Len(t, cfg.Lights, 1)
			l := cfg.Lights[0]
			assert.Equal(t, "spot", l.Type)
			assert.Equal(t, [3]float32{0, 2, 0}, l.Position)
			assert.Equal(t, DefaultAttenuation, l.Attenuation)

			require.Len(t, cfg.Materials, 1)
			m := cfg.Materials[0]
			assert.Equal(t, "container", m.Name)
			assert.Equal(t, [3]float32{1, 0.5, 0.31}, m.Diffuse)
			assert.Equal(t, float32(32), m.Shininess)
			assert.Equal(t, "textures/container.png", m.DiffuseMap)
		})
	}
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	_, err := Decode(strings.NewReader("[window]\ncolour = 3\n"), FormatTOML)
	assert.Error(t, err)

	_, err = Decode(strings.NewReader("window:\n  colour: 3\n"), FormatYAML)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"window size", func(c *Config) { c.Window.Width = 0 }},
		{"present mode", func(c *Config) { c.Renderer.PresentMode = "mailbox" }},
		{"specular model", func(c *Config) { c.Renderer.SpecularModel = "cook_torrance" }},
		{"near plane", func(c *Config) { c.Camera.Near = 0 }},
		{"far plane", func(c *Config) { c.Camera.Far = c.Camera.Near }},
		{"fov", func(c *Config) { c.Camera.Fov = 180 }},
		{"light type", func(c *Config) { c.Lights[0].Type = "area" }},
		{"spot cutoffs", func(c *Config) { c.Lights[2].OuterCutoff = c.Lights[2].InnerCutoff - 1 }},
		{"material name", func(c *Config) { c.Materials = []loader.MaterialDefinition{{}} }},
		{"duplicate material", func(c *Config) {
			c.Materials = []loader.MaterialDefinition{{Name: "a"}, {Name: "a"}}
		}},
		{"material specular model", func(c *Config) {
			c.Materials = []loader.MaterialDefinition{{Name: "a", SpecularModel: "ward"}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.True(t, errors.Is(cfg.Validate(), ErrInvalid))
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "scene.yml")
	require.NoError(t, os.WriteFile(path, []byte(yamlConfig), 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "lit cubes", cfg.Window.Title)

	_, err = Load(filepath.Join(dir, "scene.json"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBuildLights(t *testing.T) {
	lights := Default().BuildLights()
	require.Len(t, lights, 3)

	assert.Equal(t, light.LightTypeDirectional, lights[0].Type())
	assert.Equal(t, mgl32.Vec3{0, -1, 0}, lights[0].Direction())

	point := lights[1]
	assert.Equal(t, light.LightTypePoint, point.Type())
	assert.Equal(t, mgl32.Vec3{1.2, 1, 2}, point.Position())
	assert.Equal(t, light.Attenuation{Constant: 1, Linear: 0.09, Quadratic: 0.032}, point.Attenuation())
	assert.True(t, point.Enabled())

	spot := lights[2]
	assert.Equal(t, light.LightTypeSpot, spot.Type())
	assert.InDelta(t, mgl32.DegToRad(12.5), spot.InnerCutoff(), 1e-6)
	assert.InDelta(t, mgl32.DegToRad(17.5), spot.OuterCutoff(), 1e-6)
}

func TestCameraFromConfig(t *testing.T) {
	cam := Default().Camera.Camera(16.0 / 9.0)
	assert.Equal(t, mgl32.Vec3{1.5, 1, 5}, cam.Eye())
	assert.InDelta(t, 0.1, cam.Near(), 1e-6)
	assert.InDelta(t, 100, cam.Far(), 1e-6)
}

func TestRendererOptions(t *testing.T) {
	cfg := Default().Renderer
	assert.Equal(t, renderer.PresentModeVSync, cfg.presentMode())
	cfg.PresentMode = "uncapped"
	assert.Equal(t, renderer.PresentModeUncapped, cfg.presentMode())
	assert.Len(t, cfg.Options(), 4)
	assert.InDelta(t, 0.1, cfg.clearColor().R, 1e-9)
}

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	reloaded := make(chan Config, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(cfg Config, err error) {
			if err == nil {
				reloaded <- cfg
			}
		})
	}()

	// the watcher starts asynchronously, so keep writing until a reload lands
	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(3 * reloadDelay)
	defer ticker.Stop()
	var got Config
wait:
	for {
		select {
		case got = <-reloaded:
			break wait
		case <-ticker.C:
			require.NoError(t, os.WriteFile(path, []byte(tomlConfig), 0o644))
		case <-deadline:
			t.Fatal("config was not reloaded")
		}
	}
	assert.Equal(t, "lit cubes", got.Window.Title)

	cancel()
	assert.NoError(t, <-done)
}

func TestWatchIgnoresTruncatedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.toml")
	require.NoError(t, os.WriteFile(path, []byte(tomlConfig), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	reloaded := make(chan Config, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(cfg Config, err error) {
			if err == nil {
				reloaded <- cfg
			}
		})
	}()

	// rewrite the same content until the watcher is known to be running
	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(3 * reloadDelay)
	defer ticker.Stop()
ready:
	for {
		select {
		case <-reloaded:
			break ready
		case <-ticker.C:
			require.NoError(t, os.WriteFile(path, []byte(tomlConfig), 0o644))
		case <-deadline:
			t.Fatal("config was not reloaded")
		}
	}
	ticker.Stop()
	time.Sleep(2 * reloadDelay)
	for len(reloaded) > 0 {
		<-reloaded
	}

	require.NoError(t, os.WriteFile(path, nil, 0o644))
	select {
	case cfg := <-reloaded:
		t.Fatalf("empty file delivered a reload with title %q", cfg.Window.Title)
	case <-time.After(5 * reloadDelay):
	}

	cancel()
	assert.NoError(t, <-done)
}

func TestReloadSkipsEmptyContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.toml")

	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o644))
	_, skipped, err := reload(path, FormatTOML)
	require.NoError(t, err)
	assert.True(t, skipped)

	require.NoError(t, os.WriteFile(path, []byte(tomlConfig), 0o644))
	cfg, skipped, err := reload(path, FormatTOML)
	require.NoError(t, err)
	assert.False(t, skipped)
	assert.Equal(t, "lit cubes", cfg.Window.Title)

	_, _, err = reload(filepath.Join(dir, "missing.toml"), FormatTOML)
	assert.Error(t, err)
}

func TestWatchRejectsUnsupportedFormat(t *testing.T) {
	err := Watch(context.Background(), "scene.ini", func(Config, error) {})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
