// Package config loads renderer and demo settings from TOML or YAML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-forward/engine/loader"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnsupportedFormat is returned for config files that are neither TOML nor YAML.
	ErrUnsupportedFormat = errors.New("unsupported config format")

	// ErrInvalid is returned by Validate.
	ErrInvalid = errors.New("invalid config")
)

// Format is a config file encoding.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

// FormatFromPath picks the format from a file extension.
//
// Parameters:
//   - path: the config file path
//
// Returns:
//   - Format: the format
//   - error: ErrUnsupportedFormat for unknown extensions
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Config is the complete set of settings the demo reads at startup and on reload.
type Config struct {
	LogLevel string         `toml:"log_level" yaml:"log_level"`
	Window   WindowConfig   `toml:"window" yaml:"window"`
	Renderer RendererConfig `toml:"renderer" yaml:"renderer"`
	Camera   CameraConfig   `toml:"camera" yaml:"camera"`
	Debug    DebugConfig    `toml:"debug" yaml:"debug"`
	Lights   []LightConfig  `toml:"lights" yaml:"lights"`

	// Materials are built by loader.Loader; models name the material they use.
	Materials []loader.MaterialDefinition `toml:"materials" yaml:"materials"`
}

type WindowConfig struct {
	Title  string `toml:"title" yaml:"title"`
	Width  int    `toml:"width" yaml:"width"`
	Height int    `toml:"height" yaml:"height"`
}

type RendererConfig struct {
	// PresentMode is "vsync" or "uncapped".
	PresentMode string `toml:"present_mode" yaml:"present_mode"`
	// ClearColor is linear RGBA.
	ClearColor [4]float64 `toml:"clear_color" yaml:"clear_color"`
	// SpecularModel is "blinn_phong" or "phong", applied to materials that do not set one.
	SpecularModel string `toml:"specular_model" yaml:"specular_model"`
	// PackWorkers caps the per-model uniform packing workers; 0 picks from the CPU count.
	PackWorkers   int  `toml:"pack_workers" yaml:"pack_workers"`
	ForceSoftware bool `toml:"force_software" yaml:"force_software"`
}

type CameraConfig struct {
	Eye    [3]float32 `toml:"eye" yaml:"eye"`
	Target [3]float32 `toml:"target" yaml:"target"`
	// Fov is the vertical field of view in degrees.
	Fov  float32 `toml:"fov" yaml:"fov"`
	Near float32 `toml:"near" yaml:"near"`
	Far  float32 `toml:"far" yaml:"far"`
}

type DebugConfig struct {
	VisualizeDepth bool `toml:"visualize_depth" yaml:"visualize_depth"`
	// Profile logs frame statistics every second.
	Profile bool `toml:"profile" yaml:"profile"`
}

// LightConfig describes one scene light. Fields that do not apply to the type are ignored.
type LightConfig struct {
	// Type is "directional", "point" or "spot".
	Type      string     `toml:"type" yaml:"type"`
	Position  [3]float32 `toml:"position" yaml:"position"`
	Direction [3]float32 `toml:"direction" yaml:"direction"`
	Color     [3]float32 `toml:"color" yaml:"color"`
	Ambient   float32    `toml:"ambient" yaml:"ambient"`
	Specular  float32    `toml:"specular" yaml:"specular"`
	// Attenuation is constant, linear, quadratic. All zero selects the default terms.
	Attenuation [3]float32 `toml:"attenuation" yaml:"attenuation"`
	// InnerCutoff and OuterCutoff are spot cone half-angles in degrees.
	InnerCutoff float32 `toml:"inner_cutoff" yaml:"inner_cutoff"`
	OuterCutoff float32 `toml:"outer_cutoff" yaml:"outer_cutoff"`
	// Disabled lights are kept in the scene but not packed.
	Disabled bool `toml:"disabled" yaml:"disabled"`
	// Flashlight makes a spot light follow the camera.
	Flashlight bool `toml:"flashlight" yaml:"flashlight"`
	// Orbit makes a point light circle its position around the Y axis at this many radians
	// per second. Zero keeps it still.
	Orbit float32 `toml:"orbit" yaml:"orbit"`
}

// Default returns the settings used for every key a config file leaves out.
func Default() Config {
	return Config{
		LogLevel: "info",
		Window: WindowConfig{
			Title:  "oxy-forward",
			Width:  1280,
			Height: 720,
		},
		Renderer: RendererConfig{
			PresentMode:   "vsync",
			ClearColor:    [4]float64{0.1, 0.1, 0.1, 1},
			SpecularModel: "blinn_phong",
		},
		Camera: CameraConfig{
			Eye:  [3]float32{1.5, 1, 5},
			Fov:  45,
			Near: 0.1,
			Far:  100,
		},
		Lights: []LightConfig{
			{
				Type:        "directional",
				Direction:   [3]float32{0, -1, 0},
				Color:       [3]float32{0.3, 0.3, 0.3},
				Ambient:     0.01,
				Specular:    1,
				Attenuation: DefaultAttenuation,
			},
			{
				Type:        "point",
				Position:    [3]float32{1.2, 1, 2},
				Color:       [3]float32{0.8, 0.8, 0.8},
				Ambient:     0.0425,
				Specular:    1,
				Attenuation: DefaultAttenuation,
				Orbit:       0.5,
			},
			{
				Type:        "spot",
				Color:       [3]float32{0.8, 0.8, 0.8},
				Ambient:     0.01,
				Specular:    1,
				Attenuation: DefaultAttenuation,
				InnerCutoff: 12.5,
				OuterCutoff: 17.5,
				Flashlight:  true,
			},
		},
	}
}

// DefaultAttenuation is the constant, linear, quadratic falloff used when a light sets none.
var DefaultAttenuation = [3]float32{1, 0.09, 0.032}

// Load reads and validates the config file at path, starting from Default.
//
// Parameters:
//   - path: a .toml, .yaml or .yml file
//
// Returns:
//   - Config: the loaded config
//   - error: ErrUnsupportedFormat, a read or decode error, or ErrInvalid
func Load(path string) (Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads a config in the given format over Default. Unknown keys are rejected. A lights
// list in the input replaces the default lights entirely.
//
// Parameters:
//   - r: the encoded config
//   - format: the encoding
//
// Returns:
//   - Config: the decoded config
//   - error: a decode error or ErrInvalid
func Decode(r io.Reader, format Format) (Config, error) {
	cfg := Default()
	defaultLights := cfg.Lights
	cfg.Lights = nil

	var err error
	switch format {
	case FormatTOML:
		err = toml.NewDecoder(r).DisallowUnknownFields().Decode(&cfg)
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(&cfg)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return Config{}, ErrUnsupportedFormat
	}
	if err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if cfg.Lights == nil {
		cfg.Lights = defaultLights
	}
	for i := range cfg.Lights {
		if cfg.Lights[i].Attenuation == ([3]float32{}) {
			cfg.Lights[i].Attenuation = DefaultAttenuation
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
//
// Returns:
//   - error: ErrInvalid wrapping the first problem found, or nil
func (c Config) Validate() error {
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	switch c.Renderer.PresentMode {
	case "vsync", "uncapped":
	default:
		return fmt.Errorf("%w: present_mode %q", ErrInvalid, c.Renderer.PresentMode)
	}
	switch c.Renderer.SpecularModel {
	case "blinn_phong", "phong":
	default:
		return fmt.Errorf("%w: specular_model %q", ErrInvalid, c.Renderer.SpecularModel)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("%w: camera near %g far %g", ErrInvalid, c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.Fov <= 0 || c.Camera.Fov >= 180 {
		return fmt.Errorf("%w: camera fov %g", ErrInvalid, c.Camera.Fov)
	}
	for i, l := range c.Lights {
		switch l.Type {
		case "directional", "point":
		case "spot":
			if l.InnerCutoff <= 0 || l.OuterCutoff < l.InnerCutoff || l.OuterCutoff >= 90 {
				return fmt.Errorf("%w: light %d cutoffs %g/%g", ErrInvalid, i, l.InnerCutoff, l.OuterCutoff)
			}
		default:
			return fmt.Errorf("%w: light %d type %q", ErrInvalid, i, l.Type)
		}
	}
	names := make(map[string]struct{}, len(c.Materials))
	for i, m := range c.Materials {
		if m.Name == "" {
			return fmt.Errorf("%w: material %d has no name", ErrInvalid, i)
		}
		if _, dup := names[m.Name]; dup {
			return fmt.Errorf("%w: material %q declared twice", ErrInvalid, m.Name)
		}
		names[m.Name] = struct{}{}
		switch m.SpecularModel {
		case "", "blinn_phong", "phong":
		default:
			return fmt.Errorf("%w: material %q specular_model %q", ErrInvalid, m.Name, m.SpecularModel)
		}
	}
	return nil
}

// SlogLevel parses LogLevel.
//
// Returns:
//   - slog.Level: the level
//   - error: ErrInvalid for unknown names
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
	return level, nil
}
