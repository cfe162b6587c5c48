package config

import (
	"github.com/Carmen-Shannon/oxy-forward/engine/camera"
	"github.com/Carmen-Shannon/oxy-forward/engine/light"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer"
	"github.com/Carmen-Shannon/oxy-forward/engine/shading"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// LightType maps the type name to a light.LightType. Unknown names map to directional;
// Validate rejects them first.
func (l LightConfig) LightType() light.LightType {
	switch l.Type {
	case "point":
		return light.LightTypePoint
	case "spot":
		return light.LightTypeSpot
	default:
		return light.LightTypeDirectional
	}
}

// Light builds the configured light.
func (l LightConfig) Light() light.Light {
	return light.NewLight(l.LightType(),
		light.WithPosition(l.Position[0], l.Position[1], l.Position[2]),
		light.WithDirection(l.Direction[0], l.Direction[1], l.Direction[2]),
		light.WithColor(l.Color[0], l.Color[1], l.Color[2]),
		light.WithAmbient(l.Ambient),
		light.WithSpecular(l.Specular),
		light.WithAttenuation(l.Attenuation[0], l.Attenuation[1], l.Attenuation[2]),
		light.WithCutoff(l.InnerCutoff, l.OuterCutoff),
		light.WithEnabled(!l.Disabled),
	)
}

// BuildLights builds every configured light, in order.
func (c Config) BuildLights() []light.Light {
	lights := make([]light.Light, len(c.Lights))
	for i, l := range c.Lights {
		lights[i] = l.Light()
	}
	return lights
}

// Camera builds the configured camera.
//
// Parameters:
//   - aspect: the surface width over height
//
// Returns:
//   - camera.Camera: the camera
func (c CameraConfig) Camera(aspect float32) camera.Camera {
	return camera.NewCamera(
		camera.WithEye(c.Eye[0], c.Eye[1], c.Eye[2]),
		camera.WithTarget(c.Target[0], c.Target[1], c.Target[2]),
		camera.WithFov(mgl32.DegToRad(c.Fov)),
		camera.WithAspect(aspect),
		camera.WithNear(c.Near),
		camera.WithFar(c.Far),
	)
}

func (c RendererConfig) presentMode() renderer.PresentMode {
	if c.PresentMode == "uncapped" {
		return renderer.PresentModeUncapped
	}
	return renderer.PresentModeVSync
}

func (c RendererConfig) clearColor() wgpu.Color {
	return wgpu.Color{R: c.ClearColor[0], G: c.ClearColor[1], B: c.ClearColor[2], A: c.ClearColor[3]}
}

// Specular resolves the configured default specular model.
func (c RendererConfig) Specular() shading.SpecularModel {
	model, err := shading.SpecularModelByName(c.SpecularModel)
	if err != nil {
		return shading.BlinnPhong{}
	}
	return model
}

// Options converts the renderer settings into renderer builder options.
//
// Returns:
//   - []renderer.RendererBuilderOption: options for renderer.NewRenderer
func (c RendererConfig) Options() []renderer.RendererBuilderOption {
	return []renderer.RendererBuilderOption{
		renderer.WithPresentMode(c.presentMode()),
		renderer.WithClearColor(c.clearColor()),
		renderer.WithPackWorkers(c.PackWorkers),
		renderer.WithForceSoftwareRenderer(c.ForceSoftware),
	}
}

// Apply pushes the settings that can change at runtime into a running renderer.
// Present mode changes take effect on the next resize.
func (c RendererConfig) Apply(r renderer.Renderer) {
	r.SetPresentMode(c.presentMode())
	r.SetClearColor(c.clearColor())
}
