package renderer

import (
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-forward/engine/shading"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPipeline registers an additional Pipeline alongside the builtin ones. The GPU pipeline is
// created once the backend is up, under the pipeline's own key.
//
// Parameters:
//   - p: the Pipeline to register
//
// Returns:
//   - RendererBuilderOption: a function that applies the pipeline option to a renderer
func WithPipeline(p pipeline.Pipeline) RendererBuilderOption {
	return func(r *renderer) {
		r.extraPipelines = append(r.extraPipelines, p)
	}
}

// WithSpecularModels selects which specular models get a lit pipeline. Materials using a model
// without a pipeline fail Render with ErrNoRenderPipeline.
//
// Parameters:
//   - models: the specular models to compile
//
// Returns:
//   - RendererBuilderOption: a function that applies the option to a renderer
func WithSpecularModels(models ...shading.SpecularModel) RendererBuilderOption {
	return func(r *renderer) {
		if len(models) > 0 {
			r.specularModels = models
		}
	}
}

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPresentMode = &mode
	}
}

// WithClearColor sets the linear color the lit pass clears to.
//
// Parameters:
//   - color: the clear color
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color option to a renderer
func WithClearColor(color wgpu.Color) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingClearColor = &color
	}
}

// WithPackWorkers caps the number of workers packing per-model uniforms.
//
// Parameters:
//   - n: the maximum worker count; values below 1 are ignored
//
// Returns:
//   - RendererBuilderOption: a function that applies the option to a renderer
func WithPackWorkers(n int) RendererBuilderOption {
	return func(r *renderer) {
		if n > 0 {
			r.packWorkers = n
		}
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}
