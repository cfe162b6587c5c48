package renderer

import (
	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-forward/engine/light"
	"github.com/Carmen-Shannon/oxy-forward/engine/model"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/instancing"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/uniforms"
	"github.com/Carmen-Shannon/oxy-forward/engine/scene"
	"github.com/Carmen-Shannon/oxy-forward/engine/shading"
)

// Pipeline keys of the builtin passes. Lit pipelines are keyed per specular model with LitPipelineKey.
const (
	PipelineKeyOverlay            = "debug_overlay"
	PipelineKeyDepthVisualization = "depth_visualization"
)

// LitPipelineKey returns the key of the lit pipeline compiled for a specular model.
//
// Parameters:
//   - model: the specular model
//
// Returns:
//   - string: the pipeline key
func LitPipelineKey(model shading.SpecularModel) string {
	if model == nil {
		model = shading.BlinnPhong{}
	}
	return "lit_" + model.Name()
}

// PassKind identifies a pass of the frame graph.
type PassKind int

const (
	// PassLit draws every visible model with full lighting, clearing color and depth.
	PassLit PassKind = iota

	// PassOverlay draws the instanced lamp cubes, depth tested against the lit pass without writes.
	PassOverlay

	// PassDepthVisualization replaces the color output with the linearized depth buffer.
	PassDepthVisualization
)

func (k PassKind) String() string {
	switch k {
	case PassLit:
		return "lit"
	case PassOverlay:
		return "debug overlay"
	case PassDepthVisualization:
		return "depth visualization"
	default:
		return "unknown"
	}
}

// Pass is one entry of the frame's pass plan.
type Pass struct {
	Kind    PassKind
	Targets PassTargets
}

// PlanPasses orders the passes of a frame: lit, then the overlay when it has instances, then depth
// visualization when enabled.
//
// Parameters:
//   - debug: the scene debug toggles
//   - overlayInstances: the number of overlay instances this frame
//
// Returns:
//   - []Pass: the passes in submission order
func PlanPasses(debug scene.DebugState, overlayInstances int) []Pass {
	passes := []Pass{{
		Kind:    PassLit,
		Targets: PassTargets{Label: PassLit.String(), ClearColor: true, Depth: true, ClearDepth: true},
	}}
	if overlayInstances > 0 {
		passes = append(passes, Pass{
			Kind:    PassOverlay,
			Targets: PassTargets{Label: PassOverlay.String(), Depth: true},
		})
	}
	if debug.VisualizeDepth {
		passes = append(passes, Pass{
			Kind:    PassDepthVisualization,
			Targets: PassTargets{Label: PassDepthVisualization.String()},
		})
	}
	return passes
}

// SubmeshDraw is one lit draw: an index range of a model and the material it is shaded with.
type SubmeshDraw struct {
	Range    model.Submesh
	Material material.Material
}

// ModelFrame is the packed state of one visible model.
type ModelFrame struct {
	Model     model.Model
	Uniforms  uniforms.PerModelUniforms
	Submeshes []SubmeshDraw
}

// Frame is everything the renderer uploads and draws for one scene snapshot.
type Frame struct {
	PerFrame uniforms.PerFrameUniforms
	Models   []ModelFrame
	// Materials lists each material referenced by a submesh once, in first-use order.
	Materials   []material.Material
	Instances   []instancing.InstanceRecord
	DepthParams uniforms.DepthVisualizationParams
	Overflow    uniforms.Overflow
	Passes      []Pass
}

// BuildFrame packs a scene snapshot into a Frame without touching the GPU. Per-model blocks are
// packed on the worker pool; each model receives the point lights nearest to its origin.
//
// Parameters:
//   - pool: the worker pool used by uniforms.PackModels, or nil to pack inline
//   - s: the scene
//   - outputIsSRGB: whether the surface encodes sRGB in hardware
//
// Returns:
//   - Frame: the packed frame
func BuildFrame(pool worker.DynamicWorkerPool, s scene.Scene, outputIsSRGB bool) Frame {
	cam := s.Camera()
	directional, point, spot := light.Partition(s.Lights())

	perFrame, overflow := uniforms.NewPerFrameUniforms(uniforms.FrameInputs{
		ViewProjection: cam.ViewProjectionMatrix(),
		Eye:            cam.Eye(),
		Directional:    directional,
		Spot:           spot,
		OutputIsSRGB:   outputIsSRGB,
		Time:           s.Time(),
	})

	var visible []model.Model
	for _, m := range s.Models() {
		if m.Visible() && len(m.Mesh().Indices) > 0 {
			visible = append(visible, m)
		}
	}

	jobs := make([]uniforms.ModelJob, len(visible))
	for i, m := range visible {
		jobs[i] = uniforms.ModelJob{LocalToWorld: m.Transform(), PointLights: point}
	}
	results := uniforms.PackModels(pool, jobs)

	frame := Frame{
		PerFrame:    perFrame,
		Models:      make([]ModelFrame, len(visible)),
		Instances:   instancing.LampInstances(s.Lights()),
		DepthParams: uniforms.NewDepthVisualizationParams(cam.ProjectionMatrix()),
	}

	seen := make(map[material.Material]struct{})
	for i, m := range visible {
		overflow.Point = max(overflow.Point, results[i].Dropped)

		ranges := m.Mesh().Ranges()
		draws := make([]SubmeshDraw, len(ranges))
		for j, r := range ranges {
			mat := m.Material(r.MaterialIndex)
			draws[j] = SubmeshDraw{Range: r, Material: mat}
			if _, ok := seen[mat]; !ok {
				seen[mat] = struct{}{}
				frame.Materials = append(frame.Materials, mat)
			}
		}
		frame.Models[i] = ModelFrame{Model: m, Uniforms: results[i].Uniforms, Submeshes: draws}
	}

	frame.Overflow = overflow
	frame.Passes = PlanPasses(s.Debug(), len(frame.Instances))
	return frame
}

// PipelineKeys lists the pipelines the frame's passes draw with, each once.
//
// Returns:
//   - []string: the pipeline keys
func (f Frame) PipelineKeys() []string {
	var keys []string
	seen := make(map[string]struct{})
	add := func(key string) {
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}
	for _, pass := range f.Passes {
		switch pass.Kind {
		case PassLit:
			for _, mat := range f.Materials {
				add(LitPipelineKey(mat.SpecularModel()))
			}
		case PassOverlay:
			add(PipelineKeyOverlay)
		case PassDepthVisualization:
			add(PipelineKeyDepthVisualization)
		}
	}
	return keys
}
