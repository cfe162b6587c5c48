package renderer

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/Carmen-Shannon/oxy-forward/engine/model"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/instancing"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/uniforms"
	"github.com/Carmen-Shannon/oxy-forward/engine/scene"
	"github.com/Carmen-Shannon/oxy-forward/engine/shading"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	pool        worker.DynamicWorkerPool
	packWorkers int

	// Pass resources owned by the renderer rather than by scene objects.
	frameProvider  bind_group_provider.BindGroupProvider
	lampProvider   bind_group_provider.BindGroupProvider
	quadProvider   bind_group_provider.BindGroupProvider
	depthProvider  bind_group_provider.BindGroupProvider
	depthViewStale bool
	lastOverflow   uniforms.Overflow
	specularModels []shading.SpecularModel
	writes         []bind_group_provider.BufferWrite
	drawBindGroups []bind_group_provider.BindGroupProvider

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	extraPipelines       []pipeline.Pipeline
	pendingPresentMode   *PresentMode
	pendingClearColor    *wgpu.Color
}

// Renderer draws scenes with the forward-lit pass graph: a lit pass over every visible model,
// an instanced debug overlay of lamp cubes, and an optional depth visualization pass.
//
// GPU resources for models and materials are created lazily the first time they are drawn.
// All methods except Pipeline and Pipelines must be called from the goroutine that created the
// Renderer, which is locked to its OS thread.
type Renderer interface {
	// Render builds, uploads, encodes and presents one frame of the scene.
	//
	// Parameters:
	//   - ctx: checked before any GPU work starts
	//   - s: the scene to draw
	//
	// Returns:
	//   - error: ErrFrameDropped (wrapping ErrSurfaceLost) when the surface could not be acquired,
	//     ErrNoRenderPipeline when a pass has no pipeline, or a resource creation error
	Render(ctx context.Context, s scene.Scene) error

	// Pipeline retrieves the cached Pipeline associated with the given key.
	// If the Pipeline does not exist, this will return nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// Pipelines retrieves a copy of the pipeline cache.
	//
	// Returns:
	//   - map[string]pipeline.Pipeline: a map of pipeline keys to their corresponding Pipeline objects
	Pipelines() map[string]pipeline.Pipeline

	// RegisterPipelines creates the GPU pipeline objects for one or more pipelines via the
	// backend, then caches them by PipelineKey. Pipelines whose keys are already registered are
	// skipped to avoid duplicate GPU resource creation.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error if pipeline creation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// Resize configures the underlying backend to handle a new surface size.
	// This should be called when re-sizing the window or when the surface size should change.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode sets the surface present mode. It takes effect on the next Resize.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the color the lit pass clears to.
	//
	// Parameters:
	//   - color: linear RGBA
	SetClearColor(color wgpu.Color)

	// OutputIsSRGB reports whether the surface encodes sRGB in hardware, in which case shaders
	// write linear color unchanged.
	OutputIsSRGB() bool

	// Release frees the renderer's pass resources, pipelines, worker pool and backend.
	// Scene-owned model and material resources are released by the scene.
	Release()
}

var _ Renderer = &renderer{}

// SurfaceSource is what the renderer needs from a window: a surface descriptor and the initial
// framebuffer size.
type SurfaceSource interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// NewRenderer creates a Renderer drawing to the window's surface and registers the builtin
// pipelines: one lit pipeline per specular model, the debug overlay and the depth visualization.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - w: the window providing the surface descriptor and initial size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the renderer
//   - error: an error if the GPU could not be initialized or a builtin pipeline failed to build
func NewRenderer(backendType RendererBackendType, w SurfaceSource, options ...RendererBuilderOption) (Renderer, error) {
	r := newRenderer(backendType, options...)

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		backend, err := newWGPURendererBackend(w.SurfaceDescriptor(), r.forceFallbackAdapter)
		if err != nil {
			r.pool.Stop()
			return nil, fmt.Errorf("renderer: %w", err)
		}
		r.backend = backend
	}

	if err := r.init(w.Width(), w.Height()); err != nil {
		r.Release()
		return nil, err
	}
	return r, nil
}

// newRendererWithBackend creates a Renderer over an existing backend.
func newRendererWithBackend(backend RendererBackend, width, height int, options ...RendererBuilderOption) (*renderer, error) {
	r := newRenderer(BackendTypeWGPU, options...)
	r.backend = backend
	if err := r.init(width, height); err != nil {
		r.Release()
		return nil, err
	}
	return r, nil
}

func newRenderer(backendType RendererBackendType, options ...RendererBuilderOption) *renderer {
	r := &renderer{
		mu:             &sync.Mutex{},
		pipelineCache:  make(map[string]pipeline.Pipeline),
		backendType:    backendType,
		packWorkers:    max(runtime.NumCPU()-1, 1),
		specularModels: []shading.SpecularModel{shading.BlinnPhong{}, shading.Phong{}},
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	r.pool = worker.NewDynamicWorkerPool(r.packWorkers, 256, time.Second)
	return r
}

// init configures the surface and registers the builtin pipelines.
func (r *renderer) init(width, height int) error {
	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	if r.pendingClearColor != nil {
		r.backend.SetClearColor(*r.pendingClearColor)
	}
	r.backend.ConfigureSurface(width, height)

	pipelines, err := builtinPipelines(r.specularModels)
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	pipelines = append(pipelines, r.extraPipelines...)
	if err := r.RegisterPipelines(pipelines...); err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	return nil
}

// builtinPipelines builds the pass pipelines. Shader bindings are checked against the layout
// contract of each pass, so a mismatch fails here rather than at GPU pipeline creation.
//
// Parameters:
//   - models: the specular models to compile a lit pipeline for
//
// Returns:
//   - []pipeline.Pipeline: the pipelines, not yet registered
//   - error: a shader pre-processing or binding validation error
func builtinPipelines(models []shading.SpecularModel) ([]pipeline.Pipeline, error) {
	var pipelines []pipeline.Pipeline

	litVertex, err := shader.NewShader("lit_vertex", shader.ShaderTypeVertex, shader.LitVertexSource,
		shader.WithVertexLayouts(model.VertexLayout()),
		shader.WithBindGroupLayouts(uniforms.Layouts()),
	)
	if err != nil {
		return nil, err
	}
	for _, m := range models {
		litFragment, err := shader.NewShader("lit_fragment_"+m.Name(), shader.ShaderTypeFragment, shader.LitFragmentSource,
			shader.WithDefine(shader.AnnotationArgSpecularModel, uint32(m.ID())),
			shader.WithBindGroupLayouts(uniforms.Layouts()),
		)
		if err != nil {
			return nil, err
		}
		pipelines = append(pipelines, pipeline.NewPipeline(LitPipelineKey(m),
			pipeline.WithVertexShader(litVertex),
			pipeline.WithFragmentShader(litFragment),
			pipeline.WithCullMode(wgpu.CullModeBack),
		))
	}

	overlayVertex, err := shader.NewShader("overlay_vertex", shader.ShaderTypeVertex, shader.OverlayVertexSource,
		shader.WithVertexLayouts(model.DebugVertexLayout(), instancing.VertexLayout(instancing.FirstLocation)),
		shader.WithBindGroupLayouts(uniforms.OverlayLayouts()),
	)
	if err != nil {
		return nil, err
	}
	overlayFragment, err := shader.NewShader("overlay_fragment", shader.ShaderTypeFragment, shader.OverlayFragmentSource,
		shader.WithBindGroupLayouts(uniforms.OverlayLayouts()),
	)
	if err != nil {
		return nil, err
	}
	pipelines = append(pipelines, pipeline.NewPipeline(PipelineKeyOverlay,
		pipeline.WithVertexShader(overlayVertex),
		pipeline.WithFragmentShader(overlayFragment),
		pipeline.WithDepthWriteEnabled(false),
		pipeline.WithCullMode(wgpu.CullModeBack),
	))

	depthVertex, err := shader.NewShader("depth_vertex", shader.ShaderTypeVertex, shader.DepthVertexSource,
		shader.WithVertexLayouts(model.DebugVertexLayout()),
		shader.WithBindGroupLayouts(uniforms.DepthLayouts()),
	)
	if err != nil {
		return nil, err
	}
	depthFragment, err := shader.NewShader("depth_fragment", shader.ShaderTypeFragment, shader.DepthFragmentSource,
		shader.WithBindGroupLayouts(uniforms.DepthLayouts()),
	)
	if err != nil {
		return nil, err
	}
	pipelines = append(pipelines, pipeline.NewPipeline(PipelineKeyDepthVisualization,
		pipeline.WithVertexShader(depthVertex),
		pipeline.WithFragmentShader(depthFragment),
		pipeline.WithDepthAttachment(false),
		pipeline.WithDepthTestEnabled(false),
		pipeline.WithDepthWriteEnabled(false),
	))

	return pipelines, nil
}

func (r *renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.ConfigureSurface(width, height)
	r.depthViewStale = true
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) SetClearColor(color wgpu.Color) {
	r.backend.SetClearColor(color)
}

func (r *renderer) OutputIsSRGB() bool {
	return r.backend.OutputIsSRGB()
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) Pipelines() map[string]pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	pipelines := make(map[string]pipeline.Pipeline, len(r.pipelineCache))
	for k, p := range r.pipelineCache {
		pipelines[k] = p
	}
	return pipelines
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return err
		}
		r.pipelineCache[key] = p
	}
	return nil
}

func (r *renderer) Render(ctx context.Context, s scene.Scene) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s.ReleaseRemoved()
	frame := BuildFrame(r.pool, s, r.backend.OutputIsSRGB())
	r.reportOverflow(frame.Overflow)

	pipelines := make(map[string]pipeline.Pipeline)
	for _, key := range frame.PipelineKeys() {
		p, ok := r.pipelineCache[key]
		if !ok {
			return fmt.Errorf("%w: %s", ErrNoRenderPipeline, key)
		}
		pipelines[key] = p
	}

	if err := r.prepare(frame); err != nil {
		return fmt.Errorf("prepare frame resources: %w", err)
	}
	r.backend.WriteBuffers(r.stageWrites(frame))

	if err := r.beginFrame(); err != nil {
		return err
	}
	for _, pass := range frame.Passes {
		r.backend.BeginPass(pass.Targets)
		r.encodePass(pass.Kind, frame, pipelines)
		r.backend.EndPass()
	}
	if err := r.backend.EndFrame(); err != nil {
		return fmt.Errorf("submit frame: %w", err)
	}
	r.backend.Present()
	return nil
}

// beginFrame acquires the surface, retrying once after the backend reconfigures a lost surface.
func (r *renderer) beginFrame() error {
	err := r.backend.BeginFrame()
	if errors.Is(err, ErrSurfaceLost) {
		common.Logger().Warn("surface lost, reconfigured", "error", err)
		err = r.backend.BeginFrame()
	}
	if err != nil {
		common.Logger().Warn("frame dropped", "error", err)
		return fmt.Errorf("%w: %w", ErrFrameDropped, err)
	}
	return nil
}

// reportOverflow warns once each time the set of truncated lights changes.
func (r *renderer) reportOverflow(overflow uniforms.Overflow) {
	if overflow == r.lastOverflow {
		return
	}
	r.lastOverflow = overflow
	if !overflow.Any() {
		return
	}
	common.Logger().Warn("light budget exceeded, lights truncated",
		"directional_dropped", overflow.Directional,
		"spot_dropped", overflow.Spot,
		"point_dropped", overflow.Point,
		"max_directional", uniforms.MaxDirectionalLights,
		"max_spot", uniforms.MaxSpotLights,
		"max_point", uniforms.MaxPointLights,
	)
}

// prepare creates the GPU resources the frame needs that do not exist yet.
func (r *renderer) prepare(frame Frame) error {
	if r.frameProvider == nil {
		p := bind_group_provider.NewBindGroupProvider("per_frame")
		if err := r.backend.InitBindGroup(p, uniforms.Layouts()[uniforms.GroupFrame]); err != nil {
			return err
		}
		r.frameProvider = p
	}

	for _, mf := range frame.Models {
		if err := r.prepareModel(mf.Model); err != nil {
			return err
		}
	}
	for _, mat := range frame.Materials {
		if err := r.prepareMaterial(mat); err != nil {
			return err
		}
	}

	for _, pass := range frame.Passes {
		var err error
		switch pass.Kind {
		case PassOverlay:
			err = r.prepareOverlay()
		case PassDepthVisualization:
			err = r.prepareDepthVisualization()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) prepareModel(m model.Model) error {
	if m.MeshProvider() == nil {
		mesh := m.Mesh()
		p := bind_group_provider.NewBindGroupProvider(m.Name() + " mesh")
		if err := r.backend.InitMeshBuffers(p, mesh.VertexData, mesh.IndexData(), len(mesh.Indices)); err != nil {
			p.Release()
			return fmt.Errorf("model %s: %w", m.Name(), err)
		}
		m.SetMeshProvider(p)
	}
	if m.UniformProvider() == nil {
		p := bind_group_provider.NewBindGroupProvider(m.Name() + " per_model")
		if err := r.backend.InitBindGroup(p, uniforms.Layouts()[uniforms.GroupModel]); err != nil {
			p.Release()
			return fmt.Errorf("model %s: %w", m.Name(), err)
		}
		m.SetUniformProvider(p)
	}
	return nil
}

// prepareMaterial uploads the material's textures, substituting sentinels for absent maps, and
// creates its group 2 bind group.
func (r *renderer) prepareMaterial(mat material.Material) error {
	if mat.BindGroupProvider() != nil {
		return nil
	}
	p := bind_group_provider.NewBindGroupProvider(mat.Name() + " material")
	if err := r.backend.InitSampler(p, material.BindingSampler, mat.Sampler()); err != nil {
		p.Release()
		return fmt.Errorf("material %s: %w", mat.Name(), err)
	}
	for _, role := range []material.TextureRole{material.TextureRoleDiffuse, material.TextureRoleSpecular, material.TextureRoleEmissive} {
		if err := r.backend.InitTextureView(p, role.Binding(), mat.Texture(role)); err != nil {
			p.Release()
			return fmt.Errorf("material %s: %w", mat.Name(), err)
		}
	}
	if err := r.backend.InitBindGroup(p, uniforms.Layouts()[uniforms.GroupSubmesh]); err != nil {
		p.Release()
		return fmt.Errorf("material %s: %w", mat.Name(), err)
	}
	mat.SetBindGroupProvider(p)
	return nil
}

func (r *renderer) prepareOverlay() error {
	if r.lampProvider != nil {
		return nil
	}
	mesh := model.DebugCube()
	p := bind_group_provider.NewBindGroupProvider("lamp_cubes")
	if err := r.backend.InitMeshBuffers(p, mesh.VertexData, mesh.IndexData(), len(mesh.Indices)); err != nil {
		p.Release()
		return err
	}
	var record instancing.InstanceRecord
	if err := r.backend.InitInstanceBuffer(p, record.Size(), instancing.MaxDebugInstances); err != nil {
		p.Release()
		return err
	}
	r.lampProvider = p
	return nil
}

func (r *renderer) prepareDepthVisualization() error {
	if r.quadProvider == nil {
		mesh := model.FullscreenQuad()
		p := bind_group_provider.NewBindGroupProvider("fullscreen_quad")
		if err := r.backend.InitMeshBuffers(p, mesh.VertexData, mesh.IndexData(), len(mesh.Indices)); err != nil {
			p.Release()
			return err
		}
		r.quadProvider = p
	}

	if r.depthProvider != nil && !r.depthViewStale {
		return nil
	}
	if r.depthProvider != nil {
		r.depthProvider.Release()
		r.depthProvider = nil
	}
	p := bind_group_provider.NewBindGroupProvider("depth_visualization")
	if err := r.backend.InitDepthView(p, uniforms.BindingDepthTexture); err != nil {
		p.Release()
		return err
	}
	if err := r.backend.InitBindGroup(p, uniforms.DepthLayouts()[0]); err != nil {
		p.Release()
		return err
	}
	r.depthProvider = p
	r.depthViewStale = false
	return nil
}

// stageWrites collects every buffer write of the frame into a reused slice.
func (r *renderer) stageWrites(frame Frame) []bind_group_provider.BufferWrite {
	writes := r.writes[:0]
	writes = append(writes, bind_group_provider.BufferWrite{
		Provider: r.frameProvider,
		Binding:  0,
		Data:     frame.PerFrame.Marshal(),
	})
	for i := range frame.Models {
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: frame.Models[i].Model.UniformProvider(),
			Binding:  0,
			Data:     frame.Models[i].Uniforms.Marshal(),
		})
	}
	for _, mat := range frame.Materials {
		constants := material.Pack(mat)
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: mat.BindGroupProvider(),
			Binding:  material.BindingConstants,
			Data:     constants.Marshal(),
		})
	}
	for _, pass := range frame.Passes {
		switch pass.Kind {
		case PassOverlay:
			writes = append(writes, bind_group_provider.BufferWrite{
				Provider: r.lampProvider,
				Target:   bind_group_provider.BufferTargetInstance,
				Data:     instancing.MarshalRecords(frame.Instances),
			})
		case PassDepthVisualization:
			writes = append(writes, bind_group_provider.BufferWrite{
				Provider: r.depthProvider,
				Binding:  uniforms.BindingDepthParams,
				Data:     frame.DepthParams.Marshal(),
			})
		}
	}
	r.writes = writes
	return writes
}

// encodePass records the draws of one pass.
func (r *renderer) encodePass(kind PassKind, frame Frame, pipelines map[string]pipeline.Pipeline) {
	switch kind {
	case PassLit:
		for _, mf := range frame.Models {
			for _, draw := range mf.Submeshes {
				r.drawBindGroups = append(r.drawBindGroups[:0], r.frameProvider, mf.Model.UniformProvider(), draw.Material.BindGroupProvider())
				r.backend.DrawCall(pipelines[LitPipelineKey(draw.Material.SpecularModel())], DrawCommand{
					Mesh:          mf.Model.MeshProvider(),
					BindGroups:    r.drawBindGroups,
					FirstIndex:    draw.Range.FirstIndex,
					IndexCount:    draw.Range.IndexCount,
					InstanceCount: 1,
				})
			}
		}
	case PassOverlay:
		r.drawBindGroups = append(r.drawBindGroups[:0], r.frameProvider)
		r.backend.DrawCall(pipelines[PipelineKeyOverlay], DrawCommand{
			Mesh:          r.lampProvider,
			BindGroups:    r.drawBindGroups,
			IndexCount:    uint32(r.lampProvider.IndexCount()),
			InstanceCount: uint32(min(len(frame.Instances), r.lampProvider.InstanceCapacity())),
		})
	case PassDepthVisualization:
		r.drawBindGroups = append(r.drawBindGroups[:0], r.depthProvider)
		r.backend.DrawCall(pipelines[PipelineKeyDepthVisualization], DrawCommand{
			Mesh:          r.quadProvider,
			BindGroups:    r.drawBindGroups,
			IndexCount:    uint32(r.quadProvider.IndexCount()),
			InstanceCount: 1,
		})
	}
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range []bind_group_provider.BindGroupProvider{r.frameProvider, r.lampProvider, r.quadProvider, r.depthProvider} {
		if p != nil {
			p.Release()
		}
	}
	r.frameProvider, r.lampProvider, r.quadProvider, r.depthProvider = nil, nil, nil, nil

	for _, p := range r.pipelineCache {
		p.Release()
	}
	r.pipelineCache = make(map[string]pipeline.Pipeline)

	if r.pool != nil {
		r.pool.Stop()
	}
	if r.backend != nil {
		r.backend.Release()
	}
}
