package renderer

import (
	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// PassTargets describes the attachments of one render pass within a frame.
type PassTargets struct {
	// Label names the pass in GPU debug tooling.
	Label string
	// ClearColor clears the surface to the clear color; otherwise the previous pass's output is loaded.
	ClearColor bool
	// Depth attaches the depth texture. Passes that sample depth must leave it detached.
	Depth bool
	// ClearDepth clears depth to 1.0; otherwise the lit pass's depth is loaded.
	ClearDepth bool
}

// DrawCommand is one indexed draw within a pass.
type DrawCommand struct {
	// Mesh holds the vertex, index and optional instance buffers.
	Mesh bind_group_provider.BindGroupProvider
	// BindGroups are bound at their slice index as group number.
	BindGroups []bind_group_provider.BindGroupProvider
	// FirstIndex and IndexCount select the submesh range.
	FirstIndex uint32
	IndexCount uint32
	// InstanceCount is the number of instances; 1 for non-instanced draws.
	InstanceCount uint32
}

// RendererBackend is the GPU API the Renderer drives. A frame is
// BeginFrame, then BeginPass/DrawCall.../EndPass per pass, then EndFrame and Present.
type RendererBackend interface {
	// ConfigureSurface (re)configures the surface and resizes the depth attachment.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets the present mode applied by the next ConfigureSurface.
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the color the first pass of a frame clears to.
	SetClearColor(color wgpu.Color)

	// OutputIsSRGB reports whether the configured surface format encodes sRGB in hardware.
	OutputIsSRGB() bool

	// RegisterRenderPipeline creates the GPU pipeline for p and stores it with SetRenderPipeline.
	//
	// Parameters:
	//   - p: the pipeline description
	//
	// Returns:
	//   - error: an error if shader module, layout or pipeline creation fails
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// InitMeshBuffers uploads vertex and index data into buffers stored on the provider.
	//
	// Parameters:
	//   - provider: the provider to store the buffers on
	//   - vertexData: packed vertices
	//   - indexData: packed uint32 indices
	//   - indexCount: the number of indices
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitInstanceBuffer allocates a per-instance vertex buffer on the provider.
	//
	// Parameters:
	//   - provider: the mesh provider the instances are drawn with
	//   - recordSize: the byte size of one instance record
	//   - capacity: the number of records
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitInstanceBuffer(provider bind_group_provider.BindGroupProvider, recordSize, capacity int) error

	// InitBindGroup creates the uniform buffers and the bind group described by descriptor.
	// Texture and sampler entries must already be set on the provider.
	//
	// Parameters:
	//   - provider: the provider to store the buffers and bind group on
	//   - descriptor: the bind group layout descriptor; buffer entries are sized by MinBindingSize
	//
	// Returns:
	//   - error: an error if a texture or sampler is missing or GPU creation fails
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error

	// InitTextureView uploads RGBA8 staging data as an sRGB texture and stores its view.
	//
	// Parameters:
	//   - provider: the provider to store the view on
	//   - binding: the binding index
	//   - data: the pixel data
	//
	// Returns:
	//   - error: an error if texture creation fails
	InitTextureView(provider bind_group_provider.BindGroupProvider, binding int, data common.TextureStagingData) error

	// InitSampler creates a sampler from staging data.
	//
	// Parameters:
	//   - provider: the provider to store the sampler on
	//   - binding: the binding index
	//   - data: the sampler configuration
	//
	// Returns:
	//   - error: an error if sampler creation fails
	InitSampler(provider bind_group_provider.BindGroupProvider, binding int, data common.SamplerStagingData) error

	// InitDepthView stores a sampleable view of the current depth attachment on the provider.
	// The view is invalidated by a ConfigureSurface that changes the size.
	//
	// Parameters:
	//   - provider: the provider to store the view on
	//   - binding: the binding index
	//
	// Returns:
	//   - error: an error if the view cannot be created
	InitDepthView(provider bind_group_provider.BindGroupProvider, binding int) error

	// WriteBuffers queues buffer writes. Writes targeting buffers that do not exist are skipped.
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the surface texture and creates the frame's command encoder.
	//
	// Returns:
	//   - error: ErrSurfaceLost if the surface had to be reconfigured, or an acquisition error
	BeginFrame() error

	// BeginPass begins a render pass against the acquired surface texture.
	BeginPass(targets PassTargets)

	// DrawCall encodes a draw in the current pass.
	DrawCall(p pipeline.Pipeline, cmd DrawCommand)

	// EndPass ends the current pass.
	EndPass()

	// EndFrame finishes the command encoder and submits it.
	//
	// Returns:
	//   - error: an error if the command buffer could not be finished
	EndFrame() error

	// Present presents the acquired surface texture and releases the frame references.
	Present()

	// Release frees the depth attachment, surface, device and instance.
	Release()
}
