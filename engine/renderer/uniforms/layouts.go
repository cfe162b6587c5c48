package uniforms

import (
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/material"
	"github.com/cogentcore/webgpu/wgpu"
)

// Bind group indices of the lit pass.
const (
	GroupFrame   = 0
	GroupModel   = 1
	GroupSubmesh = 2
)

// Layouts returns the bind group layout contract shared by the lit shader and the renderer.
// Buffer entries carry the block size in MinBindingSize, which the backend also uses as the
// buffer allocation size.
//
//	group 0: 0 = PerFrameUniforms
//	group 1: 0 = PerModelUniforms
//	group 2: 0 = PerSubmeshUniforms, 1 = sampler, 2 = diffuse, 3 = specular, 4 = emissive
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
func Layouts() map[int]wgpu.BindGroupLayoutDescriptor {
	var frame PerFrameUniforms
	var model PerModelUniforms
	var submesh PerSubmeshUniforms

	return map[int]wgpu.BindGroupLayoutDescriptor{
		GroupFrame: {
			Label:   "Per Frame Layout",
			Entries: []wgpu.BindGroupLayoutEntry{uniformEntry(0, uint64(frame.Size()))},
		},
		GroupModel: {
			Label:   "Per Model Layout",
			Entries: []wgpu.BindGroupLayoutEntry{uniformEntry(0, uint64(model.Size()))},
		},
		GroupSubmesh: {
			Label: "Per Submesh Layout",
			Entries: []wgpu.BindGroupLayoutEntry{
				uniformEntry(material.BindingConstants, uint64(submesh.Size())),
				{
					Binding:    material.BindingSampler,
					Visibility: wgpu.ShaderStageFragment,
					Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
				},
				textureEntry(material.BindingDiffuse),
				textureEntry(material.BindingSpecular),
				textureEntry(material.BindingEmissive),
			},
		},
	}
}

func uniformEntry(binding uint32, size uint64) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
		Buffer: wgpu.BufferBindingLayout{
			Type:           wgpu.BufferBindingTypeUniform,
			MinBindingSize: size,
		},
	}
}

func textureEntry(binding uint32) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: wgpu.ShaderStageFragment,
		Texture: wgpu.TextureBindingLayout{
			SampleType:    wgpu.TextureSampleTypeFloat,
			ViewDimension: wgpu.TextureViewDimension2D,
		},
	}
}

// Bindings of the depth visualization pass, all in group 0.
const (
	BindingDepthParams  = 0
	BindingDepthTexture = 1
)

// OverlayLayouts returns the bind group layout contract of the debug overlay pass. The overlay
// only needs the view-projection and the sRGB flag, so it shares the lit pass's group 0 block.
//
//	group 0: 0 = PerFrameUniforms
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
func OverlayLayouts() map[int]wgpu.BindGroupLayoutDescriptor {
	var frame PerFrameUniforms
	return map[int]wgpu.BindGroupLayoutDescriptor{
		GroupFrame: {
			Label:   "Overlay Frame Layout",
			Entries: []wgpu.BindGroupLayoutEntry{uniformEntry(0, uint64(frame.Size()))},
		},
	}
}

// DepthLayouts returns the bind group layout contract of the depth visualization pass.
// The depth texture is read with textureLoad, so no sampler is bound.
//
//	group 0: 0 = DepthVisualizationParams, 1 = depth texture
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
func DepthLayouts() map[int]wgpu.BindGroupLayoutDescriptor {
	var params DepthVisualizationParams
	return map[int]wgpu.BindGroupLayoutDescriptor{
		0: {
			Label: "Depth Visualization Layout",
			Entries: []wgpu.BindGroupLayoutEntry{
				uniformEntry(BindingDepthParams, uint64(params.Size())),
				{
					Binding:    BindingDepthTexture,
					Visibility: wgpu.ShaderStageFragment,
					Texture: wgpu.TextureBindingLayout{
						SampleType:    wgpu.TextureSampleTypeDepth,
						ViewDimension: wgpu.TextureViewDimension2D,
					},
				},
			},
		},
	}
}
