package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-forward/engine/model"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/uniforms"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineDefaults(t *testing.T) {
	p := NewPipeline("lit")

	assert.Equal(t, "lit", p.PipelineKey())
	assert.True(t, p.HasDepthAttachment())
	assert.Equal(t, wgpu.CompareFunctionLess, p.DepthCompare())
	assert.True(t, p.DepthWriteEnabled())
	assert.Nil(t, p.BlendState())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology())
	assert.Equal(t, wgpu.FrontFaceCCW, p.FrontFace())
	assert.Nil(t, p.RenderPipeline())
	assert.ErrorIs(t, p.Validate(), ErrMissingShader)
	p.Release()
}

func TestPipelineOptions(t *testing.T) {
	p := NewPipeline("overlay",
		WithDepthTestEnabled(false),
		WithDepthWriteEnabled(false),
		WithDepthAttachment(false),
		WithBlendEnabled(true),
		WithCullMode(wgpu.CullModeBack),
		WithWriteMask(wgpu.ColorWriteMaskRed),
	)

	assert.False(t, p.HasDepthAttachment())
	assert.Equal(t, wgpu.CompareFunctionAlways, p.DepthCompare())
	assert.False(t, p.DepthWriteEnabled())
	require.NotNil(t, p.BlendState())
	assert.Equal(t, wgpu.BlendFactorSrcAlpha, p.BlendState().Color.SrcFactor)
	assert.Equal(t, wgpu.CullModeBack, p.CullMode())
	assert.Equal(t, wgpu.ColorWriteMaskRed, p.WriteMask())
}

func TestLitPipelineLayouts(t *testing.T) {
	vs, err := shader.NewShader("lit_vert", shader.ShaderTypeVertex, shader.LitVertexSource,
		shader.WithVertexLayouts(model.VertexLayout()), shader.WithBindGroupLayouts(uniforms.Layouts()))
	require.NoError(t, err)
	fs, err := shader.NewShader("lit_frag", shader.ShaderTypeFragment, shader.LitFragmentSource,
		shader.WithBindGroupLayouts(uniforms.Layouts()))
	require.NoError(t, err)

	p := NewPipeline("lit", WithVertexShader(vs), WithFragmentShader(fs))
	require.NoError(t, p.Validate())
	assert.Same(t, vs, p.Shader(shader.ShaderTypeVertex))

	layouts := p.BindGroupLayouts()
	require.Len(t, layouts, 3)
	assert.Len(t, layouts[uniforms.GroupSubmesh].Entries, 5)
}

func TestMergeBindGroupLayouts(t *testing.T) {
	vertex := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Label: "frame", Entries: []wgpu.BindGroupLayoutEntry{{Binding: 0, Visibility: wgpu.ShaderStageVertex}}},
	}
	fragment := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Label: "frame", Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 1, Visibility: wgpu.ShaderStageFragment},
			{Binding: 0, Visibility: wgpu.ShaderStageFragment},
		}},
		2: {Label: "material", Entries: []wgpu.BindGroupLayoutEntry{{Binding: 0, Visibility: wgpu.ShaderStageFragment}}},
	}

	merged := mergeBindGroupLayouts(vertex, fragment)
	require.Len(t, merged, 2)

	frame := merged[0].Entries
	require.Len(t, frame, 2)
	assert.Equal(t, uint32(0), frame[0].Binding)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, frame[0].Visibility)
	assert.Equal(t, wgpu.ShaderStageFragment, frame[1].Visibility)
	assert.Equal(t, "material", merged[2].Label)
}
