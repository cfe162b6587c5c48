package uniforms

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/Carmen-Shannon/oxy-forward/engine/light"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/material"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func directionalLights(n int) []light.Light {
	lights := make([]light.Light, n)
	for i := range lights {
		lights[i] = light.NewLight(light.LightTypeDirectional, light.WithColor(float32(i+1), 0, 0))
	}
	return lights
}

func TestBlockSizes(t *testing.T) {
	var frame PerFrameUniforms
	var model PerModelUniforms
	var submesh PerSubmeshUniforms

	assert.Equal(t, 320, frame.Size())
	assert.Equal(t, 400, model.Size())
	assert.Equal(t, 48, submesh.Size())
	assert.Len(t, frame.Marshal(), 320)
	assert.Len(t, model.Marshal(), 400)
}

func TestPerFrameTruncatesDirectionalLights(t *testing.T) {
	u, overflow := NewPerFrameUniforms(FrameInputs{Directional: directionalLights(5)})

	assert.Equal(t, uint32(3), u.DirectionalLightCount)
	assert.Equal(t, 2, overflow.Directional)
	assert.True(t, overflow.Any())
	for i := range 3 {
		assert.Equal(t, float32(i+1), u.DirectionalLights[i].Color[0])
	}

	buf := u.Marshal()
	assert.Equal(t, uint32(3), common.Uint32At(buf, 304))
}

func TestPerFrameLayout(t *testing.T) {
	spot := light.NewLight(light.LightTypeSpot, light.WithPosition(7, 8, 9))
	u, overflow := NewPerFrameUniforms(FrameInputs{
		ViewProjection: mgl32.Translate3D(1, 2, 3),
		Eye:            mgl32.Vec3{4, 5, 6},
		Directional:    directionalLights(1),
		Spot:           []light.Light{spot, spot, spot},
		OutputIsSRGB:   true,
		Time:           2.5,
	})
	assert.Equal(t, 1, overflow.Spot)
	assert.Zero(t, overflow.Directional)

	buf := u.Marshal()
	assert.Equal(t, float32(1), common.Float32At(buf, 48))
	assert.Equal(t, float32(3), common.Float32At(buf, 56))
	assert.Equal(t, mgl32.Vec4{4, 5, 6, 1}, common.Vec4At(buf, 64))
	assert.Equal(t, float32(1), common.Float32At(buf, 80+16))
	assert.Equal(t, mgl32.Vec4{7, 8, 9}, mgl32.Vec4{common.Float32At(buf, 176), common.Float32At(buf, 180), common.Float32At(buf, 184)})
	assert.Equal(t, float32(7), common.Float32At(buf, 176+64))
	assert.Equal(t, uint32(1), common.Uint32At(buf, 304))
	assert.Equal(t, uint32(2), common.Uint32At(buf, 308))
	assert.Equal(t, uint32(1), common.Uint32At(buf, 312))
	assert.Equal(t, float32(2.5), common.Float32At(buf, 316))
}

func TestPerFrameEmptyLists(t *testing.T) {
	u, overflow := NewPerFrameUniforms(FrameInputs{})
	assert.Zero(t, u.DirectionalLightCount)
	assert.Zero(t, u.SpotLightCount)
	assert.Zero(t, u.OutputIsSRGB)
	assert.False(t, overflow.Any())
}

func TestPerModelInverse(t *testing.T) {
	l2w := mgl32.Translate3D(1, -2, 3).Mul4(mgl32.HomogRotate3DY(0.7)).Mul4(mgl32.Scale3D(2, 2, 2))
	u, dropped := NewPerModelUniforms(l2w, nil)

	assert.Zero(t, dropped)
	assert.True(t, u.LocalToWorld.Mul4(u.WorldToLocal).ApproxEqualThreshold(mgl32.Ident4(), 1e-5))
	assert.Zero(t, u.PointLightCount)
}

func TestPerModelTruncatesPointLights(t *testing.T) {
	lights := make([]light.Light, 6)
	for i := range lights {
		lights[i] = light.NewLight(light.LightTypePoint, light.WithPosition(float32(i), 0, 0))
	}

	u, dropped := NewPerModelUniforms(mgl32.Ident4(), lights)
	assert.Equal(t, uint32(4), u.PointLightCount)
	assert.Equal(t, 2, dropped)

	buf := u.Marshal()
	assert.Equal(t, uint32(4), common.Uint32At(buf, 384))
	assert.Equal(t, float32(3), common.Float32At(buf, 128+3*64))
	for off := 388; off < 400; off += 4 {
		assert.Zero(t, common.Uint32At(buf, off))
	}
}

func TestPackModelsKeepsOrderAndPicksNearest(t *testing.T) {
	lights := make([]light.Light, 6)
	for i := range lights {
		lights[i] = light.NewLight(light.LightTypePoint, light.WithPosition(float32(i*10), 0, 0))
	}

	jobs := make([]ModelJob, 8)
	for i := range jobs {
		jobs[i] = ModelJob{LocalToWorld: mgl32.Translate3D(float32(i*10), 0, 0), PointLights: lights}
	}

	pool := worker.NewDynamicWorkerPool(4, 64, time.Second)
	t.Cleanup(pool.Stop)
	results := PackModels(pool, jobs)
	require.Len(t, results, len(jobs))

	for i, r := range results {
		assert.Equal(t, float32(i*10), r.Uniforms.LocalToWorld[12], "job %d", i)
		assert.Equal(t, uint32(MaxPointLights), r.Uniforms.PointLightCount)
		assert.Equal(t, 2, r.Dropped)
	}
	// the model at x=0 is lit by the lights at 0, 10, 20 and 30
	assert.Equal(t, float32(0), results[0].Uniforms.PointLights[0].Position[0])
	assert.Equal(t, float32(30), results[0].Uniforms.PointLights[3].Position[0])
	// the model at x=50 gets the light at 50 first
	assert.Equal(t, float32(50), results[5].Uniforms.PointLights[0].Position[0])
}

func TestPackModelsWithoutPool(t *testing.T) {
	results := PackModels(nil, []ModelJob{{LocalToWorld: mgl32.Ident4()}})
	require.Len(t, results, 1)
	assert.Equal(t, mgl32.Ident4(), results[0].Uniforms.WorldToLocal)
}

func TestLayouts(t *testing.T) {
	layouts := Layouts()
	require.Len(t, layouts, 3)

	frame := layouts[GroupFrame].Entries
	require.Len(t, frame, 1)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, frame[0].Buffer.Type)
	assert.Equal(t, uint64(320), frame[0].Buffer.MinBindingSize)

	model := layouts[GroupModel].Entries
	require.Len(t, model, 1)
	assert.Equal(t, uint64(400), model[0].Buffer.MinBindingSize)

	submesh := layouts[GroupSubmesh].Entries
	require.Len(t, submesh, 5)
	assert.Equal(t, uint64(48), submesh[material.BindingConstants].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, submesh[material.BindingSampler].Sampler.Type)
	for _, b := range []int{material.BindingDiffuse, material.BindingSpecular, material.BindingEmissive} {
		assert.Equal(t, uint32(b), submesh[b].Binding)
		assert.Equal(t, wgpu.TextureSampleTypeFloat, submesh[b].Texture.SampleType)
	}
}

func TestDepthVisualizationParamsFromProjection(t *testing.T) {
	p := NewDepthVisualizationParams(common.Perspective(mgl32.DegToRad(45), 1.5, 0.1, 100))
	assert.Equal(t, 16, p.Size())
	assert.InDelta(t, 0.1, p.Near, 1e-5)
	assert.InDelta(t, 100, p.Far, 1e-2)

	buf := p.Marshal()
	require.Len(t, buf, 16)
	assert.Equal(t, p.Near, common.Float32At(buf, 0))
	assert.Equal(t, p.Far, common.Float32At(buf, 4))
	assert.Equal(t, float32(0), common.Float32At(buf, 12))
}

func TestPassLayouts(t *testing.T) {
	overlay := OverlayLayouts()
	require.Len(t, overlay, 1)
	assert.Equal(t, Layouts()[GroupFrame].Entries, overlay[GroupFrame].Entries)

	depth := DepthLayouts()[0].Entries
	require.Len(t, depth, 2)
	assert.Equal(t, uint64(16), depth[BindingDepthParams].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.TextureSampleTypeDepth, depth[BindingDepthTexture].Texture.SampleType)
	assert.Equal(t, wgpu.ShaderStageFragment, depth[BindingDepthTexture].Visibility)
}
