package instancing

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/Carmen-Shannon/oxy-forward/engine/light"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrixReconstructionMovesOriginToTranslation(t *testing.T) {
	r := InstanceRecord{Model: [4]mgl32.Vec4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{3, -4, 5, 1},
	}}

	got := r.Matrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.Equal(t, mgl32.Vec4{3, -4, 5, 1}, got)
}

func TestNewInstanceRecordRoundTrip(t *testing.T) {
	m := common.TransformFromScaleRotationTranslation(
		mgl32.Vec3{2, 2, 2},
		mgl32.QuatRotate(0.5, mgl32.Vec3{0, 1, 0}),
		mgl32.Vec3{1, 2, 3},
	)
	r := NewInstanceRecord(m, mgl32.Vec4{1, 0, 0, 1})
	assert.Equal(t, m, r.Matrix())
}

func TestApplyOrdersInstanceInsideViewProjection(t *testing.T) {
	r := NewInstanceRecord(mgl32.Translate3D(1, 0, 0), mgl32.Vec4{})
	vp := mgl32.Scale3D(2, 2, 2)

	// scale(translate(p)) = 2*(p+1), while translate(scale(p)) would be 2p+1
	got := r.Apply(vp, mgl32.Vec3{1, 0, 0})
	assert.Equal(t, mgl32.Vec4{4, 0, 0, 1}, got)
}

func TestMarshalLayout(t *testing.T) {
	r := NewInstanceRecord(mgl32.Translate3D(7, 8, 9), mgl32.Vec4{0.1, 0.2, 0.3, 1})
	buf := r.Marshal()

	require.Len(t, buf, 80)
	assert.Equal(t, mgl32.Vec4{7, 8, 9, 1}, common.Vec4At(buf, 48))
	assert.Equal(t, mgl32.Vec4{0.1, 0.2, 0.3, 1}, common.Vec4At(buf, 64))

	all := MarshalRecords([]InstanceRecord{r, r})
	require.Len(t, all, 160)
	assert.Equal(t, buf, all[80:])
}

func TestVertexLayout(t *testing.T) {
	layout := VertexLayout(FirstLocation)

	assert.Equal(t, uint64(80), layout.ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeInstance, layout.StepMode)
	require.Len(t, layout.Attributes, 5)
	for i, a := range layout.Attributes {
		assert.Equal(t, uint32(FirstLocation+i), a.ShaderLocation)
		assert.Equal(t, uint64(i*16), a.Offset)
		assert.Equal(t, wgpu.VertexFormatFloat32x4, a.Format)
	}
}

func TestSpawnGrid(t *testing.T) {
	transforms := SpawnGrid(3, 3, 2, 0.5)
	require.Len(t, transforms, 9)

	// the center instance sits on the origin and is not rotated
	assert.Equal(t, mgl32.Ident4(), transforms[4])
	assert.Equal(t, mgl32.Vec3{-2, 0, -2}, common.Translation(transforms[0]))
	assert.Equal(t, mgl32.Vec3{2, 0, 2}, common.Translation(transforms[8]))

	assert.Nil(t, SpawnGrid(0, 3, 1, 0))
}

func TestLampInstances(t *testing.T) {
	lights := []light.Light{
		light.NewLight(light.LightTypeDirectional),
		light.NewLight(light.LightTypePoint, light.WithPosition(1, 2, 3), light.WithColor(1, 0.5, 0)),
		light.NewLight(light.LightTypeSpot, light.WithPosition(-1, 0, 0)),
		light.NewLight(light.LightTypePoint, light.WithEnabled(false)),
	}

	records := LampInstances(lights)
	require.Len(t, records, 2)
	assert.Equal(t, mgl32.Vec4{1, 0.5, 0, 1}, records[0].Tint)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, common.Translation(records[0].Matrix()))
	assert.InDelta(t, LampScale, records[0].Matrix().At(0, 0), 1e-6)
	assert.Equal(t, mgl32.Vec3{-1, 0, 0}, common.Translation(records[1].Matrix()))
}

func TestLampInstancesCapped(t *testing.T) {
	lights := make([]light.Light, MaxDebugInstances+20)
	for i := range lights {
		lights[i] = light.NewLight(light.LightTypePoint)
	}
	assert.Len(t, LampInstances(lights), MaxDebugInstances)
}
