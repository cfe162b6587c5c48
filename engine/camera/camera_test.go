package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestCameraDefaults(t *testing.T) {
	c := NewCamera()

	assert.Equal(t, mgl32.Vec3{0, 0, 3}, c.Eye())
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, c.Up())
	assert.InDelta(t, mgl32.DegToRad(45), c.Fov(), 1e-6)
	assert.Equal(t, float32(0.1), c.Near())
	assert.Equal(t, float32(100), c.Far())
	assert.Equal(t, mgl32.Vec3{0, 0, -1}, c.Forward())
}

func TestProjectionRoundTripsNearFar(t *testing.T) {
	c := NewCamera(WithNear(0.5), WithFar(250), WithAspect(16.0/9.0))

	near, far := common.NearFarFromProjection(c.ProjectionMatrix())
	assert.InDelta(t, 0.5, near, 1e-4)
	assert.InDelta(t, 250, far, 1e-1)
}

func TestViewProjectionMapsTargetToCenter(t *testing.T) {
	c := NewCamera(WithEye(2, 3, 4), WithTarget(-1, 0, 1))

	clip := c.ViewProjectionMatrix().Mul4x1(mgl32.Vec4{-1, 0, 1, 1})
	ndc := clip.Vec3().Mul(1 / clip.W())

	assert.InDelta(t, 0, ndc.X(), 1e-5)
	assert.InDelta(t, 0, ndc.Y(), 1e-5)
	assert.Greater(t, ndc.Z(), float32(0))
	assert.Less(t, ndc.Z(), float32(1))
}

func TestDepthRangeIsZeroToOne(t *testing.T) {
	c := NewCamera(WithEye(0, 0, 0), WithTarget(0, 0, -1), WithNear(1), WithFar(10))
	vp := c.ViewProjectionMatrix()

	nearClip := vp.Mul4x1(mgl32.Vec4{0, 0, -1, 1})
	farClip := vp.Mul4x1(mgl32.Vec4{0, 0, -10, 1})

	assert.InDelta(t, 0, nearClip.Z()/nearClip.W(), 1e-5)
	assert.InDelta(t, 1, farClip.Z()/farClip.W(), 1e-5)
}

func TestSettersRecomputeMatrices(t *testing.T) {
	c := NewCamera()
	before := c.ViewProjectionMatrix()

	c.LookAt(mgl32.Vec3{5, 0, 0}, mgl32.Vec3{})
	assert.NotEqual(t, before, c.ViewProjectionMatrix())
	assert.Equal(t, mgl32.Vec3{-1, 0, 0}, c.Forward())

	proj := c.ProjectionMatrix()
	c.SetAspect(0)
	assert.Equal(t, proj, c.ProjectionMatrix())
	c.SetAspect(2)
	assert.NotEqual(t, proj, c.ProjectionMatrix())
}
