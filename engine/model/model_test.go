package model

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/material"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVertexSizes(t *testing.T) {
	var v Vertex
	var d DebugVertex
	assert.Equal(t, 32, v.Size())
	assert.Equal(t, 20, d.Size())
	assert.Equal(t, uint64(32), VertexLayout().ArrayStride)
	assert.Equal(t, uint64(20), DebugVertexLayout().ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeVertex, VertexLayout().StepMode)
}

func TestVertexMarshal(t *testing.T) {
	v := Vertex{Position: [3]float32{1, 2, 3}, Normal: [3]float32{0, 1, 0}, TexCoord: [2]float32{0.25, 0.75}}
	buf := MarshalVertices([]Vertex{v})

	require.Len(t, buf, 32)
	assert.Equal(t, float32(3), common.Float32At(buf, 8))
	assert.Equal(t, float32(1), common.Float32At(buf, 16))
	assert.Equal(t, float32(0.75), common.Float32At(buf, 28))
}

func TestCubeWindingMatchesNormals(t *testing.T) {
	vertices, indices := CubeVertices()
	require.Len(t, vertices, 24)
	require.Len(t, indices, 36)

	for i := 0; i < len(indices); i += 3 {
		a := mgl32.Vec3(vertices[indices[i]].Position)
		b := mgl32.Vec3(vertices[indices[i+1]].Position)
		c := mgl32.Vec3(vertices[indices[i+2]].Position)
		n := mgl32.Vec3(vertices[indices[i]].Normal)

		face := b.Sub(a).Cross(c.Sub(a))
		assert.Greater(t, face.Dot(n), float32(0), "triangle %d is not counter-clockwise", i/3)
	}
}

func TestCubeIsUnitSized(t *testing.T) {
	vertices, _ := CubeVertices()
	for _, v := range vertices {
		for _, c := range v.Position {
			assert.InDelta(t, 0.5, abs(c), 1e-6)
		}
	}
}

func TestBuiltinMeshes(t *testing.T) {
	quad := FullscreenQuad()
	assert.Equal(t, VertexFormatDebug, quad.Format)
	assert.Len(t, quad.VertexData, 4*20)
	assert.Len(t, quad.IndexData(), 6*4)

	cube := DebugCube()
	assert.Len(t, cube.VertexData, 24*20)
	assert.Len(t, cube.Indices, 36)
}

func TestRangesDefaultToWholeMesh(t *testing.T) {
	cube := Cube()
	assert.Equal(t, []Submesh{{FirstIndex: 0, IndexCount: 36}}, cube.Ranges())

	cube.Submeshes = []Submesh{{0, 18, 0}, {18, 18, 1}}
	assert.Len(t, cube.Ranges(), 2)
}

func TestModelTransform(t *testing.T) {
	m := NewModel(
		WithPosition(1, 2, 3),
		WithScale(2, 2, 2),
		WithRotation(0, mgl32.Vec3{}),
	)

	got := m.Transform().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.Equal(t, mgl32.Vec4{3, 2, 3, 1}, got)

	m.SetPosition(mgl32.Vec3{0, 0, 0})
	assert.Equal(t, mgl32.Vec3{}, common.Translation(m.Transform()))
}

func TestMaterialFallback(t *testing.T) {
	red := material.NewMaterial(material.WithDiffuse(1, 0, 0))
	m := NewModel(WithName("box"), WithMaterials(red))

	assert.Equal(t, red, m.Material(0))
	fallback := m.Material(3)
	require.NotNil(t, fallback)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, fallback.Diffuse())
	assert.Same(t, fallback, m.Material(-1))
}

func TestModelDefaults(t *testing.T) {
	m := NewModel()
	assert.True(t, m.Visible())
	assert.Equal(t, mgl32.Ident4(), m.Transform())
	assert.Equal(t, "cube", m.Mesh().Name)
	assert.Nil(t, m.MeshProvider())
	m.Release()
}

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
