package model

import "github.com/go-gl/mathgl/mgl32"

// VertexFormat names the vertex struct a mesh's vertex data is packed with.
type VertexFormat int

const (
	// VertexFormatLit is the Vertex layout: position, normal, uv.
	VertexFormatLit VertexFormat = iota

	// VertexFormatDebug is the DebugVertex layout: position, uv.
	VertexFormatDebug
)

// Submesh is a contiguous index range of a mesh drawn with a single material.
type Submesh struct {
	// FirstIndex is the offset of the range in the index buffer.
	FirstIndex uint32

	// IndexCount is the number of indices in the range.
	IndexCount uint32

	// MaterialIndex selects the owning model's material for this range.
	MaterialIndex int
}

// Mesh is CPU-side geometry ready for upload: packed vertex bytes, uint32 indices and the
// submesh ranges that partition them.
type Mesh struct {
	Name       string
	Format     VertexFormat
	VertexData []byte
	Indices    []uint32
	Submeshes  []Submesh
}

// IndexData packs the indices for upload.
//
// Returns:
//   - []byte: little-endian uint32 indices
func (m Mesh) IndexData() []byte {
	return MarshalIndices(m.Indices)
}

// Ranges returns the submesh ranges, or a single range covering every index with material 0
// when the mesh declares none.
//
// Returns:
//   - []Submesh: the draw ranges
func (m Mesh) Ranges() []Submesh {
	if len(m.Submeshes) > 0 {
		return m.Submeshes
	}
	return []Submesh{{FirstIndex: 0, IndexCount: uint32(len(m.Indices))}}
}

// NewMesh packs lit vertices into a single-submesh mesh.
//
// Parameters:
//   - name: the mesh name
//   - vertices: the vertices
//   - indices: counter-clockwise triangle indices
//
// Returns:
//   - Mesh: the packed mesh
func NewMesh(name string, vertices []Vertex, indices []uint32) Mesh {
	return Mesh{
		Name:       name,
		Format:     VertexFormatLit,
		VertexData: MarshalVertices(vertices),
		Indices:    indices,
	}
}

// cubeFace is one face of the unit cube: its outward normal and corners in counter-clockwise
// order seen from outside, starting bottom-left.
type cubeFace struct {
	normal  mgl32.Vec3
	corners [4]mgl32.Vec3
}

var cubeFaces = [6]cubeFace{
	{mgl32.Vec3{0, 0, 1}, [4]mgl32.Vec3{{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}}},
	{mgl32.Vec3{0, 0, -1}, [4]mgl32.Vec3{{1, -1, -1}, {-1, -1, -1}, {-1, 1, -1}, {1, 1, -1}}},
	{mgl32.Vec3{1, 0, 0}, [4]mgl32.Vec3{{1, -1, 1}, {1, -1, -1}, {1, 1, -1}, {1, 1, 1}}},
	{mgl32.Vec3{-1, 0, 0}, [4]mgl32.Vec3{{-1, -1, -1}, {-1, -1, 1}, {-1, 1, 1}, {-1, 1, -1}}},
	{mgl32.Vec3{0, 1, 0}, [4]mgl32.Vec3{{-1, 1, 1}, {1, 1, 1}, {1, 1, -1}, {-1, 1, -1}}},
	{mgl32.Vec3{0, -1, 0}, [4]mgl32.Vec3{{-1, -1, -1}, {1, -1, -1}, {1, -1, 1}, {-1, -1, 1}}},
}

var quadUVs = [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

func quadIndices(base uint32) []uint32 {
	return []uint32{base, base + 1, base + 2, base, base + 2, base + 3}
}

// CubeVertices returns the 24 vertices and 36 indices of a unit cube centered on the origin,
// with per-face normals and UVs.
//
// Returns:
//   - []Vertex: the vertices
//   - []uint32: counter-clockwise triangle indices
func CubeVertices() ([]Vertex, []uint32) {
	vertices := make([]Vertex, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, f := range cubeFaces {
		indices = append(indices, quadIndices(uint32(len(vertices)))...)
		for i, c := range f.corners {
			vertices = append(vertices, Vertex{
				Position: [3]float32(c.Mul(0.5)),
				Normal:   [3]float32(f.normal),
				TexCoord: quadUVs[i],
			})
		}
	}
	return vertices, indices
}

// Cube returns the unit cube as a lit mesh.
func Cube() Mesh {
	vertices, indices := CubeVertices()
	return NewMesh("cube", vertices, indices)
}

// DebugCube returns the unit cube with position and UV only, for the overlay pass.
func DebugCube() Mesh {
	vertices := make([]DebugVertex, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, f := range cubeFaces {
		indices = append(indices, quadIndices(uint32(len(vertices)))...)
		for i, c := range f.corners {
			vertices = append(vertices, DebugVertex{Position: [3]float32(c.Mul(0.5)), TexCoord: quadUVs[i]})
		}
	}
	return Mesh{
		Name:       "debug_cube",
		Format:     VertexFormatDebug,
		VertexData: MarshalDebugVertices(vertices),
		Indices:    indices,
	}
}

// FullscreenQuad returns a quad covering clip space, UV origin at the top-left.
func FullscreenQuad() Mesh {
	corners := [4][3]float32{{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0}}
	vertices := make([]DebugVertex, 4)
	for i := range vertices {
		vertices[i] = DebugVertex{Position: corners[i], TexCoord: quadUVs[i]}
	}
	return Mesh{
		Name:       "fullscreen_quad",
		Format:     VertexFormatDebug,
		VertexData: MarshalDebugVertices(vertices),
		Indices:    quadIndices(0),
	}
}
