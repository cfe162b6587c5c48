package model

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

// VertexSource is the canonical WGSL definition of the VertexInput struct for lit pipelines.
// Matches Vertex layout exactly (32 bytes).
//
//go:embed assets/vertex.wgsl
var VertexSource string

// Vertex is the GPU-aligned representation of a single lit mesh vertex.
// Size: 32 bytes, tightly packed.
type Vertex struct {
	Position [3]float32 // offset  0: model-space position
	Normal   [3]float32 // offset 12: model-space normal
	TexCoord [2]float32 // offset 24: UV coordinate
}

// Size returns the size of the Vertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (v *Vertex) Size() int {
	return int(unsafe.Sizeof(*v))
}

// MarshalTo writes the vertex into buf starting at offset.
//
// Parameters:
//   - buf: destination buffer, at least offset+32 bytes
//   - offset: byte offset of the vertex
func (v *Vertex) MarshalTo(buf []byte, offset int) {
	putFloats(buf, offset, v.Position[:]...)
	putFloats(buf, offset+12, v.Normal[:]...)
	putFloats(buf, offset+24, v.TexCoord[:]...)
}

// VertexLayout describes a vertex buffer of Vertex values at locations 0, 1 and 2.
//
// Returns:
//   - wgpu.VertexBufferLayout: the per-vertex layout
func VertexLayout() wgpu.VertexBufferLayout {
	var v Vertex
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(v.Size()),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
		},
	}
}

// DebugVertexSource is the canonical WGSL definition of the DebugVertexInput struct used by the
// overlay and fullscreen passes. Matches DebugVertex layout exactly (20 bytes).
//
//go:embed assets/debug_vertex.wgsl
var DebugVertexSource string

// DebugVertex is an unlit vertex carrying only a position and a UV coordinate.
// Size: 20 bytes, tightly packed.
type DebugVertex struct {
	Position [3]float32 // offset  0: model-space or clip-space position
	TexCoord [2]float32 // offset 12: UV coordinate
}

// Size returns the size of the DebugVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (v *DebugVertex) Size() int {
	return int(unsafe.Sizeof(*v))
}

// MarshalTo writes the vertex into buf starting at offset.
//
// Parameters:
//   - buf: destination buffer, at least offset+20 bytes
//   - offset: byte offset of the vertex
func (v *DebugVertex) MarshalTo(buf []byte, offset int) {
	putFloats(buf, offset, v.Position[:]...)
	putFloats(buf, offset+12, v.TexCoord[:]...)
}

// DebugVertexLayout describes a vertex buffer of DebugVertex values at locations 0 and 1.
//
// Returns:
//   - wgpu.VertexBufferLayout: the per-vertex layout
func DebugVertexLayout() wgpu.VertexBufferLayout {
	var v DebugVertex
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(v.Size()),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
		},
	}
}

// MarshalVertices packs lit vertices back to back.
func MarshalVertices(vertices []Vertex) []byte {
	var v Vertex
	buf := make([]byte, len(vertices)*v.Size())
	for i := range vertices {
		vertices[i].MarshalTo(buf, i*v.Size())
	}
	return buf
}

// MarshalDebugVertices packs debug vertices back to back.
func MarshalDebugVertices(vertices []DebugVertex) []byte {
	var v DebugVertex
	buf := make([]byte, len(vertices)*v.Size())
	for i := range vertices {
		vertices[i].MarshalTo(buf, i*v.Size())
	}
	return buf
}

// MarshalIndices packs uint32 indices for an IndexFormatUint32 index buffer.
func MarshalIndices(indices []uint32) []byte {
	buf := make([]byte, len(indices)*4)
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx)
	}
	return buf
}

func putFloats(buf []byte, offset int, values ...float32) {
	for i, f := range values {
		binary.LittleEndian.PutUint32(buf[offset+i*4:], math.Float32bits(f))
	}
}
