// Package instancing builds the per-instance vertex stream of the debug overlay pass. A transform
// travels as four vec4 attributes because a single vertex attribute is at most 16 bytes wide; the
// shader rebuilds the matrix from them before applying the view-projection.
package instancing

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// InstanceInputSource is the canonical WGSL definition of the InstanceInput struct and the
// instance_matrix helper. Attribute locations start at FirstLocation.
//
//go:embed assets/instance.wgsl
var InstanceInputSource string

// FirstLocation is the shader location of the first instance attribute in InstanceInputSource.
// The per-vertex stream of the overlay pass uses locations 0 and 1.
const FirstLocation = 2

// InstanceRecord is the GPU layout of one overlay instance.
// Size: 80 bytes.
type InstanceRecord struct {
	Model [4]mgl32.Vec4 // offset  0: the transform, one vec4 per matrix column
	Tint  mgl32.Vec4    // offset 64: flat RGBA color
}

// Size returns the size of the InstanceRecord struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (80)
func (r *InstanceRecord) Size() int {
	return int(unsafe.Sizeof(*r))
}

// MarshalTo writes the record into buf starting at offset.
//
// Parameters:
//   - buf: destination buffer, at least offset+80 bytes
//   - offset: byte offset of the record
func (r *InstanceRecord) MarshalTo(buf []byte, offset int) {
	for i, v := range r.Model {
		common.PutVec4(buf, offset+i*16, v)
	}
	common.PutVec4(buf, offset+64, r.Tint)
}

// Marshal serializes the record into a new buffer.
//
// Returns:
//   - []byte: 80-byte buffer ready for GPU upload
func (r *InstanceRecord) Marshal() []byte {
	buf := make([]byte, r.Size())
	r.MarshalTo(buf, 0)
	return buf
}

// MarshalRecords packs records back to back into a single vertex buffer payload.
//
// Parameters:
//   - records: the instances to pack
//
// Returns:
//   - []byte: len(records) * 80 bytes
func MarshalRecords(records []InstanceRecord) []byte {
	var r InstanceRecord
	stride := r.Size()
	buf := make([]byte, len(records)*stride)
	for i := range records {
		records[i].MarshalTo(buf, i*stride)
	}
	return buf
}

// VertexLayout describes the instance-rate buffer holding InstanceRecords.
//
// Parameters:
//   - firstLocation: the shader location of the first matrix vector
//
// Returns:
//   - wgpu.VertexBufferLayout: five Float32x4 attributes stepping once per instance
func VertexLayout(firstLocation uint32) wgpu.VertexBufferLayout {
	var r InstanceRecord
	attrs := make([]wgpu.VertexAttribute, 0, 5)
	for i := range uint32(5) {
		attrs = append(attrs, wgpu.VertexAttribute{
			Format:         wgpu.VertexFormatFloat32x4,
			Offset:         uint64(i) * 16,
			ShaderLocation: firstLocation + i,
		})
	}

	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(r.Size()),
		StepMode:    wgpu.VertexStepModeInstance,
		Attributes:  attrs,
	}
}
