package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BufferTarget selects which buffer of a provider a BufferWrite lands in.
type BufferTarget int

const (
	// BufferTargetBinding writes the uniform buffer at BufferWrite.Binding.
	BufferTargetBinding BufferTarget = iota

	// BufferTargetInstance writes the per-instance vertex buffer; Binding is ignored.
	BufferTargetInstance
)

// BufferWrite describes a single GPU buffer write operation targeting one buffer of a
// BindGroupProvider at a given byte offset.
type BufferWrite struct {
	Provider BindGroupProvider
	Target   BufferTarget
	Binding  int
	Offset   uint64
	Data     []byte
}

// Buffer resolves the buffer the write targets, or nil when it has not been created.
func (w BufferWrite) Buffer() *wgpu.Buffer {
	if w.Provider == nil {
		return nil
	}
	if w.Target == BufferTargetInstance {
		return w.Provider.InstanceBuffer()
	}
	return w.Provider.Buffer(w.Binding)
}
