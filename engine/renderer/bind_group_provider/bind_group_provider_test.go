package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBindGroupProvider(t *testing.T) {
	p := NewBindGroupProvider("cube mesh")

	assert.Equal(t, "cube mesh", p.Label())
	assert.False(t, p.Initialized())
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.Buffer(0))
	assert.Nil(t, p.TextureView(2))
	assert.Nil(t, p.Sampler(1))
	assert.Nil(t, p.InstanceBuffer())
}

func TestProviderCounts(t *testing.T) {
	p := NewBindGroupProvider("lamps")
	p.SetIndexCount(36)
	p.SetInstanceBuffer(nil, 100)

	assert.Equal(t, 36, p.IndexCount())
	assert.Equal(t, 100, p.InstanceCapacity())

	p.Release()
	assert.Zero(t, p.IndexCount())
	assert.Zero(t, p.InstanceCapacity())

	// a second release is a no-op
	p.Release()
}

func TestBufferWriteResolvesUninitializedAsNil(t *testing.T) {
	p := NewBindGroupProvider("frame")

	assert.Nil(t, BufferWrite{Provider: p, Binding: 0}.Buffer())
	assert.Nil(t, BufferWrite{Provider: p, Target: BufferTargetInstance}.Buffer())
	assert.Nil(t, BufferWrite{}.Buffer())
}
