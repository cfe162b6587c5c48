package common

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// PutFloat32 writes v little-endian at buf[offset:offset+4].
func PutFloat32(buf []byte, offset int, v float32) {
	binary.LittleEndian.PutUint32(buf[offset:offset+4], math.Float32bits(v))
}

// PutUint32 writes v little-endian at buf[offset:offset+4].
func PutUint32(buf []byte, offset int, v uint32) {
	binary.LittleEndian.PutUint32(buf[offset:offset+4], v)
}

// PutVec4 writes the four components of v starting at offset (16 bytes).
func PutVec4(buf []byte, offset int, v mgl32.Vec4) {
	for i := range 4 {
		PutFloat32(buf, offset+i*4, v[i])
	}
}

// PutMat4 writes m in column-major order starting at offset (64 bytes).
func PutMat4(buf []byte, offset int, m mgl32.Mat4) {
	for i := range 16 {
		PutFloat32(buf, offset+i*4, m[i])
	}
}

// Float32At reads a little-endian float32 from buf at offset.
func Float32At(buf []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset : offset+4]))
}

// Uint32At reads a little-endian uint32 from buf at offset.
func Uint32At(buf []byte, offset int) uint32 {
	return binary.LittleEndian.Uint32(buf[offset : offset+4])
}

// Vec4At reads four consecutive float32 values from buf at offset.
func Vec4At(buf []byte, offset int) mgl32.Vec4 {
	return mgl32.Vec4{
		Float32At(buf, offset),
		Float32At(buf, offset+4),
		Float32At(buf, offset+8),
		Float32At(buf, offset+12),
	}
}

// Vec3W extends v with w as the fourth component.
func Vec3W(v mgl32.Vec3, w float32) mgl32.Vec4 {
	return mgl32.Vec4{v[0], v[1], v[2], w}
}
