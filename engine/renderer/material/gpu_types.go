package material

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/Carmen-Shannon/oxy-forward/engine/shading"
	"github.com/go-gl/mathgl/mgl32"
)

// PackedMaterialConstantsSource is the canonical WGSL definition of the PackedMaterialConstants struct.
//
//go:embed assets/material_constants.wgsl
var PackedMaterialConstantsSource string

// PackedMaterialConstants is the per-submesh uniform block. Matches PackedMaterialConstantsSource.
// Size: 48 bytes.
type PackedMaterialConstants struct {
	Ambient  mgl32.Vec4 // offset  0: rgb ambient color, w unused
	Diffuse  mgl32.Vec4 // offset 16: rgb diffuse color, w unused
	Specular mgl32.Vec4 // offset 32: rgb specular color, w = shininess
}

// Size returns the size of the PackedMaterialConstants struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (48)
func (p *PackedMaterialConstants) Size() int {
	return int(unsafe.Sizeof(*p))
}

// MarshalTo writes the constants into buf starting at offset.
//
// Parameters:
//   - buf: destination buffer, at least offset+48 bytes
//   - offset: byte offset of the record
func (p *PackedMaterialConstants) MarshalTo(buf []byte, offset int) {
	common.PutVec4(buf, offset, p.Ambient)
	common.PutVec4(buf, offset+16, p.Diffuse)
	common.PutVec4(buf, offset+32, p.Specular)
}

// Marshal serializes the constants into a new buffer.
//
// Returns:
//   - []byte: 48-byte buffer ready for GPU upload
func (p *PackedMaterialConstants) Marshal() []byte {
	buf := make([]byte, p.Size())
	p.MarshalTo(buf, 0)
	return buf
}

// Unpack combines the constants with sampled texel colors into the shading material.
// Ambient and diffuse are modulated by the diffuse texel, specular by the specular texel, and
// emissive is the emissive texel alone.
//
// Parameters:
//   - diffuseTexel: the linear rgb sampled from the diffuse map
//   - specularTexel: the linear rgb sampled from the specular map
//   - emissiveTexel: the linear rgb sampled from the emissive map
//
// Returns:
//   - shading.Material: the unpacked material
func (p *PackedMaterialConstants) Unpack(diffuseTexel, specularTexel, emissiveTexel mgl32.Vec3) shading.Material {
	return shading.Material{
		Ambient:   mulElem(p.Ambient.Vec3(), diffuseTexel),
		Diffuse:   mulElem(p.Diffuse.Vec3(), diffuseTexel),
		Specular:  mulElem(p.Specular.Vec3(), specularTexel),
		Shininess: p.Specular[3],
		Emissive:  emissiveTexel,
	}
}

// Pack builds the per-submesh constants for a material. Only specular.w carries an auxiliary
// scalar; the other alpha channels are zero.
//
// Parameters:
//   - m: the material to pack
//
// Returns:
//   - PackedMaterialConstants: the GPU record
func Pack(m Material) PackedMaterialConstants {
	return PackedMaterialConstants{
		Ambient:  common.Vec3W(m.Ambient(), 0),
		Diffuse:  common.Vec3W(m.Diffuse(), 0),
		Specular: common.Vec3W(m.Specular(), m.Shininess()),
	}
}

func mulElem(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}
