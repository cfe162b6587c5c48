package light

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// PackedDirectionalLightSource is the canonical WGSL definition of the PackedDirectionalLight struct.
//
//go:embed assets/directional_light.wgsl
var PackedDirectionalLightSource string

// PackedDirectionalLight is the GPU layout of a directional light. Matches PackedDirectionalLightSource.
// Size: 32 bytes.
type PackedDirectionalLight struct {
	Direction mgl32.Vec4 // offset  0: xyz normalized light-to-surface direction, w = ambient
	Color     mgl32.Vec4 // offset 16: xyz color, w = specular
}

// Size returns the size of the PackedDirectionalLight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (32)
func (p *PackedDirectionalLight) Size() int {
	return int(unsafe.Sizeof(*p))
}

// MarshalTo writes the light into buf starting at offset.
//
// Parameters:
//   - buf: destination buffer, at least offset+32 bytes
//   - offset: byte offset of the record
func (p *PackedDirectionalLight) MarshalTo(buf []byte, offset int) {
	common.PutVec4(buf, offset, p.Direction)
	common.PutVec4(buf, offset+16, p.Color)
}

// Marshal serializes the light into a new buffer.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload
func (p *PackedDirectionalLight) Marshal() []byte {
	buf := make([]byte, p.Size())
	p.MarshalTo(buf, 0)
	return buf
}

// PackedPointLightSource is the canonical WGSL definition of the PackedPointLight struct.
//
//go:embed assets/point_light.wgsl
var PackedPointLightSource string

// PackedPointLight is the GPU layout of a point light. Matches PackedPointLightSource.
// Size: 64 bytes.
type PackedPointLight struct {
	Position    mgl32.Vec4 // offset  0: xyz world position, w = ambient
	Color       mgl32.Vec4 // offset 16: xyz color, w = specular
	Attenuation mgl32.Vec4 // offset 32: constant, linear, quadratic, unused
	Padding     mgl32.Vec4 // offset 48: keeps array stride a multiple of 16 with room for growth
}

// Size returns the size of the PackedPointLight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (64)
func (p *PackedPointLight) Size() int {
	return int(unsafe.Sizeof(*p))
}

// MarshalTo writes the light into buf starting at offset.
//
// Parameters:
//   - buf: destination buffer, at least offset+64 bytes
//   - offset: byte offset of the record
func (p *PackedPointLight) MarshalTo(buf []byte, offset int) {
	common.PutVec4(buf, offset, p.Position)
	common.PutVec4(buf, offset+16, p.Color)
	common.PutVec4(buf, offset+32, p.Attenuation)
	common.PutVec4(buf, offset+48, p.Padding)
}

// Marshal serializes the light into a new buffer.
//
// Returns:
//   - []byte: 64-byte buffer ready for GPU upload
func (p *PackedPointLight) Marshal() []byte {
	buf := make([]byte, p.Size())
	p.MarshalTo(buf, 0)
	return buf
}

// PackedSpotLightSource is the canonical WGSL definition of the PackedSpotLight struct.
//
//go:embed assets/spot_light.wgsl
var PackedSpotLightSource string

// PackedSpotLight is the GPU layout of a spot light. Matches PackedSpotLightSource.
// Size: 64 bytes.
type PackedSpotLight struct {
	Position    mgl32.Vec4 // offset  0: xyz world position, w = cos(inner cutoff)
	Direction   mgl32.Vec4 // offset 16: xyz normalized direction, w = ambient
	Color       mgl32.Vec4 // offset 32: xyz color, w = specular
	Attenuation mgl32.Vec4 // offset 48: constant, linear, quadratic, w = cos(outer cutoff)
}

// Size returns the size of the PackedSpotLight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (64)
func (p *PackedSpotLight) Size() int {
	return int(unsafe.Sizeof(*p))
}

// MarshalTo writes the light into buf starting at offset.
//
// Parameters:
//   - buf: destination buffer, at least offset+64 bytes
//   - offset: byte offset of the record
func (p *PackedSpotLight) MarshalTo(buf []byte, offset int) {
	common.PutVec4(buf, offset, p.Position)
	common.PutVec4(buf, offset+16, p.Direction)
	common.PutVec4(buf, offset+32, p.Color)
	common.PutVec4(buf, offset+48, p.Attenuation)
}

// Marshal serializes the light into a new buffer.
//
// Returns:
//   - []byte: 64-byte buffer ready for GPU upload
func (p *PackedSpotLight) Marshal() []byte {
	buf := make([]byte, p.Size())
	p.MarshalTo(buf, 0)
	return buf
}

// PackDirectional converts a light into its GPU record, folding ambient and specular into the
// alpha channels. Position, attenuation and cutoffs are ignored.
//
// Parameters:
//   - l: the light to pack
//
// Returns:
//   - PackedDirectionalLight: the GPU record
func PackDirectional(l Light) PackedDirectionalLight {
	return PackedDirectionalLight{
		Direction: common.Vec3W(normalize(l.Direction()), l.Ambient()),
		Color:     common.Vec3W(l.Color(), l.Specular()),
	}
}

// PackPoint converts a light into its GPU point light record.
//
// Parameters:
//   - l: the light to pack
//
// Returns:
//   - PackedPointLight: the GPU record
func PackPoint(l Light) PackedPointLight {
	a := l.Attenuation()
	return PackedPointLight{
		Position:    common.Vec3W(l.Position(), l.Ambient()),
		Color:       common.Vec3W(l.Color(), l.Specular()),
		Attenuation: mgl32.Vec4{a.Constant, a.Linear, a.Quadratic, 0},
	}
}

// PackSpot converts a light into its GPU spot light record. Cutoff angles are stored as cosines.
//
// Parameters:
//   - l: the light to pack
//
// Returns:
//   - PackedSpotLight: the GPU record
func PackSpot(l Light) PackedSpotLight {
	a := l.Attenuation()
	return PackedSpotLight{
		Position:    common.Vec3W(l.Position(), math32.Cos(l.InnerCutoff())),
		Direction:   common.Vec3W(normalize(l.Direction()), l.Ambient()),
		Color:       common.Vec3W(l.Color(), l.Specular()),
		Attenuation: mgl32.Vec4{a.Constant, a.Linear, a.Quadratic, math32.Cos(l.OuterCutoff())},
	}
}
