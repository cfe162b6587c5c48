// Package uniforms packs scene state into the fixed-layout uniform blocks read by the lit shader.
// Every block follows the WGSL uniform address space rules: 16-byte aligned vectors, column-major
// matrices and explicit padding, so the byte layout can be uploaded without translation.
package uniforms

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/Carmen-Shannon/oxy-forward/engine/light"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// Light budgets. The WGSL arrays in assets/ are sized with the same values.
const (
	MaxDirectionalLights = 3
	MaxSpotLights        = 2
	MaxPointLights       = 4
)

// PerFrameUniformsSource is the canonical WGSL definition of the PerFrameUniforms struct.
// It references PackedDirectionalLight and PackedSpotLight, which must be declared first.
//
//go:embed assets/per_frame.wgsl
var PerFrameUniformsSource string

// PerFrameUniforms is the group 0 uniform block shared by every draw in a frame.
// Size: 320 bytes.
type PerFrameUniforms struct {
	ViewProjection        mgl32.Mat4                                         // offset   0
	ViewPosition          mgl32.Vec4                                         // offset  64: xyz eye, w = 1
	DirectionalLights     [MaxDirectionalLights]light.PackedDirectionalLight // offset  80
	SpotLights            [MaxSpotLights]light.PackedSpotLight               // offset 176
	DirectionalLightCount uint32                                             // offset 304
	SpotLightCount        uint32                                             // offset 308
	OutputIsSRGB          uint32                                             // offset 312: 1 when the target encodes sRGB itself
	Time                  float32                                            // offset 316: seconds since start
}

// Size returns the size of the PerFrameUniforms struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (320)
func (u *PerFrameUniforms) Size() int {
	return int(unsafe.Sizeof(*u))
}

// Marshal serializes the block into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 320-byte buffer ready for GPU upload
func (u *PerFrameUniforms) Marshal() []byte {
	buf := make([]byte, u.Size())
	common.PutMat4(buf, 0, u.ViewProjection)
	common.PutVec4(buf, 64, u.ViewPosition)
	for i := range u.DirectionalLights {
		u.DirectionalLights[i].MarshalTo(buf, 80+i*32)
	}
	for i := range u.SpotLights {
		u.SpotLights[i].MarshalTo(buf, 176+i*64)
	}
	common.PutUint32(buf, 304, u.DirectionalLightCount)
	common.PutUint32(buf, 308, u.SpotLightCount)
	common.PutUint32(buf, 312, u.OutputIsSRGB)
	common.PutFloat32(buf, 316, u.Time)
	return buf
}

// PerModelUniformsSource is the canonical WGSL definition of the PerModelUniforms struct.
// It references PackedPointLight, which must be declared first.
//
//go:embed assets/per_model.wgsl
var PerModelUniformsSource string

// PerModelUniforms is the group 1 uniform block, one per drawn model.
// Size: 400 bytes.
type PerModelUniforms struct {
	LocalToWorld    mgl32.Mat4                             // offset   0
	WorldToLocal    mgl32.Mat4                             // offset  64: inverse of LocalToWorld
	PointLights     [MaxPointLights]light.PackedPointLight // offset 128
	PointLightCount uint32                                 // offset 384
	_               [3]uint32                              // offset 388: pads the block to 400
}

// Size returns the size of the PerModelUniforms struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (400)
func (u *PerModelUniforms) Size() int {
	return int(unsafe.Sizeof(*u))
}

// Marshal serializes the block into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 400-byte buffer ready for GPU upload
func (u *PerModelUniforms) Marshal() []byte {
	buf := make([]byte, u.Size())
	common.PutMat4(buf, 0, u.LocalToWorld)
	common.PutMat4(buf, 64, u.WorldToLocal)
	for i := range u.PointLights {
		u.PointLights[i].MarshalTo(buf, 128+i*64)
	}
	common.PutUint32(buf, 384, u.PointLightCount)
	return buf
}

// PerSubmeshUniforms is the group 2 uniform block: the packed material constants.
// Size: 48 bytes.
type PerSubmeshUniforms = material.PackedMaterialConstants
