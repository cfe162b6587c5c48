package uniforms

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/go-gl/mathgl/mgl32"
)

// DepthVisualizationParamsSource is the canonical WGSL definition of DepthVisualizationParams.
//
//go:embed assets/depth_params.wgsl
var DepthVisualizationParamsSource string

// DepthVisualizationParams carries the camera planes the depth visualization pass linearizes with.
// Size: 16 bytes.
type DepthVisualizationParams struct {
	Near float32    // offset 0
	Far  float32    // offset 4
	_    [2]float32 // offset 8
}

// NewDepthVisualizationParams extracts the near and far planes from the active projection, so the
// visualization always matches the camera that produced the depth buffer.
//
// Parameters:
//   - projection: the camera projection matrix
//
// Returns:
//   - DepthVisualizationParams: the packed block
func NewDepthVisualizationParams(projection mgl32.Mat4) DepthVisualizationParams {
	near, far := common.NearFarFromProjection(projection)
	return DepthVisualizationParams{Near: near, Far: far}
}

// Size returns the size of the DepthVisualizationParams struct in bytes.
func (p *DepthVisualizationParams) Size() int {
	return int(unsafe.Sizeof(*p))
}

// Marshal serializes the block into a byte buffer suitable for GPU upload.
func (p *DepthVisualizationParams) Marshal() []byte {
	buf := make([]byte, p.Size())
	common.PutFloat32(buf, 0, p.Near)
	common.PutFloat32(buf, 4, p.Far)
	return buf
}
