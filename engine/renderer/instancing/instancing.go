package instancing

import (
	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/Carmen-Shannon/oxy-forward/engine/light"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxDebugInstances caps the overlay instance buffer.
const MaxDebugInstances = 100

// LampScale is the uniform scale of the cube drawn at each light position.
const LampScale = 0.2

// NewInstanceRecord splits a transform into its four column vectors.
//
// Parameters:
//   - transform: the instance-to-world transform
//   - tint: the flat overlay color
//
// Returns:
//   - InstanceRecord: the GPU record
func NewInstanceRecord(transform mgl32.Mat4, tint mgl32.Vec4) InstanceRecord {
	return InstanceRecord{
		Model: [4]mgl32.Vec4{transform.Col(0), transform.Col(1), transform.Col(2), transform.Col(3)},
		Tint:  tint,
	}
}

// Matrix rebuilds the transform from the four stored vectors. This mirrors instance_matrix in
// InstanceInputSource.
//
// Returns:
//   - mgl32.Mat4: the instance-to-world transform
func (r InstanceRecord) Matrix() mgl32.Mat4 {
	return mgl32.Mat4FromCols(r.Model[0], r.Model[1], r.Model[2], r.Model[3])
}

// Apply computes viewProjection * instance * position, the clip-space position the overlay
// vertex stage produces.
//
// Parameters:
//   - viewProjection: the camera transform
//   - position: the model-space vertex position
//
// Returns:
//   - mgl32.Vec4: the clip-space position
func (r InstanceRecord) Apply(viewProjection mgl32.Mat4, position mgl32.Vec3) mgl32.Vec4 {
	return viewProjection.Mul4(r.Matrix()).Mul4x1(position.Vec4(1))
}

// SpawnGrid lays out rows*perRow transforms on the XZ plane, centered on the origin. Each
// instance is rotated by angle radians about the axis through its own position; an instance at
// the origin keeps the identity rotation.
//
// Parameters:
//   - rows: the number of rows along Z
//   - perRow: the number of instances along X
//   - displacement: the spacing between neighbors
//   - angle: the rotation applied to every off-origin instance
//
// Returns:
//   - []mgl32.Mat4: the transforms in row-major grid order
func SpawnGrid(rows, perRow int, displacement, angle float32) []mgl32.Mat4 {
	if rows <= 0 || perRow <= 0 {
		return nil
	}

	offset := mgl32.Vec3{float32(perRow-1) * displacement / 2, 0, float32(rows-1) * displacement / 2}
	transforms := make([]mgl32.Mat4, 0, rows*perRow)
	for z := range rows {
		for x := range perRow {
			position := mgl32.Vec3{float32(x) * displacement, 0, float32(z) * displacement}.Sub(offset)
			rotation := mgl32.QuatIdent()
			if axis := common.NormalizeOrZero(position); axis != (mgl32.Vec3{}) {
				rotation = mgl32.QuatRotate(angle, axis)
			}
			transforms = append(transforms, common.TransformFromPositionRotation(position, rotation))
		}
	}
	return transforms
}

// LampInstances builds one small cube per point and spot light, tinted with the light color.
// Disabled and directional lights are skipped, and at most MaxDebugInstances are returned.
//
// Parameters:
//   - lights: the scene lights
//
// Returns:
//   - []InstanceRecord: the overlay instances
func LampInstances(lights []light.Light) []InstanceRecord {
	_, point, spot := light.Partition(lights)
	records := make([]InstanceRecord, 0, min(len(point)+len(spot), MaxDebugInstances))
	for _, l := range append(point, spot...) {
		if len(records) == MaxDebugInstances {
			break
		}
		p := l.Position()
		transform := mgl32.Translate3D(p.X(), p.Y(), p.Z()).Mul4(mgl32.Scale3D(LampScale, LampScale, LampScale))
		records = append(records, NewInstanceRecord(transform, common.Vec3W(l.Color(), 1)))
	}
	return records
}
