package common

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Perspective creates a right-handed perspective projection matrix that maps view-space depth
// into the WebGPU clip range [0, 1]. mgl32.Perspective targets the OpenGL [-1, 1] range and
// cannot be used directly with a WebGPU depth attachment.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / math32.Tan(fovY/2.0)

	var m mgl32.Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = far / (near - far)
	m[11] = -1.0
	m[14] = (near * far) / (near - far)
	return m
}

// NearFarFromProjection recovers the near and far plane distances from a matrix produced by
// Perspective. Used to thread the active projection into passes that need linear depth.
//
// Parameters:
//   - proj: a WebGPU-convention perspective projection matrix
//
// Returns:
//   - float32: the near plane distance
//   - float32: the far plane distance
func NearFarFromProjection(proj mgl32.Mat4) (float32, float32) {
	a, b := proj[10], proj[14]
	return b / a, b / (a + 1.0)
}

// LinearizeDepth converts a depth buffer sample into the normalized linear depth shown by the
// depth visualization pass: (2n) / (f + n - d(f - n)).
//
// Parameters:
//   - depth: the raw depth buffer value in [0, 1]
//   - near: the camera near plane
//   - far: the camera far plane
//
// Returns:
//   - float32: the linearized depth
func LinearizeDepth(depth, near, far float32) float32 {
	return (2.0 * near) / (2.0*near + (1.0-depth)*(far-near))
}

// TransformFromPositionRotation builds a translation * rotation transform.
//
// Parameters:
//   - position: world-space translation
//   - rotation: orientation quaternion
//
// Returns:
//   - mgl32.Mat4: the column-major transform
func TransformFromPositionRotation(position mgl32.Vec3, rotation mgl32.Quat) mgl32.Mat4 {
	return mgl32.Translate3D(position.X(), position.Y(), position.Z()).Mul4(rotation.Mat4())
}

// TransformFromScaleRotationTranslation builds translation * rotation * scale.
//
// Parameters:
//   - scale: per-axis scale
//   - rotation: orientation quaternion
//   - position: world-space translation
//
// Returns:
//   - mgl32.Mat4: the column-major transform
func TransformFromScaleRotationTranslation(scale mgl32.Vec3, rotation mgl32.Quat, position mgl32.Vec3) mgl32.Mat4 {
	return TransformFromPositionRotation(position, rotation).Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
}

// Translation returns the translation column of a transform.
func Translation(m mgl32.Mat4) mgl32.Vec3 {
	return m.Col(3).Vec3()
}

// RotateAroundPivot returns the point at the given angle on a circle of radius around pivot.
//
// Parameters:
//   - pivot: circle center
//   - radius: circle radius
//   - angle: angle in radians
//
// Returns:
//   - mgl32.Vec2: the point on the circle
func RotateAroundPivot(pivot mgl32.Vec2, radius, angle float32) mgl32.Vec2 {
	return mgl32.Vec2{pivot.X() + radius*math32.Cos(angle), pivot.Y() + radius*math32.Sin(angle)}
}

// NormalizeOrZero normalizes v, returning the zero vector when v has no length.
func NormalizeOrZero(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l == 0 {
		return mgl32.Vec3{}
	}
	return v.Mul(1.0 / l)
}
