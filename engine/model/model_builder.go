package model

import (
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithMesh is an option builder that sets the geometry of the Model.
//
// Parameters:
//   - mesh: the packed mesh
//
// Returns:
//   - ModelBuilderOption: a function that applies the mesh option to a model
func WithMesh(mesh Mesh) ModelBuilderOption {
	return func(m *model) {
		m.mesh = mesh
	}
}

// WithMaterials is an option builder that sets the materials referenced by the submeshes.
//
// Parameters:
//   - mats: the materials, indexed by Submesh.MaterialIndex
//
// Returns:
//   - ModelBuilderOption: a function that applies the materials option to a model
func WithMaterials(mats ...material.Material) ModelBuilderOption {
	return func(m *model) {
		m.materials = mats
	}
}

// WithPosition is an option builder that sets the world-space translation.
//
// Parameters:
//   - x, y, z: the position
//
// Returns:
//   - ModelBuilderOption: a function that applies the position option to a model
func WithPosition(x, y, z float32) ModelBuilderOption {
	return func(m *model) {
		m.position = mgl32.Vec3{x, y, z}
	}
}

// WithRotation is an option builder that sets the orientation from an angle around an axis.
// A zero axis leaves the identity rotation.
//
// Parameters:
//   - angle: the rotation in radians
//   - axis: the rotation axis, normalized before use
//
// Returns:
//   - ModelBuilderOption: a function that applies the rotation option to a model
func WithRotation(angle float32, axis mgl32.Vec3) ModelBuilderOption {
	return func(m *model) {
		if axis.Len() == 0 {
			return
		}
		m.rotation = mgl32.QuatRotate(angle, axis.Normalize())
	}
}

// WithScale is an option builder that sets the per-axis scale.
//
// Parameters:
//   - x, y, z: the scale factors
//
// Returns:
//   - ModelBuilderOption: a function that applies the scale option to a model
func WithScale(x, y, z float32) ModelBuilderOption {
	return func(m *model) {
		m.scale = mgl32.Vec3{x, y, z}
	}
}

// WithVisible is an option builder that sets whether the Model is drawn.
func WithVisible(visible bool) ModelBuilderOption {
	return func(m *model) {
		m.visible = visible
	}
}
