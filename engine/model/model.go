package model

import (
	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// model is the implementation of the Model interface.
type model struct {
	name      string
	mesh      Mesh
	materials []material.Material
	fallback  material.Material
	position  mgl32.Vec3
	rotation  mgl32.Quat
	scale     mgl32.Vec3
	visible   bool

	meshProvider    bind_group_provider.BindGroupProvider
	uniformProvider bind_group_provider.BindGroupProvider
}

// Model defines the interface for a drawable object in the scene: a mesh, the materials its
// submeshes reference and a local-to-world transform. GPU resources are attached lazily by the
// renderer through the provider setters.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Mesh retrieves the CPU-side geometry.
	//
	// Returns:
	//   - Mesh: the mesh
	Mesh() Mesh

	// Materials retrieves the materials referenced by the mesh's submeshes.
	//
	// Returns:
	//   - []material.Material: the materials
	Materials() []material.Material

	// Material returns the material at index, falling back to a default material when the index
	// is out of range.
	//
	// Parameters:
	//   - index: the submesh material index
	//
	// Returns:
	//   - material.Material: the material
	Material(index int) material.Material

	// Transform returns the local-to-world matrix, translation * rotation * scale.
	//
	// Returns:
	//   - mgl32.Mat4: the local-to-world transform
	Transform() mgl32.Mat4

	// Position returns the world-space translation.
	Position() mgl32.Vec3

	// SetPosition moves the model.
	SetPosition(position mgl32.Vec3)

	// Rotation returns the orientation.
	Rotation() mgl32.Quat

	// SetRotation changes the orientation.
	SetRotation(rotation mgl32.Quat)

	// Scale returns the per-axis scale.
	Scale() mgl32.Vec3

	// SetScale changes the per-axis scale.
	SetScale(scale mgl32.Vec3)

	// Visible reports whether the model is drawn.
	Visible() bool

	// SetVisible shows or hides the model.
	SetVisible(visible bool)

	// MeshProvider retrieves the BindGroupProvider holding the vertex and index buffers.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the mesh provider, or nil before upload
	MeshProvider() bind_group_provider.BindGroupProvider

	// SetMeshProvider attaches the uploaded mesh buffers.
	//
	// Parameters:
	//   - provider: the mesh provider
	SetMeshProvider(provider bind_group_provider.BindGroupProvider)

	// UniformProvider retrieves the BindGroupProvider holding the per-model uniform block.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the group 1 provider, or nil before upload
	UniformProvider() bind_group_provider.BindGroupProvider

	// SetUniformProvider attaches the per-model uniform bind group.
	//
	// Parameters:
	//   - provider: the group 1 provider
	SetUniformProvider(provider bind_group_provider.BindGroupProvider)

	// Release frees the model's GPU resources. Materials are not released; they may be shared.
	Release()
}

var _ Model = &model{}

// NewModel creates a new Model with the provided options. Defaults: the unit cube mesh, identity
// transform, visible.
//
// Parameters:
//   - options: variadic list of ModelBuilderOption functions
//
// Returns:
//   - Model: the newly created model
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{
		mesh:     Cube(),
		rotation: mgl32.QuatIdent(),
		scale:    mgl32.Vec3{1, 1, 1},
		visible:  true,
	}

	for _, opt := range options {
		opt(m)
	}

	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Mesh() Mesh {
	return m.mesh
}

func (m *model) Materials() []material.Material {
	return m.materials
}

func (m *model) Material(index int) material.Material {
	if index >= 0 && index < len(m.materials) && m.materials[index] != nil {
		return m.materials[index]
	}
	if m.fallback == nil {
		m.fallback = material.NewMaterial(material.WithName(m.name + " default"))
	}
	return m.fallback
}

func (m *model) Transform() mgl32.Mat4 {
	return common.TransformFromScaleRotationTranslation(m.scale, m.rotation, m.position)
}

func (m *model) Position() mgl32.Vec3 {
	return m.position
}

func (m *model) SetPosition(position mgl32.Vec3) {
	m.position = position
}

func (m *model) Rotation() mgl32.Quat {
	return m.rotation
}

func (m *model) SetRotation(rotation mgl32.Quat) {
	m.rotation = rotation
}

func (m *model) Scale() mgl32.Vec3 {
	return m.scale
}

func (m *model) SetScale(scale mgl32.Vec3) {
	m.scale = scale
}

func (m *model) Visible() bool {
	return m.visible
}

func (m *model) SetVisible(visible bool) {
	m.visible = visible
}

func (m *model) MeshProvider() bind_group_provider.BindGroupProvider {
	return m.meshProvider
}

func (m *model) SetMeshProvider(provider bind_group_provider.BindGroupProvider) {
	m.meshProvider = provider
}

func (m *model) UniformProvider() bind_group_provider.BindGroupProvider {
	return m.uniformProvider
}

func (m *model) SetUniformProvider(provider bind_group_provider.BindGroupProvider) {
	m.uniformProvider = provider
}

func (m *model) Release() {
	if m.meshProvider != nil {
		m.meshProvider.Release()
		m.meshProvider = nil
	}
	if m.uniformProvider != nil {
		m.uniformProvider.Release()
		m.uniformProvider = nil
	}
}
