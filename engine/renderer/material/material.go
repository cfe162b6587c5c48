package material

import (
	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-forward/engine/shading"
	"github.com/go-gl/mathgl/mgl32"
)

// Group 2 binding indices shared by the lit shader, the layout contract and the renderer.
const (
	BindingConstants = 0
	BindingSampler   = 1
	BindingDiffuse   = 2
	BindingSpecular  = 3
	BindingEmissive  = 4
)

// TextureRole identifies which map of a material a texture feeds.
type TextureRole int

const (
	TextureRoleDiffuse TextureRole = iota
	TextureRoleSpecular
	TextureRoleEmissive
)

// Binding returns the group 2 binding index of the role.
func (r TextureRole) Binding() int {
	switch r {
	case TextureRoleSpecular:
		return BindingSpecular
	case TextureRoleEmissive:
		return BindingEmissive
	default:
		return BindingDiffuse
	}
}

// material is the implementation of the Material interface.
type material struct {
	name      string
	ambient   mgl32.Vec3
	diffuse   mgl32.Vec3
	specular  mgl32.Vec3
	shininess float32

	diffuseTexture  *common.TextureStagingData
	specularTexture *common.TextureStagingData
	emissiveTexture *common.TextureStagingData
	sampler         common.SamplerStagingData

	specularModel     shading.SpecularModel
	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Material defines the interface for a submesh surface: constant colors, optional texture maps,
// the specular formulation and the GPU resources bound at group 2.
//
// Surface properties are fixed at construction. The bind group provider is set by the renderer
// the first time the material is drawn.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Ambient retrieves the constant ambient color.
	//
	// Returns:
	//   - mgl32.Vec3: the linear rgb ambient color
	Ambient() mgl32.Vec3

	// Diffuse retrieves the constant diffuse color.
	//
	// Returns:
	//   - mgl32.Vec3: the linear rgb diffuse color
	Diffuse() mgl32.Vec3

	// Specular retrieves the constant specular color.
	//
	// Returns:
	//   - mgl32.Vec3: the linear rgb specular color
	Specular() mgl32.Vec3

	// Shininess retrieves the specular exponent.
	//
	// Returns:
	//   - float32: the shininess
	Shininess() float32

	// Texture retrieves the texture for a role, substituting the sentinel texture when the
	// material has none: white for diffuse, black for specular and emissive.
	//
	// Parameters:
	//   - role: the texture role
	//
	// Returns:
	//   - common.TextureStagingData: the texture to upload
	Texture(role TextureRole) common.TextureStagingData

	// HasTexture reports whether the material supplied its own texture for a role.
	//
	// Parameters:
	//   - role: the texture role
	//
	// Returns:
	//   - bool: true if a texture was provided
	HasTexture(role TextureRole) bool

	// Sampler retrieves the sampler configuration shared by all maps.
	//
	// Returns:
	//   - common.SamplerStagingData: the sampler configuration
	Sampler() common.SamplerStagingData

	// SpecularModel retrieves the specular formulation the material is lit with.
	//
	// Returns:
	//   - shading.SpecularModel: the specular model
	SpecularModel() shading.SpecularModel

	// BindGroupProvider retrieves the provider holding the material's GPU resources.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the provider, or nil if not yet initialized
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// SetBindGroupProvider sets the provider holding the material's GPU resources.
	//
	// Parameters:
	//   - provider: the bind group provider
	SetBindGroupProvider(provider bind_group_provider.BindGroupProvider)
}

var _ Material = &material{}

// NewMaterial creates a new Material configured with the provided options.
// Defaults: ambient and diffuse white, specular black, shininess 0, Blinn-Phong.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		ambient:       mgl32.Vec3{1, 1, 1},
		diffuse:       mgl32.Vec3{1, 1, 1},
		specularModel: shading.BlinnPhong{},
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Ambient() mgl32.Vec3 {
	return m.ambient
}

func (m *material) Diffuse() mgl32.Vec3 {
	return m.diffuse
}

func (m *material) Specular() mgl32.Vec3 {
	return m.specular
}

func (m *material) Shininess() float32 {
	return m.shininess
}

func (m *material) Texture(role TextureRole) common.TextureStagingData {
	if tex := m.texture(role); tex != nil {
		return *tex
	}
	if role == TextureRoleDiffuse {
		return common.WhiteTexture()
	}
	return common.BlackTexture()
}

func (m *material) HasTexture(role TextureRole) bool {
	return m.texture(role) != nil
}

func (m *material) Sampler() common.SamplerStagingData {
	return m.sampler
}

func (m *material) SpecularModel() shading.SpecularModel {
	return m.specularModel
}

func (m *material) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return m.bindGroupProvider
}

func (m *material) SetBindGroupProvider(provider bind_group_provider.BindGroupProvider) {
	m.bindGroupProvider = provider
}

func (m *material) texture(role TextureRole) *common.TextureStagingData {
	switch role {
	case TextureRoleSpecular:
		return m.specularTexture
	case TextureRoleEmissive:
		return m.emissiveTexture
	default:
		return m.diffuseTexture
	}
}
