package material

import (
	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/Carmen-Shannon/oxy-forward/engine/shading"
	"github.com/go-gl/mathgl/mgl32"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithAmbient is an option builder that sets the constant ambient color.
//
// Parameters:
//   - r, g, b: the linear ambient color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the ambient option to a material
func WithAmbient(r, g, b float32) MaterialBuilderOption {
	return func(m *material) {
		m.ambient = mgl32.Vec3{r, g, b}
	}
}

// WithDiffuse is an option builder that sets the constant diffuse color.
//
// Parameters:
//   - r, g, b: the linear diffuse color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the diffuse option to a material
func WithDiffuse(r, g, b float32) MaterialBuilderOption {
	return func(m *material) {
		m.diffuse = mgl32.Vec3{r, g, b}
	}
}

// WithSpecular is an option builder that sets the constant specular color and exponent.
//
// Parameters:
//   - r, g, b: the linear specular color
//   - shininess: the specular exponent
//
// Returns:
//   - MaterialBuilderOption: a function that applies the specular option to a material
func WithSpecular(r, g, b, shininess float32) MaterialBuilderOption {
	return func(m *material) {
		m.specular = mgl32.Vec3{r, g, b}
		m.shininess = shininess
	}
}

// WithTexture is an option builder that sets the texture for one of the material's maps.
//
// Parameters:
//   - role: which map the texture feeds
//   - tex: the decoded texture
//
// Returns:
//   - MaterialBuilderOption: a function that applies the texture option to a material
func WithTexture(role TextureRole, tex common.TextureStagingData) MaterialBuilderOption {
	return func(m *material) {
		switch role {
		case TextureRoleSpecular:
			m.specularTexture = &tex
		case TextureRoleEmissive:
			m.emissiveTexture = &tex
		default:
			m.diffuseTexture = &tex
		}
	}
}

// WithSampler is an option builder that sets the sampler configuration for all maps.
//
// Parameters:
//   - sampler: the sampler configuration
//
// Returns:
//   - MaterialBuilderOption: a function that applies the sampler option to a material
func WithSampler(sampler common.SamplerStagingData) MaterialBuilderOption {
	return func(m *material) {
		m.sampler = sampler
	}
}

// WithSpecularModel is an option builder that selects the specular formulation.
// A nil model keeps the Blinn-Phong default.
//
// Parameters:
//   - model: the specular model
//
// Returns:
//   - MaterialBuilderOption: a function that applies the specular model option to a material
func WithSpecularModel(model shading.SpecularModel) MaterialBuilderOption {
	return func(m *material) {
		if model != nil {
			m.specularModel = model
		}
	}
}
