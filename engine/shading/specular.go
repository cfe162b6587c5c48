package shading

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// SpecularModelID identifies a specular formulation on the GPU. The value is baked into the lit
// pipeline as the SPECULAR_MODEL constant emitted by the shader pre-processor.
type SpecularModelID uint32

const (
	// SpecularModelBlinnPhong uses the halfway vector between the light and view directions.
	SpecularModelBlinnPhong SpecularModelID = iota
	// SpecularModelPhong reflects the light direction about the normal and compares it with the view direction.
	SpecularModelPhong
)

// SpecularModel is a strategy computing the specular highlight factor of a light.
// Both formulations are kept so pipelines can choose per material.
type SpecularModel interface {
	// ID returns the GPU identifier for the model.
	//
	// Returns:
	//   - SpecularModelID: the identifier
	ID() SpecularModelID

	// Name returns the configuration name of the model.
	//
	// Returns:
	//   - string: "blinn_phong" or "phong"
	Name() string

	// Factor returns the specular factor before color and contribution scaling.
	// The factor is zero when the base dot product is not positive.
	//
	// Parameters:
	//   - normal: normalized surface normal
	//   - lightDir: normalized surface-to-light direction
	//   - viewDir: normalized surface-to-eye direction
	//   - shininess: the material specular exponent
	//
	// Returns:
	//   - float32: the specular factor
	Factor(normal, lightDir, viewDir mgl32.Vec3, shininess float32) float32
}

// BlinnPhong is the halfway-vector specular formulation.
type BlinnPhong struct{}

// Phong is the reflection-vector specular formulation.
type Phong struct{}

var (
	_ SpecularModel = BlinnPhong{}
	_ SpecularModel = Phong{}
)

func (BlinnPhong) ID() SpecularModelID { return SpecularModelBlinnPhong }

func (BlinnPhong) Name() string { return "blinn_phong" }

func (BlinnPhong) Factor(normal, lightDir, viewDir mgl32.Vec3, shininess float32) float32 {
	halfway := lightDir.Add(viewDir)
	if halfway.Len() == 0 {
		return 0
	}
	return specularPow(normal.Dot(halfway.Normalize()), shininess)
}

func (Phong) ID() SpecularModelID { return SpecularModelPhong }

func (Phong) Name() string { return "phong" }

func (Phong) Factor(normal, lightDir, viewDir mgl32.Vec3, shininess float32) float32 {
	return specularPow(viewDir.Dot(reflect(lightDir.Mul(-1), normal)), shininess)
}

// SpecularModelByName resolves a configuration name to a model.
//
// Parameters:
//   - name: "blinn_phong" (or empty) or "phong"
//
// Returns:
//   - SpecularModel: the resolved model
//   - error: an error if the name is unknown
func SpecularModelByName(name string) (SpecularModel, error) {
	switch name {
	case "", BlinnPhong{}.Name():
		return BlinnPhong{}, nil
	case Phong{}.Name():
		return Phong{}, nil
	default:
		return nil, fmt.Errorf("unknown specular model %q", name)
	}
}

// specularPow returns pow(base, shininess), or 0 when base is not positive so that pow(0, 0) never occurs.
func specularPow(base, shininess float32) float32 {
	if base <= 0 {
		return 0
	}
	return math32.Pow(base, shininess)
}

// reflect mirrors the incident vector i about the normal n, matching WGSL reflect.
func reflect(i, n mgl32.Vec3) mgl32.Vec3 {
	return i.Sub(n.Mul(2 * n.Dot(i)))
}
