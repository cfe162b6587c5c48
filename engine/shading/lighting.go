// Package shading is the CPU reference of the lit fragment shader. Every function here has a WGSL
// twin in assets/lighting.wgsl with the same name and argument order, so properties of the
// light model can be tested without a GPU.
package shading

import (
	_ "embed"

	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/Carmen-Shannon/oxy-forward/engine/light"
	"github.com/go-gl/mathgl/mgl32"
)

// LightingSource is the WGSL lighting library included by the lit shader.
//
//go:embed assets/lighting.wgsl
var LightingSource string

// ColorSource holds the WGSL sRGB helpers, the twins of common.LinearToSRGB, common.SRGBToLinear
// and common.EncodeOutput.
//
//go:embed assets/color.wgsl
var ColorSource string

// AttenuationEpsilon bounds the attenuation denominator away from zero.
const AttenuationEpsilon float32 = 1e-4

// Material is the unpacked material seen by the light model.
type Material struct {
	Ambient   mgl32.Vec3
	Diffuse   mgl32.Vec3
	Specular  mgl32.Vec3
	Shininess float32
	Emissive  mgl32.Vec3
}

// DirectionalLight is an unpacked directional light. Direction points from the surface toward the light.
type DirectionalLight struct {
	Direction mgl32.Vec3
	Color     mgl32.Vec3
	Ambient   float32
	Diffuse   float32
	Specular  float32
}

// PointLight is an unpacked point light.
type PointLight struct {
	Position    mgl32.Vec3
	Color       mgl32.Vec3
	Ambient     float32
	Diffuse     float32
	Specular    float32
	Attenuation light.Attenuation
}

// SpotLight is an unpacked spot light. Direction is the direction the light travels.
type SpotLight struct {
	PointLight
	Direction mgl32.Vec3
	CosInner  float32
	CosOuter  float32
}

// Fragment is the surface sample being shaded, all in world space.
type Fragment struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Eye      mgl32.Vec3
}

// UnpackDirectional negates the stored light-to-surface direction and reads ambient and specular
// back out of the alpha channels. Diffuse contribution is always 1.
func UnpackDirectional(p light.PackedDirectionalLight) DirectionalLight {
	return DirectionalLight{
		Direction: p.Direction.Vec3().Mul(-1),
		Color:     p.Color.Vec3(),
		Ambient:   p.Direction[3],
		Diffuse:   1,
		Specular:  p.Color[3],
	}
}

// UnpackPoint reads a point light record.
func UnpackPoint(p light.PackedPointLight) PointLight {
	return PointLight{
		Position: p.Position.Vec3(),
		Color:    p.Color.Vec3(),
		Ambient:  p.Position[3],
		Diffuse:  1,
		Specular: p.Color[3],
		Attenuation: light.Attenuation{
			Constant:  p.Attenuation[0],
			Linear:    p.Attenuation[1],
			Quadratic: p.Attenuation[2],
		},
	}
}

// UnpackSpot reads a spot light record.
func UnpackSpot(p light.PackedSpotLight) SpotLight {
	return SpotLight{
		PointLight: PointLight{
			Position: p.Position.Vec3(),
			Color:    p.Color.Vec3(),
			Ambient:  p.Direction[3],
			Diffuse:  1,
			Specular: p.Color[3],
			Attenuation: light.Attenuation{
				Constant:  p.Attenuation[0],
				Linear:    p.Attenuation[1],
				Quadratic: p.Attenuation[2],
			},
		},
		Direction: p.Direction.Vec3(),
		CosInner:  p.Position[3],
		CosOuter:  p.Attenuation[3],
	}
}

// AttenuationFactor returns 1 / (c + l*d + q*d*d) with the denominator clamped to AttenuationEpsilon.
//
// Parameters:
//   - a: the falloff terms
//   - distance: the distance from the light to the surface
//
// Returns:
//   - float32: the attenuation factor
func AttenuationFactor(a light.Attenuation, distance float32) float32 {
	return 1 / max(a.Constant+a.Linear*distance+a.Quadratic*distance*distance, AttenuationEpsilon)
}

// SpotIntensity returns the cone falloff for the cosine of the angle between the spot direction
// and the light-to-surface vector. It is 1 inside the inner cone, 0 outside the outer cone and
// linear in between. A degenerate cone (inner equal to outer) is a hard step at the cutoff.
//
// Parameters:
//   - cosTheta: cosine of the angle off the spot axis
//   - cosInner: cosine of the inner cutoff
//   - cosOuter: cosine of the outer cutoff
//
// Returns:
//   - float32: the intensity in [0, 1]
func SpotIntensity(cosTheta, cosInner, cosOuter float32) float32 {
	epsilon := cosInner - cosOuter
	if epsilon <= 0 {
		if cosTheta >= cosInner {
			return 1
		}
		return 0
	}
	return mgl32.Clamp((cosTheta-cosOuter)/epsilon, 0, 1)
}

// Contribution evaluates the light for one fragment.
//
// Parameters:
//   - m: the surface material
//   - normal: normalized surface normal
//   - viewDir: normalized surface-to-eye direction
//   - model: the specular formulation
//
// Returns:
//   - mgl32.Vec3: the linear color contribution
func (l DirectionalLight) Contribution(m Material, normal, viewDir mgl32.Vec3, model SpecularModel) mgl32.Vec3 {
	return phong(common.NormalizeOrZero(l.Direction), l.Color, l.Ambient, l.Diffuse, l.Specular, m, normal, viewDir, model)
}

// Contribution evaluates the light for one fragment, scaled by distance attenuation.
//
// Parameters:
//   - m: the surface material
//   - position: world-space fragment position
//   - normal: normalized surface normal
//   - viewDir: normalized surface-to-eye direction
//   - model: the specular formulation
//
// Returns:
//   - mgl32.Vec3: the linear color contribution
func (l PointLight) Contribution(m Material, position, normal, viewDir mgl32.Vec3, model SpecularModel) mgl32.Vec3 {
	toLight := l.Position.Sub(position)
	distance := toLight.Len()
	lightDir := mgl32.Vec3{}
	if distance > 0 {
		lightDir = toLight.Mul(1 / distance)
	}
	c := phong(lightDir, l.Color, l.Ambient, l.Diffuse, l.Specular, m, normal, viewDir, model)
	return c.Mul(AttenuationFactor(l.Attenuation, distance))
}

// Contribution evaluates the spot light as a point light whose diffuse and specular terms are
// scaled by the cone intensity. Ambient is not scaled.
//
// Parameters:
//   - m: the surface material
//   - position: world-space fragment position
//   - normal: normalized surface normal
//   - viewDir: normalized surface-to-eye direction
//   - model: the specular formulation
//
// Returns:
//   - mgl32.Vec3: the linear color contribution
func (l SpotLight) Contribution(m Material, position, normal, viewDir mgl32.Vec3, model SpecularModel) mgl32.Vec3 {
	toSurface := position.Sub(l.Position)
	cosTheta := float32(0)
	if toSurface.Len() > 0 {
		cosTheta = toSurface.Normalize().Dot(common.NormalizeOrZero(l.Direction))
	}
	intensity := SpotIntensity(cosTheta, l.CosInner, l.CosOuter)

	p := l.PointLight
	p.Diffuse *= intensity
	p.Specular *= intensity
	return p.Contribution(m, position, normal, viewDir, model)
}

// Lights is the packed light set visible to one draw. Counts beyond the array lengths are
// clamped so unused slots are never read.
type Lights struct {
	Directional      []light.PackedDirectionalLight
	DirectionalCount uint32
	Point            []light.PackedPointLight
	PointCount       uint32
	Spot             []light.PackedSpotLight
	SpotCount        uint32
}

// Shade computes the lit linear color of a fragment: emissive once plus the sum of every active
// light's contribution.
//
// Parameters:
//   - frag: the world-space fragment
//   - m: the surface material
//   - lights: the packed lights with their active counts
//   - model: the specular formulation
//
// Returns:
//   - mgl32.Vec3: the linear color before output encoding
func Shade(frag Fragment, m Material, lights Lights, model SpecularModel) mgl32.Vec3 {
	normal := common.NormalizeOrZero(frag.Normal)
	viewDir := mgl32.Vec3{}
	if toEye := frag.Eye.Sub(frag.Position); toEye.Len() > 0 {
		viewDir = toEye.Normalize()
	}

	color := m.Emissive
	for i := range activeCount(lights.DirectionalCount, len(lights.Directional)) {
		color = color.Add(UnpackDirectional(lights.Directional[i]).Contribution(m, normal, viewDir, model))
	}
	for i := range activeCount(lights.PointCount, len(lights.Point)) {
		color = color.Add(UnpackPoint(lights.Point[i]).Contribution(m, frag.Position, normal, viewDir, model))
	}
	for i := range activeCount(lights.SpotCount, len(lights.Spot)) {
		color = color.Add(UnpackSpot(lights.Spot[i]).Contribution(m, frag.Position, normal, viewDir, model))
	}
	return color
}

func activeCount(count uint32, length int) int {
	return min(int(count), length)
}

// phong combines the three terms for a single normalized surface-to-light direction.
func phong(lightDir, color mgl32.Vec3, ambient, diffuse, specular float32, m Material, normal, viewDir mgl32.Vec3, model SpecularModel) mgl32.Vec3 {
	a := mulElem(color, m.Ambient).Mul(ambient)
	d := mulElem(color, m.Diffuse).Mul(diffuse * max(normal.Dot(lightDir), 0))
	s := mulElem(color, m.Specular).Mul(specular * model.Factor(normal, lightDir, viewDir, m.Shininess))
	return a.Add(d).Add(s)
}

func mulElem(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}
