package light

import "github.com/go-gl/mathgl/mgl32"

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeDirectional represents a light with no position, only direction.
	// Used for large distant sources like the sun. No distance attenuation.
	LightTypeDirectional LightType = iota

	// LightTypePoint represents a light that emits in all directions from a position
	// and attenuates with distance.
	LightTypePoint

	// LightTypeSpot represents a light that emits in a cone from a position along a direction.
	// Attenuates with distance and with angle between the inner and outer cutoff.
	LightTypeSpot
)

// String returns a short name for the light type, used in log attributes.
func (t LightType) String() string {
	switch t {
	case LightTypeDirectional:
		return "directional"
	case LightTypePoint:
		return "point"
	case LightTypeSpot:
		return "spot"
	default:
		return "unknown"
	}
}

// Attenuation holds the terms of the inverse attenuation 1 / (constant + linear*d + quadratic*d^2).
type Attenuation struct {
	Constant  float32
	Linear    float32
	Quadratic float32
}

var (
	// DefaultAttenuation is a falloff reaching roughly 50 units.
	DefaultAttenuation = Attenuation{Constant: 1.0, Linear: 0.09, Quadratic: 0.032}

	// NoAttenuation keeps the light at full strength at every distance.
	NoAttenuation = Attenuation{Constant: 1.0}
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	lightType   LightType
	position    mgl32.Vec3
	direction   mgl32.Vec3
	color       mgl32.Vec3
	ambient     float32
	specular    float32
	attenuation Attenuation
	innerCutoff float32 // radians
	outerCutoff float32 // radians
	enabled     bool
}

// Light defines the interface for a light source in the scene.
//
// The scene keeps an unbounded list of lights. The renderer selects and truncates them to the
// fixed GPU budgets each frame and packs them with the gpu_types helpers. Every contribution
// is an explicit field here; packing into alpha channels happens only in gpu_types.go.
type Light interface {
	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type (directional, point, or spot)
	Type() LightType

	// Position returns the world-space position of the light. Unused by directional lights.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// Direction returns the normalized direction the light travels (light to surface).
	// Used by directional and spot lights.
	//
	// Returns:
	//   - mgl32.Vec3: the normalized direction
	Direction() mgl32.Vec3

	// Color returns the linear RGB color of the light.
	//
	// Returns:
	//   - mgl32.Vec3: the color
	Color() mgl32.Vec3

	// Ambient returns the ambient contribution scale.
	//
	// Returns:
	//   - float32: the ambient contribution
	Ambient() float32

	// Specular returns the specular contribution scale. The diffuse contribution is always 1.
	//
	// Returns:
	//   - float32: the specular contribution
	Specular() float32

	// Attenuation returns the distance falloff terms for point and spot lights.
	//
	// Returns:
	//   - Attenuation: the falloff terms
	Attenuation() Attenuation

	// InnerCutoff returns the spot cone angle, in radians, inside which the light is at full intensity.
	//
	// Returns:
	//   - float32: the inner cutoff angle
	InnerCutoff() float32

	// OuterCutoff returns the spot cone angle, in radians, outside which the light contributes nothing.
	//
	// Returns:
	//   - float32: the outer cutoff angle
	OuterCutoff() float32

	// Enabled reports whether the light takes part in rendering.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetPosition moves the light.
	//
	// Parameters:
	//   - position: the new world-space position
	SetPosition(position mgl32.Vec3)

	// SetDirection points the light. The direction is normalized before storing.
	//
	// Parameters:
	//   - direction: the new direction
	SetDirection(direction mgl32.Vec3)

	// SetColor changes the light color.
	//
	// Parameters:
	//   - color: the new linear RGB color
	SetColor(color mgl32.Vec3)

	// SetEnabled toggles the light.
	//
	// Parameters:
	//   - enabled: whether the light takes part in rendering
	SetEnabled(enabled bool)
}

var _ Light = &lightImpl{}

// NewLight creates a new Light of the given type with the provided options.
//
// Defaults: white color, ambient 0, specular 1, DefaultAttenuation, direction (0, -1, 0),
// cutoff 12.5 degrees inner and 17.5 degrees outer, enabled.
//
// Parameters:
//   - lightType: the kind of light (directional, point, or spot)
//   - options: variadic list of LightBuilderOption functions
//
// Returns:
//   - Light: the newly created light
func NewLight(lightType LightType, options ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType:   lightType,
		direction:   mgl32.Vec3{0, -1, 0},
		color:       mgl32.Vec3{1, 1, 1},
		specular:    1.0,
		attenuation: DefaultAttenuation,
		innerCutoff: mgl32.DegToRad(12.5),
		outerCutoff: mgl32.DegToRad(17.5),
		enabled:     true,
	}

	for _, opt := range options {
		opt(l)
	}

	return l
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() mgl32.Vec3 {
	return l.position
}

func (l *lightImpl) Direction() mgl32.Vec3 {
	return l.direction
}

func (l *lightImpl) Color() mgl32.Vec3 {
	return l.color
}

func (l *lightImpl) Ambient() float32 {
	return l.ambient
}

func (l *lightImpl) Specular() float32 {
	return l.specular
}

func (l *lightImpl) Attenuation() Attenuation {
	return l.attenuation
}

func (l *lightImpl) InnerCutoff() float32 {
	return l.innerCutoff
}

func (l *lightImpl) OuterCutoff() float32 {
	return l.outerCutoff
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) SetPosition(position mgl32.Vec3) {
	l.position = position
}

func (l *lightImpl) SetDirection(direction mgl32.Vec3) {
	l.direction = normalize(direction)
}

func (l *lightImpl) SetColor(color mgl32.Vec3) {
	l.color = color
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
}
