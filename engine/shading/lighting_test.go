package shading

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-forward/engine/light"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertVec3InDelta(t *testing.T, expected, actual mgl32.Vec3, delta float64) {
	t.Helper()
	for i := range 3 {
		assert.InDelta(t, expected[i], actual[i], delta, "component %d", i)
	}
}

func TestDirectionalDiffuseOnly(t *testing.T) {
	m := Material{Diffuse: mgl32.Vec3{0.5, 0.6, 0.7}}
	sun := light.PackedDirectionalLight{
		Direction: mgl32.Vec4{0, -1, 0, 0},
		Color:     mgl32.Vec4{1, 0.5, 0.25, 0},
	}
	lights := Lights{Directional: []light.PackedDirectionalLight{sun}, DirectionalCount: 1}

	cases := []struct {
		name   string
		normal mgl32.Vec3
		nDotL  float32
	}{
		{"facing", mgl32.Vec3{0, 1, 0}, 1},
		{"tilted", mgl32.Vec3{0, 1, 1}, math32.Sqrt(0.5)},
		{"grazing", mgl32.Vec3{1, 0, 0}, 0},
		{"facing away", mgl32.Vec3{0, -1, 0}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			frag := Fragment{Normal: tc.normal, Eye: mgl32.Vec3{0, 0, 5}}
			got := Shade(frag, m, lights, BlinnPhong{})
			want := mgl32.Vec3{1 * 0.5, 0.5 * 0.6, 0.25 * 0.7}.Mul(tc.nDotL)
			assertVec3InDelta(t, want, got, 1e-6)
		})
	}
}

func TestUnpackDirectionalNegatesDirection(t *testing.T) {
	l := UnpackDirectional(light.PackedDirectionalLight{
		Direction: mgl32.Vec4{0, -1, 0, 0.01},
		Color:     mgl32.Vec4{0.3, 0.3, 0.3, 0.5},
	})
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, l.Direction)
	assert.Equal(t, float32(0.01), l.Ambient)
	assert.Equal(t, float32(1), l.Diffuse)
	assert.Equal(t, float32(0.5), l.Specular)
}

func TestUnpackRoundTripsPackedChannels(t *testing.T) {
	spot := light.NewLight(light.LightTypeSpot,
		light.WithPosition(1, 2, 3),
		light.WithDirection(0, 0, -1),
		light.WithAmbient(0.2),
		light.WithSpecular(0.7),
		light.WithAttenuation(1, 0.5, 0.25),
		light.WithCutoff(10, 20),
	)
	s := UnpackSpot(light.PackSpot(spot))
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, s.Position)
	assert.Equal(t, mgl32.Vec3{0, 0, -1}, s.Direction)
	assert.Equal(t, float32(0.2), s.Ambient)
	assert.Equal(t, float32(0.7), s.Specular)
	assert.Equal(t, light.Attenuation{Constant: 1, Linear: 0.5, Quadratic: 0.25}, s.Attenuation)
	assert.InDelta(t, math32.Cos(mgl32.DegToRad(10)), s.CosInner, 1e-6)
	assert.InDelta(t, math32.Cos(mgl32.DegToRad(20)), s.CosOuter, 1e-6)

	point := light.NewLight(light.LightTypePoint, light.WithPosition(4, 5, 6), light.WithAmbient(0.1))
	p := UnpackPoint(light.PackPoint(point))
	assert.Equal(t, mgl32.Vec3{4, 5, 6}, p.Position)
	assert.Equal(t, float32(0.1), p.Ambient)
	assert.Equal(t, light.DefaultAttenuation, p.Attenuation)
}

func TestAttenuationConstantOnlyIsOne(t *testing.T) {
	for _, d := range []float32{0, 0.5, 1, 3, 100, 1e4} {
		assert.Equal(t, float32(1), AttenuationFactor(light.NoAttenuation, d), "distance %v", d)
	}
}

func TestAttenuationClampsDenominator(t *testing.T) {
	f := AttenuationFactor(light.Attenuation{}, 0)
	assert.False(t, math32.IsInf(f, 0))
	assert.Equal(t, 1/AttenuationEpsilon, f)
}

func TestSpotIntensity(t *testing.T) {
	cosInner := math32.Cos(mgl32.DegToRad(12.5))
	cosOuter := math32.Cos(mgl32.DegToRad(17.5))

	assert.Equal(t, float32(1), SpotIntensity(cosInner, cosInner, cosOuter))
	assert.Equal(t, float32(0), SpotIntensity(cosOuter, cosInner, cosOuter))
	assert.Equal(t, float32(1), SpotIntensity(1, cosInner, cosOuter))
	assert.Equal(t, float32(0), SpotIntensity(0, cosInner, cosOuter))

	for _, frac := range []float32{0.25, 0.5, 0.75} {
		cosTheta := cosOuter + frac*(cosInner-cosOuter)
		assert.InDelta(t, frac, SpotIntensity(cosTheta, cosInner, cosOuter), 1e-4)
	}
}

func TestSpotIntensityDegenerateCone(t *testing.T) {
	c := math32.Cos(mgl32.DegToRad(15))
	assert.Equal(t, float32(1), SpotIntensity(c, c, c))
	assert.Equal(t, float32(1), SpotIntensity(1, c, c))
	assert.Equal(t, float32(0), SpotIntensity(c-0.01, c, c))
}

func TestSpotOutsideConeKeepsOnlyAmbient(t *testing.T) {
	m := Material{Ambient: mgl32.Vec3{1, 1, 1}, Diffuse: mgl32.Vec3{1, 1, 1}, Specular: mgl32.Vec3{1, 1, 1}, Shininess: 32}
	spot := light.PackSpot(light.NewLight(light.LightTypeSpot,
		light.WithPosition(0, 1, 0),
		light.WithDirection(0, -1, 0),
		light.WithAmbient(0.1),
		light.WithAttenuation(1, 0, 0),
	))
	lights := Lights{Spot: []light.PackedSpotLight{spot}, SpotCount: 1}

	// far outside the 17.5 degree cone, but still above the surface
	frag := Fragment{Position: mgl32.Vec3{5, 0, 0}, Normal: mgl32.Vec3{0, 1, 0}, Eye: mgl32.Vec3{0, 5, 0}}
	got := Shade(frag, m, lights, BlinnPhong{})
	assertVec3InDelta(t, mgl32.Vec3{0.1, 0.1, 0.1}, got, 1e-6)

	// directly below the light, inside the cone
	frag.Position = mgl32.Vec3{}
	lit := Shade(frag, m, lights, BlinnPhong{})
	assert.Greater(t, lit[0], float32(1))
}

func TestEmissiveAddedOnce(t *testing.T) {
	m := Material{
		Ambient:  mgl32.Vec3{1, 1, 1},
		Diffuse:  mgl32.Vec3{1, 1, 1},
		Emissive: mgl32.Vec3{0.1, 0.2, 0.3},
	}
	frag := Fragment{Normal: mgl32.Vec3{0, 1, 0}, Eye: mgl32.Vec3{0, 5, 0}}

	assertVec3InDelta(t, m.Emissive, Shade(frag, m, Lights{}, BlinnPhong{}), 0)

	sun := light.PackedDirectionalLight{Direction: mgl32.Vec4{0, -1, 0, 0.5}, Color: mgl32.Vec4{1, 1, 1, 0}}
	lamp := light.PackPoint(light.NewLight(light.LightTypePoint, light.WithPosition(0, 2, 0)))
	lights := Lights{
		Directional:      []light.PackedDirectionalLight{sun, sun},
		DirectionalCount: 2,
		Point:            []light.PackedPointLight{lamp},
		PointCount:       1,
	}

	viewDir := mgl32.Vec3{0, 1, 0}
	sum := UnpackDirectional(sun).Contribution(m, frag.Normal, viewDir, BlinnPhong{}).Mul(2).
		Add(UnpackPoint(lamp).Contribution(m, frag.Position, frag.Normal, viewDir, BlinnPhong{}))
	assertVec3InDelta(t, sum.Add(m.Emissive), Shade(frag, m, lights, BlinnPhong{}), 1e-5)
}

func TestShadeStopsAtCount(t *testing.T) {
	m := Material{Diffuse: mgl32.Vec3{1, 1, 1}}
	frag := Fragment{Normal: mgl32.Vec3{0, 1, 0}, Eye: mgl32.Vec3{0, 5, 0}}
	sun := light.PackedDirectionalLight{Direction: mgl32.Vec4{0, -1, 0, 0}, Color: mgl32.Vec4{0.1, 0.1, 0.1, 0}}
	bright := light.PackedDirectionalLight{Direction: mgl32.Vec4{0, -1, 0, 0}, Color: mgl32.Vec4{100, 100, 100, 0}}

	lights := Lights{
		Directional:      []light.PackedDirectionalLight{sun, sun, bright},
		DirectionalCount: 2,
	}
	assertVec3InDelta(t, mgl32.Vec3{0.2, 0.2, 0.2}, Shade(frag, m, lights, BlinnPhong{}), 1e-6)

	lights.DirectionalCount = 7
	require.NotPanics(t, func() { Shade(frag, m, lights, BlinnPhong{}) })
}

func TestSpecularModelsAgreeAtMirrorDirection(t *testing.T) {
	normal := mgl32.Vec3{0, 1, 0}
	lightDir := mgl32.Vec3{1, 1, 0}.Normalize()
	viewDir := mgl32.Vec3{-1, 1, 0}.Normalize()

	assert.InDelta(t, 1, BlinnPhong{}.Factor(normal, lightDir, viewDir, 32), 1e-5)
	assert.InDelta(t, 1, Phong{}.Factor(normal, lightDir, viewDir, 32), 1e-5)

	overhead := mgl32.Vec3{0, 1, 0}
	blinn := BlinnPhong{}.Factor(normal, lightDir, overhead, 32)
	phong := Phong{}.Factor(normal, lightDir, overhead, 32)
	assert.Greater(t, blinn, phong)
}

func TestSpecularZeroWhenBaseNotPositive(t *testing.T) {
	normal := mgl32.Vec3{0, 1, 0}
	below := mgl32.Vec3{0, -1, 0}
	viewDir := mgl32.Vec3{0, 1, 0}

	assert.Equal(t, float32(0), Phong{}.Factor(normal, below, viewDir, 0))
	assert.Equal(t, float32(0), BlinnPhong{}.Factor(normal, below, viewDir, 0))
}

func TestSpecularModelByName(t *testing.T) {
	m, err := SpecularModelByName("")
	require.NoError(t, err)
	assert.Equal(t, SpecularModelBlinnPhong, m.ID())

	m, err = SpecularModelByName("phong")
	require.NoError(t, err)
	assert.Equal(t, SpecularModelPhong, m.ID())

	_, err = SpecularModelByName("cook_torrance")
	assert.Error(t, err)
}

func TestZeroDirectionStaysFinite(t *testing.T) {
	m := Material{Ambient: mgl32.Vec3{1, 1, 1}, Diffuse: mgl32.Vec3{1, 1, 1}, Specular: mgl32.Vec3{1, 1, 1}, Shininess: 32}
	normal := mgl32.Vec3{0, 1, 0}
	viewDir := mgl32.Vec3{0, 1, 0}

	directional := DirectionalLight{Color: mgl32.Vec3{1, 1, 1}, Ambient: 0.1, Diffuse: 1, Specular: 1}
	spot := SpotLight{
		PointLight: PointLight{
			Position:    mgl32.Vec3{0, 1, 0},
			Color:       mgl32.Vec3{1, 1, 1},
			Ambient:     0.1,
			Diffuse:     1,
			Specular:    1,
			Attenuation: light.Attenuation{Constant: 1},
		},
		CosInner: 0.95,
		CosOuter: 0.9,
	}

	for _, model := range []SpecularModel{BlinnPhong{}, Phong{}} {
		for _, c := range []mgl32.Vec3{
			directional.Contribution(m, normal, viewDir, model),
			spot.Contribution(m, mgl32.Vec3{}, normal, viewDir, model),
		} {
			for i := range 3 {
				assert.False(t, math32.IsNaN(c[i]), "component %d of %s", i, model.Name())
				assert.False(t, math32.IsInf(c[i], 0), "component %d of %s", i, model.Name())
			}
		}
	}

	// no direction means no diffuse term and, with a reflection-based highlight, no specular
	assertVec3InDelta(t, mgl32.Vec3{0.1, 0.1, 0.1}, directional.Contribution(m, normal, viewDir, Phong{}), 1e-6)
	assertVec3InDelta(t, mgl32.Vec3{0.1, 0.1, 0.1}, spot.Contribution(m, mgl32.Vec3{}, normal, viewDir, Phong{}), 1e-6)
}

func TestShadeZeroNormalStaysFinite(t *testing.T) {
	m := Material{Ambient: mgl32.Vec3{1, 1, 1}, Diffuse: mgl32.Vec3{1, 1, 1}, Specular: mgl32.Vec3{1, 1, 1}, Shininess: 32}
	dir := light.PackDirectional(light.NewLight(light.LightTypeDirectional, light.WithDirection(0, -1, 0), light.WithAmbient(0.1)))
	lights := Lights{Directional: []light.PackedDirectionalLight{dir}, DirectionalCount: 1}

	got := Shade(Fragment{Eye: mgl32.Vec3{0, 5, 0}}, m, lights, BlinnPhong{})
	for i := range 3 {
		assert.False(t, math32.IsNaN(got[i]), "component %d", i)
	}
}
