package scene

import (
	"sync/atomic"
	"testing"

	"github.com/Carmen-Shannon/oxy-forward/engine/camera"
	"github.com/Carmen-Shannon/oxy-forward/engine/light"
	"github.com/Carmen-Shannon/oxy-forward/engine/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSceneDefaults(t *testing.T) {
	s := NewScene("empty")

	assert.Equal(t, "empty", s.Name())
	assert.True(t, s.Active())
	require.NotNil(t, s.Camera())
	assert.Empty(t, s.Models())
	assert.Empty(t, s.Lights())
	assert.False(t, s.Debug().VisualizeDepth)
}

func TestSceneOptions(t *testing.T) {
	cam := camera.NewCamera(camera.WithEye(1.5, 1, 5))
	cube := model.NewModel(model.WithName("cube"))
	sun := light.NewLight(light.LightTypeDirectional)

	s := NewScene("lit",
		WithActive(false),
		WithCamera(cam),
		WithModels(cube, nil),
		WithLights(sun, nil),
		WithDebugState(DebugState{VisualizeDepth: true}),
	)

	assert.False(t, s.Active())
	assert.Same(t, cam, s.Camera())
	assert.Equal(t, []model.Model{cube}, s.Models())
	assert.Equal(t, []light.Light{sun}, s.Lights())
	assert.True(t, s.Debug().VisualizeDepth)
}

func TestSceneMutation(t *testing.T) {
	s := NewScene("mutable")
	a := model.NewModel(model.WithName("a"))
	b := model.NewModel(model.WithName("b"))
	lamp := light.NewLight(light.LightTypePoint)

	s.AddModels(a, b)
	s.AddLights(lamp)

	assert.True(t, s.RemoveModel(a))
	assert.False(t, s.RemoveModel(a))
	assert.Equal(t, []model.Model{b}, s.Models())

	assert.True(t, s.RemoveLight(lamp))
	assert.Empty(t, s.Lights())

	s.Advance(0.5)
	s.Advance(0.25)
	assert.InDelta(t, 0.75, s.Time(), 1e-6)

	assert.True(t, s.ToggleDepthVisualization())
	assert.False(t, s.ToggleDepthVisualization())
}

func TestSnapshotsAreIndependent(t *testing.T) {
	s := NewScene("snapshot", WithLights(light.NewLight(light.LightTypePoint)))

	lights := s.Lights()
	lights[0] = nil

	assert.NotNil(t, s.Lights()[0])
}

// releaseCounter counts Release calls on top of a real model.
type releaseCounter struct {
	model.Model
	released atomic.Int32
}

func (r *releaseCounter) Release() {
	r.released.Add(1)
	r.Model.Release()
}

func TestRemoveModelDefersRelease(t *testing.T) {
	s := NewScene("deferred")
	m := &releaseCounter{Model: model.NewModel(model.WithName("a"))}
	s.AddModels(m)

	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.True(t, s.RemoveModel(m))
	}()
	<-done

	assert.Empty(t, s.Models())
	assert.Equal(t, int32(0), m.released.Load())

	s.ReleaseRemoved()
	assert.Equal(t, int32(1), m.released.Load())

	s.ReleaseRemoved()
	assert.Equal(t, int32(1), m.released.Load())
}

func TestReleaseIncludesPendingRemovals(t *testing.T) {
	s := NewScene("teardown")
	kept := &releaseCounter{Model: model.NewModel(model.WithName("kept"))}
	gone := &releaseCounter{Model: model.NewModel(model.WithName("gone"))}
	s.AddModels(kept, gone)
	require.True(t, s.RemoveModel(gone))

	s.Release()
	assert.Equal(t, int32(1), kept.released.Load())
	assert.Equal(t, int32(1), gone.released.Load())

	s.ReleaseRemoved()
	assert.Equal(t, int32(1), gone.released.Load())
}
