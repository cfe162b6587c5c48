package scene

import (
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-forward/engine/camera"
	"github.com/Carmen-Shannon/oxy-forward/engine/light"
	"github.com/Carmen-Shannon/oxy-forward/engine/model"
)

// DebugState holds the renderer debug toggles a scene carries.
type DebugState struct {
	// VisualizeDepth appends the depth visualization pass after the overlay pass.
	VisualizeDepth bool
}

// scene is the implementation of the Scene interface.
type scene struct {
	mu *sync.RWMutex

	name   string
	active bool

	cam     camera.Camera
	models  []model.Model
	removed []model.Model
	lights  []light.Light

	time  float32
	debug DebugState
}

// Scene is the description of one frame's content consumed by the renderer: a camera, the models
// to draw, a light list of any length and the debug toggles. Everything is read through accessors
// that return snapshots, so the engine tick goroutine can mutate the scene while the render
// goroutine builds a frame from it.
type Scene interface {
	// Name returns the scene name.
	Name() string

	// Active reports whether the engine should render this scene.
	Active() bool

	// SetActive enables or disables rendering of this scene.
	SetActive(active bool)

	// Camera returns the scene camera.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// SetCamera replaces the scene camera.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam camera.Camera)

	// Models returns a snapshot of the models in insertion order.
	//
	// Returns:
	//   - []model.Model: the models
	Models() []model.Model

	// AddModels appends models to the scene.
	//
	// Parameters:
	//   - models: the models to add
	AddModels(models ...model.Model)

	// RemoveModel removes a model from the scene. Its GPU resources stay alive until the renderer
	// calls ReleaseRemoved on the render goroutine, so it is safe to call from any goroutine.
	//
	// Parameters:
	//   - m: the model to remove
	//
	// Returns:
	//   - bool: true if the model was part of the scene
	RemoveModel(m model.Model) bool

	// ReleaseRemoved frees the GPU resources of every model removed since the last call. Only the
	// render goroutine may call it, before it builds the next frame.
	ReleaseRemoved()

	// Lights returns a snapshot of the scene lights in insertion order. The list may be longer than
	// the renderer's light budget; the renderer truncates.
	//
	// Returns:
	//   - []light.Light: the lights
	Lights() []light.Light

	// AddLights appends lights to the scene.
	//
	// Parameters:
	//   - lights: the lights to add
	AddLights(lights ...light.Light)

	// RemoveLight removes a light.
	//
	// Parameters:
	//   - l: the light to remove
	//
	// Returns:
	//   - bool: true if the light was part of the scene
	RemoveLight(l light.Light) bool

	// Time returns the elapsed scene time in seconds.
	Time() float32

	// Advance adds dt seconds to the scene time.
	//
	// Parameters:
	//   - dt: the delta time in seconds
	Advance(dt float32)

	// Debug returns the debug toggles.
	Debug() DebugState

	// SetDebug replaces the debug toggles.
	SetDebug(state DebugState)

	// ToggleDepthVisualization flips DebugState.VisualizeDepth.
	//
	// Returns:
	//   - bool: the new value
	ToggleDepthVisualization() bool

	// Release frees the GPU resources of every model in the scene, including removed models that
	// were not released yet.
	Release()
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates a new Scene. A scene without a WithCamera option gets a default camera.
//
// Parameters:
//   - name: the name of the scene
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the newly created scene, active
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:     &sync.RWMutex{},
		name:   name,
		active: true,
	}

	for _, option := range options {
		option(s)
	}

	if s.cam == nil {
		s.cam = camera.NewCamera()
	}
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *scene) Models() []model.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.models)
}

func (s *scene) AddModels(models ...model.Model) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range models {
		if m != nil {
			s.models = append(s.models, m)
		}
	}
}

func (s *scene) RemoveModel(m model.Model) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.Index(s.models, m)
	if i < 0 {
		return false
	}
	s.models = slices.Delete(s.models, i, i+1)
	s.removed = append(s.removed, m)
	return true
}

func (s *scene) ReleaseRemoved() {
	s.mu.Lock()
	removed := s.removed
	s.removed = nil
	s.mu.Unlock()

	for _, m := range removed {
		m.Release()
	}
}

func (s *scene) Lights() []light.Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.lights)
}

func (s *scene) AddLights(lights ...light.Light) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range lights {
		if l != nil {
			s.lights = append(s.lights, l)
		}
	}
}

func (s *scene) RemoveLight(l light.Light) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.Index(s.lights, l)
	if i < 0 {
		return false
	}
	s.lights = slices.Delete(s.lights, i, i+1)
	return true
}

func (s *scene) Time() float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.time
}

func (s *scene) Advance(dt float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.time += dt
}

func (s *scene) Debug() DebugState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.debug
}

func (s *scene) SetDebug(state DebugState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debug = state
}

func (s *scene) ToggleDepthVisualization() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debug.VisualizeDepth = !s.debug.VisualizeDepth
	return s.debug.VisualizeDepth
}

func (s *scene) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.models {
		m.Release()
	}
	for _, m := range s.removed {
		m.Release()
	}
	s.removed = nil
}
