package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-forward/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWindow runs the update callback in a loop until RequestClose.
type fakeWindow struct {
	onUpdate func()
	onResize func(width, height int)
	onKey    func(keyCode uint32)
	closed   atomic.Bool
}

func (w *fakeWindow) SetUpdateCallback(cb func())                  { w.onUpdate = cb }
func (w *fakeWindow) SetResizeCallback(cb func(width, height int)) { w.onResize = cb }
func (w *fakeWindow) SetKeyDownCallback(cb func(keyCode uint32))   { w.onKey = cb }
func (w *fakeWindow) RequestClose()                                { w.closed.Store(true) }
func (w *fakeWindow) Width() int                                   { return 800 }
func (w *fakeWindow) Height() int                                  { return 400 }

func (w *fakeWindow) ProcessMessages() {
	for !w.closed.Load() {
		w.onUpdate()
		time.Sleep(time.Millisecond)
	}
}

// fakeRenderer returns the errors in errs in order, then nil.
type fakeRenderer struct {
	mu      sync.Mutex
	renders int
	resizes [][2]int
	errs    []error
}

var _ renderer.Renderer = &fakeRenderer{}

func (r *fakeRenderer) Render(ctx context.Context, _ scene.Scene) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renders++
	if len(r.errs) > 0 {
		err := r.errs[0]
		r.errs = r.errs[1:]
		return err
	}
	return nil
}

func (r *fakeRenderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resizes = append(r.resizes, [2]int{width, height})
}

func (r *fakeRenderer) rendered() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.renders
}

func (r *fakeRenderer) Pipeline(string) pipeline.Pipeline            { return nil }
func (r *fakeRenderer) Pipelines() map[string]pipeline.Pipeline      { return nil }
func (r *fakeRenderer) RegisterPipelines(...pipeline.Pipeline) error { return nil }
func (r *fakeRenderer) SetPresentMode(renderer.PresentMode)          {}
func (r *fakeRenderer) SetClearColor(wgpu.Color)                     {}
func (r *fakeRenderer) OutputIsSRGB() bool                           { return true }
func (r *fakeRenderer) Release()                                     {}

func newTestEngine(t *testing.T, r *fakeRenderer) (*engine, *fakeWindow) {
	t.Helper()
	w := &fakeWindow{}
	e, err := NewEngine(WithWindow(w), WithRenderer(r), WithScene(scene.NewScene("test")), WithTickRate(500))
	require.NoError(t, err)
	return e.(*engine), w
}

func runAsync(ctx context.Context, e Engine) <-chan error {
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()
	return done
}

func waitDone(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not stop")
		return nil
	}
}

func TestNewEngineRequiresComponents(t *testing.T) {
	_, err := NewEngine(WithRenderer(&fakeRenderer{}), WithScene(scene.NewScene("s")))
	assert.ErrorIs(t, err, ErrMissingComponent)

	_, err = NewEngine(WithWindow(&fakeWindow{}), WithScene(scene.NewScene("s")))
	assert.ErrorIs(t, err, ErrMissingComponent)

	_, err = NewEngine(WithWindow(&fakeWindow{}), WithRenderer(&fakeRenderer{}))
	assert.ErrorIs(t, err, ErrMissingComponent)
}

func TestNewEngineSetsCameraAspect(t *testing.T) {
	e, _ := newTestEngine(t, &fakeRenderer{})
	assert.InDelta(t, 2.0, e.scene.Camera().Aspect(), 1e-6)
}

func TestRunRendersUntilQuit(t *testing.T) {
	r := &fakeRenderer{}
	e, _ := newTestEngine(t, r)

	var callbacks atomic.Int32
	e.SetRenderCallback(func(float32) { callbacks.Add(1) })

	done := runAsync(context.Background(), e)
	require.Eventually(t, func() bool {
		return r.rendered() >= 3 && e.scene.Time() > 0
	}, 5*time.Second, time.Millisecond)
	e.Quit()

	assert.NoError(t, waitDone(t, done))
	assert.GreaterOrEqual(t, int(callbacks.Load()), 3)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	e, _ := newTestEngine(t, &fakeRenderer{})
	ctx, cancel := context.WithCancel(context.Background())

	done := runAsync(ctx, e)
	cancel()
	assert.NoError(t, waitDone(t, done))
}

func TestRunSkipsDroppedFrames(t *testing.T) {
	dropped := fmt.Errorf("%w: %w", renderer.ErrFrameDropped, renderer.ErrSurfaceLost)
	r := &fakeRenderer{errs: []error{dropped, dropped}}
	e, _ := newTestEngine(t, r)

	done := runAsync(context.Background(), e)
	require.Eventually(t, func() bool { return r.rendered() >= 4 }, 5*time.Second, time.Millisecond)
	e.Quit()
	assert.NoError(t, waitDone(t, done))
}

func TestRunReturnsRenderError(t *testing.T) {
	boom := errors.New("device lost")
	e, _ := newTestEngine(t, &fakeRenderer{errs: []error{boom}})

	err := waitDone(t, runAsync(context.Background(), e))
	assert.ErrorIs(t, err, boom)
}

func TestRunRecoversRenderPanic(t *testing.T) {
	e, _ := newTestEngine(t, &fakeRenderer{})
	e.SetRenderCallback(func(float32) { panic("bad update") })

	err := waitDone(t, runAsync(context.Background(), e))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad update")
}

func TestResizeAppliedOnRenderGoroutine(t *testing.T) {
	r := &fakeRenderer{}
	e, w := newTestEngine(t, r)

	w.onResize(0, 0)
	w.onResize(1000, 250)

	done := runAsync(context.Background(), e)
	require.Eventually(t, func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		return len(r.resizes) == 1
	}, 5*time.Second, time.Millisecond)
	e.Quit()
	require.NoError(t, waitDone(t, done))

	// the pending 0x0 was replaced by the later size
	assert.Equal(t, [][2]int{{1000, 250}}, r.resizes)
	assert.InDelta(t, 4.0, e.scene.Camera().Aspect(), 1e-6)
}

func TestKeyZTogglesDepthVisualization(t *testing.T) {
	e, w := newTestEngine(t, &fakeRenderer{})
	var forwarded []uint32
	e.SetKeyCallback(func(key uint32) { forwarded = append(forwarded, key) })

	w.onKey(common.KeyZ)
	assert.True(t, e.scene.Debug().VisualizeDepth)
	w.onKey(common.KeyZ)
	assert.False(t, e.scene.Debug().VisualizeDepth)

	w.onKey(common.KeyP)
	assert.Equal(t, []uint32{common.KeyP}, forwarded)
}
