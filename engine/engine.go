package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/Carmen-Shannon/oxy-forward/engine/profiler"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer"
	"github.com/Carmen-Shannon/oxy-forward/engine/scene"
)

// ErrMissingComponent is returned by NewEngine when no window, renderer or scene was given.
var ErrMissingComponent = errors.New("engine: missing component")

// Window is the part of window.Window the engine drives.
type Window interface {
	SetUpdateCallback(callback func())
	SetResizeCallback(callback func(width, height int))
	SetKeyDownCallback(callback func(keyCode uint32))
	ProcessMessages()
	RequestClose()
	Width() int
	Height() int
}

// engine implements the Engine interface.
// The caller's goroutine runs the window message loop; a tick goroutine advances scene time and
// a render goroutine, locked to its OS thread, owns every renderer call after construction.
type engine struct {
	window   Window
	renderer renderer.Renderer
	scene    scene.Scene

	tickRateChannel chan time.Duration
	resizeChannel   chan [2]int

	quitChannel chan struct{}
	quitOnce    sync.Once
	wg          sync.WaitGroup

	errMu sync.Mutex
	err   error

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool

	engineTickRate   time.Duration
	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)
	keyCallback    func(keyCode uint32)
}

// Engine runs a scene: fixed-rate ticks, a render loop and window events.
type Engine interface {
	// Scene returns the scene being rendered.
	Scene() scene.Scene

	// Renderer returns the renderer drawing the scene.
	Renderer() renderer.Renderer

	// EnableProfiler enables frame statistics logging.
	EnableProfiler()

	// DisableProfiler disables frame statistics logging.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in ticks per second.
	// The tick callback will be called at this rate after the scene clock advances.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick on the tick goroutine.
	// Scene objects read by the renderer should be mutated from the render callback instead.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called on the render goroutine before each frame.
	// Use this for camera, light and model updates.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetKeyCallback registers the function called for key presses the engine does not handle.
	// Z toggles depth visualization and is not forwarded.
	//
	// Parameters:
	//   - callback: function receiving the key code
	SetKeyCallback(callback func(keyCode uint32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the tick and render goroutines and runs the window message loop on the calling
	// goroutine. It blocks until the window closes, ctx is canceled, Quit is called or the
	// renderer fails.
	//
	// Parameters:
	//   - ctx: stops the engine when canceled
	//
	// Returns:
	//   - error: the render error that stopped the engine, or nil
	Run(ctx context.Context) error

	// Quit signals all engine goroutines to stop. Safe to call multiple times.
	Quit()
}

// NewEngine creates an Engine for a window, renderer and scene supplied through options.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the engine
//   - error: ErrMissingComponent if the window, renderer or scene is absent
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		resizeChannel:   make(chan [2]int, 1),
		quitChannel:     make(chan struct{}),
		profiler:        profiler.NewProfiler(time.Second),
		engineTickRate:  time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	switch {
	case e.window == nil:
		return nil, fmt.Errorf("%w: window", ErrMissingComponent)
	case e.renderer == nil:
		return nil, fmt.Errorf("%w: renderer", ErrMissingComponent)
	case e.scene == nil:
		return nil, fmt.Errorf("%w: scene", ErrMissingComponent)
	}

	if w, h := e.window.Width(), e.window.Height(); w > 0 && h > 0 {
		e.scene.Camera().SetAspect(float32(w) / float32(h))
	}

	e.window.SetResizeCallback(e.queueResize)
	e.window.SetKeyDownCallback(e.handleKey)
	e.window.SetUpdateCallback(func() {
		select {
		case <-e.quitChannel:
			e.window.RequestClose()
		default:
		}
	})

	return e, nil
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	e.wg.Add(3)
	go e.handleEngine()
	go e.handleRender(ctx)
	go func() {
		defer e.wg.Done()
		select {
		case <-ctx.Done():
			e.signalQuit()
		case <-e.quitChannel:
		}
	}()

	e.window.ProcessMessages()
	e.signalQuit()
	e.wg.Wait()

	e.errMu.Lock()
	defer e.errMu.Unlock()
	return e.err
}

func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// fail records the first error that stops the engine and signals quit.
func (e *engine) fail(err error) {
	e.errMu.Lock()
	if e.err == nil {
		e.err = err
	}
	e.errMu.Unlock()
	e.signalQuit()
}

// queueResize hands a framebuffer size to the render goroutine, replacing any size it has not
// applied yet.
func (e *engine) queueResize(width, height int) {
	size := [2]int{width, height}
	select {
	case e.resizeChannel <- size:
	default:
		select {
		case <-e.resizeChannel:
		default:
		}
		e.resizeChannel <- size
	}
}

func (e *engine) handleKey(keyCode uint32) {
	if keyCode == common.KeyZ {
		on := e.scene.ToggleDepthVisualization()
		common.Logger().Info("depth visualization toggled", "enabled", on)
		return
	}
	if e.keyCallback != nil {
		e.keyCallback(keyCode)
	}
}

// handleEngine runs the fixed-rate tick loop. Each tick advances the scene clock, then calls
// the tick callback.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			e.scene.Advance(dt)
			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
		}
	}
}

// handleRender runs the render loop on a goroutine locked to its OS thread. Dropped frames are
// counted and skipped; any other render error stops the engine. Panics are recovered, logged and
// stop the engine.
func (e *engine) handleRender(ctx context.Context) {
	defer e.wg.Done()
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	defer func() {
		if r := recover(); r != nil {
			common.Logger().Error("render goroutine recovered from panic", "panic", r)
			e.fail(fmt.Errorf("render panic: %v", r))
		}
	}()

	minimized := false
	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case size := <-e.resizeChannel:
			minimized = size[0] == 0 || size[1] == 0
			if !minimized {
				e.renderer.Resize(size[0], size[1])
				e.scene.Camera().SetAspect(float32(size[0]) / float32(size[1]))
			}
			continue
		default:
		}

		now := time.Now()
		dt := float32(now.Sub(lastRender).Seconds())
		lastRender = now

		if minimized {
			time.Sleep(10 * time.Millisecond)
			continue
		}

		if e.renderCallback != nil {
			e.renderCallback(dt)
		}

		err := e.renderer.Render(ctx, e.scene)
		switch {
		case err == nil:
			if e.profilingEnabled.Load() {
				e.profiler.Tick()
			}
		case errors.Is(err, renderer.ErrFrameDropped):
			e.profiler.RecordDrop()
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return
		default:
			common.Logger().Error("render failed", "error", err)
			e.fail(err)
			return
		}

		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - time.Since(now); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

// SetTickRate hands the new rate to the tick loop, which applies it on its next iteration.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	// Non-blocking send that replaces a pending value.
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

func (e *engine) SetKeyCallback(callback func(keyCode uint32)) {
	e.keyCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}
