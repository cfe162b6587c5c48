package renderer

import "errors"

var (
	// ErrSurfaceLost is returned by a backend when the surface texture could not be acquired and
	// the surface was reconfigured.
	ErrSurfaceLost = errors.New("surface lost")

	// ErrFrameDropped is returned by Render when the frame was abandoned after surface loss.
	// The next Render call starts a fresh frame.
	ErrFrameDropped = errors.New("frame dropped")

	// ErrNoRenderPipeline is returned when a pass needs a pipeline that was never registered.
	ErrNoRenderPipeline = errors.New("render pipeline not registered")
)
