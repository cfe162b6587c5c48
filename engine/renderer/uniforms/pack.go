package uniforms

import (
	"sync"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/Carmen-Shannon/oxy-forward/engine/light"
	"github.com/go-gl/mathgl/mgl32"
)

// FrameInputs is the scene state packed into PerFrameUniforms.
type FrameInputs struct {
	ViewProjection mgl32.Mat4
	Eye            mgl32.Vec3
	// Directional and Spot hold enabled lights in priority order; only the first
	// MaxDirectionalLights / MaxSpotLights are packed.
	Directional  []light.Light
	Spot         []light.Light
	OutputIsSRGB bool
	Time         float32
}

// Overflow counts the lights that did not fit their fixed-size arrays.
type Overflow struct {
	Directional int
	Spot        int
	Point       int
}

// Any reports whether any light was dropped.
func (o Overflow) Any() bool {
	return o.Directional > 0 || o.Spot > 0 || o.Point > 0
}

// NewPerFrameUniforms packs the frame block. Light lists longer than their capacity are
// truncated and the counts always equal the number of packed lights.
//
// Parameters:
//   - in: the camera, lights and frame state
//
// Returns:
//   - PerFrameUniforms: the packed block
//   - Overflow: how many directional and spot lights were dropped
func NewPerFrameUniforms(in FrameInputs) (PerFrameUniforms, Overflow) {
	u := PerFrameUniforms{
		ViewProjection: in.ViewProjection,
		ViewPosition:   common.Vec3W(in.Eye, 1),
		Time:           in.Time,
	}
	if in.OutputIsSRGB {
		u.OutputIsSRGB = 1
	}

	var overflow Overflow
	directional, dropped := light.Truncate(in.Directional, MaxDirectionalLights)
	overflow.Directional = dropped
	for i, l := range directional {
		u.DirectionalLights[i] = light.PackDirectional(l)
	}
	u.DirectionalLightCount = uint32(len(directional))

	spot, dropped := light.Truncate(in.Spot, MaxSpotLights)
	overflow.Spot = dropped
	for i, l := range spot {
		u.SpotLights[i] = light.PackSpot(l)
	}
	u.SpotLightCount = uint32(len(spot))

	return u, overflow
}

// NewPerModelUniforms packs a model block. WorldToLocal is the exact inverse of localToWorld; a
// singular transform yields the zero matrix. Point lights past MaxPointLights are dropped.
//
// Parameters:
//   - localToWorld: the model transform
//   - pointLights: the point lights affecting the model in priority order
//
// Returns:
//   - PerModelUniforms: the packed block
//   - int: how many point lights were dropped
func NewPerModelUniforms(localToWorld mgl32.Mat4, pointLights []light.Light) (PerModelUniforms, int) {
	u := PerModelUniforms{
		LocalToWorld: localToWorld,
		WorldToLocal: localToWorld.Inv(),
	}

	kept, dropped := light.Truncate(pointLights, MaxPointLights)
	for i, l := range kept {
		u.PointLights[i] = light.PackPoint(l)
	}
	u.PointLightCount = uint32(len(kept))
	return u, dropped
}

// ModelJob is the input for packing one model block.
type ModelJob struct {
	LocalToWorld mgl32.Mat4
	// PointLights are all candidate point lights; the MaxPointLights nearest to the model's
	// translation are packed.
	PointLights []light.Light
}

// ModelResult is the packed block for one ModelJob.
type ModelResult struct {
	Uniforms PerModelUniforms
	Dropped  int
}

// PackModels packs every job on the worker pool and waits for all of them before returning.
// Results are in job order. A nil pool packs on the calling goroutine.
//
// Parameters:
//   - pool: the worker pool, or nil
//   - jobs: the models to pack
//
// Returns:
//   - []ModelResult: one result per job, in order
func PackModels(pool worker.DynamicWorkerPool, jobs []ModelJob) []ModelResult {
	results := make([]ModelResult, len(jobs))
	if pool == nil || len(jobs) < 2 {
		for i := range jobs {
			results[i] = packModel(jobs[i])
		}
		return results
	}

	var wg sync.WaitGroup
	for i := range jobs {
		wg.Add(1)
		idx := i
		pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				results[idx] = packModel(jobs[idx])
				return nil, nil
			},
		})
	}
	wg.Wait()
	return results
}

func packModel(job ModelJob) ModelResult {
	nearest, _ := light.Nearest(job.PointLights, common.Translation(job.LocalToWorld), MaxPointLights)
	u, dropped := NewPerModelUniforms(job.LocalToWorld, nearest)
	return ModelResult{Uniforms: u, Dropped: dropped + len(job.PointLights) - len(nearest)}
}
