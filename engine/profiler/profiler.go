package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-forward/common"
)

// Sample is the summary of one profiling interval.
type Sample struct {
	FPS           float64
	FrameTime     time.Duration // mean time between frames
	DroppedFrames int
	HeapMB        float64
	AllocRateMB   float64 // MB allocated per second
	GCCount       uint32
	MaxGCPause    time.Duration
}

// Profiler tracks frame rate, dropped frames and memory statistics, logging a Sample at a fixed
// interval. It is not safe for concurrent use; call it from the render loop.
type Profiler struct {
	now            func() time.Time
	interval       time.Duration
	lastTime       time.Time
	frameCount     int
	dropped        int
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Sample
}

// NewProfiler creates a Profiler sampling every interval.
//
// Parameters:
//   - interval: the sample interval; values <= 0 default to one second
//
// Returns:
//   - *Profiler: the profiler
func NewProfiler(interval time.Duration) *Profiler {
	return newProfiler(interval, time.Now)
}

func newProfiler(interval time.Duration, now func() time.Time) *Profiler {
	if interval <= 0 {
		interval = time.Second
	}
	return &Profiler{now: now, interval: interval, lastTime: now()}
}

// RecordDrop counts a frame that was abandoned without presenting.
func (p *Profiler) RecordDrop() {
	p.dropped++
}

// Tick should be called once per presented frame.
// When the interval has elapsed it logs a Sample at Info and starts a new interval.
//
// Returns:
//   - bool: true if a sample was taken this tick
func (p *Profiler) Tick() bool {
	p.frameCount++
	current := p.now()
	elapsed := current.Sub(p.lastTime)
	if elapsed < p.interval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	s := Sample{
		FPS:           float64(p.frameCount) / elapsed.Seconds(),
		FrameTime:     elapsed / time.Duration(p.frameCount),
		DroppedFrames: p.dropped,
		HeapMB:        float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB:   float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:       p.memStats.NumGC,
	}

	// PauseNs is a circular buffer of the last 256 pauses.
	start := p.lastGCCount
	if s.GCCount-start > 256 {
		start = s.GCCount - 256
	}
	for i := start; i < s.GCCount; i++ {
		s.MaxGCPause = max(s.MaxGCPause, time.Duration(p.memStats.PauseNs[i%256]))
	}

	common.Logger().Info("frame stats",
		"fps", s.FPS,
		"frame_time", s.FrameTime,
		"dropped", s.DroppedFrames,
		"heap_mb", s.HeapMB,
		"alloc_rate_mb", s.AllocRateMB,
		"gc", s.GCCount,
		"max_gc_pause", s.MaxGCPause,
	)

	p.last = s
	p.frameCount = 0
	p.dropped = 0
	p.lastTime = current
	p.lastGCCount = s.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the most recent Sample, or the zero Sample before the first interval ends.
func (p *Profiler) Last() Sample {
	return p.last
}
