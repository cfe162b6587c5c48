package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func TestTickSamplesAfterInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := newProfiler(time.Second, clock.now)

	for range 59 {
		clock.t = clock.t.Add(10 * time.Millisecond)
		assert.False(t, p.Tick())
	}
	p.RecordDrop()
	clock.t = clock.t.Add(410 * time.Millisecond)
	assert.True(t, p.Tick())

	s := p.Last()
	assert.InDelta(t, 60, s.FPS, 1e-9)
	assert.Equal(t, time.Second/60, s.FrameTime)
	assert.Equal(t, 1, s.DroppedFrames)

	// counters restart with the next interval
	clock.t = clock.t.Add(time.Second)
	assert.True(t, p.Tick())
	assert.InDelta(t, 1, p.Last().FPS, 1e-9)
	assert.Zero(t, p.Last().DroppedFrames)
}

func TestNewProfilerDefaultsInterval(t *testing.T) {
	p := NewProfiler(0)
	assert.Equal(t, time.Second, p.interval)
	assert.Equal(t, Sample{}, p.Last())
}
