package rhythm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// scriptedSource replays a fixed sequence of counter reads, holding
// the last one forever.
type scriptedSource struct {
	rate   uint32
	frames []uint64
	i      int
}

func (s *scriptedSource) Frames() uint64 {
	v := s.frames[s.i]
	if s.i < len(s.frames)-1 {
		s.i++
	}
	return v
}

func (s *scriptedSource) SampleRate() uint32 {
	return s.rate
}

func TestClockConvertsFramesToMillis(t *testing.T) {
	t.Parallel()

	g, err := NewGrid(160_000, 0, 4)
	assert.NoError(t, err)

	src := &scriptedSource{rate: 44100, frames: []uint64{0, 441, 44100, 88200}}
	c := NewClock(src, g)

	c.Tick()
	assert.Equal(t, uint64(0), c.NowMs())
	c.Tick()
	assert.Equal(t, uint64(10), c.NowMs())
	c.Tick()
	assert.Equal(t, uint64(1000), c.NowMs())
	c.Tick()
	assert.Equal(t, uint64(2000), c.NowMs())
}

func TestClockMonotonicUnderJitter(t *testing.T) {
	t.Parallel()

	g, err := NewGrid(160_000, 0, 4)
	assert.NoError(t, err)

	// A genuinely monotonic counter observed with a few stale reads
	src := &scriptedSource{rate: 48000, frames: []uint64{
		0, 4800, 4800, 9600, 4800, 14400, 12000, 19200,
	}}
	c := NewClock(src, g)

	last := uint64(0)
	for range src.frames {
		c.Tick()
		assert.GreaterOrEqual(t, c.NowMs(), last)
		last = c.NowMs()
	}
	assert.Equal(t, uint64(400), last)
}

func TestClockFirstBeatOffset(t *testing.T) {
	t.Parallel()

	g, err := NewGrid(160_000, 250, 4)
	assert.NoError(t, err)

	src := &scriptedSource{rate: 1000, frames: []uint64{0, 100, 250, 300, 1250}}
	c := NewClock(src, g)

	// Clamped to zero until the first beat passes
	c.Tick()
	assert.Equal(t, uint64(0), c.NowMs())
	c.Tick()
	assert.Equal(t, uint64(0), c.NowMs())
	c.Tick()
	assert.Equal(t, uint64(0), c.NowMs())
	c.Tick()
	assert.Equal(t, uint64(50), c.NowMs())
	c.Tick()
	assert.Equal(t, uint64(1000), c.NowMs())
}

func TestClockFreezesOnDeadSource(t *testing.T) {
	t.Parallel()

	g, err := NewGrid(160_000, 0, 4)
	assert.NoError(t, err)

	src := &scriptedSource{rate: 0, frames: []uint64{5000}}
	c := NewClock(src, g)
	c.Tick()
	assert.Equal(t, uint64(0), c.NowMs())
}

func TestBeatPhase(t *testing.T) {
	t.Parallel()

	g, err := NewGrid(160_000, 0, 4) // 375ms beat
	assert.NoError(t, err)

	src := &scriptedSource{rate: 1000, frames: []uint64{0, 187, 375, 750 + 93}}
	c := NewClock(src, g)

	c.Tick()
	assert.Equal(t, 0.0, c.BeatPhase())
	c.Tick()
	assert.InDelta(t, 0.4986, c.BeatPhase(), 0.001)
	c.Tick()
	assert.Equal(t, 0.0, c.BeatPhase())
	c.Tick()
	assert.InDelta(t, 0.248, c.BeatPhase(), 0.001)

	phase := c.BeatPhase()
	assert.GreaterOrEqual(t, phase, 0.0)
	assert.Less(t, phase, 1.0)
}
