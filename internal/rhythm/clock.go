package rhythm

// FrameSource is the slice of the audio output this package is allowed
// to see: a monotonic count of frames emitted, and the rate they are
// emitted at. The counter is written on the audio goroutine and read
// here with an acquire-style load, so no locking is needed.
type FrameSource interface {
	Frames() uint64
	SampleRate() uint32
}

// Clock converts the audio output's frame counter into elapsed musical
// time. It is the sole authority on "now" for all rhythm logic; the
// frame timer drifts independently of the audio pipeline and must never
// be used for matching.
//
// Clock is single-writer: only the tick loop calls Tick, everything
// else reads NowMs.
type Clock struct {
	src  FrameSource
	grid *Grid

	lastFrames uint64
	nowMs      uint64
}

func NewClock(src FrameSource, grid *Grid) *Clock {
	return &Clock{src: src, grid: grid}
}

// Tick re-reads the frame counter and recomputes the current audio
// time. A counter that appears to go backwards is a desynchronized
// read; the clock clamps to its previous value rather than ever
// running backwards. A dead source leaves the clock frozen at its
// last value.
func (c *Clock) Tick() {
	rate := c.src.SampleRate()
	if rate == 0 {
		return
	}

	frames := c.src.Frames()
	if frames < c.lastFrames {
		frames = c.lastFrames
	}
	c.lastFrames = frames

	streamMs := frames * 1000 / uint64(rate)
	if streamMs <= c.grid.FirstBeatOffsetMs {
		return
	}
	ms := streamMs - c.grid.FirstBeatOffsetMs
	if ms > c.nowMs {
		c.nowMs = ms
	}
}

// NowMs is the elapsed musical time, in ms since the first beat.
func (c *Clock) NowMs() uint64 {
	return c.nowMs
}

// BeatPhase is the fraction of the current beat elapsed, in [0, 1).
// Derived projection for visual pulsing only.
func (c *Clock) BeatPhase() float64 {
	return float64(c.nowMs%c.grid.BeatMillis) / float64(c.grid.BeatMillis)
}
