package rhythm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGridDerivedIntervals(t *testing.T) {
	t.Parallel()

	for _, milliBpm := range []uint64{1, 60_000, 120_000, 135_500, 160_000, 999_999} {
		for beats := uint64(1); beats <= 8; beats++ {
			g, err := NewGrid(milliBpm, 0, beats)
			assert.NoError(t, err)
			assert.Equal(t, 60_000_000/milliBpm, g.BeatMillis)
			assert.Equal(t, g.BeatMillis*beats, g.BarMillis)
			assert.Greater(t, g.BeatMillis, uint64(0))
		}
	}

	// 160bpm, 4 beats: the usual session
	g, err := NewGrid(160_000, 0, 4)
	assert.NoError(t, err)
	assert.Equal(t, uint64(375), g.BeatMillis)
	assert.Equal(t, uint64(1500), g.BarMillis)
}

func TestGridConfigErrors(t *testing.T) {
	t.Parallel()

	_, err := NewGrid(0, 0, 4)
	assert.ErrorIs(t, err, ErrZeroBpm)

	_, err = NewGrid(160_000, 0, 0)
	assert.ErrorIs(t, err, ErrZeroBeats)

	// More than 60M milli-bpm leaves no whole millisecond per beat
	_, err = NewGrid(60_000_001, 0, 4)
	assert.Error(t, err)

	g, err := NewGrid(160_000, 0, 4)
	assert.NoError(t, err)

	_, err = g.BarTime(1, 0, 1)
	assert.ErrorIs(t, err, ErrZeroDivision)

	// Beat 4 of a 4 beat bar is the next bar's beat 0
	_, err = g.BarTime(1, 1, 4)
	assert.Error(t, err)
}

func TestBarTime(t *testing.T) {
	t.Parallel()

	g, err := NewGrid(160_000, 0, 4)
	assert.NoError(t, err)

	// Whole beats
	for i := uint64(0); i < 4; i++ {
		ms, err := g.BarTime(1, 1, i)
		assert.NoError(t, err)
		assert.Equal(t, 375*i, ms)
	}

	// Eighths
	ms, err := g.BarTime(1, 2, 3)
	assert.NoError(t, err)
	assert.Equal(t, uint64(562), ms)

	// Third beat pushed a half beat late
	ms, err = g.BarTime(3, 2, 2)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1125), ms)
}

func TestNearestOccurrence(t *testing.T) {
	t.Parallel()

	g, err := NewGrid(160_000, 0, 4) // 1500ms bar
	assert.NoError(t, err)

	tests := []struct {
		barTime, now, k uint64
	}{
		{0, 0, 0},
		{0, 700, 0},
		{0, 800, 1},
		{0, 3100, 2}, // occurrence at 3000, error 100
		{375, 300, 0},
		{375, 1500, 1},
		// now before the bar time never rounds below zero
		{1125, 0, 0},
		{1125, 200, 0},
	}
	for _, test := range tests {
		assert.Equal(t, test.k, g.NearestOccurrence(test.barTime, test.now),
			"barTime=%v now=%v", test.barTime, test.now)
	}
}

func TestNextOccurrence(t *testing.T) {
	t.Parallel()

	g, err := NewGrid(160_000, 0, 4)
	assert.NoError(t, err)

	tests := []struct {
		barTime, now, k uint64
	}{
		{0, 0, 1}, // strictly after now
		{0, 1499, 1},
		{0, 1500, 2},
		{375, 0, 1},
		{375, 374, 0},
		{375, 375, 1},
		{375, 3000, 2},
	}
	for _, test := range tests {
		k := g.NextOccurrence(test.barTime, test.now)
		assert.Equal(t, test.k, k, "barTime=%v now=%v", test.barTime, test.now)
		assert.Greater(t, test.barTime+k*g.BarMillis, test.now)
	}
}
