package rhythm

import (
	"errors"
	"fmt"
)

var (
	ErrZeroBpm      = errors.New("milli-bpm must be positive")
	ErrZeroBeats    = errors.New("beats-per-bar must be at least 1")
	ErrZeroDivision = errors.New("division must be positive")
)

// Grid is the musical time coordinate system for one session. It is
// built once from configuration and never changes.
//
// All times are integer milliseconds. Fractional bpm rounding is
// accepted, not compensated.
type Grid struct {
	MilliBpm          uint64 // bpm * 1000
	FirstBeatOffsetMs uint64 // ms from stream start to the first beat
	BeatsPerBar       uint64

	BeatMillis uint64 // 60_000_000 / MilliBpm
	BarMillis  uint64 // BeatMillis * BeatsPerBar
}

func NewGrid(milliBpm, firstBeatOffsetMs, beatsPerBar uint64) (*Grid, error) {
	if milliBpm == 0 {
		return nil, ErrZeroBpm
	}
	if beatsPerBar == 0 {
		return nil, ErrZeroBeats
	}
	beatMillis := 60_000_000 / milliBpm
	if beatMillis == 0 {
		return nil, fmt.Errorf("milli-bpm %v leaves no whole millisecond per beat", milliBpm)
	}
	return &Grid{
		MilliBpm:          milliBpm,
		FirstBeatOffsetMs: firstBeatOffsetMs,
		BeatsPerBar:       beatsPerBar,
		BeatMillis:        beatMillis,
		BarMillis:         beatMillis * beatsPerBar,
	}, nil
}

// BarTime places a rational sub-beat offset inside the bar:
// (BeatMillis * index * multiple) / division. Lane configuration runs
// through this at startup, so a bad division fails before the loop.
func (g *Grid) BarTime(multiple, division, index uint64) (uint64, error) {
	if division == 0 {
		return 0, ErrZeroDivision
	}
	ms := (g.BeatMillis * index * multiple) / division
	if ms >= g.BarMillis {
		return 0, fmt.Errorf("bar time %vms is outside the %vms bar", ms, g.BarMillis)
	}
	return ms, nil
}

// NearestOccurrence is the bar repetition of barTime closest to nowMs,
// never negative. Targets recur every bar, so matching compares modulo
// the bar period, not against any one materialized time.
func (g *Grid) NearestOccurrence(barTime, nowMs uint64) uint64 {
	if nowMs <= barTime {
		return 0
	}
	return (nowMs - barTime + g.BarMillis/2) / g.BarMillis
}

// NextOccurrence is the smallest bar repetition of barTime that is
// strictly after nowMs.
func (g *Grid) NextOccurrence(barTime, nowMs uint64) uint64 {
	if nowMs < barTime {
		return 0
	}
	return (nowMs-barTime)/g.BarMillis + 1
}
