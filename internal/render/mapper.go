package render

import "math"

// Mapper projects a target occurrence time onto a terminal row. Pure
// derived state, recomputed per tick, never fed back into gameplay.
type Mapper struct {
	BaselineRow int     // the hit bar
	RowsPerMs   float64 // scroll speed
}

// Row is BaselineRow offset by how far the occurrence is from now.
// Future targets land above the bar and scroll down through it.
func (m *Mapper) Row(occurrenceMs, nowMs uint64) int {
	dt := float64(int64(occurrenceMs) - int64(nowMs))
	return m.BaselineRow - int(math.Round(dt*m.RowsPerMs))
}
