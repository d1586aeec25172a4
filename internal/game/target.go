package game

// Target is one materialized occurrence of a repeating rhythmic event.
type Target struct {
	BarTime    uint64 // Offset within the bar, in ms, [0, barMillis)
	Lane       rune   // The key that satisfies this target
	Occurrence uint64 // The bar repetition this entity was spawned for
}

// Time is the absolute audio time of this target's own occurrence.
func (t Target) Time(barMillis uint64) uint64 {
	return t.BarTime + t.Occurrence*barMillis
}
