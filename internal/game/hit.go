package game

// HitResult marks a target as consumed. Once attached to an entity the
// target is inert and cannot be hit again.
type HitResult struct {
	Occurrence uint64 // Which bar repetition was matched
	ErrorMs    int64  // Signed timing error, negative is early
	Judgement  int    // Index into the configured judgement bands
}

// Input is a raw key-down event as polled from the keyboard.
// Consumed once, on the tick it arrived.
type Input struct {
	TimestampMs uint32 // The poller's clock, never used for matching
	Key         rune
}
