package game

// Judgement is one accuracy band. Bands are configuration, held in
// ascending WindowMs order, with a final catch-all for anything still
// inside the matching tolerance.
type Judgement struct {
	WindowMs uint64
	Name     string
	Color    Color
}
