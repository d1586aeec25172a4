package score

// Hit is one resolved target as persisted: which lane, which bar
// repetition, and the signed timing error.
type Hit struct {
	Lane       rune
	Occurrence uint64
	ErrorMs    int64
}

type History struct {
	Sum  string
	Hits []Hit
}

type Summary struct {
	HitCount     uint64
	TotalErrorMs int64 // sum of absolute errors
}

type Scorer interface {
	Init() error
	Deinit()

	// Save the resolved hits of this session
	Save(sum string, hits []Hit)

	// Load up previous sessions for the same grid and lane setup
	Load(sum string) []History

	Score(history *History) Summary
}
