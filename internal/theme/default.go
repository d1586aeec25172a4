package theme

import "git.lost.host/meutraa/barline/internal/game"

type DefaultTheme struct {
}

const noteSym = "⬤"

var (
	barSym     = "-"
	laneColors = []game.Color{
		{R: 236, G: 30, B: 0},   // red
		{R: 0, G: 118, B: 236},  // blue
		{R: 236, G: 195, B: 0},  // yellow
		{R: 0, G: 236, B: 128},  // green
		{R: 106, G: 0, B: 236},  // purple
		{R: 236, G: 0, B: 106},  // pink
		{R: 236, G: 128, B: 0},  // orange
		{R: 173, G: 236, B: 236}, // light blue
	}
	judgementColors = []game.Color{
		{R: 173, G: 236, B: 236},
		{R: 0, G: 236, B: 128},
		{R: 236, G: 195, B: 0},
		{R: 236, G: 30, B: 0},
	}
)

func (t *DefaultTheme) NoteSprite(column int) game.Sprite {
	return game.Sprite{
		Color: laneColors[column%len(laneColors)],
		Glyph: noteSym,
	}
}

func (t *DefaultTheme) HitFieldGlyph(column int) string {
	return barSym
}

// PulseColor is the background beat pulse, brightest on the beat and
// decaying quadratically through the rest of it.
func (t *DefaultTheme) PulseColor(beatPhase float64) game.Color {
	v := uint8((1 - beatPhase) * (1 - beatPhase) * 48)
	return game.Color{R: v, G: 0, B: v}
}

func (t *DefaultTheme) JudgementColor(index, bands int) game.Color {
	if bands < 2 || index < 0 {
		return game.Color{R: 255, G: 255, B: 255}
	}
	// Spread the fixed palette over however many bands are configured
	i := index * (len(judgementColors) - 1) / (bands - 1)
	return judgementColors[i]
}
