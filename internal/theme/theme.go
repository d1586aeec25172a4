package theme

import "git.lost.host/meutraa/barline/internal/game"

type Theme interface {
	NoteSprite(column int) game.Sprite
	HitFieldGlyph(column int) string
	PulseColor(beatPhase float64) game.Color
	JudgementColor(index, bands int) game.Color
}
