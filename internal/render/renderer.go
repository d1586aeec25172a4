package render

import (
	"git.lost.host/meutraa/barline/internal/game"
)

type Renderer interface {
	Init() error
	Deinit() error

	// Draw queues one frame: a full-screen clear color and the cells
	// on top of it. Nothing reaches the terminal until Flush.
	Draw(clear game.Color, cells []game.Cell)
	AddDecoration(row, col int, content string, frames int)
	Fill(row, col int, message string)
	Flush()
}
