package game

type Color struct {
	R, G, B uint8
}

// Sprite is the visual attribute set assigned at target creation.
// The renderer owns it from then on.
type Sprite struct {
	Color Color
	Glyph string
}

// Cell is one draw command for the terminal: a glyph at a position.
type Cell struct {
	Row, Col int
	Color    Color
	Glyph    string
}
