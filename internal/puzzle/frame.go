package puzzle

import "github.com/vovakirdan/slidepuzzle/internal/core"

// Geometry is the size of one tile on the display surface. Terminal cells are
// roughly twice as tall as they are wide, so width and height are separate.
type Geometry struct {
	TileW int
	TileH int
}

// DefaultGeometry suits a standard 80x24 terminal for grids up to 4x4.
func DefaultGeometry() Geometry {
	return Geometry{TileW: 10, TileH: 5}
}

// SlotOrigin returns the top-left corner of slot in surface units.
func (g Geometry) SlotOrigin(slot, n int) (x, y int) {
	return (slot % n) * g.TileW, (slot / n) * g.TileH
}

// BoardSize returns the full board size in surface units.
func (g Geometry) BoardSize(n int) (w, h int) {
	return n * g.TileW, n * g.TileH
}

// MenuButtonRect places the return-to-menu control centered horizontally,
// just below the middle of the board.
func (g Geometry) MenuButtonRect(n int) core.Rect {
	w, h := g.BoardSize(n)
	bw := core.Max(w/2, 1)
	bh := core.Max(h/12, 1)
	return core.NewRect((w-bw)/2, h/2+core.Max(h/10, 1), bw, bh)
}

// MenuButton is the return-to-menu control shown in terminal phases.
type MenuButton struct {
	Label string
	Rect  core.Rect // Board-local surface units
}

// TileMotion is a tile drawn away from its slot while it slides.
type TileMotion struct {
	Tile int
	X, Y float64 // Board-local surface units of the tile's top-left corner
}

// DrawCall is everything a surface needs to present the current state.
type DrawCall struct {
	Phase     Phase
	GridSize  int
	Positions []int       // Slot-to-tile arrangement to draw; nil while loading
	ImagePath string      // Locator of the solved picture
	Overlay   string      // Large centered message, if any
	Subtitle  string      // Secondary overlay line, if any
	TimerText string      // Remaining play time, if shown
	Moves     int         // Confirmed moves so far
	Moving    *TileMotion // Tile currently sliding, if any
	Menu      *MenuButton // Return-to-menu control, if shown
	Error     string      // Persistent error indicator, if any
	InputOpen bool        // Whether a move intent would currently be accepted
}

// Messages holds the on-screen texts of a session.
type Messages struct {
	Loading         string
	Reveal          string
	RevealCountdown string // fmt verb receives the remaining seconds
	TimerFormat     string // fmt verbs receive minutes and seconds
	NotQuite        string
	TryAgain        string
	Victory         string
	BackToMenu      string
	ConnectionLost  string // fmt verb receives the error
}

// DefaultMessages returns the English texts.
func DefaultMessages() Messages {
	return Messages{
		Loading:         "Loading...",
		Reveal:          "Memorize the picture!",
		RevealCountdown: "%d seconds left",
		TimerFormat:     "Time left: %02d:%02d",
		NotQuite:        "Not quite!",
		TryAgain:        "Try again!",
		Victory:         "Amazing! Solved!",
		BackToMenu:      "Back to menu",
		ConnectionLost:  "Connection problem: %v",
	}
}
