package tui

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/vovakirdan/slidepuzzle/internal/core"
	"github.com/vovakirdan/slidepuzzle/internal/puzzle"
)

// Board placement on the terminal.
const (
	hudRows   = 2 // Title and timer lines above the board
	boardTopY = hudRows + 1
)

// boardOrigin returns the screen cell of the board's top-left corner. Mouse
// input subtracts it to get board-local coordinates.
func boardOrigin(screenW, n int, geom puzzle.Geometry) core.Point {
	bw, _ := geom.BoardSize(n)
	return core.Point{X: core.Max((screenW-bw)/2, 1), Y: boardTopY}
}

// DrawFrame paints a controller frame onto the screen buffer.
func DrawFrame(s *core.Screen, f puzzle.DrawCall, geom puzzle.Geometry, colors []core.Color, hint string) {
	s.Clear()
	n := f.GridSize
	if n <= 0 {
		return
	}
	origin := boardOrigin(s.Width(), n, geom)
	bw, bh := geom.BoardSize(n)

	title := fmt.Sprintf("SLIDE PUZZLE %dx%d", n, n)
	s.DrawTextColored(origin.X, 0, title, core.ColorBrightYellow)
	if f.TimerText != "" {
		s.DrawTextColored(origin.X, 1, f.TimerText, core.ColorBrightWhite)
	}
	moves := fmt.Sprintf("Moves: %d", f.Moves)
	s.DrawTextColored(origin.X+bw-utf8.RuneCountInString(moves), 1, moves, core.ColorGray)

	s.DrawBoxColored(core.NewRect(origin.X-1, origin.Y-1, bw+2, bh+2), core.ColorGray)

	if f.Positions != nil {
		drawTiles(s, f, geom, colors, origin)
	}
	if f.Overlay != "" {
		drawOverlay(s, origin, bw, bh, f.Overlay, f.Subtitle)
	}
	if f.Menu != nil {
		drawMenuButton(s, origin, *f.Menu)
	}
	if f.Error != "" {
		s.DrawTextColored(origin.X, origin.Y+bh+1, f.Error, core.ColorBrightRed)
	}
	if hint != "" {
		s.DrawTextColored(0, s.Height()-1, hint, core.ColorGray)
	}
}

func drawTiles(s *core.Screen, f puzzle.DrawCall, geom puzzle.Geometry, colors []core.Color, origin core.Point) {
	n := f.GridSize
	empty := n*n - 1
	// The whole picture shows while memorizing and once the session is over.
	whole := f.Phase == puzzle.PhaseReveal || f.Phase.Terminal()
	numbered := f.Phase != puzzle.PhaseReveal

	for slot, tile := range f.Positions {
		if tile == empty && !whole {
			continue
		}
		if f.Moving != nil && tile == f.Moving.Tile {
			continue
		}
		x, y := geom.SlotOrigin(slot, n)
		drawTile(s, origin.X+x, origin.Y+y, geom, tileColor(colors, tile), tileLabel(tile, numbered && tile != empty))
	}

	if m := f.Moving; m != nil {
		x := origin.X + int(math.Round(m.X))
		y := origin.Y + int(math.Round(m.Y))
		drawTile(s, x, y, geom, tileColor(colors, m.Tile), tileLabel(m.Tile, numbered))
	}
}

func tileColor(colors []core.Color, tile int) core.Color {
	if tile >= 0 && tile < len(colors) {
		return colors[tile]
	}
	return core.ColorGray
}

func tileLabel(tile int, show bool) string {
	if !show {
		return ""
	}
	return fmt.Sprint(tile + 1)
}

// drawTile fills a tile, leaving a one-cell gutter on the right and bottom
// when the tile is large enough to spare it.
func drawTile(s *core.Screen, x, y int, geom puzzle.Geometry, c core.Color, label string) {
	w, h := geom.TileW, geom.TileH
	if w > 2 {
		w--
	}
	if h > 2 {
		h--
	}
	s.FillRect(core.NewRect(x, y, w, h), '█', c)
	if label != "" {
		lx := x + (w-utf8.RuneCountInString(label))/2
		s.DrawTextColored(lx, y+h/2, label, core.ColorBrightWhite)
	}
}

// drawOverlay boxes the message so that it ends just above the board's middle
// row, leaving the menu button below it clear.
func drawOverlay(s *core.Screen, origin core.Point, bw, bh int, lines ...string) {
	var text []string
	width := 0
	for _, l := range lines {
		if l == "" {
			continue
		}
		text = append(text, l)
		width = core.Max(width, utf8.RuneCountInString(l))
	}
	if len(text) == 0 {
		return
	}

	boxW := width + 4
	boxH := len(text) + 2
	box := core.NewRect(origin.X+(bw-boxW)/2, origin.Y+bh/2-boxH+1, boxW, boxH)
	s.FillRect(box, ' ', core.ColorDefault)
	s.DrawBoxColored(box, core.ColorBrightYellow)
	for i, l := range text {
		lx := box.X + (boxW-utf8.RuneCountInString(l))/2
		c := core.ColorBrightWhite
		if i > 0 {
			c = core.ColorWhite
		}
		s.DrawTextColored(lx, box.Y+1+i, l, c)
	}
}

func drawMenuButton(s *core.Screen, origin core.Point, m puzzle.MenuButton) {
	r := m.Rect.Offset(origin.X, origin.Y)
	s.FillRect(r, ' ', core.ColorDefault)
	label := "[ " + m.Label + " ]"
	lx := r.X + (r.W-utf8.RuneCountInString(label))/2
	s.DrawTextColored(lx, r.Y+r.H/2, label, core.ColorBrightCyan)
}
