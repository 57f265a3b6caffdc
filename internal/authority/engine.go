// Package authority owns the canonical puzzle board: it shuffles, validates
// and executes moves, and serves them in-process, over HTTP, to websocket
// spectators and to MCP tool clients.
package authority

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/vovakirdan/slidepuzzle/internal/puzzle"
)

// DefaultShuffleMultiplier scales the shuffle walk: N²·multiplier random slides.
const DefaultShuffleMultiplier = 10

// ErrNotStarted is returned for moves before any game was started.
var ErrNotStarted = errors.New("game not started")

// Shuffle returns a board reached from the solved one by a random walk of the
// empty tile, so the result is always solvable.
func Shuffle(rng *rand.Rand, n, steps int) []int {
	b := puzzle.SolvedBoard(n)
	empty := b.EmptySlot()
	dirs := []puzzle.Direction{puzzle.DirUp, puzzle.DirDown, puzzle.DirLeft, puzzle.DirRight}

	candidates := make([]int, 0, len(dirs))
	for i := 0; i < steps; i++ {
		candidates = candidates[:0]
		for _, d := range dirs {
			if slot, ok := b.Neighbor(empty, d); ok {
				candidates = append(candidates, slot)
			}
		}
		next := candidates[rng.Intn(len(candidates))]
		b.ApplySwap(empty, next)
		empty = next
	}
	return b.Positions()
}

// Game is one authoritative board and the picture it was cut from.
type Game struct {
	board *puzzle.Board
	image string
}

// NewGame shuffles a fresh n×n board. A walk that lands back on the solved
// board is walked again, so a new game always needs at least one move.
func NewGame(rng *rand.Rand, n, multiplier int, image string) (*Game, error) {
	if n < 2 {
		return nil, fmt.Errorf("authority: grid size %d too small", n)
	}
	if multiplier <= 0 {
		multiplier = DefaultShuffleMultiplier
	}
	board, err := puzzle.NewBoard(n, Shuffle(rng, n, n*n*multiplier))
	if err != nil {
		return nil, err
	}
	for board.IsSolved() {
		if err := board.Replace(Shuffle(rng, n, n*n*multiplier)); err != nil {
			return nil, err
		}
	}
	return &Game{board: board, image: image}, nil
}

// Start describes the game to a newly connected client.
func (g *Game) Start() puzzle.StartResponse {
	return puzzle.StartResponse{
		GridSize:  g.board.Size(),
		Positions: g.board.Positions(),
		ImagePath: g.image,
	}
}

// Move slides the tile in slot into the empty slot when they are adjacent.
// A solved board accepts no more moves.
func (g *Game) Move(slot int) puzzle.MoveResponse {
	if g.board.IsSolved() {
		return puzzle.MoveResponse{Positions: g.board.Positions(), IsSolved: true}
	}

	moved := g.board.IsAdjacentToEmpty(slot)
	if moved {
		g.board.ApplySwap(slot, g.board.EmptySlot())
	}
	return puzzle.MoveResponse{
		Moved:     moved,
		Positions: g.board.Positions(),
		IsSolved:  g.board.IsSolved(),
	}
}

// Snapshot returns the current board as a spectator update.
func (g *Game) Snapshot(event string) BoardUpdate {
	return BoardUpdate{
		Event:     event,
		GridSize:  g.board.Size(),
		Positions: g.board.Positions(),
		IsSolved:  g.board.IsSolved(),
		ImagePath: g.image,
	}
}

// FormatBoard renders positions as a text grid of 1-based tile numbers with
// the empty slot shown as a dot.
func FormatBoard(n int, positions []int) string {
	width := len(fmt.Sprint(n * n))
	var sb strings.Builder
	for slot, id := range positions {
		if slot > 0 && slot%n == 0 {
			sb.WriteByte('\n')
		} else if slot > 0 {
			sb.WriteByte(' ')
		}
		if id == n*n-1 {
			fmt.Fprintf(&sb, "%*s", width, ".")
		} else {
			fmt.Fprintf(&sb, "%*d", width, id+1)
		}
	}
	return sb.String()
}
