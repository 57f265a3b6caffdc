package puzzle

import (
	"time"

	"github.com/vovakirdan/slidepuzzle/internal/core"
)

// SlideAnimation moves one tile from one slot to a neighbouring slot.
type SlideAnimation struct {
	Tile     int           // Tile id being moved
	FromSlot int           // Slot the tile leaves
	ToSlot   int           // Slot the tile lands in
	Start    time.Time     // When the slide began
	Duration time.Duration // Total slide time
}

// Progress returns the elapsed fraction at now, clamped to [0, 1].
func (a *SlideAnimation) Progress(now time.Time) float64 {
	if a.Duration <= 0 {
		return 1
	}
	return core.ClampF(float64(now.Sub(a.Start))/float64(a.Duration), 0, 1)
}

// Done reports whether the slide has reached its destination at now.
func (a *SlideAnimation) Done(now time.Time) bool {
	return a.Progress(now) >= 1
}

// Position returns the tile's top-left corner in surface units at now,
// linearly interpolated between the two slot origins.
func (a *SlideAnimation) Position(now time.Time, n int, geom Geometry) (x, y float64) {
	fx, fy := geom.SlotOrigin(a.FromSlot, n)
	tx, ty := geom.SlotOrigin(a.ToSlot, n)
	t := a.Progress(now)
	return core.Lerp(float64(fx), float64(tx), t), core.Lerp(float64(fy), float64(ty), t)
}

// AutoSolver reveals the answer by swapping each tile into its home slot in
// ascending tile order. It is cosmetic: a swap need not be a legal slide.
type AutoSolver struct {
	board *Board
	swaps int
}

// NewAutoSolver creates a solver that mutates board in place.
func NewAutoSolver(board *Board) *AutoSolver {
	return &AutoSolver{board: board}
}

// Step performs the next swap and reports whether one was needed. The scan
// restarts at tile 0 each time, so a board replaced between steps is still
// finished correctly.
func (s *AutoSolver) Step() bool {
	a, b, ok := nextSolveSwap(s.board)
	if !ok {
		return false
	}
	s.board.ApplySwap(a, b)
	s.swaps++
	return true
}

// Swaps returns the number of swaps performed so far.
func (s *AutoSolver) Swaps() int {
	return s.swaps
}

// nextSolveSwap finds the lowest tile not in its home slot. The empty tile is
// never searched for: once 0..N²-2 are home it is home too.
func nextSolveSwap(b *Board) (int, int, bool) {
	for i := 0; i < b.Len()-1; i++ {
		if b.Tile(i) != i {
			return i, b.IndexOf(i), true
		}
	}
	return 0, 0, false
}

// SolveSwaps returns the full swap sequence the auto-solve animation would
// play on positions, without modifying it.
func SolveSwaps(n int, positions []int) ([][2]int, error) {
	b, err := NewBoard(n, positions)
	if err != nil {
		return nil, err
	}
	var swaps [][2]int
	for {
		a, c, ok := nextSolveSwap(b)
		if !ok {
			return swaps, nil
		}
		b.ApplySwap(a, c)
		swaps = append(swaps, [2]int{a, c})
	}
}
