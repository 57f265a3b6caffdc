// Package puzzle implements the sliding-tile game controller: the board model,
// countdown timers, tile animations, input translation and the phase state
// machine that ties them to a remote move authority.
package puzzle

import (
	"fmt"
	"slices"

	"github.com/vovakirdan/slidepuzzle/internal/core"
)

// Direction represents a slide direction on the grid.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	default:
		return DirLeft
	}
}

// delta returns the column/row step for the direction.
func (d Direction) delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	default:
		return 1, 0
	}
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// Board is an N×N tile arrangement. positions[slot] holds the tile id in that
// slot; tile id N²-1 is the empty tile. positions is always a permutation.
type Board struct {
	n         int
	positions []int
}

// NewBoard validates positions for an n×n grid and returns a board owning a copy of them.
func NewBoard(n int, positions []int) (*Board, error) {
	if err := ValidatePositions(n, positions); err != nil {
		return nil, err
	}
	return &Board{n: n, positions: slices.Clone(positions)}, nil
}

// SolvedBoard returns the n×n board with every tile in its home slot.
func SolvedBoard(n int) *Board {
	positions := make([]int, n*n)
	for i := range positions {
		positions[i] = i
	}
	return &Board{n: n, positions: positions}
}

// ValidatePositions checks that positions is a permutation of 0..n²-1.
func ValidatePositions(n int, positions []int) error {
	if n < 2 {
		return fmt.Errorf("%w: grid size %d", ErrInvariantViolation, n)
	}
	if len(positions) != n*n {
		return fmt.Errorf("%w: %d positions for a %dx%d grid", ErrInvariantViolation, len(positions), n, n)
	}

	seen := make([]bool, n*n)
	for slot, id := range positions {
		if id < 0 || id >= n*n {
			return fmt.Errorf("%w: tile %d out of range at slot %d", ErrInvariantViolation, id, slot)
		}
		if seen[id] {
			return fmt.Errorf("%w: tile %d duplicated at slot %d", ErrInvariantViolation, id, slot)
		}
		seen[id] = true
	}
	return nil
}

// Size returns N.
func (b *Board) Size() int {
	return b.n
}

// Len returns the number of slots (N²).
func (b *Board) Len() int {
	return len(b.positions)
}

// EmptyTile returns the reserved empty tile id (N²-1).
func (b *Board) EmptyTile() int {
	return b.n*b.n - 1
}

// Tile returns the tile id in slot.
func (b *Board) Tile(slot int) int {
	return b.positions[slot]
}

// Positions returns a copy of the slot-to-tile arrangement.
func (b *Board) Positions() []int {
	return slices.Clone(b.positions)
}

// InBounds reports whether slot names a slot of this board.
func (b *Board) InBounds(slot int) bool {
	return slot >= 0 && slot < len(b.positions)
}

// SlotCoord maps a slot to its (column, row).
func (b *Board) SlotCoord(slot int) (x, y int) {
	return slot % b.n, slot / b.n
}

// SlotAt maps (column, row) to a slot; ok is false outside the grid.
func (b *Board) SlotAt(x, y int) (slot int, ok bool) {
	if x < 0 || x >= b.n || y < 0 || y >= b.n {
		return 0, false
	}
	return y*b.n + x, true
}

// IndexOf returns the slot holding tile, or -1.
func (b *Board) IndexOf(tile int) int {
	return slices.Index(b.positions, tile)
}

// EmptySlot returns the unique slot holding the empty tile.
func (b *Board) EmptySlot() int {
	return b.IndexOf(b.EmptyTile())
}

// Neighbor returns the slot one step from slot in dir, without wrapping rows.
func (b *Board) Neighbor(slot int, dir Direction) (int, bool) {
	return gridNeighbor(b.n, slot, dir)
}

func gridNeighbor(n, slot int, dir Direction) (int, bool) {
	if slot < 0 || slot >= n*n {
		return 0, false
	}
	dx, dy := dir.delta()
	x, y := slot%n+dx, slot/n+dy
	if x < 0 || x >= n || y < 0 || y >= n {
		return 0, false
	}
	return y*n + x, true
}

// IsAdjacent reports whether two slots are one row or one column step apart.
func (b *Board) IsAdjacent(a, c int) bool {
	if !b.InBounds(a) || !b.InBounds(c) {
		return false
	}
	ax, ay := b.SlotCoord(a)
	cx, cy := b.SlotCoord(c)
	return core.Abs(ax-cx)+core.Abs(ay-cy) == 1
}

// IsAdjacentToEmpty reports whether slot could slide into the empty slot.
func (b *Board) IsAdjacentToEmpty(slot int) bool {
	return b.IsAdjacent(slot, b.EmptySlot())
}

// ApplySwap exchanges the tiles in slots a and c. It is used only for local
// animation bookkeeping; the authority's board remains the source of truth.
func (b *Board) ApplySwap(a, c int) {
	b.positions[a], b.positions[c] = b.positions[c], b.positions[a]
}

// Replace swaps in an authoritative arrangement after validating it.
func (b *Board) Replace(positions []int) error {
	if err := ValidatePositions(b.n, positions); err != nil {
		return err
	}
	b.positions = slices.Clone(positions)
	return nil
}

// IsSolved reports whether every tile sits in its home slot.
func (b *Board) IsSolved() bool {
	for i, id := range b.positions {
		if id != i {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() *Board {
	return &Board{n: b.n, positions: slices.Clone(b.positions)}
}
