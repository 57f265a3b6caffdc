package puzzle

import (
	"errors"
	"slices"
	"testing"
)

func mustBoard(t *testing.T, n int, positions []int) *Board {
	t.Helper()
	b, err := NewBoard(n, positions)
	if err != nil {
		t.Fatalf("NewBoard(%d, %v) error = %v", n, positions, err)
	}
	return b
}

func TestValidatePositions(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		positions []int
		wantErr   bool
	}{
		{"solved 3x3", 3, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, false},
		{"shuffled 2x2", 2, []int{3, 1, 0, 2}, false},
		{"too short", 3, []int{0, 1, 2}, true},
		{"duplicate", 2, []int{0, 0, 1, 2}, true},
		{"out of range", 2, []int{0, 1, 2, 4}, true},
		{"negative", 2, []int{-1, 1, 2, 3}, true},
		{"grid too small", 1, []int{0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePositions(tt.n, tt.positions)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidatePositions() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvariantViolation) {
				t.Errorf("error %v does not wrap ErrInvariantViolation", err)
			}
		})
	}
}

func TestBoardEmptySlot(t *testing.T) {
	b := mustBoard(t, 3, []int{1, 0, 8, 3, 4, 5, 6, 7, 2})
	if got := b.EmptySlot(); got != 2 {
		t.Errorf("EmptySlot() = %d, want 2", got)
	}
	if got := b.EmptyTile(); got != 8 {
		t.Errorf("EmptyTile() = %d, want 8", got)
	}
}

func TestBoardIsAdjacentToEmpty(t *testing.T) {
	// 3x3 with the empty tile in slot 2 (top-right corner).
	b := mustBoard(t, 3, []int{1, 0, 8, 3, 4, 5, 6, 7, 2})

	tests := []struct {
		slot int
		want bool
	}{
		{1, true},   // left of empty
		{5, true},   // below empty
		{3, false},  // next slot in row-major order, but wraps to the next row
		{4, false},  // diagonal
		{0, false},  // same row, two away
		{8, false},  // same column, two away
		{2, false},  // the empty slot itself
		{-1, false}, // out of bounds
		{9, false},  // out of bounds
	}

	for _, tt := range tests {
		if got := b.IsAdjacentToEmpty(tt.slot); got != tt.want {
			t.Errorf("IsAdjacentToEmpty(%d) = %v, want %v", tt.slot, got, tt.want)
		}
	}
}

func TestBoardIsAdjacentSymmetric(t *testing.T) {
	b := SolvedBoard(4)
	for a := 0; a < b.Len(); a++ {
		for c := 0; c < b.Len(); c++ {
			if b.IsAdjacent(a, c) != b.IsAdjacent(c, a) {
				t.Fatalf("IsAdjacent(%d, %d) != IsAdjacent(%d, %d)", a, c, c, a)
			}
		}
	}
}

func TestBoardNeighborNoWrap(t *testing.T) {
	b := SolvedBoard(3)

	tests := []struct {
		slot int
		dir  Direction
		want int
		ok   bool
	}{
		{4, DirUp, 1, true},
		{4, DirDown, 7, true},
		{4, DirLeft, 3, true},
		{4, DirRight, 5, true},
		{2, DirRight, 0, false},
		{3, DirLeft, 0, false},
		{0, DirUp, 0, false},
		{8, DirDown, 0, false},
	}

	for _, tt := range tests {
		got, ok := b.Neighbor(tt.slot, tt.dir)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("Neighbor(%d, %v) = (%d, %v), want (%d, %v)", tt.slot, tt.dir, got, ok, tt.want, tt.ok)
		}
	}
}

func TestBoardApplySwapKeepsPermutation(t *testing.T) {
	b := mustBoard(t, 3, []int{1, 0, 2, 3, 4, 5, 6, 7, 8})
	b.ApplySwap(5, 8)
	want := []int{1, 0, 2, 3, 4, 8, 6, 7, 5}
	if !slices.Equal(b.Positions(), want) {
		t.Errorf("Positions() = %v, want %v", b.Positions(), want)
	}
	if err := ValidatePositions(3, b.Positions()); err != nil {
		t.Errorf("permutation broken after swap: %v", err)
	}
	if b.EmptySlot() != 5 {
		t.Errorf("EmptySlot() = %d, want 5", b.EmptySlot())
	}
}

func TestBoardReplaceRejectsCorrupt(t *testing.T) {
	b := SolvedBoard(2)
	err := b.Replace([]int{0, 1, 1, 3})
	if !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("Replace() error = %v, want ErrInvariantViolation", err)
	}
	if !b.IsSolved() {
		t.Error("board changed after rejected Replace")
	}
}

func TestBoardPositionsIsCopy(t *testing.T) {
	b := SolvedBoard(2)
	p := b.Positions()
	p[0] = 3
	if b.Tile(0) != 0 {
		t.Error("mutating Positions() result changed the board")
	}
}

func TestBoardIsSolved(t *testing.T) {
	if !SolvedBoard(3).IsSolved() {
		t.Error("SolvedBoard(3).IsSolved() = false")
	}
	b := mustBoard(t, 2, []int{1, 0, 2, 3})
	if b.IsSolved() {
		t.Error("IsSolved() = true for shuffled board")
	}
}
