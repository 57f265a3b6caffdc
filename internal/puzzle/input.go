package puzzle

import "github.com/vovakirdan/slidepuzzle/internal/core"

// DefaultSwipeThreshold is the minimum dominant-axis travel, in surface units,
// for a press/release pair to count as a swipe.
const DefaultSwipeThreshold = 30

// InputAdapter turns raw pointer, swipe and key input into controller events.
// It knows the board geometry but not the board: adjacency and phase are the
// controller's business.
type InputAdapter struct {
	n         int
	geom      Geometry
	threshold int
}

// NewInputAdapter creates an adapter for an n×n board.
func NewInputAdapter(n int, geom Geometry, swipeThreshold int) *InputAdapter {
	if swipeThreshold <= 0 {
		swipeThreshold = DefaultSwipeThreshold
	}
	return &InputAdapter{n: n, geom: geom, threshold: swipeThreshold}
}

// SlotAt maps a board-local point to a slot by integer division.
func (a *InputAdapter) SlotAt(x, y int) (int, bool) {
	if x < 0 || y < 0 || a.geom.TileW <= 0 || a.geom.TileH <= 0 {
		return 0, false
	}
	col, row := x/a.geom.TileW, y/a.geom.TileH
	if col >= a.n || row >= a.n {
		return 0, false
	}
	return row*a.n + col, true
}

// Click maps a pointer press at a board-local point. A visible menu button
// takes priority over the tile underneath it.
func (a *InputAdapter) Click(x, y int, menu *MenuButton) (Event, bool) {
	if menu != nil && menu.Rect.Contains(x, y) {
		return ReturnToMenu{}, true
	}
	slot, ok := a.SlotAt(x, y)
	if !ok {
		return nil, false
	}
	return MoveIntent{Slot: slot}, true
}

// SwipeDirection classifies a drag. It reports false below the threshold or
// when neither axis dominates.
func (a *InputAdapter) SwipeDirection(dx, dy int) (Direction, bool) {
	ax, ay := core.Abs(dx), core.Abs(dy)
	if ax == ay || core.Max(ax, ay) < a.threshold {
		return 0, false
	}
	if ax > ay {
		if dx > 0 {
			return DirRight, true
		}
		return DirLeft, true
	}
	if dy > 0 {
		return DirDown, true
	}
	return DirUp, true
}

// Swipe maps a drag to the tile that would slide in the drag's direction:
// the empty slot's neighbour on the opposite side.
func (a *InputAdapter) Swipe(dx, dy, emptySlot int) (MoveIntent, bool) {
	dir, ok := a.SwipeDirection(dx, dy)
	if !ok {
		return MoveIntent{}, false
	}
	return a.Direction(dir, emptySlot)
}

// Direction maps a directional key the same way as a swipe.
func (a *InputAdapter) Direction(dir Direction, emptySlot int) (MoveIntent, bool) {
	slot, ok := gridNeighbor(a.n, emptySlot, dir.Opposite())
	if !ok {
		return MoveIntent{}, false
	}
	return MoveIntent{Slot: slot}, true
}

// Gesture classifies a press/release pair. Travel below the threshold on
// both axes is a click at the press point; anything longer is a swipe.
func (a *InputAdapter) Gesture(start, end core.Point, emptySlot int, menu *MenuButton) (Event, bool) {
	dx, dy := end.X-start.X, end.Y-start.Y
	if core.Max(core.Abs(dx), core.Abs(dy)) < a.threshold {
		return a.Click(start.X, start.Y, menu)
	}
	intent, ok := a.Swipe(dx, dy, emptySlot)
	if !ok {
		return nil, false
	}
	return intent, true
}
