package puzzle

import (
	"context"
	"time"
)

// StartResponse is the move authority's answer to a new game request.
type StartResponse struct {
	GridSize  int    `json:"grid_size"`
	Positions []int  `json:"positions"`
	ImagePath string `json:"image_path"`
}

// MoveResponse is the move authority's answer to a move request. Positions is
// always the full authoritative board, whether or not the move happened.
type MoveResponse struct {
	Moved     bool  `json:"moved"`
	Positions []int `json:"positions"`
	IsSolved  bool  `json:"is_solved"`
}

// Authority owns the canonical shuffle and validates and executes moves.
// Calls block and are always made off the controller's loop.
type Authority interface {
	StartGame(ctx context.Context, gridSize int) (StartResponse, error)
	Move(ctx context.Context, slot int) (MoveResponse, error)
}

// AssetLoader loads the picture behind an image path. Load returning is the
// load-completion signal the Loading phase waits for.
type AssetLoader interface {
	Load(ctx context.Context, path string) error
}

// Surface receives a draw call after every controller state change.
type Surface interface {
	Draw(DrawCall)
}

// Dispatcher connects the controller to its event loop. Events produced by
// After and Go are delivered back into the same ordered inbox that feeds
// Controller.Handle; nothing re-enters the controller from another goroutine.
type Dispatcher interface {
	// After delivers ev once d has elapsed.
	After(d time.Duration, ev Event)
	// Go runs fn off the loop and delivers the event it returns.
	Go(fn func() Event)
}

// Event is a message consumed by Controller.Handle.
type Event interface {
	event()
}

// GameStarted carries the authority's answer to StartGame.
type GameStarted struct {
	Response StartResponse
	Err      error
}

// ImageLoaded signals that the asset loader finished with the session image.
type ImageLoaded struct {
	Path string
	Err  error
}

// TimerTick is the one-second cadence of a countdown.
type TimerTick struct {
	Timer TimerKind
	Gen   uint64
}

// AnimationFrame asks the controller to advance the current tile slide.
type AnimationFrame struct {
	Seq uint64
}

// MoveResponseArrived carries the authority's answer to a move request.
type MoveResponseArrived struct {
	Seq      uint64
	Response MoveResponse
	Err      error
}

// DelayElapsed ends the timed-out message pause.
type DelayElapsed struct {
	Seq uint64
}

// AutoSolveStep advances the auto-solve animation by one swap.
type AutoSolveStep struct{}

// MoveIntent asks to slide the tile in Slot into the empty slot.
type MoveIntent struct {
	Slot int
}

// ReturnToMenu is the player's request to leave a finished session.
type ReturnToMenu struct{}

func (GameStarted) event()         {}
func (ImageLoaded) event()         {}
func (TimerTick) event()           {}
func (AnimationFrame) event()      {}
func (MoveResponseArrived) event() {}
func (DelayElapsed) event()        {}
func (AutoSolveStep) event()       {}
func (MoveIntent) event()          {}
func (ReturnToMenu) event()        {}
