// Package tui provides the Bubble Tea integration for the slide puzzle.
// It runs the puzzle controller inside the Bubble Tea loop, maps keys and
// mouse gestures to intents, and renders draw calls to the terminal.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/slidepuzzle/internal/puzzle"
)

// eventMsg carries a controller event through the Bubble Tea loop. Session
// tells events of an abandoned session apart from the current one.
type eventMsg struct {
	session uint64
	ev      puzzle.Event
}

// cmdQueue is the controller's dispatcher. The controller schedules work
// while it handles an event; the model drains the queue into a tea.Cmd when
// Handle returns, so every result comes back through Update.
type cmdQueue struct {
	session uint64
	pending []tea.Cmd
	tick    func(time.Duration, func(time.Time) tea.Msg) tea.Cmd
}

func newCmdQueue(session uint64) *cmdQueue {
	return &cmdQueue{session: session, tick: tea.Tick}
}

// After implements puzzle.Dispatcher.
func (q *cmdQueue) After(d time.Duration, ev puzzle.Event) {
	session := q.session
	q.pending = append(q.pending, q.tick(d, func(time.Time) tea.Msg {
		return eventMsg{session: session, ev: ev}
	}))
}

// Go implements puzzle.Dispatcher.
func (q *cmdQueue) Go(fn func() puzzle.Event) {
	session := q.session
	q.pending = append(q.pending, func() tea.Msg {
		return eventMsg{session: session, ev: fn()}
	})
}

// Drain returns everything scheduled since the last drain as one command.
func (q *cmdQueue) Drain() tea.Cmd {
	if len(q.pending) == 0 {
		return nil
	}
	cmds := q.pending
	q.pending = nil
	return tea.Batch(cmds...)
}

// frameSink is the controller's surface; the view renders its last frame.
type frameSink struct {
	last  puzzle.DrawCall
	draws int
}

// Draw implements puzzle.Surface.
func (s *frameSink) Draw(f puzzle.DrawCall) {
	s.last = f
	s.draws++
}
