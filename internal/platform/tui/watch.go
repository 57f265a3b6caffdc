package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/slidepuzzle/internal/authority"
	"github.com/vovakirdan/slidepuzzle/internal/core"
	"github.com/vovakirdan/slidepuzzle/internal/puzzle"
)

type boardUpdateMsg authority.BoardUpdate

type watchEndedMsg struct {
	err error
}

// WatchModel follows another player's session as a read-only spectator.
type WatchModel struct {
	session  string
	updates  chan authority.BoardUpdate
	ended    chan error
	cancel   context.CancelFunc
	geom     puzzle.Geometry
	screen   *core.Screen
	last     *authority.BoardUpdate
	moves    int
	done     bool
	err      error
	quitting bool
}

// NewWatchModel connects to the spectator stream at wsURL.
func NewWatchModel(ctx context.Context, wsURL, session string, geom puzzle.Geometry, rc core.RuntimeConfig) WatchModel {
	ctx, cancel := context.WithCancel(ctx)
	m := WatchModel{
		session: session,
		updates: make(chan authority.BoardUpdate, 16),
		ended:   make(chan error, 1),
		cancel:  cancel,
		geom:    geom,
		screen:  core.NewScreen(rc.ScreenW, rc.ScreenH),
	}

	updates, ended := m.updates, m.ended
	go func() {
		ended <- authority.Watch(ctx, wsURL, func(u authority.BoardUpdate) {
			select {
			case updates <- u:
			case <-ctx.Done():
			}
		})
	}()
	return m
}

// waitForUpdate blocks until the next board update or the end of the stream.
func (m WatchModel) waitForUpdate() tea.Cmd {
	updates, ended := m.updates, m.ended
	return func() tea.Msg {
		select {
		case u := <-updates:
			return boardUpdateMsg(u)
		case err := <-ended:
			return watchEndedMsg{err: err}
		}
	}
}

// Init starts listening.
func (m WatchModel) Init() tea.Cmd {
	return m.waitForUpdate()
}

// Update handles messages.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case boardUpdateMsg:
		u := authority.BoardUpdate(msg)
		switch {
		case u.Event == authority.EventStart:
			m.moves = 0
		case u.Moved:
			m.moves++
		}
		m.last = &u
		return m, m.waitForUpdate()

	case watchEndedMsg:
		m.done = true
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.cancel()
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, msg.Height)
	}
	return m, nil
}

// Frame converts the latest update into a draw call.
func (m WatchModel) Frame() puzzle.DrawCall {
	if m.last == nil {
		return puzzle.DrawCall{}
	}
	f := puzzle.DrawCall{
		Phase:     puzzle.PhasePlaying,
		GridSize:  m.last.GridSize,
		Positions: m.last.Positions,
		ImagePath: m.last.ImagePath,
		Moves:     m.moves,
	}
	if m.last.IsSolved {
		f.Phase = puzzle.PhaseWon
		f.Overlay = "Solved!"
	}
	if m.done {
		f.Error = "Stream closed"
		if m.err != nil {
			f.Error = m.err.Error()
		}
	}
	return f
}

// View renders the spectated board.
func (m WatchModel) View() string {
	if m.quitting {
		return ""
	}
	hint := fmt.Sprintf("Watching session %s  |  Q: quit", m.session)

	f := m.Frame()
	if f.GridSize == 0 {
		m.screen.Clear()
		status := "Waiting for the player's next move..."
		if m.done {
			status = "Stream closed before any board arrived."
			if m.err != nil {
				status = m.err.Error()
			}
		}
		m.screen.DrawTextCentered(m.screen.Height()/2, status)
		m.screen.DrawTextColored(0, m.screen.Height()-1, hint, core.ColorGray)
		return RenderScreen(m.screen)
	}

	DrawFrame(m.screen, f, m.geom, FallbackColors(f.GridSize), hint)
	return RenderScreen(m.screen)
}

// RunWatch runs a spectator program until the user quits.
func RunWatch(ctx context.Context, wsURL, session string, geom puzzle.Geometry, rc core.RuntimeConfig) error {
	p := tea.NewProgram(NewWatchModel(ctx, wsURL, session, geom, rc), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
