package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/slidepuzzle/internal/config"
	"github.com/vovakirdan/slidepuzzle/internal/core"
	"github.com/vovakirdan/slidepuzzle/internal/puzzle"
)

type sessionMode int

const (
	modeMenu sessionMode = iota
	modeGame
	modeScores
)

// SessionModel manages the full flow: menu -> game -> menu. Return-to-menu
// discards the finished game and starts the next one from scratch.
type SessionModel struct {
	cfg      config.PuzzleConfig
	rc       core.RuntimeConfig
	svc      Services
	mode     sessionMode
	menu     MenuModel
	game     *GameModel
	scores   *ScoreboardModel
	sessions uint64
	quitting bool
}

// NewSessionModel creates the top-level model. With skipMenu the first game
// starts immediately using the configured grid size.
func NewSessionModel(cfg config.PuzzleConfig, rc core.RuntimeConfig, svc Services, skipMenu bool) SessionModel {
	m := SessionModel{
		cfg:  cfg,
		rc:   rc,
		svc:  svc,
		menu: NewMenuModel(svc.Store, cfg, rc.ScreenW, rc.ScreenH, ""),
	}
	if skipMenu {
		m.newGame()
	}
	return m
}

func (m *SessionModel) newGame() {
	m.sessions++
	game := NewGameModel(m.cfg, m.rc, m.svc, m.sessions)
	m.game = &game
	m.mode = modeGame
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	if m.mode == modeGame {
		return m.game.Init()
	}
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.rc.ScreenW = wsm.Width
		m.rc.ScreenH = wsm.Height
	}

	switch m.mode {
	case modeGame:
		return m.updateGame(msg)
	case modeScores:
		return m.updateScores(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsScoreboard() {
		scores := NewScoreboardModel(m.svc.Store, m.cfg.Grid.Size, m.rc.ScreenW, m.rc.ScreenH, false)
		m.scores = &scores
		m.mode = modeScores
		return m, scores.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		config.ApplyPreset(&m.cfg, selected.Preset)
		m.newGame()
		return m, m.game.Init()
	}

	return m, cmd
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.game = &gameModel
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.game.BackToMenu() {
		notice := sessionNotice(*m.game)
		m.game = nil
		m.mode = modeMenu
		m.menu = NewMenuModel(m.svc.Store, m.cfg, m.rc.ScreenW, m.rc.ScreenH, notice)
		// Timers of the finished game may still fire; their session no longer matches.
		return m, m.menu.Init()
	}

	return m, cmd
}

// updateScores handles updates when the scoreboard is open.
func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scores.Update(msg)
	if scores, ok := newModel.(ScoreboardModel); ok {
		m.scores = &scores
	}

	if m.scores.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.scores.IsGoingBack() {
		m.scores = nil
		m.mode = modeMenu
		m.menu = NewMenuModel(m.svc.Store, m.cfg, m.rc.ScreenW, m.rc.ScreenH, "")
		return m, nil
	}
	return m, cmd
}

// sessionNotice describes how a game ended for the menu.
func sessionNotice(g GameModel) string {
	if exit, ok := g.Exit(); ok && exit.Reason == puzzle.ExitCorrupt {
		if errors.Is(exit.Err, puzzle.ErrInvariantViolation) {
			return "The server sent an invalid board. That game was abandoned."
		}
		return fmt.Sprintf("That game was abandoned: %v", exit.Err)
	}
	out, ok := g.Outcome()
	switch {
	case !ok:
		return ""
	case out.Won:
		return fmt.Sprintf("Solved %dx%d in %s with %d moves.", out.GridSize, out.GridSize, formatSeconds(out.ElapsedSeconds), out.Moves)
	default:
		return fmt.Sprintf("Out of time on %dx%d after %d moves.", out.GridSize, out.GridSize, out.Moves)
	}
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.mode {
	case modeGame:
		return m.game.View()
	case modeScores:
		return m.scores.View()
	default:
		return m.menu.View()
	}
}

// Run starts a local program for the session flow.
func Run(cfg config.PuzzleConfig, rc core.RuntimeConfig, svc Services, skipMenu bool) error {
	model := NewSessionModel(cfg, rc, svc, skipMenu)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
