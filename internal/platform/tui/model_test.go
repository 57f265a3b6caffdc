package tui

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/slidepuzzle/internal/config"
	"github.com/vovakirdan/slidepuzzle/internal/core"
	"github.com/vovakirdan/slidepuzzle/internal/puzzle"
	"github.com/vovakirdan/slidepuzzle/internal/storage"
)

// oneMoveAuthority deals a 3x3 board that one slide (slot 8 into slot 7) solves.
type oneMoveAuthority struct {
	mu    sync.Mutex
	board *puzzle.Board
}

func (a *oneMoveAuthority) StartGame(_ context.Context, n int) (puzzle.StartResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	positions := []int{0, 1, 2, 3, 4, 5, 6, 8, 7}
	a.board, _ = puzzle.NewBoard(3, positions)
	return puzzle.StartResponse{GridSize: 3, Positions: positions}, nil
}

func (a *oneMoveAuthority) Move(_ context.Context, slot int) (puzzle.MoveResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	moved := a.board.IsAdjacentToEmpty(slot)
	if moved {
		a.board.ApplySwap(slot, a.board.EmptySlot())
	}
	return puzzle.MoveResponse{Moved: moved, Positions: a.board.Positions(), IsSolved: a.board.IsSolved()}, nil
}

// instantTick fires scheduled events immediately.
func instantTick(_ time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	return func() tea.Msg { return fn(time.Now()) }
}

// driver runs commands synchronously and feeds their messages back in.
type driver struct {
	t     *testing.T
	model tea.Model
	queue []tea.Cmd
}

func (d *driver) push(cmd tea.Cmd) {
	if cmd != nil {
		d.queue = append(d.queue, cmd)
	}
}

func (d *driver) send(msg tea.Msg) {
	m, cmd := d.model.Update(msg)
	d.model = m
	d.push(cmd)
}

func (d *driver) runUntil(what string, cond func() bool) {
	d.t.Helper()
	for steps := 0; steps < 5000; steps++ {
		if cond() {
			return
		}
		if len(d.queue) == 0 {
			d.t.Fatalf("nothing left to run before %s", what)
		}
		cmd := d.queue[0]
		d.queue = d.queue[1:]
		switch msg := cmd().(type) {
		case nil:
		case tea.BatchMsg:
			for _, c := range msg {
				d.push(c)
			}
		default:
			d.send(msg)
		}
	}
	d.t.Fatalf("gave up waiting for %s", what)
}

func testConfig() config.PuzzleConfig {
	cfg := config.DefaultPuzzleConfig()
	cfg.Grid.Size = 3
	cfg.Animation.Enabled = false
	return cfg
}

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatalf("storage.Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newGameDriver(t *testing.T, store *storage.Store) *driver {
	t.Helper()
	rc := core.RuntimeConfig{ScreenW: 80, ScreenH: 24}
	gm := NewGameModel(testConfig(), rc, Services{Authority: &oneMoveAuthority{}, Store: store}, 1)
	gm.queue.tick = instantTick

	d := &driver{t: t, model: gm}
	d.push(gm.Init())
	return d
}

func (d *driver) game() GameModel {
	return d.model.(GameModel)
}

func (d *driver) phase() puzzle.Phase {
	return d.game().Frame().Phase
}

func TestGameModelWinSavesResultOnce(t *testing.T) {
	store := openTestStore(t)
	d := newGameDriver(t, store)

	d.runUntil("playing", func() bool { return d.phase() == puzzle.PhasePlaying })
	d.send(runeKey("a")) // Slides the tile right of the empty slot leftwards
	d.runUntil("won", func() bool { return d.phase() == puzzle.PhaseWon })

	out, ok := d.game().Outcome()
	if !ok || !out.Won || out.Moves != 1 {
		t.Fatalf("Outcome() = %+v, %v", out, ok)
	}

	// Later events must not record the session again.
	d.send(runeKey("x"))
	d.send(tea.KeyMsg{Type: tea.KeyEnter})
	if !d.game().BackToMenu() {
		t.Fatal("enter in Won did not return to menu")
	}
	if exit, ok := d.game().Exit(); !ok || exit.Reason != puzzle.ExitMenu {
		t.Errorf("Exit() = %+v, %v", exit, ok)
	}

	st, err := store.Stats(3)
	if err != nil {
		t.Fatal(err)
	}
	if st.Games != 1 || st.Wins != 1 || st.FewestMoves != 1 {
		t.Errorf("Stats = %+v, want one win in one move", st)
	}
}

func TestGameModelMouseClick(t *testing.T) {
	d := newGameDriver(t, nil)
	d.runUntil("playing", func() bool { return d.phase() == puzzle.PhasePlaying })

	geom := d.game().geom
	origin := boardOrigin(80, 3, geom)
	x, y := geom.SlotOrigin(8, 3)
	at := tea.MouseMsg{X: origin.X + x + 2, Y: origin.Y + y + 1, Button: tea.MouseButtonLeft}

	at.Action = tea.MouseActionPress
	d.send(at)
	at.Action = tea.MouseActionRelease
	d.send(at)

	d.runUntil("won", func() bool { return d.phase() == puzzle.PhaseWon })

	// The menu button is clickable once shown.
	menu := d.game().Frame().Menu
	if menu == nil {
		t.Fatal("no menu button in Won")
	}
	click := tea.MouseMsg{X: origin.X + menu.Rect.X, Y: origin.Y + menu.Rect.Y, Button: tea.MouseButtonLeft}
	click.Action = tea.MouseActionPress
	d.send(click)
	click.Action = tea.MouseActionRelease
	d.send(click)
	if !d.game().BackToMenu() {
		t.Error("clicking the menu button did not return to menu")
	}
}

func TestGameModelIgnoresOtherSessions(t *testing.T) {
	d := newGameDriver(t, nil)
	before := d.game().sink.draws

	d.send(eventMsg{session: 99, ev: puzzle.GameStarted{Response: puzzle.StartResponse{GridSize: 3, Positions: []int{0, 1, 2, 3, 4, 5, 6, 7, 8}}}})

	if d.phase() != puzzle.PhaseLoading || d.game().sink.draws != before {
		t.Errorf("event from another session was handled")
	}
}

func TestGameModelEscAbandons(t *testing.T) {
	store := openTestStore(t)
	d := newGameDriver(t, store)
	d.runUntil("reveal", func() bool { return d.phase() == puzzle.PhaseReveal })

	d.send(tea.KeyMsg{Type: tea.KeyEscape})
	if !d.game().BackToMenu() {
		t.Fatal("esc did not leave the session")
	}
	if _, ok := d.game().Exit(); ok {
		t.Error("abandoning should not look like a finished session")
	}
	st, _ := store.Stats(3)
	if st.Games != 0 {
		t.Errorf("abandoned session was recorded: %+v", st)
	}
}

func TestGameModelQuit(t *testing.T) {
	d := newGameDriver(t, nil)
	m, cmd := d.model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !m.(GameModel).IsQuitting() || cmd == nil {
		t.Fatal("ctrl+c did not quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit command does not produce QuitMsg")
	}
	if m.View() != "" {
		t.Error("quitting model still renders")
	}
}

func TestSessionModelBackToMenu(t *testing.T) {
	rc := core.RuntimeConfig{ScreenW: 80, ScreenH: 24}
	sm := NewSessionModel(testConfig(), rc, Services{Authority: &oneMoveAuthority{}}, true)
	sm.game.queue.tick = instantTick

	d := &driver{t: t, model: sm}
	d.push(sm.Init())
	session := func() SessionModel { return d.model.(SessionModel) }

	d.runUntil("playing", func() bool { return session().game.Frame().Phase == puzzle.PhasePlaying })
	d.send(tea.KeyMsg{Type: tea.KeyLeft})
	d.runUntil("won", func() bool { return session().game.Frame().Phase == puzzle.PhaseWon })
	d.send(runeKey("m"))

	s := session()
	if s.mode != modeMenu || s.game != nil {
		t.Fatalf("mode = %v after return to menu", s.mode)
	}
	if !strings.Contains(s.menu.notice, "Solved 3x3") {
		t.Errorf("menu notice = %q", s.menu.notice)
	}
	if !strings.Contains(s.View(), "Choose a difficulty") {
		t.Error("menu not rendered after the game")
	}

	// Timers of the finished game arrive after the menu is up and are ignored.
	d.send(eventMsg{session: 1, ev: puzzle.AutoSolveStep{}})
	if session().mode != modeMenu {
		t.Error("stale game event left the menu")
	}
}

func TestSessionModelMenuFlow(t *testing.T) {
	rc := core.RuntimeConfig{ScreenW: 80, ScreenH: 24}
	sm := NewSessionModel(testConfig(), rc, Services{Authority: &oneMoveAuthority{}}, false)
	if sm.mode != modeMenu {
		t.Fatalf("mode = %v, want menu", sm.mode)
	}

	m, _ := sm.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.(SessionModel).mode != modeScores {
		t.Fatal("tab did not open the scoreboard")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	if m.(SessionModel).mode != modeMenu {
		t.Fatal("esc did not close the scoreboard")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	s := m.(SessionModel)
	if s.mode != modeGame || cmd == nil {
		t.Fatal("enter did not start a game")
	}
	if got := s.game.ctrl.Settings().GridSize; got != 4 {
		t.Errorf("grid size = %d, want 4 for the normal preset", got)
	}
	s.game.ctrl.Teardown()
}
