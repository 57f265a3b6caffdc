package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/slidepuzzle/internal/config"
	"github.com/vovakirdan/slidepuzzle/internal/core"
	"github.com/vovakirdan/slidepuzzle/internal/puzzle"
	"github.com/vovakirdan/slidepuzzle/internal/storage"
)

// Services are the collaborators a puzzle session needs from its host.
type Services struct {
	Authority puzzle.Authority
	Opener    Opener         // Where session pictures are read from; nil reads local files
	Store     *storage.Store // Optional results database
	Logger    *log.Logger    // Optional; nil discards
}

func (s Services) logger() *log.Logger {
	if s.Logger == nil {
		return log.New(io.Discard)
	}
	return s.Logger
}

// GameModel runs one puzzle session inside Bubble Tea.
type GameModel struct {
	ctrl      *puzzle.Controller
	queue     *cmdQueue
	sink      *frameSink
	pictures  *PictureLoader
	input     *puzzle.InputAdapter
	geom      puzzle.Geometry
	screen    *core.Screen
	svc       Services
	keyMapper *KeyMapper
	session   uint64

	press       *core.Point // Board-local cell of an unfinished mouse press
	quitting    bool
	backToMenu  bool
	resultSaved bool
}

// NewGameModel creates a session for the configured grid size. Session
// numbers must differ between sessions of one program.
func NewGameModel(cfg config.PuzzleConfig, rc core.RuntimeConfig, svc Services, session uint64) GameModel {
	settings := cfg.Settings(rc.ScreenW)
	queue := newCmdQueue(session)
	sink := &frameSink{}
	pictures := NewPictureLoader(svc.Opener, settings.GridSize)

	ctrl := puzzle.New(settings, svc.Authority, queue, sink,
		puzzle.WithLogger(svc.logger().With("session", session)),
		puzzle.WithAssets(pictures),
	)

	return GameModel{
		ctrl:      ctrl,
		queue:     queue,
		sink:      sink,
		pictures:  pictures,
		input:     puzzle.NewInputAdapter(settings.GridSize, settings.Geometry, cfg.Input.SwipeThreshold),
		geom:      settings.Geometry,
		screen:    core.NewScreen(rc.ScreenW, rc.ScreenH),
		svc:       svc,
		keyMapper: NewKeyMapper(),
		session:   session,
	}
}

// Init starts the session.
func (m GameModel) Init() tea.Cmd {
	m.ctrl.Start()
	return m.queue.Drain()
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		if msg.session != m.session {
			return m, nil
		}
		m.ctrl.Handle(msg.ev)
		return m.afterHandle()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		// Tile geometry is fixed for the session; only the board origin moves.
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil
	}
	return m, nil
}

// afterHandle records a finished session once and collects scheduled work.
func (m GameModel) afterHandle() (tea.Model, tea.Cmd) {
	if !m.resultSaved {
		if out, ok := m.ctrl.Outcome(); ok {
			m.saveResult(out)
			m.resultSaved = true
		}
	}
	if _, ok := m.ctrl.Exit(); ok {
		m.backToMenu = true
	}
	return m, m.queue.Drain()
}

func (m GameModel) saveResult(out puzzle.Outcome) {
	if m.svc.Store == nil {
		return
	}
	_, err := m.svc.Store.SaveResult(storage.Result{
		GridSize:    out.GridSize,
		Won:         out.Won,
		Moves:       out.Moves,
		ElapsedSecs: out.ElapsedSeconds,
		Image:       out.Image,
	})
	if err != nil {
		m.svc.logger().Warn("could not save result", "error", err)
	}
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.ctrl.Teardown()
		m.quitting = true
		return m, tea.Quit
	}

	switch action {
	case core.ActionUp, core.ActionDown, core.ActionLeft, core.ActionRight:
		dir, _ := ActionDirection(action)
		if empty, ok := m.ctrl.EmptySlot(); ok {
			if intent, ok := m.input.Direction(dir, empty); ok {
				m.ctrl.Handle(intent)
			}
		}

	case core.ActionConfirm, core.ActionMenu:
		m.ctrl.Handle(puzzle.ReturnToMenu{})

	case core.ActionBack:
		// Esc leaves a finished session normally and abandons a running one.
		m.ctrl.Handle(puzzle.ReturnToMenu{})
		if _, ok := m.ctrl.Exit(); !ok {
			m.ctrl.Teardown()
			m.backToMenu = true
		}

	case core.ActionScreenshot:
		m.saveScreenshot()
		return m, nil
	}

	return m.afterHandle()
}

// handleMouse turns a left-button press/release pair into a click or swipe.
func (m GameModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	n := m.ctrl.Settings().GridSize
	origin := boardOrigin(m.screen.Width(), n, m.geom)
	p := core.Point{X: msg.X - origin.X, Y: msg.Y - origin.Y}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.press = &p
		}
		return m, nil

	case tea.MouseActionRelease:
		if m.press == nil {
			return m, nil
		}
		start := *m.press
		m.press = nil

		empty, _ := m.ctrl.EmptySlot()
		if ev, ok := m.input.Gesture(start, p, empty, m.sink.last.Menu); ok {
			m.ctrl.Handle(ev)
		}
		return m.afterHandle()
	}
	return m, nil
}

// saveScreenshot saves the current screen to a file.
func (m GameModel) saveScreenshot() {
	m.render()

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".slidepuzzle", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	n := m.ctrl.Settings().GridSize
	path := filepath.Join(dir, fmt.Sprintf("puzzle%dx%d_%s.txt", n, n, timestamp))

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

func (m GameModel) render() {
	f := m.sink.last
	DrawFrame(m.screen, f, m.geom, m.pictures.Colors(f.ImagePath), hintFor(f))
}

// hintFor returns the control help for the footer.
func hintFor(f puzzle.DrawCall) string {
	switch {
	case f.Phase.Terminal() || f.Error != "":
		return "Enter/M or click: back to menu  |  Q: quit"
	case f.Phase == puzzle.PhasePlaying:
		return "Arrows/WASD, click or drag: slide  |  Esc: give up  |  Q: quit"
	default:
		return "Esc: give up  |  Q: quit"
	}
}

// View renders the current frame.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	m.render()
	return RenderScreen(m.screen)
}

// Frame returns the last frame the controller drew.
func (m GameModel) Frame() puzzle.DrawCall {
	return m.sink.last
}

// Exit returns why the session ended, once it has.
func (m GameModel) Exit() (puzzle.Exit, bool) {
	return m.ctrl.Exit()
}

// Outcome returns the session result once it is known.
func (m GameModel) Outcome() (puzzle.Outcome, bool) {
	return m.ctrl.Outcome()
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true once the session is over and the host should show
// the menu again.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}
