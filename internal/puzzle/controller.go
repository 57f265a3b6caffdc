package puzzle

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Settings parameterizes a session.
type Settings struct {
	GridSize      int
	RevealSeconds int
	PlaySeconds   int
	TimeoutDelay  time.Duration // How long "not quite" stays up before auto-solve
	SlideDuration time.Duration
	AutoSolveStep time.Duration // Pause between auto-solve swaps
	FrameInterval time.Duration // Slide animation frame cadence
	AnimateSlides bool          // When false a slide completes instantly
	Geometry      Geometry
	Messages      Messages
}

// DefaultSettings returns the stock timings for an n×n board.
func DefaultSettings(n int) Settings {
	return Settings{
		GridSize:      n,
		RevealSeconds: 5,
		PlaySeconds:   30,
		TimeoutDelay:  3 * time.Second,
		SlideDuration: 150 * time.Millisecond,
		AutoSolveStep: 100 * time.Millisecond,
		FrameInterval: time.Second / 60,
		AnimateSlides: true,
		Geometry:      DefaultGeometry(),
		Messages:      DefaultMessages(),
	}
}

// ExitReason says why a session ended.
type ExitReason int

const (
	// ExitMenu is the player's return to the menu from a finished session.
	ExitMenu ExitReason = iota
	// ExitCorrupt is a forced return after the authority sent an invalid board.
	ExitCorrupt
)

func (r ExitReason) String() string {
	if r == ExitCorrupt {
		return "corrupt"
	}
	return "menu"
}

// Exit asks the host to start over from the menu.
type Exit struct {
	Reason ExitReason
	Err    error
}

// Outcome summarizes a finished session.
type Outcome struct {
	GridSize       int
	Won            bool
	Moves          int
	ElapsedSeconds int
	Image          string
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger for phase changes and failures.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock overrides the time source used for slide interpolation.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithAssets makes Loading wait for the session picture to load.
func WithAssets(a AssetLoader) Option {
	return func(c *Controller) {
		c.assets = a
	}
}

// Controller runs one puzzle session. It is not safe for concurrent use:
// every method must be called from the loop that drains the dispatcher.
type Controller struct {
	settings Settings
	auth     Authority
	disp     Dispatcher
	surface  Surface
	assets   AssetLoader
	logger   *log.Logger
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	phase     Phase
	board     *Board
	imagePath string

	reveal *Countdown
	play   *Countdown

	// Move lifecycle. A move settles once slide is nil and pending is set.
	inFlight bool
	moveSeq  uint64
	pending  *MoveResponse
	slide    *SlideAnimation
	animSeq  uint64
	moves    int

	delaySeq uint64
	solver   *AutoSolver

	overlay   string
	subtitle  string
	timerText string
	errText   string
	menu      *MenuButton

	outcome *Outcome
	exit    *Exit
	torn    bool
}

// New creates a controller in the Loading phase. Nothing happens until Start.
func New(settings Settings, auth Authority, disp Dispatcher, surface Surface, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		settings: settings,
		auth:     auth,
		disp:     disp,
		surface:  surface,
		logger:   log.New(io.Discard),
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
		phase:    PhaseLoading,
		reveal:   NewCountdown(TimerReveal, disp),
		play:     NewCountdown(TimerPlay, disp),
		overlay:  settings.Messages.Loading,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start requests a board from the authority.
func (c *Controller) Start() {
	if c.torn {
		return
	}
	ctx, auth, n := c.ctx, c.auth, c.settings.GridSize
	c.logger.Debug("starting session", "grid", n)
	c.disp.Go(func() Event {
		resp, err := auth.StartGame(ctx, n)
		return GameStarted{Response: resp, Err: err}
	})
	c.draw()
}

// Handle processes one event from the inbox. Events that do not apply to the
// current state are ignored.
func (c *Controller) Handle(ev Event) {
	if c.torn {
		return
	}

	var changed bool
	switch e := ev.(type) {
	case GameStarted:
		changed = c.handleStarted(e)
	case ImageLoaded:
		changed = c.handleImageLoaded(e)
	case TimerTick:
		changed = c.reveal.Handle(e) || c.play.Handle(e)
	case AnimationFrame:
		changed = c.handleFrame(e)
	case MoveResponseArrived:
		changed = c.handleMoveResponse(e)
	case DelayElapsed:
		changed = c.handleDelay(e)
	case AutoSolveStep:
		changed = c.handleAutoSolveStep()
	case MoveIntent:
		changed = c.handleMoveIntent(e)
	case ReturnToMenu:
		changed = c.handleReturn()
	}

	if changed && !c.torn {
		c.draw()
	}
}

// Teardown stops all timers and abandons in-flight work. It is idempotent.
func (c *Controller) Teardown() {
	if c.torn {
		return
	}
	c.torn = true
	c.reveal.Stop()
	c.play.Stop()
	c.cancel()
	c.slide = nil
	c.solver = nil
	c.pending = nil
	c.inFlight = false
	c.logger.Debug("session torn down", "phase", c.phase)
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Settings returns the session settings.
func (c *Controller) Settings() Settings {
	return c.settings
}

// Moves returns the number of confirmed moves.
func (c *Controller) Moves() int {
	return c.moves
}

// EmptySlot returns the local board's empty slot once a board is known.
func (c *Controller) EmptySlot() (int, bool) {
	if c.board == nil {
		return 0, false
	}
	return c.board.EmptySlot(), true
}

// Exit returns the host request made by a torn-down session.
func (c *Controller) Exit() (Exit, bool) {
	if c.exit == nil {
		return Exit{}, false
	}
	return *c.exit, true
}

// Outcome returns the session result once it has reached Won or Idle.
func (c *Controller) Outcome() (Outcome, bool) {
	if c.outcome == nil {
		return Outcome{}, false
	}
	return *c.outcome, true
}

// Frame builds the draw call for the current state.
func (c *Controller) Frame() DrawCall {
	f := DrawCall{
		Phase:     c.phase,
		GridSize:  c.settings.GridSize,
		ImagePath: c.imagePath,
		Overlay:   c.overlay,
		Subtitle:  c.subtitle,
		TimerText: c.timerText,
		Moves:     c.moves,
		Error:     c.errText,
		InputOpen: c.inputOpen(),
	}
	switch {
	case c.board == nil:
	case c.phase == PhaseReveal || c.phase == PhaseLoading:
		f.Positions = SolvedBoard(c.settings.GridSize).Positions()
	default:
		f.Positions = c.board.Positions()
	}
	if c.slide != nil {
		x, y := c.slide.Position(c.now(), c.settings.GridSize, c.settings.Geometry)
		f.Moving = &TileMotion{Tile: c.slide.Tile, X: x, Y: y}
	}
	if c.menu != nil {
		m := *c.menu
		f.Menu = &m
	}
	return f
}

func (c *Controller) draw() {
	if c.surface != nil {
		c.surface.Draw(c.Frame())
	}
}

func (c *Controller) inputOpen() bool {
	return c.phase == PhasePlaying && !c.inFlight && c.errText == ""
}

func (c *Controller) setPhase(p Phase) bool {
	if !c.phase.CanTransitionTo(p) {
		c.logger.Warn("rejected phase change", "from", c.phase, "to", p)
		return false
	}
	c.logger.Debug("phase", "from", c.phase, "to", p)
	c.phase = p
	return true
}

func (c *Controller) fail(err error) {
	c.errText = fmt.Sprintf(c.settings.Messages.ConnectionLost, err)
	c.logger.Warn("authority failure", "phase", c.phase, "err", err)
}

// abort ends the session without applying a corrupt board.
func (c *Controller) abort(err error) {
	c.logger.Error("invalid board from authority", "phase", c.phase, "err", err)
	c.exit = &Exit{Reason: ExitCorrupt, Err: err}
	c.Teardown()
}

func (c *Controller) handleStarted(e GameStarted) bool {
	if c.phase != PhaseLoading || c.board != nil {
		return false
	}
	if e.Err != nil {
		c.fail(e.Err)
		return true
	}
	board, err := NewBoard(c.settings.GridSize, e.Response.Positions)
	if err != nil {
		c.abort(err)
		return false
	}
	c.board = board
	c.imagePath = e.Response.ImagePath

	if c.assets == nil {
		c.enterReveal()
		return true
	}
	ctx, assets, path := c.ctx, c.assets, c.imagePath
	c.disp.Go(func() Event {
		return ImageLoaded{Path: path, Err: assets.Load(ctx, path)}
	})
	return true
}

func (c *Controller) handleImageLoaded(e ImageLoaded) bool {
	if c.phase != PhaseLoading || c.board == nil || e.Path != c.imagePath {
		return false
	}
	if e.Err != nil {
		// The tiles still carry their numbers, so play can go on without the picture.
		c.logger.Warn("picture failed to load", "path", e.Path, "err", e.Err)
	}
	c.enterReveal()
	return true
}

func (c *Controller) enterReveal() {
	if !c.setPhase(PhaseReveal) {
		return
	}
	msgs := c.settings.Messages
	c.overlay = msgs.Reveal
	c.reveal.Start(c.settings.RevealSeconds,
		func(remaining int) {
			c.subtitle = fmt.Sprintf(msgs.RevealCountdown, remaining)
		},
		c.enterPlaying,
	)
}

func (c *Controller) enterPlaying() {
	if !c.setPhase(PhasePlaying) {
		return
	}
	c.overlay, c.subtitle = "", ""
	c.play.Start(c.settings.PlaySeconds,
		func(remaining int) {
			c.timerText = fmt.Sprintf(c.settings.Messages.TimerFormat, remaining/60, remaining%60)
		},
		c.enterTimedOut,
	)
}

func (c *Controller) handleMoveIntent(e MoveIntent) bool {
	if !c.inputOpen() || c.board == nil {
		return false
	}
	if !c.board.InBounds(e.Slot) || !c.board.IsAdjacentToEmpty(e.Slot) {
		return false
	}

	empty := c.board.EmptySlot()
	tile := c.board.Tile(e.Slot)
	c.board.ApplySwap(e.Slot, empty)
	c.inFlight = true
	c.pending = nil
	c.moveSeq++

	ctx, auth, seq, slot := c.ctx, c.auth, c.moveSeq, e.Slot
	c.disp.Go(func() Event {
		resp, err := auth.Move(ctx, slot)
		return MoveResponseArrived{Seq: seq, Response: resp, Err: err}
	})

	if !c.settings.AnimateSlides || c.settings.SlideDuration <= 0 {
		c.slide = nil
		return true
	}
	c.slide = &SlideAnimation{
		Tile:     tile,
		FromSlot: e.Slot,
		ToSlot:   empty,
		Start:    c.now(),
		Duration: c.settings.SlideDuration,
	}
	c.animSeq++
	c.disp.After(c.settings.FrameInterval, AnimationFrame{Seq: c.animSeq})
	return true
}

func (c *Controller) handleFrame(e AnimationFrame) bool {
	if c.slide == nil || e.Seq != c.animSeq {
		return false
	}
	if !c.slide.Done(c.now()) {
		c.disp.After(c.settings.FrameInterval, AnimationFrame{Seq: c.animSeq})
		return true
	}
	c.slide = nil
	c.settle()
	return true
}

func (c *Controller) handleMoveResponse(e MoveResponseArrived) bool {
	if !c.inFlight || e.Seq != c.moveSeq {
		return false
	}
	if e.Err != nil {
		c.inFlight = false
		c.fail(e.Err)
		return true
	}
	if err := ValidatePositions(c.settings.GridSize, e.Response.Positions); err != nil {
		c.abort(err)
		return false
	}

	switch c.phase {
	case PhasePlaying:
		resp := e.Response
		c.pending = &resp
		c.settle()
	case PhaseTimedOut, PhaseAutoSolving:
		// Applied for display only; the timeout already decided the session.
		c.inFlight = false
		c.applyBoard(e.Response)
	default:
		c.inFlight = false
		return false
	}
	return true
}

// settle finishes a move once both the slide and the response are done.
func (c *Controller) settle() {
	if !c.inFlight || c.slide != nil || c.pending == nil {
		return
	}
	resp := *c.pending
	c.pending = nil
	c.inFlight = false
	if !c.applyBoard(resp) {
		return
	}
	if resp.IsSolved {
		c.enterWon()
	}
}

func (c *Controller) applyBoard(resp MoveResponse) bool {
	if err := c.board.Replace(resp.Positions); err != nil {
		c.abort(err)
		return false
	}
	if resp.Moved {
		c.moves++
	}
	return true
}

func (c *Controller) enterWon() {
	if !c.setPhase(PhaseWon) {
		return
	}
	c.play.Stop()
	c.overlay = c.settings.Messages.Victory
	c.showMenu()
	c.outcome = &Outcome{
		GridSize:       c.settings.GridSize,
		Won:            true,
		Moves:          c.moves,
		ElapsedSeconds: c.settings.PlaySeconds - c.play.Remaining(),
		Image:          c.imagePath,
	}
}

func (c *Controller) enterTimedOut() {
	if !c.setPhase(PhaseTimedOut) {
		return
	}
	c.slide = nil
	if c.pending != nil {
		resp := *c.pending
		c.pending = nil
		c.inFlight = false
		if !c.applyBoard(resp) {
			return
		}
	}
	c.overlay = c.settings.Messages.NotQuite
	c.delaySeq++
	c.disp.After(c.settings.TimeoutDelay, DelayElapsed{Seq: c.delaySeq})
}

func (c *Controller) handleDelay(e DelayElapsed) bool {
	if c.phase != PhaseTimedOut || e.Seq != c.delaySeq {
		return false
	}
	if !c.setPhase(PhaseAutoSolving) {
		return false
	}
	c.overlay = ""
	c.solver = NewAutoSolver(c.board)
	c.stepAutoSolve()
	return true
}

func (c *Controller) handleAutoSolveStep() bool {
	if c.phase != PhaseAutoSolving || c.solver == nil {
		return false
	}
	c.stepAutoSolve()
	return true
}

func (c *Controller) stepAutoSolve() {
	if c.solver.Step() {
		c.disp.After(c.settings.AutoSolveStep, AutoSolveStep{})
		return
	}
	c.logger.Debug("auto-solve finished", "swaps", c.solver.Swaps())
	c.solver = nil
	if !c.setPhase(PhaseIdle) {
		return
	}
	c.overlay = c.settings.Messages.TryAgain
	c.showMenu()
	c.outcome = &Outcome{
		GridSize:       c.settings.GridSize,
		Moves:          c.moves,
		ElapsedSeconds: c.settings.PlaySeconds,
		Image:          c.imagePath,
	}
}

func (c *Controller) showMenu() {
	c.menu = &MenuButton{
		Label: c.settings.Messages.BackToMenu,
		Rect:  c.settings.Geometry.MenuButtonRect(c.settings.GridSize),
	}
}

// handleReturn also lets the player out of a session stuck on an authority
// failure, since nothing else can move it forward.
func (c *Controller) handleReturn() bool {
	if !c.phase.Terminal() && c.errText == "" {
		return false
	}
	c.exit = &Exit{Reason: ExitMenu}
	c.Teardown()
	return false
}
