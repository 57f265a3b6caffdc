package puzzle

import "time"

// TimerKind names one of the session's two countdowns.
type TimerKind int

const (
	TimerReveal TimerKind = iota
	TimerPlay
)

func (k TimerKind) String() string {
	if k == TimerReveal {
		return "reveal"
	}
	return "play"
}

// tickInterval is the countdown cadence.
const tickInterval = time.Second

// Countdown counts whole seconds down to zero. Ticks arrive as TimerTick
// events through the dispatcher and must be passed back to Handle.
//
// Start(5, ...) reports 5, 4, 3, 2, 1, 0 to onTick and then calls onExpire
// once; after that, or after Stop, every outstanding tick is inert.
type Countdown struct {
	kind      TimerKind
	disp      Dispatcher
	gen       uint64
	active    bool
	remaining int
	onTick    func(remaining int)
	onExpire  func()
}

// NewCountdown creates an idle countdown of the given kind.
func NewCountdown(kind TimerKind, disp Dispatcher) *Countdown {
	return &Countdown{kind: kind, disp: disp}
}

// Start (re)starts the countdown. The first tick, carrying the full
// duration, is reported synchronously.
func (t *Countdown) Start(seconds int, onTick func(remaining int), onExpire func()) {
	if seconds < 0 {
		seconds = 0
	}
	t.gen++
	t.active = true
	t.remaining = seconds
	t.onTick = onTick
	t.onExpire = onExpire
	t.fire()
}

// fire reports the current value and either schedules the next tick or expires.
func (t *Countdown) fire() {
	gen := t.gen
	if t.onTick != nil {
		t.onTick(t.remaining)
	}
	// onTick may have stopped or restarted the timer.
	if !t.active || t.gen != gen {
		return
	}

	if t.remaining <= 0 {
		t.active = false
		if t.onExpire != nil {
			t.onExpire()
		}
		return
	}

	t.disp.After(tickInterval, TimerTick{Timer: t.kind, Gen: gen})
}

// Handle consumes a tick. It returns false for ticks that belong to another
// timer, an earlier run, or a stopped countdown.
func (t *Countdown) Handle(tick TimerTick) bool {
	if !t.active || tick.Timer != t.kind || tick.Gen != t.gen {
		return false
	}
	t.remaining--
	t.fire()
	return true
}

// Stop cancels the countdown. Safe to call at any time, any number of times.
func (t *Countdown) Stop() {
	if !t.active {
		return
	}
	t.active = false
	t.gen++
}

// Active reports whether ticks are still expected.
func (t *Countdown) Active() bool {
	return t.active
}

// Remaining returns the last reported value.
func (t *Countdown) Remaining() int {
	return t.remaining
}
