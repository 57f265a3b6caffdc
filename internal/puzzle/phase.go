package puzzle

// Phase is the controller's current stage of a session.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReveal
	PhasePlaying
	PhaseTimedOut
	PhaseAutoSolving
	PhaseWon
	PhaseIdle
)

// String returns the phase name used in logs.
func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReveal:
		return "reveal"
	case PhasePlaying:
		return "playing"
	case PhaseTimedOut:
		return "timed_out"
	case PhaseAutoSolving:
		return "auto_solving"
	case PhaseWon:
		return "won"
	case PhaseIdle:
		return "idle"
	default:
		return "unknown"
	}
}

// transitions lists the only phase changes a session may make. Leaving Won or
// Idle happens through teardown, not through a transition.
var transitions = map[Phase][]Phase{
	PhaseLoading:     {PhaseReveal},
	PhaseReveal:      {PhasePlaying},
	PhasePlaying:     {PhaseTimedOut, PhaseWon},
	PhaseTimedOut:    {PhaseAutoSolving},
	PhaseAutoSolving: {PhaseIdle},
}

// CanTransitionTo checks if moving from p to target is allowed.
func (p Phase) CanTransitionTo(target Phase) bool {
	for _, next := range transitions[p] {
		if next == target {
			return true
		}
	}
	return false
}

// Terminal reports whether the session has ended and only return-to-menu remains.
func (p Phase) Terminal() bool {
	return p == PhaseWon || p == PhaseIdle
}
