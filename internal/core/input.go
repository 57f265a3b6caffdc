package core

// Action represents a semantic player action, abstracted from physical key presses.
// This lets the platform map keys and mouse gestures without the puzzle knowing about terminals.
type Action int

const (
	ActionNone       Action = iota
	ActionUp                // W, Up arrow - slide towards the top
	ActionDown              // S, Down arrow - slide towards the bottom
	ActionLeft              // A, Left arrow - slide towards the left
	ActionRight             // D, Right arrow - slide towards the right
	ActionConfirm           // Enter, Space - press the focused control
	ActionMenu              // M - return to menu once the session has ended
	ActionBack              // B, Escape - abandon the session
	ActionScreenshot        // Ctrl+S - dump the current frame to disk
	ActionQuit              // Q, Ctrl+C - exit the program
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionConfirm:
		return "Confirm"
	case ActionMenu:
		return "Menu"
	case ActionBack:
		return "Back"
	case ActionScreenshot:
		return "Screenshot"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

