package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/slidepuzzle/internal/core"
	"github.com/vovakirdan/slidepuzzle/internal/puzzle"
)

// KeyMapper translates Bubble Tea key messages to puzzle actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to an action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		return core.ActionQuit, true
	case "w", "up", "k":
		return core.ActionUp, false
	case "s", "down", "j":
		return core.ActionDown, false
	case "a", "left", "h":
		return core.ActionLeft, false
	case "d", "right", "l":
		return core.ActionRight, false
	case "enter", " ":
		return core.ActionConfirm, false
	case "m":
		return core.ActionMenu, false
	case "b", "esc":
		return core.ActionBack, false
	case "ctrl+s":
		return core.ActionScreenshot, false
	}
	return core.ActionNone, false
}

// ActionDirection converts a directional action to a slide direction.
func ActionDirection(a core.Action) (puzzle.Direction, bool) {
	switch a {
	case core.ActionUp:
		return puzzle.DirUp, true
	case core.ActionDown:
		return puzzle.DirDown, true
	case core.ActionLeft:
		return puzzle.DirLeft, true
	case core.ActionRight:
		return puzzle.DirRight, true
	}
	return 0, false
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionScoreboard
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k":
		return MenuActionUp
	case "s", "down", "j":
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}
	return MenuActionNone
}
