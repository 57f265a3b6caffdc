package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/slidepuzzle/internal/core"
	"github.com/vovakirdan/slidepuzzle/internal/puzzle"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		name   string
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{"q quits", runeKey("q"), core.ActionQuit, true},
		{"ctrl+c quits", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{"up arrow", tea.KeyMsg{Type: tea.KeyUp}, core.ActionUp, false},
		{"w", runeKey("w"), core.ActionUp, false},
		{"down arrow", tea.KeyMsg{Type: tea.KeyDown}, core.ActionDown, false},
		{"s", runeKey("s"), core.ActionDown, false},
		{"left arrow", tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft, false},
		{"a", runeKey("a"), core.ActionLeft, false},
		{"right arrow", tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight, false},
		{"d", runeKey("d"), core.ActionRight, false},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm, false},
		{"space", tea.KeyMsg{Type: tea.KeySpace}, core.ActionConfirm, false},
		{"m", runeKey("m"), core.ActionMenu, false},
		{"esc", tea.KeyMsg{Type: tea.KeyEscape}, core.ActionBack, false},
		{"ctrl+s", tea.KeyMsg{Type: tea.KeyCtrlS}, core.ActionScreenshot, false},
		{"unbound", runeKey("x"), core.ActionNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, quit := km.MapKey(tt.msg)
			if action != tt.action || quit != tt.quit {
				t.Errorf("MapKey(%q) = %v, %v; want %v, %v", tt.msg.String(), action, quit, tt.action, tt.quit)
			}
		})
	}
}

func TestActionDirection(t *testing.T) {
	tests := []struct {
		action core.Action
		dir    puzzle.Direction
		ok     bool
	}{
		{core.ActionUp, puzzle.DirUp, true},
		{core.ActionDown, puzzle.DirDown, true},
		{core.ActionLeft, puzzle.DirLeft, true},
		{core.ActionRight, puzzle.DirRight, true},
		{core.ActionConfirm, 0, false},
	}
	for _, tt := range tests {
		dir, ok := ActionDirection(tt.action)
		if ok != tt.ok || (ok && dir != tt.dir) {
			t.Errorf("ActionDirection(%v) = %v, %v", tt.action, dir, ok)
		}
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{runeKey("k"), MenuActionUp},
		{tea.KeyMsg{Type: tea.KeyDown}, MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionScoreboard},
		{tea.KeyMsg{Type: tea.KeyEscape}, MenuActionBack},
		{runeKey("q"), MenuActionQuit},
		{runeKey("x"), MenuActionNone},
	}
	for _, tt := range tests {
		if got := km.MapKeyToMenuAction(tt.msg); got != tt.want {
			t.Errorf("MapKeyToMenuAction(%q) = %v, want %v", tt.msg.String(), got, tt.want)
		}
	}
}
