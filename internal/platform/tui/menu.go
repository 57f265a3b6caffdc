package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/slidepuzzle/internal/config"
	"github.com/vovakirdan/slidepuzzle/internal/storage"
)

// MenuItem represents a selectable difficulty in the menu.
type MenuItem struct {
	Preset config.DifficultyPreset
	Title  string
	Best   string // Summary of past results, if any
}

// MenuModel is the Bubble Tea model for the difficulty picker.
type MenuModel struct {
	items          []MenuItem
	cursor         int
	width          int
	height         int
	notice         string
	keyMapper      *KeyMapper
	quitting       bool
	selected       *MenuItem // Set when user selects a difficulty
	openScoreboard bool      // True if user pressed Tab for scoreboard
}

// NewMenuModel creates a menu with the cursor on the configured grid size.
// Notice is shown above the list, e.g. how the last session ended.
func NewMenuModel(store *storage.Store, cfg config.PuzzleConfig, width, height int, notice string) MenuModel {
	presets := config.Presets()
	items := make([]MenuItem, 0, len(presets))
	cursor := 0
	for i, p := range presets {
		n := config.GridSizeForPreset(p)
		if n == cfg.Grid.Size {
			cursor = i
		}
		items = append(items, MenuItem{
			Preset: p,
			Title:  config.PresetLabel(p),
			Best:   bestSummary(store, n),
		})
	}

	return MenuModel{
		items:     items,
		cursor:    cursor,
		width:     width,
		height:    height,
		notice:    notice,
		keyMapper: NewKeyMapper(),
	}
}

// bestSummary describes the stored results for a grid size.
func bestSummary(store *storage.Store, n int) string {
	if store == nil {
		return ""
	}
	st, err := store.Stats(n)
	if err != nil || st.Games == 0 {
		return ""
	}
	if st.Wins == 0 {
		return fmt.Sprintf("%d played, no wins yet", st.Games)
	}
	return fmt.Sprintf("best %s, %d/%d won", formatSeconds(st.BestSecs), st.Wins, st.Games)
}

// formatSeconds renders a duration in seconds as M:SS.
func formatSeconds(secs int) string {
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
		}

	case MenuActionScoreboard:
		m.openScoreboard = true
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  S L I D E   P U Z Z L E  "), m.width, 27))
	b.WriteString("\n\n")

	if m.notice != "" {
		noticeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
		b.WriteString(centerText(noticeStyle.Render(m.notice), m.width, len(m.notice)))
		b.WriteString("\n\n")
	}

	b.WriteString(centerText("Choose a difficulty", m.width, 19))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := cursor + item.Title
		if item.Best != "" {
			line += "  - " + item.Best
		}
		b.WriteString(centerText(line, m.width, len(line)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Play  |  Tab: Scores  |  Q: Quit"
	b.WriteString(centerText(controls, m.width, len(controls)))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// centerText centers text of the given visible width. Styled text carries
// escape codes, so the caller passes the width it will occupy.
func centerText(text string, width, visible int) string {
	if visible >= width {
		return text
	}
	return strings.Repeat(" ", (width-visible)/2) + text
}
