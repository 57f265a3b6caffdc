package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/slidepuzzle/internal/config"
	"github.com/vovakirdan/slidepuzzle/internal/storage"
)

// Scoreboard layout constants
const (
	minWidthForSidebar = 80  // Minimum width to show grid list sidebar
	sidebarWidth       = 20  // Width of grid list sidebar
	maxResults         = 100 // Max results to load
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Back     key.Binding
	Quit     key.Binding
	NextGrid key.Binding
	PrevGrid key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextGrid, k.PrevGrid, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextGrid, k.PrevGrid},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "smaller grid"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "larger grid"),
		),
		NextGrid: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next grid"),
		),
		PrevGrid: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev grid"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel shows the fastest wins per grid size.
type ScoreboardModel struct {
	grids       []int // Grid sizes with a tab
	gridCursor  int
	store       *storage.Store
	results     []storage.Result
	stats       *storage.Stats
	table       table.Model
	help        help.Model
	keys        ScoreboardKeyMap
	width       int
	height      int
	standalone  bool // Owns the program: back and quit end it
	quitting    bool
	goingBack   bool
	showSidebar bool
}

// NewScoreboardModel creates a scoreboard opened on gridSize. A standalone
// scoreboard quits the program when left; an embedded one only reports it.
func NewScoreboardModel(store *storage.Store, gridSize, width, height int, standalone bool) ScoreboardModel {
	grids := make([]int, 0, config.MaxGridSize-config.MinGridSize+1)
	cursor := 0
	for n := config.MinGridSize; n <= config.MaxGridSize; n++ {
		if n == gridSize {
			cursor = len(grids)
		}
		grids = append(grids, n)
	}

	h := help.New()
	h.ShowAll = false

	m := ScoreboardModel{
		grids:       grids,
		gridCursor:  cursor,
		store:       store,
		keys:        DefaultScoreboardKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		standalone:  standalone,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()
	m.loadResults()
	return m
}

// createTable creates a new table with appropriate columns.
func (m *ScoreboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Time", Width: 8},
		{Title: "Moves", Width: 7},
		{Title: "Date", Width: 14},
	}

	tableWidth := m.width - 4
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3
	}
	if tableWidth > 40 {
		columns[3].Width = min(tableWidth-25, 20)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)), // Header, stats line and help
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}


func (m *ScoreboardModel) currentGrid() int {
	return m.grids[m.gridCursor]
}

// loadResults loads the best results for the selected grid size.
func (m *ScoreboardModel) loadResults() {
	m.results, m.stats = nil, nil
	if m.store != nil {
		n := m.currentGrid()
		if results, err := m.store.BestResults(n, maxResults); err == nil {
			m.results = results
		}
		if st, err := m.store.Stats(n); err == nil {
			m.stats = st
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current results.
func (m *ScoreboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.results))
	for i, r := range m.results {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			formatSeconds(r.ElapsedSecs),
			fmt.Sprintf("%d", r.Moves),
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			if m.standalone {
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.NextGrid), key.Matches(msg, m.keys.Right):
			m.gridCursor = (m.gridCursor + 1) % len(m.grids)
			m.loadResults()
			return m, nil

		case key.Matches(msg, m.keys.PrevGrid), key.Matches(msg, m.keys.Left):
			m.gridCursor--
			if m.gridCursor < 0 {
				m.gridCursor = len(m.grids) - 1
			}
			m.loadResults()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	n := m.currentGrid()
	title := fmt.Sprintf("FASTEST SOLVES - %dx%d", n, n)
	b.WriteString(titleStyle.Render(centerText(title, m.width, len(title))))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderWideLayout renders the scoreboard with sidebar for grid selection.
func (m ScoreboardModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Grids\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, n := range m.grids {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.gridCursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		sidebar.WriteString(style.Render(fmt.Sprintf("%s%dx%d", cursor, n, n)))
		sidebar.WriteString("\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()), "  ", tableStyle.Render(m.renderTableContent()))
}

// renderNarrowLayout renders the scoreboard with grid tabs above the table.
func (m ScoreboardModel) renderNarrowLayout() string {
	var b strings.Builder

	n := m.currentGrid()
	tabLine := fmt.Sprintf("< %dx%d >", n, n)
	b.WriteString(centerText(tabLine, m.width, len(tabLine)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))

	return b.String()
}

// renderTableContent renders the stats line and table, or an empty message.
func (m ScoreboardModel) renderTableContent() string {
	if len(m.results) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		msg := "No solves recorded yet.\nBeat the clock to get on the board!"
		if m.stats != nil && m.stats.Games > 0 {
			msg = fmt.Sprintf("%d games played, none solved in time.", m.stats.Games)
		}
		return emptyStyle.Render(msg)
	}
	return statsLine(m.stats) + "\n\n" + m.table.View()
}

// statsLine summarizes a grid size's results.
func statsLine(st *storage.Stats) string {
	if st == nil || st.Games == 0 {
		return ""
	}
	return fmt.Sprintf("Games %d  Wins %d (%.0f%%)  Best %s  Fewest moves %d",
		st.Games, st.Wins, st.WinRate()*100, formatSeconds(st.BestSecs), st.FewestMoves)
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard as its own program.
func RunScoreboard(store *storage.Store, gridSize, width, height int) error {
	model := NewScoreboardModel(store, gridSize, width, height, true)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
