package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/objarcade/objarcade/internal/registry"
	"github.com/objarcade/objarcade/internal/storage"
)

const maxEpisodeRows = 100

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextGame key.Binding
	PrevGame key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextGame, k.PrevGame, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextGame, k.PrevGame},
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
		NextGame: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next game"),
		),
		PrevGame: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev game"),
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

// ScoreboardModel is the Bubble Tea model for browsing episode results.
type ScoreboardModel struct {
	games      []registry.GameInfo
	gameCursor int
	store      *storage.Store
	episodes   []storage.Episode
	table      table.Model
	help       help.Model
	keys       ScoreboardKeyMap
	width      int
	height     int
	quitting   bool
	goingBack  bool
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	h := help.New()
	h.ShowAll = false

	m := ScoreboardModel{
		games:  registry.List(),
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}

	m.table = m.createTable()
	if len(m.games) > 0 {
		m.loadEpisodes(m.games[0].ID)
	}
	return m
}

// createTable creates the episode table.
func (m *ScoreboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Score", Width: 10},
		{Title: "Steps", Width: 8},
		{Title: "Seed", Width: 14},
		{Title: "Date", Width: 14},
	}

	height := m.height - 8
	if height < 3 {
		height = 3
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
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

// loadEpisodes loads the best episodes for a game.
func (m *ScoreboardModel) loadEpisodes(gameID string) {
	if m.store == nil {
		m.episodes = nil
		m.updateTableRows()
		return
	}

	episodes, err := m.store.TopEpisodes(gameID, maxEpisodeRows)
	if err != nil {
		m.episodes = nil
	} else {
		m.episodes = episodes
	}
	m.updateTableRows()
}

func (m *ScoreboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.episodes))
	for i, e := range m.episodes {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			fmt.Sprintf("%d", e.Score),
			fmt.Sprintf("%d", e.Steps),
			fmt.Sprintf("%d", e.Seed),
			e.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init implements tea.Model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
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
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextGame):
			if len(m.games) > 0 {
				m.gameCursor = (m.gameCursor + 1) % len(m.games)
				m.loadEpisodes(m.games[m.gameCursor].ID)
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevGame):
			if len(m.games) > 0 {
				m.gameCursor--
				if m.gameCursor < 0 {
					m.gameCursor = len(m.games) - 1
				}
				m.loadEpisodes(m.games[m.gameCursor].ID)
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := "BEST EPISODES"
	if len(m.games) > 0 {
		title = fmt.Sprintf("BEST EPISODES - %s", m.games[m.gameCursor].Title)
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	if len(m.episodes) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		b.WriteString(centerText(tableStyle.Render(emptyStyle.Render("No episodes recorded yet.")), m.width))
	} else {
		b.WriteString(centerText(tableStyle.Render(m.table.View()), m.width))
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// IsGoingBack reports whether the user wants the menu back.
func (m ScoreboardModel) IsGoingBack() bool { return m.goingBack }

// RunScoreboard runs the scoreboard screen. Returns true if the user
// wants to go back rather than quit.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(
		NewScoreboardModel(store, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}
	if m, ok := finalModel.(ScoreboardModel); ok {
		return m.IsGoingBack(), nil
	}
	return false, nil
}
