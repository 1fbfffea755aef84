package tui

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/objarcade/objarcade/internal/registry"
	"github.com/objarcade/objarcade/internal/storage"
)

// MenuItem is one selectable game.
type MenuItem struct {
	GameID string
	Title  string
}

// MenuModel is the Bubble Tea model for the game picker.
type MenuModel struct {
	items    []MenuItem
	cursor   int
	width    int
	height   int
	store      *storage.Store
	selected   *MenuItem
	scoreboard bool
	quitting   bool
}

// NewMenuModel creates a menu listing every registered game.
func NewMenuModel(store *storage.Store, width, height int) MenuModel {
	games := registry.List()
	items := make([]MenuItem, 0, len(games))
	for _, g := range games {
		items = append(items, MenuItem{GameID: g.ID, Title: g.Title})
	}

	return MenuModel{
		items:  items,
		width:  width,
		height: height,
		store:  store,
	}
}

// Init implements tea.Model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		case "up", "k", "w":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j", "s":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case "enter", " ":
			if len(m.items) > 0 {
				selected := m.items[m.cursor]
				m.selected = &selected
				return m, tea.Quit
			}
		case "t":
			m.scoreboard = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

// View implements tea.Model.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))

	var b strings.Builder
	b.WriteString(centerText(titleStyle.Render("O B J A R C A D E"), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(dimStyle.Render("pick a game"), m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := "  " + item.Title
		if i == m.cursor {
			line = selStyle.Render("> " + item.Title)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")

		if m.store != nil {
			if high, err := m.store.HighScore(item.GameID); err == nil && high > 0 {
				b.WriteString(centerText(dimStyle.Render(strconv.Itoa(high)+" best"), m.width))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(centerText(dimStyle.Render("enter: play  |  t: best episodes  |  q: quit"), m.width))
	return b.String()
}

// MenuResult reports what the user picked from a standalone menu run.
type MenuResult struct {
	GameID          string
	WantsScoreboard bool
	Quit            bool
	Width           int
	Height          int
}

// RunMenu shows the game picker and blocks until the user chooses.
func RunMenu(store *storage.Store, width, height int) (MenuResult, error) {
	p := tea.NewProgram(
		NewMenuModel(store, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Quit: true}, nil
	}

	result := MenuResult{
		WantsScoreboard: m.scoreboard,
		Quit:            m.quitting,
		Width:           m.width,
		Height:          m.height,
	}
	if m.selected != nil {
		result.GameID = m.selected.GameID
	}
	return result, nil
}

// Selected returns the chosen game, or nil.
func (m MenuModel) Selected() *MenuItem { return m.selected }

// IsQuitting reports whether the user wants to exit.
func (m MenuModel) IsQuitting() bool { return m.quitting }

// centerText pads a line so it renders centered in the given width.
func centerText(text string, width int) string {
	pad := (width - lipgloss.Width(text)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + text
}
