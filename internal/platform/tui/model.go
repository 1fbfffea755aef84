package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/objarcade/objarcade/internal/rng"
	"github.com/objarcade/objarcade/internal/sim"
	"github.com/objarcade/objarcade/internal/storage"
)

// RuntimeConfig carries the terminal-facing knobs for an interactive
// session.
type RuntimeConfig struct {
	ScreenW  int
	ScreenH  int
	TickRate int
	Seed     int64
}

// GameModel drives one environment interactively: it holds the current
// state value, feeds the player's pending action into each step, and
// paints the resulting observation.
type GameModel struct {
	env    sim.Env
	store  *storage.Store
	config RuntimeConfig

	screen *Screen
	theme  Theme
	keys   KeyMap

	state   sim.State
	obs     sim.Observation
	info    sim.Info
	pending sim.Action

	steps        uint64
	terminal     bool
	episodeSaved bool
	backToMenu   bool
	quitting     bool
}

// NewGameModel creates a model for the given environment.
func NewGameModel(env sim.Env, store *storage.Store, cfg RuntimeConfig) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	m := GameModel{
		env:    env,
		store:  store,
		config: cfg,
		screen: NewScreen(cfg.ScreenW, cfg.ScreenH),
		theme:  ThemeFor(env.ID()),
		keys:   KeyMapFor(env.ID(), env.ActionSpace()),
	}
	m.reset()
	return m
}

// reset starts a fresh episode from the configured seed.
func (m *GameModel) reset() {
	m.state, m.obs = m.env.Reset(rng.NewKey(m.config.Seed))
	m.info = sim.Info{Score: 0, Tick: 0}
	m.pending = 0
	m.steps = 0
	m.terminal = false
	m.episodeSaved = false
}

// Init implements tea.Model.
func (m GameModel) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update implements tea.Model.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if IsQuitKey(msg) {
		m.quitting = true
		return m, tea.Quit
	}
	if msg.String() == "esc" || msg.String() == "b" {
		m.backToMenu = true
		return m, tea.Quit
	}
	if IsRestartKey(msg) && m.terminal {
		m.config.Seed = time.Now().UnixNano()
		m.reset()
		return m, nil
	}
	if a, ok := m.keys.MapKey(msg); ok {
		m.pending = a
	}
	return m, nil
}

func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if !m.terminal {
		tr, err := m.env.Step(m.state, m.pending)
		if err == nil {
			m.state = tr.State
			m.obs = tr.Obs
			m.info = tr.Info
			m.terminal = tr.Terminal
			m.steps++
		}
	}

	if m.terminal && !m.episodeSaved {
		if m.store != nil && m.info.Score > 0 {
			m.store.SaveEpisode(storage.Episode{
				GameID:   m.env.ID(),
				Seed:     m.config.Seed,
				Steps:    int(m.steps),
				Score:    m.info.Score,
				Terminal: true,
			})
		}
		m.episodeSaved = true
	}

	// The pending action applies for exactly one step.
	m.pending = 0
	return m, tickCmd(m.config.TickRate)
}

// View implements tea.Model.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	DrawObservation(m.screen, m.obs, m.env.ObservationSpace(), m.theme)
	DrawHUD(m.screen, m.env.Title(), m.info, m.terminal)
	return RenderScreen(m.screen)
}

// IsQuitting reports whether the user requested to exit entirely.
func (m GameModel) IsQuitting() bool { return m.quitting }

// BackToMenu reports whether the user requested the game picker.
func (m GameModel) BackToMenu() bool { return m.backToMenu }

// Run starts a standalone interactive session for one environment.
func Run(env sim.Env, store *storage.Store, cfg RuntimeConfig) error {
	p := tea.NewProgram(
		NewGameModel(env, store, cfg),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
