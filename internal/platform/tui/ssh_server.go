package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/objarcade/objarcade/internal/registry"
	"github.com/objarcade/objarcade/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.objarcade/host_key.
	HostKeyPath string

	// DBPath is the path to the episode database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.objarcade/episodes.db",
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer wraps a Wish SSH server for the arcade.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "objarcade-ssh",
	})

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open episode database", "error", err)
		// Continue without storage
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".objarcade", "host_key")
	}

	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	cfg := RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: 30,
		Seed:     time.Now().UnixNano(),
	}

	model := NewSessionModel(s.store, cfg)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionModel manages the full session flow: menu -> game -> menu.
// This is the top-level model used for SSH sessions.
type SessionModel struct {
	store      *storage.Store
	config     RuntimeConfig
	menu       MenuModel
	gameModel  *GameModel
	scoreboard *ScoreboardModel
	inGame     bool
	quitting   bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(store *storage.Store, cfg RuntimeConfig) SessionModel {
	return SessionModel{
		store:  store,
		config: cfg,
		menu:   NewMenuModel(store, cfg.ScreenW, cfg.ScreenH),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	if m.inGame && m.gameModel != nil {
		return m.updateGame(msg)
	}
	if m.scoreboard != nil {
		return m.updateScoreboard(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.scoreboard {
		sb := NewScoreboardModel(m.store, m.config.ScreenW, m.config.ScreenH)
		m.scoreboard = &sb
		m.menu = NewMenuModel(m.store, m.config.ScreenW, m.config.ScreenH)
		return m, m.scoreboard.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		env, err := registry.Create(selected.GameID)
		if err != nil {
			// Shouldn't happen since the menu only shows registered games
			return m, nil
		}

		cfg := m.config
		cfg.Seed = time.Now().UnixNano()
		gameModel := NewGameModel(env, m.store, cfg)
		m.gameModel = &gameModel
		m.inGame = true

		return m, m.gameModel.Init()
	}

	return m, cmd
}

// updateScoreboard handles updates when browsing best episodes.
func (m SessionModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scoreboard.Update(msg)
	if sb, ok := newModel.(ScoreboardModel); ok {
		m.scoreboard = &sb
	}

	if m.scoreboard.IsGoingBack() {
		m.scoreboard = nil
		return m, m.menu.Init()
	}

	if m.scoreboard.quitting {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.gameModel.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.gameModel = &gameModel
	}

	if m.gameModel.BackToMenu() {
		m.inGame = false
		m.gameModel = nil
		m.menu = NewMenuModel(m.store, m.config.ScreenW, m.config.ScreenH)
		return m, m.menu.Init()
	}

	if m.gameModel.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	if m.inGame && m.gameModel != nil {
		return m.gameModel.View()
	}
	if m.scoreboard != nil {
		return m.scoreboard.View()
	}

	return m.menu.View()
}
