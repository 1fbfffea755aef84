package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/objarcade/objarcade/internal/config"
	"github.com/objarcade/objarcade/internal/games/abyss"
	"github.com/objarcade/objarcade/internal/games/atlantis"
	"github.com/objarcade/objarcade/internal/platform/tui"
	"github.com/objarcade/objarcade/internal/registry"
	"github.com/objarcade/objarcade/internal/sim"
	"github.com/objarcade/objarcade/internal/storage"
)

var flagConfig string

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a game",
	Long: `Start playing the specified game in the terminal.

Controls:
  Arrow keys / a,d - Move or rotate
  Space/Up         - Fire
  R                - Restart (after game over)
  Esc/B            - Back to menu
  Q/Ctrl+C         - Quit

A fixed --seed replays the exact same episode every run.

Examples:
  objarcade play atlantis
  objarcade play abyss --seed 42
  objarcade play atlantis --config ./my-atlantis.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
}

// createEnv builds an environment, honoring a custom config path when
// one was supplied on the command line.
func createEnv(gameID, configPath string) (sim.Env, error) {
	if configPath == "" {
		return registry.Create(gameID)
	}

	switch gameID {
	case "atlantis":
		cfg, err := config.LoadAtlantis(configPath)
		if err != nil {
			return nil, err
		}
		return atlantis.New(cfg)
	case "abyss":
		cfg, err := config.LoadAbyss(configPath)
		if err != nil {
			return nil, err
		}
		return abyss.New(cfg)
	default:
		return nil, fmt.Errorf("game %q does not take a custom config", gameID)
	}
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := args[0]

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'objarcade list' to see available games.")
		os.Exit(1)
	}

	// Terminal size for the initial frame
	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	cfg := tui.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	env, err := createEnv(gameID, flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open episode database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	runErr := tui.Run(env, store, cfg)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
