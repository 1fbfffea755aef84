package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/objarcade/objarcade/internal/platform/tui"
	"github.com/objarcade/objarcade/internal/registry"
	"github.com/objarcade/objarcade/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the arcade with a game picker menu",
	Long: `Start the arcade in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a game.
After a game ends, you return to the menu to play again.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select game
  T            - Best episodes
  Q            - Quit

Examples:
  objarcade menu
  objarcade menu --fps 60
  objarcade menu --db ./episodes.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open episode database: %v\n", err)
		store = nil
	}

	// Get terminal size
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(store, width, height)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Carry any resize forward
		if menuResult.Width > 0 {
			width = menuResult.Width
			height = menuResult.Height
		}

		if menuResult.Quit {
			break
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, width, height)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue
			}
			break
		}

		gameID := menuResult.GameID
		if gameID == "" {
			break
		}

		env, err := registry.Create(gameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}

		cfg := tui.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: flagFPS,
			Seed:     flagSeed,
		}

		if err := tui.Run(env, store, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}

		// Loop back to menu
	}

	if store != nil {
		store.Close()
	}
}
