// objarcade is a deterministic arcade simulation platform. Games are pure
// state-transition functions, so the same seed always produces the same
// episode whether a human plays in the terminal or a policy drives
// thousands of headless rollouts.
//
// Usage:
//
//	objarcade list               - List available games
//	objarcade play <game>        - Play a game in the terminal
//	objarcade menu               - Interactive game picker
//	objarcade serve              - Start SSH server for remote play
//	objarcade rollout <game>     - Run headless policy rollouts
//	objarcade replay <game>      - Verify or resume a recorded episode
//	objarcade scores <game>      - Show best episodes for a game
//
// Global flags:
//
//	--fps <rate>    - Set tick rate for interactive play (default: 30)
//	--seed <value>  - Set RNG seed for reproducible episodes
//	--db <path>     - Set database path (default: ~/.objarcade/episodes.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import games to register them
	_ "github.com/objarcade/objarcade/internal/games/abyss"
	_ "github.com/objarcade/objarcade/internal/games/atlantis"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "objarcade",
	Short: "Deterministic arcade simulations for humans and policies",
	Long: `objarcade runs classic-style arcade games as deterministic,
replayable simulations. Every episode is fully determined by its seed:
play interactively in the terminal, or drive the same games headlessly
for reinforcement-learning research.

Available commands:
  list     - Show all available games
  play     - Play a specific game in the terminal
  menu     - Interactive game picker menu
  serve    - Start SSH server for remote play
  rollout  - Run headless policy rollouts
  replay   - Verify determinism of a recorded episode
  scores   - View best episodes

Examples:
  objarcade list
  objarcade play atlantis --seed 42
  objarcade rollout abyss --episodes 100 --policy random
  objarcade replay atlantis --seed 42 --steps 5000
  objarcade scores abyss`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate for interactive play")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.objarcade/episodes.db", "Path to episode database")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(rolloutCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(scoresCmd)
}
