package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/objarcade/objarcade/internal/registry"
	"github.com/objarcade/objarcade/internal/storage"
)

var scoresCmd = &cobra.Command{
	Use:   "scores <game>",
	Short: "Show best episodes for a game",
	Long: `Display the top 10 episodes for the specified game, with the
seed and digest that reproduce each one.

Examples:
  objarcade scores atlantis
  objarcade scores abyss`,
	Args: cobra.ExactArgs(1),
	Run:  runScores,
}

func runScores(cmd *cobra.Command, args []string) {
	gameID := args[0]

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'objarcade list' to see available games.")
		os.Exit(1)
	}

	// Get game title
	env, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}
	title := env.Title()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening episode database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	episodes, err := store.TopEpisodes(gameID, 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving episodes: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Best Episodes - %s\n", title)
	fmt.Println()

	if len(episodes) == 0 {
		fmt.Println("No episodes recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'objarcade play %s' or run 'objarcade rollout %s --save' to record one.\n", gameID, gameID)
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-10s  %-8s  %-14s  %s\n", "Rank", "Score", "Steps", "Seed", "Date")
	fmt.Printf("  %-4s  %-10s  %-8s  %-14s  %s\n", "----", "-----", "-----", "----", "----")

	for i, ep := range episodes {
		dateStr := ep.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-10d  %-8d  %-14d  %s\n", i+1, ep.Score, ep.Steps, ep.Seed, dateStr)
	}

	fmt.Println()
	if stats, err := store.GetGameStats(gameID); err == nil && stats != nil {
		fmt.Printf("Episodes: %d  Best: %d  Avg: %.1f\n", stats.Episodes, stats.HighScore, stats.AvgScore)
	}
}
