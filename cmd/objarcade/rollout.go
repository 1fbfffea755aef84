package main

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/objarcade/objarcade/internal/registry"
	"github.com/objarcade/objarcade/internal/sim"
	"github.com/objarcade/objarcade/internal/storage"
)

var (
	flagEpisodes int
	flagSteps    uint64
	flagPolicy   string
	flagWorkers  int
	flagSave     bool
)

var rolloutCmd = &cobra.Command{
	Use:   "rollout <game>",
	Short: "Run headless policy rollouts",
	Long: `Run one or more episodes headlessly, without rendering.

Each episode is driven by a policy (noop or uniform random) and is fully
determined by its seed: episode i uses seed --seed+i. The digest printed
for each episode is a hash over every state visited, so two runs with
the same seed and policy must print identical digests.

Episodes run concurrently across --workers goroutines. Because games are
pure state-transition functions, concurrent episodes cannot interfere.

Examples:
  objarcade rollout atlantis --episodes 100 --policy random
  objarcade rollout abyss --episodes 8 --steps 20000 --workers 4
  objarcade rollout atlantis --seed 42 --episodes 1 --save`,
	Args: cobra.ExactArgs(1),
	Run:  runRollout,
}

func init() {
	rolloutCmd.Flags().IntVar(&flagEpisodes, "episodes", 1, "Number of episodes to run")
	rolloutCmd.Flags().Uint64Var(&flagSteps, "steps", 100000, "Maximum steps per episode")
	rolloutCmd.Flags().StringVar(&flagPolicy, "policy", "random", "Policy: noop or random")
	rolloutCmd.Flags().IntVar(&flagWorkers, "workers", 4, "Concurrent episode workers")
	rolloutCmd.Flags().BoolVar(&flagSave, "save", false, "Record episode results in the database")
}

// policyFor builds the requested policy for an environment.
func policyFor(name string, env sim.Env) (sim.Policy, error) {
	switch name {
	case "noop":
		return sim.NoopPolicy, nil
	case "random":
		return sim.RandomPolicy(env.ActionSpace()), nil
	default:
		return nil, fmt.Errorf("unknown policy %q (want noop or random)", name)
	}
}

func runRollout(cmd *cobra.Command, args []string) {
	gameID := args[0]
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "rollout"})

	if !registry.Exists(gameID) {
		logger.Error("unknown game", "game", gameID)
		os.Exit(1)
	}
	if flagEpisodes < 1 {
		logger.Error("need at least one episode", "episodes", flagEpisodes)
		os.Exit(1)
	}
	workers := flagWorkers
	if workers < 1 {
		workers = 1
	}
	if workers > flagEpisodes {
		workers = flagEpisodes
	}

	baseSeed := flagSeed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
		logger.Info("no seed given, using wall clock", "seed", baseSeed)
	}

	var store *storage.Store
	if flagSave {
		s, err := storage.Open(flagDBPath)
		if err != nil {
			logger.Error("cannot open episode database", "error", err)
			os.Exit(1)
		}
		store = s
		defer store.Close()
	}

	start := time.Now()
	seeds := make(chan int64)
	results := make([]sim.Trajectory, 0, flagEpisodes)

	var mu sync.Mutex
	var wg sync.WaitGroup
	failed := false

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// One environment per worker; Step is pure, the instance
			// only holds immutable config.
			env, err := registry.Create(gameID)
			if err != nil {
				logger.Error("cannot create game", "error", err)
				mu.Lock()
				failed = true
				mu.Unlock()
				return
			}
			policy, err := policyFor(flagPolicy, env)
			if err != nil {
				logger.Error("bad policy", "error", err)
				mu.Lock()
				failed = true
				mu.Unlock()
				return
			}

			for seed := range seeds {
				traj, err := sim.Rollout(env, seed, policy, flagSteps)
				if err != nil {
					logger.Error("rollout failed", "seed", seed, "error", err)
					mu.Lock()
					failed = true
					mu.Unlock()
					continue
				}
				logger.Info("episode done",
					"seed", traj.Seed,
					"steps", traj.Steps,
					"score", traj.Score,
					"terminal", traj.Terminal,
					"digest", strconv.FormatUint(traj.Digest, 16),
				)
				mu.Lock()
				results = append(results, traj)
				mu.Unlock()
			}
		}()
	}

	for i := 0; i < flagEpisodes; i++ {
		seeds <- baseSeed + int64(i)
	}
	close(seeds)
	wg.Wait()

	if len(results) == 0 {
		logger.Error("no episodes completed")
		os.Exit(1)
	}

	totalScore := 0
	var totalSteps uint64
	for _, traj := range results {
		totalScore += traj.Score
		totalSteps += traj.Steps

		if store != nil {
			ep := storage.Episode{
				GameID:   gameID,
				Seed:     traj.Seed,
				Steps:    int(traj.Steps),
				Score:    traj.Score,
				Terminal: traj.Terminal,
				Digest:   strconv.FormatUint(traj.Digest, 16),
			}
			if _, err := store.SaveEpisode(ep); err != nil {
				logger.Warn("could not save episode", "seed", traj.Seed, "error", err)
			}
		}
	}

	elapsed := time.Since(start)
	logger.Info("rollout complete",
		"episodes", len(results),
		"avg_score", totalScore/len(results),
		"total_steps", totalSteps,
		"elapsed", elapsed.Round(time.Millisecond),
		"steps_per_sec", int(float64(totalSteps)/elapsed.Seconds()),
	)

	if failed {
		os.Exit(1)
	}
}
