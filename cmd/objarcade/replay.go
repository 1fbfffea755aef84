package main

import (
	"bytes"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/objarcade/objarcade/internal/registry"
	"github.com/objarcade/objarcade/internal/sim"
	"github.com/objarcade/objarcade/internal/storage"
)

var (
	flagReplaySteps  uint64
	flagReplayPolicy string
	flagCheckpoint   uint64
)

var replayCmd = &cobra.Command{
	Use:   "replay <game>",
	Short: "Verify determinism of a recorded episode",
	Long: `Re-simulate the episode defined by --seed and --policy and check
that it is bit-for-bit reproducible.

The episode is run twice and the two state digests are compared. If the
database holds an episode recorded earlier for the same game and seed
(see 'rollout --save'), the fresh digest is checked against the stored
one as well.

With --checkpoint, the state at that tick is additionally encoded and
compared against the checkpoint stored in the database, or stored if
none exists yet.

Examples:
  objarcade replay atlantis --seed 42
  objarcade replay abyss --seed 42 --steps 5000 --policy noop
  objarcade replay atlantis --seed 42 --checkpoint 1000`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func init() {
	replayCmd.Flags().Uint64Var(&flagReplaySteps, "steps", 100000, "Maximum steps to simulate")
	replayCmd.Flags().StringVar(&flagReplayPolicy, "policy", "random", "Policy: noop or random")
	replayCmd.Flags().Uint64Var(&flagCheckpoint, "checkpoint", 0, "Tick to checkpoint and verify (0 = off)")
}

func runReplay(cmd *cobra.Command, args []string) {
	gameID := args[0]
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "replay"})

	if !registry.Exists(gameID) {
		logger.Error("unknown game", "game", gameID)
		os.Exit(1)
	}
	if flagSeed == 0 {
		logger.Error("replay needs an explicit --seed")
		os.Exit(1)
	}

	env, err := registry.Create(gameID)
	if err != nil {
		logger.Error("cannot create game", "error", err)
		os.Exit(1)
	}
	policy, err := policyFor(flagReplayPolicy, env)
	if err != nil {
		logger.Error("bad policy", "error", err)
		os.Exit(1)
	}

	start := time.Now()
	first, err := sim.Rollout(env, flagSeed, policy, flagReplaySteps)
	if err != nil {
		logger.Error("first run failed", "error", err)
		os.Exit(1)
	}
	second, err := sim.Rollout(env, flagSeed, policy, flagReplaySteps)
	if err != nil {
		logger.Error("second run failed", "error", err)
		os.Exit(1)
	}

	digest := strconv.FormatUint(first.Digest, 16)
	logger.Info("episode re-simulated",
		"seed", flagSeed,
		"steps", first.Steps,
		"score", first.Score,
		"digest", digest,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	if first.Digest != second.Digest {
		logger.Error("MISMATCH: two runs of the same seed diverged",
			"first", digest,
			"second", strconv.FormatUint(second.Digest, 16),
		)
		os.Exit(1)
	}
	logger.Info("two fresh runs agree")

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open episode database, skipping stored checks", "error", err)
		return
	}
	defer store.Close()

	verifyStoredEpisode(logger, store, gameID, digest)

	if flagCheckpoint > 0 {
		verifyCheckpoint(logger, store, env, policy, gameID)
	}
}

// verifyStoredEpisode compares the fresh digest against any episode
// recorded earlier for the same game and seed.
func verifyStoredEpisode(logger *log.Logger, store *storage.Store, gameID, digest string) {
	episodes, err := store.TopEpisodes(gameID, 1000)
	if err != nil {
		logger.Warn("could not read stored episodes", "error", err)
		return
	}

	for _, ep := range episodes {
		if ep.Seed != flagSeed {
			continue
		}
		if ep.Digest == digest {
			logger.Info("matches stored episode", "recorded", ep.CreatedAt.Format("2006-01-02 15:04"))
		} else {
			logger.Error("MISMATCH: stored episode digest differs",
				"stored", ep.Digest,
				"fresh", digest,
			)
			os.Exit(1)
		}
		return
	}
	logger.Info("no stored episode for this seed")
}

// verifyCheckpoint encodes the state at the checkpoint tick and compares
// it against the stored checkpoint, storing one if absent.
func verifyCheckpoint(logger *log.Logger, store *storage.Store, env sim.Env, policy sim.Policy, gameID string) {
	state, err := sim.ReplayToTick(env, flagSeed, policy, flagCheckpoint)
	if err != nil {
		logger.Error("checkpoint replay failed", "error", err)
		os.Exit(1)
	}
	if state.Tick() != flagCheckpoint {
		logger.Warn("episode ended before checkpoint tick", "tick", state.Tick())
		return
	}

	encoded, err := env.EncodeState(state)
	if err != nil {
		logger.Error("cannot encode state", "error", err)
		os.Exit(1)
	}

	stored, err := store.LoadCheckpoint(gameID, flagSeed, flagCheckpoint)
	if err != nil {
		logger.Warn("could not read checkpoint", "error", err)
		return
	}
	if stored == nil {
		cp := storage.Checkpoint{
			GameID: gameID,
			Seed:   flagSeed,
			Tick:   flagCheckpoint,
			State:  encoded,
		}
		if _, err := store.SaveCheckpoint(cp); err != nil {
			logger.Warn("could not save checkpoint", "error", err)
			return
		}
		logger.Info("checkpoint stored", "tick", flagCheckpoint, "bytes", len(encoded))
		return
	}

	if bytes.Equal(stored.State, encoded) {
		logger.Info("checkpoint verified", "tick", flagCheckpoint)
	} else {
		logger.Error("MISMATCH: checkpoint state differs", "tick", flagCheckpoint)
		os.Exit(1)
	}
}
