package sim

import (
	"fmt"
	"hash/fnv"

	"github.com/objarcade/objarcade/internal/rng"
)

// Policy picks the next action given the latest observation. Policies used
// for determinism verification must themselves be pure functions of their
// inputs.
type Policy func(step uint64, obs Observation, key rng.Key) (Action, rng.Key)

// NoopPolicy always plays action 0.
func NoopPolicy(step uint64, obs Observation, key rng.Key) (Action, rng.Key) {
	return 0, key
}

// RandomPolicy samples uniformly from the action space.
func RandomPolicy(space ActionSpace) Policy {
	return func(step uint64, obs Observation, key rng.Key) (Action, rng.Key) {
		v, next := rng.UintN(key, uint64(space.N()))
		return Action(v), next
	}
}

// Trajectory summarizes one episode rollout.
type Trajectory struct {
	Seed     int64
	Steps    uint64
	Score    int
	Reward   float64
	Terminal bool
	// Digest is an FNV-1a hash over every encoded state visited, in order.
	// Two rollouts of the same (seed, policy) must produce equal digests.
	Digest uint64
}

// Rollout resets env with the seed and steps it with the policy until the
// episode terminates or maxSteps is reached. The policy draws from a key
// split off the seed so action randomness never touches the state's own
// stream.
func Rollout(env Env, seed int64, policy Policy, maxSteps uint64) (Trajectory, error) {
	root := rng.NewKey(seed)
	stateKey, policyKey := rng.Split(root)

	state, obs := env.Reset(stateKey)

	h := fnv.New64a()
	encoded, err := env.EncodeState(state)
	if err != nil {
		return Trajectory{}, fmt.Errorf("rollout %s: encode initial state: %w", env.ID(), err)
	}
	h.Write(encoded)

	traj := Trajectory{Seed: seed}
	for traj.Steps < maxSteps && !state.Terminal() {
		var a Action
		a, policyKey = policy(state.Tick(), obs, policyKey)

		tr, err := env.Step(state, a)
		if err != nil {
			return Trajectory{}, fmt.Errorf("rollout %s: step %d: %w", env.ID(), traj.Steps, err)
		}
		state, obs = tr.State, tr.Obs
		traj.Reward += tr.Reward
		traj.Steps++

		encoded, err = env.EncodeState(state)
		if err != nil {
			return Trajectory{}, fmt.Errorf("rollout %s: encode state: %w", env.ID(), err)
		}
		h.Write(encoded)
	}

	traj.Score = state.Score()
	traj.Terminal = state.Terminal()
	traj.Digest = h.Sum64()
	return traj, nil
}

// ReplayToTick re-simulates the episode defined by (seed, policy) and
// returns the state at the given tick. Key handling matches Rollout
// exactly, so the returned state is the one a rollout would have visited.
func ReplayToTick(env Env, seed int64, policy Policy, tick uint64) (State, error) {
	root := rng.NewKey(seed)
	stateKey, policyKey := rng.Split(root)

	state, obs := env.Reset(stateKey)
	for state.Tick() < tick && !state.Terminal() {
		var a Action
		a, policyKey = policy(state.Tick(), obs, policyKey)

		tr, err := env.Step(state, a)
		if err != nil {
			return nil, fmt.Errorf("replay %s: step %d: %w", env.ID(), state.Tick(), err)
		}
		state, obs = tr.State, tr.Obs
	}
	return state, nil
}
