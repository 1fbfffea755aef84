package sim

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/objarcade/objarcade/internal/rng"
)

// walkState is a minimal test game: an entity does a random walk and the
// episode ends when the walk first leaves [0, 20).
type walkState struct {
	T    uint64  `json:"tick"`
	Key  rng.Key `json:"rng_key"`
	Pos  int32   `json:"pos"`
	Pts  int     `json:"score"`
	Done bool    `json:"terminal"`
}

func (s walkState) Tick() uint64   { return s.T }
func (s walkState) Score() int     { return s.Pts }
func (s walkState) Lives() int     { return 1 }
func (s walkState) Terminal() bool { return s.Done }

type walkEnv struct{}

func (walkEnv) ID() string    { return "walk" }
func (walkEnv) Title() string { return "Walk" }

func (walkEnv) ActionSpace() ActionSpace {
	return ActionSpace{Names: []string{"noop", "left", "right"}}
}

func (walkEnv) ObservationSpace() ObservationSpace {
	return ObservationSpace{
		Schema: Schema{{Name: "walker", Capacity: 1}},
		WorldW: 20,
		WorldH: 1,
	}
}

func (e walkEnv) Reset(key rng.Key) (State, Observation) {
	s := walkState{Key: key, Pos: 10}
	return s, e.Extract(s)
}

func (e walkEnv) Step(state State, action Action) (Transition, error) {
	if err := CheckAction(e.ActionSpace(), action); err != nil {
		return Transition{}, err
	}
	s, ok := state.(walkState)
	if !ok {
		return Transition{}, fmt.Errorf("walk: %w", errors.New("wrong state type"))
	}
	if s.Done {
		return Transition{State: s, Obs: e.Extract(s)}, nil
	}

	switch action {
	case 1:
		s.Pos--
	case 2:
		s.Pos++
	default:
		// Noop drifts randomly so even noop episodes consume the stream.
		var v uint64
		v, s.Key = rng.UintN(s.Key, 2)
		s.Pos += int32(v)*2 - 1
	}

	s.T++
	s.Pts++
	if s.Pos < 0 || s.Pos >= 20 {
		s.Done = true
	}

	reward := 1.0
	return Transition{State: s, Obs: e.Extract(s), Reward: reward, Terminal: s.Done}, nil
}

func (walkEnv) Extract(state State) Observation {
	s := state.(walkState)
	obs := NewObservation(Schema{{Name: "walker", Capacity: 1}})
	obs.Score = s.Pts
	obs.Kinds[0].Slots[0] = Slot{Active: !s.Done, X: ToFix(int(s.Pos))}
	return obs
}

func (walkEnv) EncodeState(state State) ([]byte, error) {
	s, ok := state.(walkState)
	if !ok {
		return nil, errors.New("walk: wrong state type")
	}
	return json.Marshal(s)
}

func (walkEnv) DecodeState(data []byte) (State, error) {
	var s walkState
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return s, nil
}

func TestRolloutDeterministicDigest(t *testing.T) {
	env := walkEnv{}
	policy := RandomPolicy(env.ActionSpace())

	a, err := Rollout(env, 99, policy, 10000)
	if err != nil {
		t.Fatalf("Rollout() failed: %v", err)
	}
	b, err := Rollout(env, 99, policy, 10000)
	if err != nil {
		t.Fatalf("Rollout() failed: %v", err)
	}

	if a.Digest != b.Digest {
		t.Errorf("same seed produced different digests: %x vs %x", a.Digest, b.Digest)
	}
	if a.Steps != b.Steps || a.Score != b.Score {
		t.Errorf("same seed produced different trajectories: %+v vs %+v", a, b)
	}
}

func TestRolloutSeedsDiverge(t *testing.T) {
	env := walkEnv{}
	policy := RandomPolicy(env.ActionSpace())

	a, err := Rollout(env, 1, policy, 10000)
	if err != nil {
		t.Fatalf("Rollout() failed: %v", err)
	}
	b, err := Rollout(env, 2, policy, 10000)
	if err != nil {
		t.Fatalf("Rollout() failed: %v", err)
	}

	if a.Digest == b.Digest {
		t.Error("different seeds produced the same digest")
	}
}

func TestRolloutStopsAtMaxSteps(t *testing.T) {
	env := walkEnv{}

	// Alternating left/right never leaves the interval.
	policy := func(step uint64, obs Observation, key rng.Key) (Action, rng.Key) {
		if step%2 == 0 {
			return 1, key
		}
		return 2, key
	}

	traj, err := Rollout(env, 7, policy, 50)
	if err != nil {
		t.Fatalf("Rollout() failed: %v", err)
	}
	if traj.Steps != 50 {
		t.Errorf("Steps = %d, expected 50", traj.Steps)
	}
	if traj.Terminal {
		t.Error("bounded walk should not have terminated")
	}
}

func TestRolloutStopsAtTerminal(t *testing.T) {
	env := walkEnv{}

	// Always walk right; terminal after exactly 10 steps from pos 10.
	policy := func(step uint64, obs Observation, key rng.Key) (Action, rng.Key) {
		return 2, key
	}

	traj, err := Rollout(env, 7, policy, 10000)
	if err != nil {
		t.Fatalf("Rollout() failed: %v", err)
	}
	if !traj.Terminal {
		t.Error("walk to the boundary should have terminated")
	}
	if traj.Steps != 10 {
		t.Errorf("Steps = %d, expected 10", traj.Steps)
	}
	if traj.Reward != 10 {
		t.Errorf("Reward = %v, expected 10", traj.Reward)
	}
}

func TestReplayToTickMatchesRollout(t *testing.T) {
	env := walkEnv{}
	policy := RandomPolicy(env.ActionSpace())

	full, err := Rollout(env, 4242, policy, 10000)
	if err != nil {
		t.Fatalf("Rollout() failed: %v", err)
	}
	if full.Steps < 3 {
		t.Skipf("episode too short for this seed: %d steps", full.Steps)
	}

	mid, err := ReplayToTick(env, 4242, policy, full.Steps/2)
	if err != nil {
		t.Fatalf("ReplayToTick() failed: %v", err)
	}
	if mid.Tick() != full.Steps/2 {
		t.Errorf("Tick() = %d, expected %d", mid.Tick(), full.Steps/2)
	}

	again, err := ReplayToTick(env, 4242, policy, full.Steps/2)
	if err != nil {
		t.Fatalf("ReplayToTick() failed: %v", err)
	}

	a, _ := env.EncodeState(mid)
	b, _ := env.EncodeState(again)
	if string(a) != string(b) {
		t.Errorf("two replays to the same tick differ: %s vs %s", a, b)
	}
}

func TestReplayToTickStopsAtTerminal(t *testing.T) {
	env := walkEnv{}
	policy := func(step uint64, obs Observation, key rng.Key) (Action, rng.Key) {
		return 2, key
	}

	state, err := ReplayToTick(env, 5, policy, 10000)
	if err != nil {
		t.Fatalf("ReplayToTick() failed: %v", err)
	}
	if !state.Terminal() {
		t.Error("replay past the episode end should return the terminal state")
	}
	if state.Tick() != 10 {
		t.Errorf("Tick() = %d, expected 10", state.Tick())
	}
}

func TestRandomPolicyStaysInSpace(t *testing.T) {
	space := ActionSpace{Names: []string{"a", "b", "c", "d"}}
	policy := RandomPolicy(space)

	key := rng.NewKey(33)
	for i := 0; i < 200; i++ {
		var a Action
		a, key = policy(uint64(i), Observation{}, key)
		if !space.Contains(a) {
			t.Fatalf("random policy produced out-of-space action %d", a)
		}
	}
}
