package sim

import (
	"errors"
	"fmt"

	"github.com/objarcade/objarcade/internal/rng"
)

// Sentinel errors surfaced at the environment boundary. Inside a step the
// engine is error-free over well-typed state; only malformed caller input
// is rejected, and rejection never mutates anything.
var (
	// ErrInvalidAction means the action is outside the enumerated set.
	ErrInvalidAction = errors.New("sim: action outside the enumerated action set")
	// ErrWrongState means the state value belongs to a different game.
	ErrWrongState = errors.New("sim: state does not belong to this environment")
)

// State is one immutable snapshot of a game instance. Concrete states are
// plain value types (structs of fixed-size arrays); advancing a state
// produces a new value and leaves the old one untouched.
type State interface {
	// Tick is the number of steps taken since reset.
	Tick() uint64
	// Score is the cumulative score.
	Score() int
	// Lives is the number of lives (or equivalent survival units) left.
	Lives() int
	// Terminal reports whether the episode has ended.
	Terminal() bool
}

// Info carries auxiliary per-step diagnostics not needed for learning.
type Info struct {
	Score int
	Tick  uint64
	// Extra holds game-specific counters (wave, level, combo, ...).
	Extra map[string]int
}

// Transition is the result of advancing a state by one tick.
type Transition struct {
	State    State
	Obs      Observation
	Reward   float64
	Terminal bool
	Info     Info
}

// Env is the uniform per-game contract. Every method is a pure function:
// no I/O, no hidden mutation, no shared state between calls, so an outside
// executor can replicate Reset/Step across any number of instances and get
// bit-identical, independent results.
//
// Stepping a terminal state is a no-op: the same terminal state comes back
// with zero reward. Callers that want an error instead should check
// Terminal before stepping.
type Env interface {
	// ID is the registry name of the game.
	ID() string
	// Title is the human-readable name.
	Title() string

	ActionSpace() ActionSpace
	ObservationSpace() ObservationSpace

	// Reset builds the initial state from a fresh key and returns it with
	// its observation.
	Reset(key rng.Key) (State, Observation)

	// Step advances one tick. The action must be inside ActionSpace and
	// the state must have been produced by this game, otherwise the call
	// is rejected with no state change.
	Step(state State, action Action) (Transition, error)

	// Extract derives the object-centric observation for any state of this
	// game. Total over well-formed states.
	Extract(state State) Observation

	// EncodeState serializes a state to a flat, self-describing record
	// (JSON object, field name -> value) sufficient to reconstruct an
	// identical state for deterministic replay or checkpointing.
	EncodeState(state State) ([]byte, error)
	// DecodeState reverses EncodeState.
	DecodeState(data []byte) (State, error)
}

// CheckAction validates an action against a space, wrapping
// ErrInvalidAction with the offending value. Games call this first in
// Step, before touching the state.
func CheckAction(space ActionSpace, a Action) error {
	if !space.Contains(a) {
		return fmt.Errorf("%w: %d (legal range 0..%d)", ErrInvalidAction, a, space.N()-1)
	}
	return nil
}
