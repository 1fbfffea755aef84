package sim

// Action is an element of a game's enumerated action set, encoded as a
// small non-negative integer. The integer-to-semantic mapping is fixed per
// game and published by its ActionSpace.
type Action int

// ActionSpace describes a game's enumerated action set.
type ActionSpace struct {
	// Names maps action value i to its semantic name ("noop", "fire", ...).
	Names []string
}

// N returns the number of legal actions.
func (s ActionSpace) N() int {
	return len(s.Names)
}

// Contains reports whether a is a legal action value.
func (s ActionSpace) Contains(a Action) bool {
	return a >= 0 && int(a) < len(s.Names)
}

// Name returns the semantic name of an action, or "invalid".
func (s ActionSpace) Name(a Action) string {
	if !s.Contains(a) {
		return "invalid"
	}
	return s.Names[a]
}

// ObservationSpace describes the fixed output shape of a game's
// observations: the entity schema plus the bounds of the playfield.
type ObservationSpace struct {
	Schema Schema
	// World bounds in whole units; positions in observations fall inside
	// (spawn margins aside, which enter from just outside the bounds).
	WorldW, WorldH int
}

// FlatSize returns the length of flattened observation vectors.
func (s ObservationSpace) FlatSize() int {
	return s.Schema.FlatSize()
}
