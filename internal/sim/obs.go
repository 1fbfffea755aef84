package sim

// KindTable is the full fixed-capacity slot sequence of one entity kind in
// canonical slot order. It is never filtered or resized: len(Slots) equals
// the kind's declared capacity in every observation.
type KindTable struct {
	Kind  string
	Slots []Slot
}

// Observation is the object-centric view of one GameState: the score plus
// every kind's complete slot table. Its shape is invariant for a given
// game, which is what lets downstream code stack observations from many
// instances into one batch.
type Observation struct {
	Score int
	Kinds []KindTable
}

// NewObservation allocates an observation shaped by the schema, all slots
// inactive and zeroed.
func NewObservation(schema Schema) Observation {
	kinds := make([]KindTable, len(schema))
	for i, k := range schema {
		kinds[i] = KindTable{Kind: k.Name, Slots: make([]Slot, k.Capacity)}
	}
	return Observation{Kinds: kinds}
}

// Flatten projects the observation into a fixed-length numeric vector.
//
// Field order: score first, then kinds in schema order, slots in index
// order, each slot contributing active(0/1), x, y, w, h, vx, vy, extra0,
// extra1. Positions and velocities are emitted in world units.
func (o Observation) Flatten() []float64 {
	n := 1
	for _, k := range o.Kinds {
		n += len(k.Slots) * SlotWidth
	}
	out := make([]float64, 0, n)
	out = append(out, float64(o.Score))
	for _, k := range o.Kinds {
		for _, s := range k.Slots {
			active := 0.0
			if s.Active {
				active = 1.0
			}
			out = append(out,
				active,
				s.X.Float(), s.Y.Float(),
				s.W.Float(), s.H.Float(),
				s.VX.Float(), s.VY.Float(),
				float64(s.Extra[0]), float64(s.Extra[1]),
			)
		}
	}
	return out
}

// Table returns the slot table for a kind, or nil if the observation does
// not carry that kind.
func (o Observation) Table(kind string) []Slot {
	for _, k := range o.Kinds {
		if k.Kind == kind {
			return k.Slots
		}
	}
	return nil
}
