package sim

import "fmt"

// Slot is one potential entity occupying a fixed index within its kind's
// capacity. Inactive slots carry zeroed numerics, never garbage, so a
// stack of observations is well-formed regardless of how many entities are
// currently alive.
type Slot struct {
	Active bool
	X, Y   Fix
	W, H   Fix
	VX, VY Fix
	// Extra holds two kind-specific fields (lane, health, phase, ...);
	// meaning is documented per kind on the game's schema.
	Extra [2]int32
}

// SlotWidth is the number of numeric features one slot contributes to a
// flattened observation: active, x, y, w, h, vx, vy, extra0, extra1.
const SlotWidth = 9

// KindSpec declares one entity kind: its name, the fixed number of slots,
// and human-readable labels for the two extra fields.
type KindSpec struct {
	Name     string
	Capacity int
	Extra0   string
	Extra1   string
}

// Schema is the complete entity model of a game. Its shape (kind set and
// per-kind capacities) is constant across all states of that game; only
// slot contents vary tick to tick.
type Schema []KindSpec

// Validate reports schema inconsistencies. A failure here is a
// construction bug and is surfaced at registration time.
func (s Schema) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("sim: schema has no entity kinds")
	}
	seen := make(map[string]bool, len(s))
	for _, k := range s {
		if k.Name == "" {
			return fmt.Errorf("sim: schema contains an unnamed kind")
		}
		if seen[k.Name] {
			return fmt.Errorf("sim: duplicate entity kind %q", k.Name)
		}
		seen[k.Name] = true
		if k.Capacity <= 0 {
			return fmt.Errorf("sim: kind %q has non-positive capacity %d", k.Name, k.Capacity)
		}
	}
	return nil
}

// FlatSize returns the length of the flattened feature vector for this
// schema: one score feature plus SlotWidth features per slot.
func (s Schema) FlatSize() int {
	n := 1
	for _, k := range s {
		n += k.Capacity * SlotWidth
	}
	return n
}

// LowestInactive returns the index of the first inactive slot, or -1 when
// the table is full. Spawning always targets this index, which is the
// deterministic tie-break that keeps slot identity stable.
func LowestInactive(active []bool) int {
	for i, a := range active {
		if !a {
			return i
		}
	}
	return -1
}
