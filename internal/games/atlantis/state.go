package atlantis

import (
	"github.com/objarcade/objarcade/internal/rng"
	"github.com/objarcade/objarcade/internal/sim"
)

// Compile-time slot bounds. The effective capacities come from config and
// may be smaller, never larger; fixed-size arrays give the state true value
// semantics, so copying a State can never alias another instance.
const (
	MaxEnemySlots  = 32
	MaxBulletSlots = 4
	NumCannons     = 3
	NumLanes       = 4
)

// Enemy is one saucer slot. Inactive slots are fully zeroed.
type Enemy struct {
	Active bool    `json:"active"`
	X      sim.Fix `json:"x"`
	Y      sim.Fix `json:"y"`
	DX     sim.Fix `json:"dx"`
	Type   int32   `json:"type"`
	Lane   int32   `json:"lane"`
}

// Bullet is one cannon shell slot.
type Bullet struct {
	Active bool    `json:"active"`
	X      sim.Fix `json:"x"`
	Y      sim.Fix `json:"y"`
	DX     sim.Fix `json:"dx"`
	DY     sim.Fix `json:"dy"`
}

// State is one immutable snapshot of the lane-defense game. It is a plain
// value: advancing it returns a new State and leaves the old one intact.
type State struct {
	T   uint64  `json:"tick"`
	Key rng.Key `json:"rng_key"`

	GameScore int   `json:"score"`
	Wave      int32 `json:"wave"`

	Enemies [MaxEnemySlots]Enemy  `json:"enemies"`
	Bullets [MaxBulletSlots]Bullet `json:"bullets"`

	FireCooldown int32 `json:"fire_cooldown"`
	FirePrev     bool  `json:"fire_button_prev"`
	SpawnTimer   int32 `json:"enemy_spawn_timer"`

	LanesFree [NumLanes]bool `json:"lanes_free"`

	WaveRemaining   int32 `json:"wave_enemies_remaining"`
	WaveEndCooldown int32 `json:"wave_end_cooldown"`

	// PlasmaX is the whole-unit column of the active lane-4 beam, -1 when
	// no enemy is beaming.
	PlasmaX       int32                `json:"plasma_x"`
	PlasmaAllowed [MaxEnemySlots]bool  `json:"plasma_allowed"`

	CannonsAlive     [NumCannons]bool `json:"cannons_alive"`
	CommandPostAlive bool             `json:"command_post_alive"`

	Done bool `json:"terminal"`
}

// Tick implements sim.State.
func (s State) Tick() uint64 { return s.T }

// Score implements sim.State.
func (s State) Score() int { return s.GameScore }

// Lives implements sim.State: the number of cannons still standing.
func (s State) Lives() int {
	n := 0
	for _, alive := range s.CannonsAlive {
		if alive {
			n++
		}
	}
	return n
}

// Terminal implements sim.State.
func (s State) Terminal() bool { return s.Done }
