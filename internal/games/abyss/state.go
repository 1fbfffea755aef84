package abyss

import (
	"github.com/objarcade/objarcade/internal/rng"
	"github.com/objarcade/objarcade/internal/sim"
)

// Compile-time slot bounds. Effective capacities come from config and are
// clamped to these, never raised past them.
const (
	MaxEnemySlots   = 24
	MaxHarpoonSlots = 8
	MaxPearlSlots   = 6
)

// Enemy types. Tougher creatures are worth more.
const (
	TypeEel int32 = iota
	TypeSquid
	TypeCrab
	NumEnemyTypes
)

// Power-up pearl types.
const (
	PowerSonar int32 = iota
	PowerRapidFire
	PowerShield
	PowerOxygen
	NumPowerUps
)

// enemyHealth and enemyPoints index by enemy type.
var (
	enemyHealth = [NumEnemyTypes]int32{1, 2, 3}
	enemyPoints = [NumEnemyTypes]int32{100, 150, 200}
)

// Enemy is one creature slot. Inactive slots are fully zeroed.
type Enemy struct {
	Active bool    `json:"active"`
	X      sim.Fix `json:"x"`
	Y      sim.Fix `json:"y"`
	DX     sim.Fix `json:"dx"`
	DY     sim.Fix `json:"dy"`
	Type   int32   `json:"type"`
	HP     int32   `json:"hp"`
}

// Harpoon is one projectile slot.
type Harpoon struct {
	Active bool    `json:"active"`
	X      sim.Fix `json:"x"`
	Y      sim.Fix `json:"y"`
	DX     sim.Fix `json:"dx"`
	DY     sim.Fix `json:"dy"`
}

// Pearl is one drifting power-up slot.
type Pearl struct {
	Active bool    `json:"active"`
	X      sim.Fix `json:"x"`
	Y      sim.Fix `json:"y"`
	DX     sim.Fix `json:"dx"`
	DY     sim.Fix `json:"dy"`
	Type   int32   `json:"type"`
}

// State is one immutable snapshot of the dome-defense game. Advancing it
// returns a new State and leaves the old one intact.
type State struct {
	T   uint64  `json:"tick"`
	Key rng.Key `json:"rng_key"`

	GameScore int   `json:"score"`
	Level     int32 `json:"level"`

	TurretAngle  sim.Angle `json:"turret_angle"`
	FireCooldown int32     `json:"fire_cooldown"`

	Enemies  [MaxEnemySlots]Enemy     `json:"enemies"`
	Harpoons [MaxHarpoonSlots]Harpoon `json:"harpoons"`
	Pearls   [MaxPearlSlots]Pearl     `json:"pearls"`

	SpawnTimer int32 `json:"spawn_timer"`
	// Spawned counts creatures released this level, against the level quota.
	Spawned int32 `json:"level_spawned"`

	ComboCount int32 `json:"combo_count"`
	// LastKillTick is the tick of the most recent kill, -1 before any.
	LastKillTick int64 `json:"last_kill_tick"`

	CityHealth int32   `json:"city_health"`
	Oxygen     sim.Fix `json:"oxygen"`
	LivesLeft  int32   `json:"lives"`

	PowerTimers  [NumPowerUps]int32 `json:"power_timers"`
	ShieldActive bool               `json:"shield_active"`

	Done bool `json:"terminal"`
}

// Tick implements sim.State.
func (s State) Tick() uint64 { return s.T }

// Score implements sim.State.
func (s State) Score() int { return s.GameScore }

// Lives implements sim.State.
func (s State) Lives() int { return int(s.LivesLeft) }

// Terminal implements sim.State.
func (s State) Terminal() bool { return s.Done }
