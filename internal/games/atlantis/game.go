// Package atlantis implements the lane-defense game: three fixed cannons
// guard a sunken city against saucers sweeping across four horizontal
// lanes. Saucers that reach the deepest lane fire a plasma beam straight
// down; losing every cannon ends the episode.
//
// Action encoding: 0 noop, 1 fire center cannon, 2 fire left cannon,
// 3 fire right cannon.
package atlantis

import (
	"encoding/json"
	"fmt"

	"github.com/objarcade/objarcade/internal/config"
	"github.com/objarcade/objarcade/internal/registry"
	"github.com/objarcade/objarcade/internal/rng"
	"github.com/objarcade/objarcade/internal/sim"
)

// Action values.
const (
	ActionNoop       sim.Action = 0
	ActionFireCenter sim.Action = 1
	ActionFireLeft   sim.Action = 2
	ActionFireRight  sim.Action = 3
)

// Entity kind names in canonical schema order.
const (
	KindEnemy  = "enemy"
	KindBullet = "bullet"
	KindCannon = "cannon"
)

// Game is the pure transition engine for the lane-defense game. All
// mutable data lives in State values; Game itself carries only immutable
// configuration and may be shared freely.
type Game struct {
	cfg config.AtlantisConfig

	// Capacities actually used, clamped to the compile-time slot bounds.
	enemyCap  int
	bulletCap int

	// Derived fixed-point geometry.
	screenW, screenH sim.Fix
	enemyW, enemyH   sim.Fix
	bulletW, bulletH sim.Fix
	cannonX          [NumCannons]sim.Fix
	cannonY          sim.Fix
	laneY            [NumLanes]sim.Fix

	space    sim.ActionSpace
	obsSpace sim.ObservationSpace
}

// New builds the game from its configuration. Configuration errors are
// reported here, before the game can reach the registry.
func New(cfg config.AtlantisConfig) (*Game, error) {
	if len(cfg.Cannons.X) != NumCannons {
		return nil, fmt.Errorf("atlantis: need %d cannon positions, got %d", NumCannons, len(cfg.Cannons.X))
	}
	if len(cfg.Enemies.LaneY) != NumLanes {
		return nil, fmt.Errorf("atlantis: need %d lane heights, got %d", NumLanes, len(cfg.Enemies.LaneY))
	}
	if len(cfg.Enemies.LaneScores) != NumLanes {
		return nil, fmt.Errorf("atlantis: need %d lane scores, got %d", NumLanes, len(cfg.Enemies.LaneScores))
	}
	if cfg.Enemies.SpawnMin < 1 || cfg.Enemies.SpawnMax < cfg.Enemies.SpawnMin {
		return nil, fmt.Errorf("atlantis: bad spawn timer range [%d, %d]", cfg.Enemies.SpawnMin, cfg.Enemies.SpawnMax)
	}

	g := &Game{
		cfg:       cfg,
		enemyCap:  min(cfg.Enemies.Max, MaxEnemySlots),
		bulletCap: min(cfg.Bullets.Max, MaxBulletSlots),
		screenW:   sim.ToFix(cfg.Screen.Width),
		screenH:   sim.ToFix(cfg.Screen.Height),
		enemyW:    sim.ToFix(cfg.Enemies.Width),
		enemyH:    sim.ToFix(cfg.Enemies.Height),
		bulletW:   sim.ToFix(cfg.Bullets.Width),
		bulletH:   sim.ToFix(cfg.Bullets.Height),
		cannonY:   sim.ToFix(cfg.Cannons.Y),
	}
	if g.enemyCap < 1 || g.bulletCap < 1 {
		return nil, fmt.Errorf("atlantis: entity capacities must be positive")
	}
	for i := range g.cannonX {
		g.cannonX[i] = sim.ToFix(cfg.Cannons.X[i])
	}
	for i := range g.laneY {
		g.laneY[i] = sim.ToFix(cfg.Enemies.LaneY[i])
	}

	g.space = sim.ActionSpace{Names: []string{"noop", "fire", "leftfire", "rightfire"}}
	g.obsSpace = sim.ObservationSpace{
		Schema: sim.Schema{
			{Name: KindEnemy, Capacity: g.enemyCap, Extra0: "lane", Extra1: "type"},
			{Name: KindBullet, Capacity: g.bulletCap},
			{Name: KindCannon, Capacity: NumCannons, Extra0: "command_post"},
		},
		WorldW: cfg.Screen.Width,
		WorldH: cfg.Screen.Height,
	}
	return g, nil
}

// MustNew is New for the registry path, where a bad built-in config is a
// programming error.
func MustNew(cfg config.AtlantisConfig) *Game {
	g, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return g
}

func init() {
	registry.Register("atlantis", func() sim.Env {
		cfg, err := config.LoadAtlantis("")
		if err != nil {
			cfg = config.DefaultAtlantisConfig()
		}
		return MustNew(cfg)
	})
}

// ID implements sim.Env.
func (g *Game) ID() string { return "atlantis" }

// Title implements sim.Env.
func (g *Game) Title() string { return "Atlantis" }

// ActionSpace implements sim.Env.
func (g *Game) ActionSpace() sim.ActionSpace { return g.space }

// ObservationSpace implements sim.Env.
func (g *Game) ObservationSpace() sim.ObservationSpace { return g.obsSpace }

// Reset builds the initial state: empty tables, full cannons, and a spawn
// timer drawn from a key split off the caller's.
func (g *Game) Reset(key rng.Key) (sim.State, sim.Observation) {
	carry, sub := rng.Split(key)
	timer, _ := rng.IntBetween(sub, g.cfg.Enemies.SpawnMin, g.cfg.Enemies.SpawnMax)

	s := State{
		Key:              carry,
		SpawnTimer:       int32(timer),
		WaveRemaining:    int32(g.cfg.Waves.StartCount),
		PlasmaX:          -1,
		CommandPostAlive: true,
	}
	for i := range s.LanesFree {
		s.LanesFree[i] = true
	}
	for i := 0; i < g.enemyCap; i++ {
		s.PlasmaAllowed[i] = true
	}
	for i := range s.CannonsAlive {
		s.CannonsAlive[i] = true
	}
	return s, g.Extract(s)
}

// Step advances one tick. Illegal actions and foreign states are rejected
// with no state change; stepping a terminal state returns it unchanged
// with zero reward.
func (g *Game) Step(state sim.State, action sim.Action) (sim.Transition, error) {
	if err := sim.CheckAction(g.space, action); err != nil {
		return sim.Transition{}, err
	}
	s, ok := state.(State)
	if !ok {
		return sim.Transition{}, fmt.Errorf("%w: got %T", sim.ErrWrongState, state)
	}

	if s.Done {
		return g.transition(s, s), nil
	}

	prev := s
	if s.WaveEndCooldown > 0 {
		s = g.pauseStep(s)
	} else {
		s = g.waveStep(s, action)
	}

	// Termination: every cannon destroyed.
	s.Done = !s.CannonsAlive[0] && !s.CannonsAlive[1] && !s.CannonsAlive[2]
	s.CommandPostAlive = s.CannonsAlive[1]
	s.T = prev.T + 1

	return g.transition(prev, s), nil
}

// transition packages the reward (score delta between the two states) and
// diagnostics for a completed tick.
func (g *Game) transition(prev, next State) sim.Transition {
	return sim.Transition{
		State:    next,
		Obs:      g.Extract(next),
		Reward:   float64(next.GameScore - prev.GameScore),
		Terminal: next.Done,
		Info: sim.Info{
			Score: next.GameScore,
			Tick:  next.T,
			Extra: map[string]int{
				"wave":           int(next.Wave),
				"wave_remaining": int(next.WaveRemaining),
				"cannons":        next.Lives(),
			},
		},
	}
}

// EncodeState implements sim.Env: a flat JSON record of named fields.
func (g *Game) EncodeState(state sim.State) ([]byte, error) {
	s, ok := state.(State)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", sim.ErrWrongState, state)
	}
	return json.Marshal(s)
}

// DecodeState implements sim.Env.
func (g *Game) DecodeState(data []byte) (sim.State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("atlantis: decode state: %w", err)
	}
	return s, nil
}
