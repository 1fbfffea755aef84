// Package abyss implements the dome-defense game: a single turret rotates
// on the rim of a domed undersea city while creatures converge from a
// spawn ring toward the center. Kills chain into combos, downed creatures
// can shed power-up pearls, and the city runs on a depleting oxygen clock.
//
// Action encoding: 0 noop, 1 rotate left, 2 rotate right, 3 fire.
package abyss

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
	ActionNoop        sim.Action = 0
	ActionRotateLeft  sim.Action = 1
	ActionRotateRight sim.Action = 2
	ActionFire        sim.Action = 3
)

// Entity kind names in canonical schema order.
const (
	KindEnemy   = "enemy"
	KindHarpoon = "harpoon"
	KindPearl   = "pearl"
	KindTurret  = "turret"
)

// Game is the pure transition engine for the dome-defense game. All
// mutable data lives in State values; Game carries only immutable
// configuration and may be shared freely.
type Game struct {
	cfg config.AbyssConfig

	enemyCap   int
	harpoonCap int
	pearlCap   int

	// Derived fixed-point geometry.
	screenW, screenH sim.Fix
	centerX, centerY sim.Fix
	cityRadius       sim.Fix
	spawnRadius      int
	harpoonSpeed     sim.Fix
	baseEnemySpeed   sim.Fix
	enemySpeedInc    sim.Fix
	pearlSpeed       sim.Fix
	oxygenMax        sim.Fix
	oxygenDepletion  sim.Fix
	chancePerMille   int

	space    sim.ActionSpace
	obsSpace sim.ObservationSpace
}

// Enemies must lie strictly outside the dome when they spawn, and collect
// and collision radii are fixed play-feel constants rather than config.
const (
	hitRadius     = 10
	collectRadius = 15
)

// New builds the game from its configuration.
func New(cfg config.AbyssConfig) (*Game, error) {
	if cfg.Screen.Width < 1 || cfg.Screen.Height < 1 {
		return nil, fmt.Errorf("abyss: bad screen %dx%d", cfg.Screen.Width, cfg.Screen.Height)
	}
	if cfg.City.Radius < 1 || cfg.Enemies.SpawnRadius <= cfg.City.Radius {
		return nil, fmt.Errorf("abyss: spawn radius %d must exceed city radius %d", cfg.Enemies.SpawnRadius, cfg.City.Radius)
	}
	if cfg.Enemies.SpawnInterval < 1 {
		return nil, fmt.Errorf("abyss: spawn interval must be positive, got %d", cfg.Enemies.SpawnInterval)
	}
	if cfg.Pearls.Chance < 0 || cfg.Pearls.Chance > 1 {
		return nil, fmt.Errorf("abyss: pearl chance %v outside [0, 1]", cfg.Pearls.Chance)
	}
	if cfg.Lives < 1 {
		return nil, fmt.Errorf("abyss: lives must be positive, got %d", cfg.Lives)
	}

	g := &Game{
		cfg:             cfg,
		enemyCap:        min(cfg.Enemies.Max, MaxEnemySlots),
		harpoonCap:      min(cfg.Harpoons.Max, MaxHarpoonSlots),
		pearlCap:        min(cfg.Pearls.Max, MaxPearlSlots),
		screenW:         sim.ToFix(cfg.Screen.Width),
		screenH:         sim.ToFix(cfg.Screen.Height),
		centerX:         sim.ToFix(cfg.Screen.Width / 2),
		centerY:         sim.ToFix(cfg.Screen.Height / 2),
		cityRadius:      sim.ToFix(cfg.City.Radius),
		spawnRadius:     cfg.Enemies.SpawnRadius,
		harpoonSpeed:    sim.ToFixF(cfg.Harpoons.Speed),
		baseEnemySpeed:  sim.ToFixF(cfg.Enemies.BaseSpeed),
		enemySpeedInc:   sim.ToFixF(cfg.Enemies.SpeedIncrease),
		pearlSpeed:      sim.ToFixF(cfg.Pearls.Speed),
		oxygenMax:       sim.ToFixF(cfg.Oxygen.Max),
		oxygenDepletion: sim.ToFixF(cfg.Oxygen.Depletion),
		chancePerMille:  int(cfg.Pearls.Chance*sim.Scale + 0.5),
	}
	if g.enemyCap < 1 || g.harpoonCap < 1 || g.pearlCap < 1 {
		return nil, fmt.Errorf("abyss: entity capacities must be positive")
	}

	g.space = sim.ActionSpace{Names: []string{"noop", "left", "right", "fire"}}
	g.obsSpace = sim.ObservationSpace{
		Schema: sim.Schema{
			{Name: KindEnemy, Capacity: g.enemyCap, Extra0: "type", Extra1: "hp"},
			{Name: KindHarpoon, Capacity: g.harpoonCap},
			{Name: KindPearl, Capacity: g.pearlCap, Extra0: "type"},
			{Name: KindTurret, Capacity: 1, Extra0: "angle", Extra1: "shield"},
		},
		WorldW: cfg.Screen.Width,
		WorldH: cfg.Screen.Height,
	}
	return g, nil
}

// MustNew is New for the registry path, where a bad built-in config is a
// programming error.
func MustNew(cfg config.AbyssConfig) *Game {
	g, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return g
}

func init() {
	registry.Register("abyss", func() sim.Env {
		cfg, err := config.LoadAbyss("")
		if err != nil {
			cfg = config.DefaultAbyssConfig()
		}
		return MustNew(cfg)
	})
}

// ID implements sim.Env.
func (g *Game) ID() string { return "abyss" }

// Title implements sim.Env.
func (g *Game) Title() string { return "Abyss" }

// ActionSpace implements sim.Env.
func (g *Game) ActionSpace() sim.ActionSpace { return g.space }

// ObservationSpace implements sim.Env.
func (g *Game) ObservationSpace() sim.ObservationSpace { return g.obsSpace }

// Reset builds the initial state: empty tables, full health and oxygen,
// the turret pointing along the positive x axis, and the spawn timer
// primed so the first creature appears after one full interval.
func (g *Game) Reset(key rng.Key) (sim.State, sim.Observation) {
	carry, _ := rng.Split(key)

	s := State{
		Key:          carry,
		Level:        1,
		SpawnTimer:   int32(g.cfg.Enemies.SpawnInterval),
		LastKillTick: -1,
		CityHealth:   int32(g.cfg.City.MaxHealth),
		Oxygen:       g.oxygenMax,
		LivesLeft:    int32(g.cfg.Lives),
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
	s = g.advance(s, action)
	s.Done = s.LivesLeft <= 0
	s.T = prev.T + 1

	return g.transition(prev, s), nil
}

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
				"level":       int(next.Level),
				"lives":       int(next.LivesLeft),
				"city_health": int(next.CityHealth),
				"oxygen":      next.Oxygen.Whole(),
				"combo":       int(next.ComboCount),
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
		return nil, fmt.Errorf("abyss: decode state: %w", err)
	}
	return s, nil
}
