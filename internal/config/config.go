// Package config defines per-game tunable parameters loaded from YAML.
// Every numeric here feeds the deterministic simulation, so configs are
// read once at environment construction and never change mid-episode.
package config

// AtlantisScreen describes the lane-defense playfield.
type AtlantisScreen struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// AtlantisBullets describes cannon shells.
type AtlantisBullets struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Speed  int `yaml:"speed"` // units per tick; side cannons fire at speed-1 vertically
	Max    int `yaml:"max"`   // fixed slot capacity
}

// AtlantisCannons describes the three defense cannons.
type AtlantisCannons struct {
	Width          int   `yaml:"width"`
	Height         int   `yaml:"height"`
	Y              int   `yaml:"y"`
	X              []int `yaml:"x"`             // left, center, right
	CooldownFrames int   `yaml:"cooldown"`      // ticks between shots
}

// AtlantisEnemies describes the attacking saucers.
type AtlantisEnemies struct {
	Width      int   `yaml:"width"`
	Height     int   `yaml:"height"`
	Max        int   `yaml:"max"` // fixed slot capacity
	LaneY      []int `yaml:"lanes"`
	SpawnMin   int   `yaml:"spawn_min"` // spawn timer range, inclusive
	SpawnMax   int   `yaml:"spawn_max"`
	LaneScores []int `yaml:"lane_scores"` // points per kill, by lane
}

// AtlantisWaves describes wave progression.
type AtlantisWaves struct {
	EndCooldown int `yaml:"end_cooldown"` // pause ticks between waves
	StartCount  int `yaml:"start_count"`  // enemies in wave 0
	Growth      int `yaml:"growth"`       // extra enemies per wave
}

// AtlantisConfig is the full parameter set for the lane-defense game.
type AtlantisConfig struct {
	Screen  AtlantisScreen  `yaml:"screen"`
	Bullets AtlantisBullets `yaml:"bullets"`
	Cannons AtlantisCannons `yaml:"cannons"`
	Enemies AtlantisEnemies `yaml:"enemies"`
	Waves   AtlantisWaves   `yaml:"waves"`
}

// AbyssScreen describes the dome-defense playfield.
type AbyssScreen struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// AbyssTurret describes the rotating turret.
type AbyssTurret struct {
	RotateStep     int `yaml:"rotate_step"` // angle steps (of 256) per tick
	CooldownFrames int `yaml:"cooldown"`
}

// AbyssHarpoons describes turret projectiles.
type AbyssHarpoons struct {
	Speed float64 `yaml:"speed"` // units per tick
	Max   int     `yaml:"max"`
}

// AbyssEnemies describes the converging creatures.
type AbyssEnemies struct {
	Max           int     `yaml:"max"`
	BaseSpeed     float64 `yaml:"base_speed"`
	SpeedIncrease float64 `yaml:"speed_increase"` // per level
	PerLevel      int     `yaml:"per_level"`
	SpawnRadius   int     `yaml:"spawn_radius"`
	SpawnInterval int     `yaml:"spawn_interval"` // ticks between spawns
}

// AbyssPearls describes power-up drops.
type AbyssPearls struct {
	Chance   float64 `yaml:"chance"` // drop probability per kill
	Speed    float64 `yaml:"speed"`
	Max      int     `yaml:"max"`
	Duration int     `yaml:"duration"` // ticks a timed power-up lasts
}

// AbyssCity describes the domed city.
type AbyssCity struct {
	Radius    int `yaml:"radius"`
	MaxHealth int `yaml:"max_health"`
	HitDamage int `yaml:"hit_damage"` // health lost when an enemy reaches the dome
}

// AbyssOxygen describes the oxygen clock.
type AbyssOxygen struct {
	Max       float64 `yaml:"max"`
	Depletion float64 `yaml:"depletion"` // per tick
}

// AbyssConfig is the full parameter set for the dome-defense game.
type AbyssConfig struct {
	Screen      AbyssScreen   `yaml:"screen"`
	Turret      AbyssTurret   `yaml:"turret"`
	Harpoons    AbyssHarpoons `yaml:"harpoons"`
	Enemies     AbyssEnemies  `yaml:"enemies"`
	Pearls      AbyssPearls   `yaml:"pearls"`
	City        AbyssCity     `yaml:"city"`
	Oxygen      AbyssOxygen   `yaml:"oxygen"`
	ComboWindow int           `yaml:"combo_window"`
	Lives       int           `yaml:"lives"`
}
