package config

import (
	_ "embed"
)

//go:embed defaults/atlantis.yaml
var defaultAtlantisYAML []byte

//go:embed defaults/abyss.yaml
var defaultAbyssYAML []byte

// DefaultAtlantisConfig returns the built-in Atlantis parameters.
func DefaultAtlantisConfig() AtlantisConfig {
	return AtlantisConfig{
		Screen: AtlantisScreen{Width: 160, Height: 250},
		Bullets: AtlantisBullets{
			Width: 1, Height: 1, Speed: 3, Max: 2,
		},
		Cannons: AtlantisCannons{
			Width: 8, Height: 8, Y: 160,
			X:              []int{0, 72, 152},
			CooldownFrames: 9,
		},
		Enemies: AtlantisEnemies{
			Width: 15, Height: 8, Max: 20,
			LaneY:      []int{60, 80, 100, 120},
			SpawnMin:   5,
			SpawnMax:   50,
			LaneScores: []int{100, 200, 300, 500},
		},
		Waves: AtlantisWaves{
			EndCooldown: 150,
			StartCount:  10,
			Growth:      2,
		},
	}
}

// DefaultAbyssConfig returns the built-in Abyss parameters.
func DefaultAbyssConfig() AbyssConfig {
	return AbyssConfig{
		Screen: AbyssScreen{Width: 800, Height: 600},
		Turret: AbyssTurret{RotateStep: 2, CooldownFrames: 15},
		Harpoons: AbyssHarpoons{
			Speed: 8.0, Max: 8,
		},
		Enemies: AbyssEnemies{
			Max: 16, BaseSpeed: 1.5, SpeedIncrease: 0.2,
			PerLevel: 10, SpawnRadius: 400, SpawnInterval: 60,
		},
		Pearls: AbyssPearls{
			Chance: 0.2, Speed: 3.0, Max: 4, Duration: 300,
		},
		City: AbyssCity{
			Radius: 100, MaxHealth: 100, HitDamage: 10,
		},
		Oxygen:      AbyssOxygen{Max: 100.0, Depletion: 0.05},
		ComboWindow: 30,
		Lives:       3,
	}
}
