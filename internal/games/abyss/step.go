package abyss

import (
	"github.com/objarcade/objarcade/internal/rng"
	"github.com/objarcade/objarcade/internal/sim"
)

// advance runs one full combat tick in the fixed rule order: rotation,
// fire, spawn, harpoon motion, enemy motion and hits, pearl motion and
// collection, power-up clocks, oxygen, level bookkeeping.
func (g *Game) advance(s State, action sim.Action) State {
	s = g.rotateTurret(s, action)
	s = g.fireHarpoon(s, action)
	s = g.spawnEnemy(s)
	s = g.moveHarpoons(s)
	s = g.moveEnemies(s)
	s = g.movePearls(s)
	s = g.tickPowerUps(s)
	s = g.tickOxygen(s)
	return g.updateLevel(s)
}

func (g *Game) rotateTurret(s State, action sim.Action) State {
	switch action {
	case ActionRotateLeft:
		s.TurretAngle = s.TurretAngle.Add(-g.cfg.Turret.RotateStep)
	case ActionRotateRight:
		s.TurretAngle = s.TurretAngle.Add(g.cfg.Turret.RotateStep)
	}
	return s
}

// turretTip is the muzzle position on the dome rim.
func (g *Game) turretTip(a sim.Angle) (sim.Fix, sim.Fix) {
	x := g.centerX + g.cityRadius.Mul(sim.Cos(a))
	y := g.centerY + g.cityRadius.Mul(sim.Sin(a))
	return x, y
}

// fireCooldown is the post-shot delay, halved while rapid fire is active.
func (g *Game) fireCooldown(s State) int32 {
	base := int32(g.cfg.Turret.CooldownFrames)
	if s.PowerTimers[PowerRapidFire] > 0 {
		if half := base / 2; half > 1 {
			return half
		}
		return 1
	}
	return base
}

// fireHarpoon launches a projectile from the dome rim along the turret
// heading. The cooldown gates the fire rate; there is no edge trigger,
// holding fire streams shots at the cooldown cadence.
func (g *Game) fireHarpoon(s State, action sim.Action) State {
	if s.FireCooldown > 0 {
		s.FireCooldown--
	}
	if action != ActionFire || s.FireCooldown > 0 {
		return s
	}

	slot := -1
	for i := 0; i < g.harpoonCap; i++ {
		if !s.Harpoons[i].Active {
			slot = i
			break
		}
	}
	if slot < 0 {
		return s
	}

	x, y := g.turretTip(s.TurretAngle)
	s.Harpoons[slot] = Harpoon{
		Active: true,
		X:      x,
		Y:      y,
		DX:     g.harpoonSpeed.Mul(sim.Cos(s.TurretAngle)),
		DY:     g.harpoonSpeed.Mul(sim.Sin(s.TurretAngle)),
	}
	s.FireCooldown = g.fireCooldown(s)
	return s
}

// enemySpeed scales with the level.
func (g *Game) enemySpeed(level int32) sim.Fix {
	return g.baseEnemySpeed + g.enemySpeedInc.MulInt(int(level)-1)
}

// spawnEnemy releases one creature on the spawn ring at a random bearing
// once the timer elapses, until the level quota is spent. Spawning on the
// ring makes the inbound velocity exactly the negated bearing vector, so
// no normalization is needed.
func (g *Game) spawnEnemy(s State) State {
	if s.SpawnTimer > 0 {
		s.SpawnTimer--
	}
	if s.SpawnTimer > 0 || s.Spawned >= int32(g.cfg.Enemies.PerLevel) {
		return s
	}

	key := s.Key
	bearing, key := rng.UintN(key, sim.AngleSteps)
	kind, key := rng.UintN(key, uint64(NumEnemyTypes))
	s.Key = key
	s.SpawnTimer = int32(g.cfg.Enemies.SpawnInterval)

	slot := -1
	for i := 0; i < g.enemyCap; i++ {
		if !s.Enemies[i].Active {
			slot = i
			break
		}
	}
	if slot < 0 {
		return s
	}

	a := sim.Angle(bearing)
	speed := g.enemySpeed(s.Level)
	s.Enemies[slot] = Enemy{
		Active: true,
		X:      g.centerX + sim.Cos(a).MulInt(g.spawnRadius),
		Y:      g.centerY + sim.Sin(a).MulInt(g.spawnRadius),
		DX:     -speed.Mul(sim.Cos(a)),
		DY:     -speed.Mul(sim.Sin(a)),
		Type:   int32(kind),
		HP:     enemyHealth[kind],
	}
	s.Spawned++
	return s
}

// moveHarpoons advances projectiles and clears any that leave the
// playfield.
func (g *Game) moveHarpoons(s State) State {
	for i := 0; i < g.harpoonCap; i++ {
		h := s.Harpoons[i]
		if !h.Active {
			continue
		}
		h.X += h.DX
		h.Y += h.DY
		if h.X < 0 || h.X >= g.screenW || h.Y < 0 || h.Y >= g.screenH {
			s.Harpoons[i] = Harpoon{}
			continue
		}
		s.Harpoons[i] = h
	}
	return s
}

// moveEnemies advances creatures toward the center and resolves both
// outcomes of the approach: reaching the dome (damage, slot cleared) and
// taking a harpoon (health loss, kill scoring, pearl drop). Slots are
// visited in ascending order so simultaneous events resolve identically
// on every run.
func (g *Game) moveEnemies(s State) State {
	for i := 0; i < g.enemyCap; i++ {
		e := s.Enemies[i]
		if !e.Active {
			continue
		}
		e.X += e.DX
		e.Y += e.DY

		if sim.Hypot(e.X-g.centerX, e.Y-g.centerY) <= g.cityRadius {
			s.Enemies[i] = Enemy{}
			if !s.ShieldActive {
				s.CityHealth -= int32(g.cfg.City.HitDamage)
				if s.CityHealth <= 0 {
					s.LivesLeft--
					s.CityHealth = int32(g.cfg.City.MaxHealth)
				}
			}
			continue
		}
		s.Enemies[i] = e

		for hi := 0; hi < g.harpoonCap; hi++ {
			h := s.Harpoons[hi]
			if !h.Active {
				continue
			}
			if sim.Hypot(e.X-h.X, e.Y-h.Y) >= sim.ToFix(hitRadius) {
				continue
			}
			s.Harpoons[hi] = Harpoon{}
			e.HP--
			if e.HP > 0 {
				s.Enemies[i] = e
				break
			}
			s.Enemies[i] = Enemy{}
			s = g.scoreKill(s, e)
			break
		}
	}
	return s
}

// scoreKill applies combo scoring for a downed creature and rolls its
// pearl drop. Kills inside the combo window stack a growing multiplier.
func (g *Game) scoreKill(s State, e Enemy) State {
	if s.LastKillTick >= 0 && int64(s.T)-s.LastKillTick <= int64(g.cfg.ComboWindow) {
		s.ComboCount++
	} else {
		s.ComboCount = 0
	}
	s.LastKillTick = int64(s.T)
	s.GameScore += int(enemyPoints[e.Type] * (1 + s.ComboCount))

	key := s.Key
	roll, key := rng.UintN(key, sim.Scale)
	dropped := int(roll) < g.chancePerMille
	kind, key := rng.UintN(key, uint64(NumPowerUps))
	s.Key = key
	if !dropped {
		return s
	}

	slot := -1
	for i := 0; i < g.pearlCap; i++ {
		if !s.Pearls[i].Active {
			slot = i
			break
		}
	}
	if slot < 0 {
		return s
	}

	// The pearl drifts outward along the line from the city center
	// through the kill position.
	dx, dy := scaleVector(e.X-g.centerX, e.Y-g.centerY, g.pearlSpeed)
	s.Pearls[slot] = Pearl{
		Active: true,
		X:      e.X,
		Y:      e.Y,
		DX:     dx,
		DY:     dy,
		Type:   int32(kind),
	}
	return s
}

// scaleVector rescales (dx, dy) to the given length.
func scaleVector(dx, dy, length sim.Fix) (sim.Fix, sim.Fix) {
	dist := sim.Hypot(dx, dy)
	if dist == 0 {
		return 0, 0
	}
	sx := sim.Fix(int64(dx) * int64(length) / int64(dist))
	sy := sim.Fix(int64(dy) * int64(length) / int64(dist))
	return sx, sy
}

// movePearls drifts pearls outward, collects any that pass the turret
// muzzle, and clears any that leave the playfield.
func (g *Game) movePearls(s State) State {
	tipX, tipY := g.turretTip(s.TurretAngle)
	for i := 0; i < g.pearlCap; i++ {
		p := s.Pearls[i]
		if !p.Active {
			continue
		}
		p.X += p.DX
		p.Y += p.DY
		if sim.Hypot(p.X-tipX, p.Y-tipY) < sim.ToFix(collectRadius) {
			s.Pearls[i] = Pearl{}
			s = g.applyPowerUp(s, p.Type)
			continue
		}
		if p.X < 0 || p.X >= g.screenW || p.Y < 0 || p.Y >= g.screenH {
			s.Pearls[i] = Pearl{}
			continue
		}
		s.Pearls[i] = p
	}
	return s
}

// applyPowerUp resolves a collected pearl. Sonar is instantaneous, oxygen
// refills the clock, rapid fire and shield run on timers.
func (g *Game) applyPowerUp(s State, kind int32) State {
	switch kind {
	case PowerSonar:
		// Clear everything within one and a half dome radii. Sonar kills
		// score base points without combo credit.
		reach := g.cityRadius + g.cityRadius.DivInt(2)
		for i := 0; i < g.enemyCap; i++ {
			e := s.Enemies[i]
			if !e.Active {
				continue
			}
			if sim.Hypot(e.X-g.centerX, e.Y-g.centerY) < reach {
				s.Enemies[i] = Enemy{}
				s.GameScore += int(enemyPoints[e.Type])
			}
		}
	case PowerRapidFire:
		s.PowerTimers[PowerRapidFire] = int32(g.cfg.Pearls.Duration)
	case PowerShield:
		s.ShieldActive = true
		s.PowerTimers[PowerShield] = int32(g.cfg.Pearls.Duration)
	case PowerOxygen:
		s.Oxygen = g.oxygenMax
	}
	return s
}

// tickPowerUps drains the timed power-up clocks and drops their effects
// on expiry.
func (g *Game) tickPowerUps(s State) State {
	for i := range s.PowerTimers {
		if s.PowerTimers[i] == 0 {
			continue
		}
		s.PowerTimers[i]--
		if s.PowerTimers[i] == 0 && int32(i) == PowerShield {
			s.ShieldActive = false
		}
	}
	return s
}

// tickOxygen drains the oxygen clock; running dry costs a life and
// refills the tank.
func (g *Game) tickOxygen(s State) State {
	s.Oxygen -= g.oxygenDepletion
	if s.Oxygen <= 0 {
		s.LivesLeft--
		s.Oxygen = g.oxygenMax
	}
	return s
}

// updateLevel advances to the next level once the spawn quota is spent
// and the field is clear. Creature speed rises with each level.
func (g *Game) updateLevel(s State) State {
	if s.Spawned < int32(g.cfg.Enemies.PerLevel) {
		return s
	}
	for i := 0; i < g.enemyCap; i++ {
		if s.Enemies[i].Active {
			return s
		}
	}
	s.Level++
	s.Spawned = 0
	s.SpawnTimer = int32(g.cfg.Enemies.SpawnInterval)
	return s
}
