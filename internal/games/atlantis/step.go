package atlantis

import (
	"github.com/objarcade/objarcade/internal/rng"
	"github.com/objarcade/objarcade/internal/sim"
)

// pauseStep runs the quiet phase between waves: the cooldown counts down,
// in-flight bullets finish their travel, nothing spawns.
func (g *Game) pauseStep(s State) State {
	if s.WaveEndCooldown > 0 {
		s.WaveEndCooldown--
	}
	s = g.moveBullets(s)
	return g.updateWave(s)
}

// waveStep runs one full combat tick in the fixed rule order: input, spawn,
// motion, collision, plasma, wave bookkeeping.
func (g *Game) waveStep(s State, action sim.Action) State {
	firePressed, cannonIdx := interpretAction(s, action)

	s = g.spawnBullet(s, cannonIdx)
	s = g.updateCooldown(s, cannonIdx)
	s.FirePrev = firePressed

	s = g.spawnEnemy(s)

	s = g.moveBullets(s)
	s = g.moveEnemies(s)
	s = g.refreshPlasma(s)
	s = g.collideBulletsEnemies(s)
	s = g.updatePlasmaColumn(s)
	s = g.resolvePlasmaHits(s)

	return g.updateWave(s)
}

// interpretAction translates the action into fire control. Firing is
// edge-triggered: holding the button does not spam bullets, and the
// cooldown must have expired. Returns whether any fire action is down and
// the cannon index to fire (-1 for none).
func interpretAction(s State, action sim.Action) (bool, int) {
	firePressed := action == ActionFireCenter || action == ActionFireLeft || action == ActionFireRight
	justPressed := firePressed && !s.FirePrev
	canShoot := s.FireCooldown == 0 && justPressed
	if !canShoot {
		return firePressed, -1
	}

	switch action {
	case ActionFireLeft:
		return firePressed, 0
	case ActionFireCenter:
		return firePressed, 1
	case ActionFireRight:
		return firePressed, 2
	default:
		return firePressed, -1
	}
}

// spawnBullet inserts a shell into the lowest-index free slot. Side
// cannons fire diagonally toward the center at a slightly flatter climb
// than the straight-up center shot.
func (g *Game) spawnBullet(s State, cannonIdx int) State {
	if cannonIdx < 0 || !s.CannonsAlive[cannonIdx] {
		return s
	}

	slot := -1
	for i := 0; i < g.bulletCap; i++ {
		if !s.Bullets[i].Active {
			slot = i
			break
		}
	}
	if slot < 0 {
		return s
	}

	speed := sim.ToFix(g.cfg.Bullets.Speed)
	var dx, dy sim.Fix
	switch cannonIdx {
	case 0:
		dx, dy = speed, -(speed - sim.ToFix(1))
	case 2:
		dx, dy = -speed, -(speed - sim.ToFix(1))
	default:
		dx, dy = 0, -speed
	}

	s.Bullets[slot] = Bullet{
		Active: true,
		X:      g.cannonX[cannonIdx],
		Y:      g.cannonY,
		DX:     dx,
		DY:     dy,
	}
	return s
}

// updateCooldown resets the fire timer after a shot, otherwise counts it
// down toward zero.
func (g *Game) updateCooldown(s State, cannonIdx int) State {
	if cannonIdx >= 0 {
		s.FireCooldown = int32(g.cfg.Cannons.CooldownFrames)
	} else if s.FireCooldown > 0 {
		s.FireCooldown--
	}
	return s
}

// speedPerMille is the geometric success probability for enemy speed
// sampling: mostly slow with rare fast enemies, sharpening as waves
// progress.
func speedPerMille(wave int32) int {
	p := 800 - 30*int(wave)
	if p < 300 {
		p = 300
	}
	if p > 950 {
		p = 950
	}
	return p
}

// spawnEnemy counts the spawn timer down while the entry lane is free and,
// when it fires, inserts one saucer into the lowest-index free slot on
// lane 0 with a random heading and a wave-scaled random speed. The key is
// threaded explicitly through every draw and stored back into the state.
func (g *Game) spawnEnemy(s State) State {
	timer := s.SpawnTimer
	if s.LanesFree[0] {
		timer--
	}

	if timer > 0 || s.WaveRemaining <= 0 {
		s.SpawnTimer = timer
		return s
	}

	key := s.Key
	goLeft, key := rng.Bool(key)
	speed, key := rng.Geometric(key, speedPerMille(s.Wave), int(s.Wave)+1)
	nextTimer, key := rng.IntBetween(key, g.cfg.Enemies.SpawnMin, g.cfg.Enemies.SpawnMax)
	s.Key = key
	s.SpawnTimer = int32(nextTimer)

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

	startX := -g.enemyW
	dx := sim.ToFix(speed)
	if goLeft {
		startX = g.screenW
		dx = -dx
	}
	s.Enemies[slot] = Enemy{
		Active: true,
		X:      startX,
		Y:      g.laneY[0],
		DX:     dx,
		Lane:   0,
	}
	s.PlasmaAllowed[slot] = true
	s.LanesFree[0] = false
	s.WaveRemaining--
	return s
}

// moveBullets advances shells by their velocity and clears the slot of any
// shell that leaves the playfield.
func (g *Game) moveBullets(s State) State {
	for i := 0; i < g.bulletCap; i++ {
		b := s.Bullets[i]
		if !b.Active {
			continue
		}
		b.X += b.DX
		b.Y += b.DY
		if b.X < 0 || b.X >= g.screenW || b.Y < 0 || b.Y >= g.screenH {
			s.Bullets[i] = Bullet{}
			continue
		}
		s.Bullets[i] = b
	}
	return s
}

// moveEnemies advances saucers horizontally. A saucer that leaves the
// screen wraps to the opposite side one lane deeper, but only when that
// lane is free; otherwise it keeps drifting off-screen and waits, which
// queues faster saucers behind slower ones. Leaving the deepest lane
// deactivates the saucer. Lane occupancy is recomputed afterwards.
func (g *Game) moveEnemies(s State) State {
	for i := 0; i < g.enemyCap; i++ {
		e := s.Enemies[i]
		if !e.Active {
			continue
		}

		e.X += e.DX
		onScreen := e.X+g.enemyW > 0 && e.X < g.screenW
		if !onScreen {
			next := e.Lane + 1
			if int(next) >= NumLanes {
				s.Enemies[i] = Enemy{}
				s.PlasmaAllowed[i] = true
				continue
			}
			if s.LanesFree[next] {
				e.Lane = next
				e.Y = g.laneY[next]
				if e.DX < 0 {
					e.X = g.screenW
				} else {
					e.X = -g.enemyW
				}
			}
			// Next lane occupied: keep drifting off-screen until it frees.
		}
		s.Enemies[i] = e
	}

	for lane := 0; lane < NumLanes; lane++ {
		free := true
		for i := 0; i < g.enemyCap; i++ {
			if s.Enemies[i].Active && int(s.Enemies[i].Lane) == lane {
				free = false
				break
			}
		}
		s.LanesFree[lane] = free
	}
	return s
}

// refreshPlasma re-arms the beam of any saucer that is currently off
// screen. A saucer that destroyed a cannon stays disarmed until it exits
// and wraps back in.
func (g *Game) refreshPlasma(s State) State {
	for i := 0; i < g.enemyCap; i++ {
		e := s.Enemies[i]
		if !e.Active {
			continue
		}
		onScreen := e.X+g.enemyW > 0 && e.X < g.screenW
		if !onScreen {
			s.PlasmaAllowed[i] = true
		}
	}
	return s
}

// collideBulletsEnemies resolves shell/saucer overlaps in ascending slot
// order (bullets outer, enemies inner) so simultaneous hits are
// reproducible. A kill clears both slots and scores by lane depth.
func (g *Game) collideBulletsEnemies(s State) State {
	for bi := 0; bi < g.bulletCap; bi++ {
		b := s.Bullets[bi]
		if !b.Active {
			continue
		}
		for ei := 0; ei < g.enemyCap; ei++ {
			e := s.Enemies[ei]
			if !e.Active {
				continue
			}
			if b.X < e.X+g.enemyW && b.X+g.bulletW > e.X &&
				b.Y < e.Y+g.enemyH && b.Y+g.bulletH > e.Y {
				s.GameScore += g.cfg.Enemies.LaneScores[e.Lane]
				s.Enemies[ei] = Enemy{}
				s.PlasmaAllowed[ei] = true
				s.Bullets[bi] = Bullet{}
				break
			}
		}
	}
	return s
}

// updatePlasmaColumn records the beam column of the deepest-lane saucer,
// or -1 when no saucer is on the beam lane.
func (g *Game) updatePlasmaColumn(s State) State {
	col := int32(-1)
	for i := 0; i < g.enemyCap; i++ {
		e := s.Enemies[i]
		if !e.Active || int(e.Lane) != NumLanes-1 {
			continue
		}
		c := int32((e.X + g.enemyW.DivInt(2)).Whole())
		if c > col {
			col = c
		}
	}
	s.PlasmaX = col
	return s
}

// resolvePlasmaHits destroys any live cannon lined up with the beam. The
// cannon on the shooter's entry side is spared (the beam angles away from
// it), and a shooter that lands a hit is disarmed until it wraps around.
func (g *Game) resolvePlasmaHits(s State) State {
	if s.PlasmaX < 0 {
		return s
	}

	shooter := -1
	for i := 0; i < g.enemyCap; i++ {
		e := s.Enemies[i]
		if e.Active && int(e.Lane) == NumLanes-1 &&
			int32((e.X+g.enemyW.DivInt(2)).Whole()) == s.PlasmaX {
			shooter = i
			break
		}
	}
	if shooter < 0 || !s.PlasmaAllowed[shooter] {
		return s
	}

	skip := 2
	if s.Enemies[shooter].DX > 0 {
		skip = 0
	}

	hit := false
	for ci := 0; ci < NumCannons; ci++ {
		if ci == skip || !s.CannonsAlive[ci] {
			continue
		}
		if int(s.PlasmaX) == g.cfg.Cannons.X[ci] {
			s.CannonsAlive[ci] = false
			hit = true
		}
	}
	if hit {
		s.PlasmaAllowed[shooter] = false
	}
	return s
}

// updateWave starts the next wave once the quota is spent and the screen
// is clear: the wave counter advances, the inter-wave cooldown starts, and
// the next quota grows.
func (g *Game) updateWave(s State) State {
	if s.WaveRemaining > 0 {
		return s
	}
	for i := 0; i < g.enemyCap; i++ {
		if s.Enemies[i].Active {
			return s
		}
	}

	s.Wave++
	s.WaveEndCooldown = int32(g.cfg.Waves.EndCooldown)
	s.WaveRemaining = int32(g.cfg.Waves.StartCount + int(s.Wave)*g.cfg.Waves.Growth)
	return s
}
