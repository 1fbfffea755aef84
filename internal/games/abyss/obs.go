package abyss

import "github.com/objarcade/objarcade/internal/sim"

// Entity sizes in world units, used for the observation bounding boxes.
const (
	enemySize   = 24
	harpoonSize = 4
	pearlSize   = 12
	turretSize  = 16
)

// Extract derives the object-centric observation: the full fixed-capacity
// slot tables for creatures, harpoons, pearls, and the turret in
// canonical order. Shape is identical for every state of a given game
// instance.
func (g *Game) Extract(state sim.State) sim.Observation {
	s, ok := state.(State)
	if !ok {
		return sim.NewObservation(g.obsSpace.Schema)
	}

	obs := sim.NewObservation(g.obsSpace.Schema)
	obs.Score = s.GameScore

	enemies := obs.Kinds[0].Slots
	for i := 0; i < g.enemyCap; i++ {
		e := s.Enemies[i]
		if !e.Active {
			continue
		}
		enemies[i] = sim.Slot{
			Active: true,
			X:      e.X, Y: e.Y,
			W: sim.ToFix(enemySize), H: sim.ToFix(enemySize),
			VX: e.DX, VY: e.DY,
			Extra: [2]int32{e.Type, e.HP},
		}
	}

	harpoons := obs.Kinds[1].Slots
	for i := 0; i < g.harpoonCap; i++ {
		h := s.Harpoons[i]
		if !h.Active {
			continue
		}
		harpoons[i] = sim.Slot{
			Active: true,
			X:      h.X, Y: h.Y,
			W: sim.ToFix(harpoonSize), H: sim.ToFix(harpoonSize),
			VX: h.DX, VY: h.DY,
		}
	}

	pearls := obs.Kinds[2].Slots
	for i := 0; i < g.pearlCap; i++ {
		p := s.Pearls[i]
		if !p.Active {
			continue
		}
		pearls[i] = sim.Slot{
			Active: true,
			X:      p.X, Y: p.Y,
			W: sim.ToFix(pearlSize), H: sim.ToFix(pearlSize),
			VX: p.DX, VY: p.DY,
			Extra: [2]int32{p.Type, 0},
		}
	}

	shield := int32(0)
	if s.ShieldActive {
		shield = 1
	}
	tipX, tipY := g.turretTip(s.TurretAngle)
	obs.Kinds[3].Slots[0] = sim.Slot{
		Active: true,
		X:      tipX, Y: tipY,
		W:     sim.ToFix(turretSize),
		H:     sim.ToFix(turretSize),
		Extra: [2]int32{int32(s.TurretAngle), shield},
	}

	return obs
}
