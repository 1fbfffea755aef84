package atlantis

import "github.com/objarcade/objarcade/internal/sim"

// Extract derives the object-centric observation: the full fixed-capacity
// slot tables for saucers, shells, and cannons in canonical order. Shape
// is identical for every state of a given game instance.
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
			W: g.enemyW, H: g.enemyH,
			VX:    e.DX,
			Extra: [2]int32{e.Lane, e.Type},
		}
	}

	bullets := obs.Kinds[1].Slots
	for i := 0; i < g.bulletCap; i++ {
		b := s.Bullets[i]
		if !b.Active {
			continue
		}
		bullets[i] = sim.Slot{
			Active: true,
			X:      b.X, Y: b.Y,
			W: g.bulletW, H: g.bulletH,
			VX: b.DX, VY: b.DY,
		}
	}

	cannons := obs.Kinds[2].Slots
	for i := 0; i < NumCannons; i++ {
		if !s.CannonsAlive[i] {
			continue
		}
		commandPost := int32(0)
		if i == 1 {
			commandPost = 1
		}
		cannons[i] = sim.Slot{
			Active: true,
			X:      g.cannonX[i], Y: g.cannonY,
			W:     sim.ToFix(g.cfg.Cannons.Width),
			H:     sim.ToFix(g.cfg.Cannons.Height),
			Extra: [2]int32{commandPost, 0},
		}
	}

	return obs
}
