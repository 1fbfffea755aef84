package atlantis

import (
	"testing"

	"github.com/objarcade/objarcade/internal/rng"
	"github.com/objarcade/objarcade/internal/sim"
)

// quietState returns a playable state with nothing on screen and the
// spawn timer far from firing, so tests can stage exact situations.
func quietState(g *Game) State {
	state, _ := g.Reset(rng.NewKey(1))
	s := state.(State)
	s.SpawnTimer = 1000
	return s
}

func stepState(t *testing.T, g *Game, s State, a sim.Action) State {
	t.Helper()
	tr, err := g.Step(s, a)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	return tr.State.(State)
}

func TestFireSpawnsBullet(t *testing.T) {
	g := newGame(t)
	s := quietState(g)

	s = stepState(t, g, s, ActionFireCenter)

	b := s.Bullets[0]
	if !b.Active {
		t.Fatal("center fire did not spawn a bullet")
	}
	if b.X != g.cannonX[1] {
		t.Errorf("bullet x = %d, want cannon x %d", b.X, g.cannonX[1])
	}
	// The bullet moves on the same tick it spawns.
	if b.Y != g.cannonY-sim.ToFix(g.cfg.Bullets.Speed) {
		t.Errorf("bullet y = %d after first tick", b.Y)
	}
	if b.DX != 0 || b.DY != -sim.ToFix(g.cfg.Bullets.Speed) {
		t.Errorf("center bullet velocity = (%d, %d)", b.DX, b.DY)
	}
	if s.FireCooldown != int32(g.cfg.Cannons.CooldownFrames) {
		t.Errorf("cooldown = %d, want %d", s.FireCooldown, g.cfg.Cannons.CooldownFrames)
	}
}

func TestSideCannonsFireDiagonally(t *testing.T) {
	g := newGame(t)
	speed := sim.ToFix(g.cfg.Bullets.Speed)

	s := stepState(t, g, quietState(g), ActionFireLeft)
	if b := s.Bullets[0]; !b.Active || b.DX != speed || b.DY != -(speed-sim.ToFix(1)) {
		t.Errorf("left bullet = %+v", s.Bullets[0])
	}

	s = stepState(t, g, quietState(g), ActionFireRight)
	if b := s.Bullets[0]; !b.Active || b.DX != -speed || b.DY != -(speed-sim.ToFix(1)) {
		t.Errorf("right bullet = %+v", s.Bullets[0])
	}
}

func TestFireIsEdgeTriggered(t *testing.T) {
	g := newGame(t)
	s := quietState(g)

	s = stepState(t, g, s, ActionFireCenter)
	s = stepState(t, g, s, ActionFireCenter) // held, not re-pressed

	active := 0
	for _, b := range s.Bullets {
		if b.Active {
			active++
		}
	}
	if active != 1 {
		t.Errorf("held fire spawned %d bullets, want 1", active)
	}
}

func TestFireCooldownBlocksRepeat(t *testing.T) {
	g := newGame(t)
	s := quietState(g)

	s = stepState(t, g, s, ActionFireCenter)
	s = stepState(t, g, s, ActionNoop) // release
	s = stepState(t, g, s, ActionFireCenter)

	active := 0
	for _, b := range s.Bullets {
		if b.Active {
			active++
		}
	}
	if active != 1 {
		t.Errorf("re-press inside cooldown spawned %d bullets, want 1", active)
	}

	// Wait out the cooldown, then a fresh press fires again.
	for i := 0; i < g.cfg.Cannons.CooldownFrames; i++ {
		s = stepState(t, g, s, ActionNoop)
	}
	s = stepState(t, g, s, ActionFireCenter)

	active = 0
	for _, b := range s.Bullets {
		if b.Active {
			active++
		}
	}
	if active != 2 {
		t.Errorf("post-cooldown press spawned %d active bullets, want 2", active)
	}
}

func TestDeadCannonCannotFire(t *testing.T) {
	g := newGame(t)
	s := quietState(g)
	s.CannonsAlive[1] = false

	s = stepState(t, g, s, ActionFireCenter)
	for i, b := range s.Bullets {
		if b.Active {
			t.Errorf("dead cannon fired: bullet slot %d active", i)
		}
	}
}

func TestBulletLeavesScreenAndSlotZeroes(t *testing.T) {
	g := newGame(t)
	s := quietState(g)
	s.Bullets[0] = Bullet{Active: true, X: sim.ToFix(80), Y: sim.ToFix(2), DY: -sim.ToFix(3)}

	s = stepState(t, g, s, ActionNoop)

	if s.Bullets[0] != (Bullet{}) {
		t.Errorf("off-screen bullet slot not zeroed: %+v", s.Bullets[0])
	}
}

func TestBulletKillScoresByLane(t *testing.T) {
	g := newGame(t)
	for lane := 0; lane < NumLanes; lane++ {
		s := quietState(g)
		s.Enemies[0] = Enemy{Active: true, X: sim.ToFix(50), Y: g.laneY[lane], Lane: int32(lane)}
		s.LanesFree[lane] = false
		// Bullet arrives on the lane row this tick.
		s.Bullets[0] = Bullet{
			Active: true,
			X:      sim.ToFix(55),
			Y:      g.laneY[lane] + sim.ToFix(3),
			DY:     -sim.ToFix(3),
		}

		s = stepState(t, g, s, ActionNoop)

		if s.GameScore != g.cfg.Enemies.LaneScores[lane] {
			t.Errorf("lane %d kill scored %d, want %d", lane, s.GameScore, g.cfg.Enemies.LaneScores[lane])
		}
		if s.Enemies[0] != (Enemy{}) {
			t.Errorf("lane %d: killed enemy slot not zeroed: %+v", lane, s.Enemies[0])
		}
		if s.Bullets[0] != (Bullet{}) {
			t.Errorf("lane %d: spent bullet slot not zeroed: %+v", lane, s.Bullets[0])
		}
	}
}

func TestKillRewardIsScoreDelta(t *testing.T) {
	g := newGame(t)
	s := quietState(g)
	s.GameScore = 300
	s.Enemies[0] = Enemy{Active: true, X: sim.ToFix(50), Y: g.laneY[0], Lane: 0}
	s.LanesFree[0] = false
	s.Bullets[0] = Bullet{Active: true, X: sim.ToFix(55), Y: g.laneY[0] + sim.ToFix(3), DY: -sim.ToFix(3)}

	tr, err := g.Step(s, ActionNoop)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Reward != float64(g.cfg.Enemies.LaneScores[0]) {
		t.Errorf("reward = %v, want %v", tr.Reward, g.cfg.Enemies.LaneScores[0])
	}
	if tr.State.Score() != 300+g.cfg.Enemies.LaneScores[0] {
		t.Errorf("score = %d", tr.State.Score())
	}
}

func TestSpawnUsesLowestInactiveSlot(t *testing.T) {
	g := newGame(t)
	s := quietState(g)
	// Slots 0 and 2 occupied in deeper lanes, slot 1 free; entry lane free.
	s.Enemies[0] = Enemy{Active: true, X: sim.ToFix(40), Y: g.laneY[1], DX: sim.ToFix(1), Lane: 1}
	s.Enemies[2] = Enemy{Active: true, X: sim.ToFix(90), Y: g.laneY[2], DX: sim.ToFix(1), Lane: 2}
	s.LanesFree[1] = false
	s.LanesFree[2] = false
	s.SpawnTimer = 1
	s.WaveRemaining = 5

	s = stepState(t, g, s, ActionNoop)

	if !s.Enemies[1].Active {
		t.Fatal("spawn did not use the lowest inactive slot")
	}
	if s.Enemies[1].Lane != 0 {
		t.Errorf("spawned enemy lane = %d, want 0", s.Enemies[1].Lane)
	}
	if s.Enemies[1].Y != g.laneY[0] {
		t.Errorf("spawned enemy y = %d, want lane 0 row", s.Enemies[1].Y)
	}
	if s.WaveRemaining != 4 {
		t.Errorf("wave remaining = %d, want 4", s.WaveRemaining)
	}
	if s.LanesFree[0] {
		t.Error("entry lane still marked free after spawn")
	}
	// Persisting entities keep their slots.
	if !s.Enemies[0].Active || s.Enemies[0].Lane != 1 {
		t.Errorf("slot 0 disturbed: %+v", s.Enemies[0])
	}
	if !s.Enemies[2].Active || s.Enemies[2].Lane != 2 {
		t.Errorf("slot 2 disturbed: %+v", s.Enemies[2])
	}
}

func TestSpawnTimerFrozenWhileEntryLaneOccupied(t *testing.T) {
	g := newGame(t)
	s := quietState(g)
	s.Enemies[0] = Enemy{Active: true, X: sim.ToFix(40), Y: g.laneY[0], DX: sim.ToFix(1), Lane: 0}
	s.LanesFree[0] = false
	s.SpawnTimer = 7
	s.WaveRemaining = 5

	s = stepState(t, g, s, ActionNoop)
	if s.SpawnTimer != 7 {
		t.Errorf("spawn timer moved while lane occupied: %d", s.SpawnTimer)
	}
}

func TestEnemyAdvancesLaneOnWrap(t *testing.T) {
	g := newGame(t)
	s := quietState(g)
	// Right-moving enemy one step from leaving the screen.
	s.Enemies[0] = Enemy{Active: true, X: g.screenW - sim.ToFix(1), Y: g.laneY[0], DX: sim.ToFix(2), Lane: 0}
	s.LanesFree[0] = false

	s = stepState(t, g, s, ActionNoop)

	e := s.Enemies[0]
	if !e.Active {
		t.Fatal("enemy deactivated instead of advancing")
	}
	if e.Lane != 1 {
		t.Errorf("lane = %d, want 1", e.Lane)
	}
	if e.X != -g.enemyW {
		t.Errorf("wrap x = %d, want %d", e.X, -g.enemyW)
	}
	if e.Y != g.laneY[1] {
		t.Errorf("wrap y = %d, want lane 1 row", e.Y)
	}
}

func TestEnemyWaitsForOccupiedLane(t *testing.T) {
	g := newGame(t)
	s := quietState(g)
	s.Enemies[0] = Enemy{Active: true, X: g.screenW - sim.ToFix(1), Y: g.laneY[0], DX: sim.ToFix(2), Lane: 0}
	s.Enemies[1] = Enemy{Active: true, X: sim.ToFix(80), Y: g.laneY[1], DX: sim.ToFix(1), Lane: 1}
	s.LanesFree[0] = false
	s.LanesFree[1] = false

	s = stepState(t, g, s, ActionNoop)

	e := s.Enemies[0]
	if e.Lane != 0 {
		t.Errorf("enemy advanced into occupied lane: lane=%d", e.Lane)
	}
	if !e.Active {
		t.Error("waiting enemy deactivated")
	}
	if e.X != g.screenW+sim.ToFix(1) {
		t.Errorf("waiting enemy x = %d, want drift past edge", e.X)
	}
}

func TestEnemyDespawnsAfterLastLane(t *testing.T) {
	g := newGame(t)
	s := quietState(g)
	s.Enemies[0] = Enemy{Active: true, X: g.screenW - sim.ToFix(1), Y: g.laneY[NumLanes-1], DX: sim.ToFix(2), Lane: NumLanes - 1}
	s.LanesFree[NumLanes-1] = false

	s = stepState(t, g, s, ActionNoop)

	if s.Enemies[0] != (Enemy{}) {
		t.Errorf("enemy past last lane not cleared: %+v", s.Enemies[0])
	}
	if !s.LanesFree[NumLanes-1] {
		t.Error("lane not freed after despawn")
	}
}

func TestPlasmaDestroysAlignedCannon(t *testing.T) {
	g := newGame(t)
	s := quietState(g)
	// Left-to-right shooter whose beam lines up with the center cannon
	// (x=72) after this tick's movement: center = x + 7.5.
	s.Enemies[0] = Enemy{Active: true, X: sim.ToFix(64), Y: g.laneY[3], DX: sim.ToFix(1), Lane: 3}
	s.LanesFree[3] = false

	s = stepState(t, g, s, ActionNoop)

	if s.PlasmaX != 72 {
		t.Fatalf("plasma column = %d, want 72", s.PlasmaX)
	}
	if s.CannonsAlive[1] {
		t.Error("center cannon survived an aligned beam")
	}
	if s.CommandPostAlive {
		t.Error("command post flag should follow the center cannon")
	}
	if s.PlasmaAllowed[0] {
		t.Error("shooter should be disarmed after a hit")
	}
	if s.Done {
		t.Error("one destroyed cannon must not end the episode")
	}
}

func TestPlasmaSparesEntrySideCannon(t *testing.T) {
	g := newGame(t)
	s := quietState(g)
	// Came from the left (dx > 0): the left cannon (x=0) is spared.
	s.Enemies[0] = Enemy{Active: true, X: sim.ToFix(-8), Y: g.laneY[3], DX: sim.ToFix(1), Lane: 3}
	s.LanesFree[3] = false

	s = stepState(t, g, s, ActionNoop)

	if s.PlasmaX != 0 {
		t.Fatalf("plasma column = %d, want 0", s.PlasmaX)
	}
	if !s.CannonsAlive[0] {
		t.Error("entry-side cannon should be spared")
	}
}

func TestDisarmedPlasmaDoesNotFire(t *testing.T) {
	g := newGame(t)
	s := quietState(g)
	s.Enemies[0] = Enemy{Active: true, X: sim.ToFix(64), Y: g.laneY[3], DX: sim.ToFix(1), Lane: 3}
	s.LanesFree[3] = false
	s.PlasmaAllowed[0] = false

	s = stepState(t, g, s, ActionNoop)

	if !s.CannonsAlive[1] {
		t.Error("disarmed shooter destroyed a cannon")
	}
}

func TestAllCannonsDeadEndsEpisode(t *testing.T) {
	g := newGame(t)
	s := quietState(g)
	s.CannonsAlive = [NumCannons]bool{false, true, false}
	s.Enemies[0] = Enemy{Active: true, X: sim.ToFix(64), Y: g.laneY[3], DX: sim.ToFix(1), Lane: 3}
	s.LanesFree[3] = false

	tr, err := g.Step(s, ActionNoop)
	if err != nil {
		t.Fatal(err)
	}
	next := tr.State.(State)
	if !next.Done || !tr.Terminal {
		t.Error("losing the last cannon must end the episode on that tick")
	}
	if next.Lives() != 0 {
		t.Errorf("lives = %d, want 0", next.Lives())
	}
}

func TestWaveTransitionStartsCooldown(t *testing.T) {
	g := newGame(t)
	s := quietState(g)
	s.WaveRemaining = 0

	s = stepState(t, g, s, ActionNoop)

	if s.Wave != 1 {
		t.Fatalf("wave = %d, want 1", s.Wave)
	}
	if s.WaveEndCooldown != int32(g.cfg.Waves.EndCooldown) {
		t.Errorf("cooldown = %d, want %d", s.WaveEndCooldown, g.cfg.Waves.EndCooldown)
	}
	want := int32(g.cfg.Waves.StartCount + g.cfg.Waves.Growth)
	if s.WaveRemaining != want {
		t.Errorf("next quota = %d, want %d", s.WaveRemaining, want)
	}

	// The following ticks are pause ticks: cooldown drains, nothing spawns.
	s2 := stepState(t, g, s, ActionNoop)
	if s2.WaveEndCooldown != s.WaveEndCooldown-1 {
		t.Errorf("pause tick did not drain cooldown: %d", s2.WaveEndCooldown)
	}
	for i := range s2.Enemies {
		if s2.Enemies[i].Active {
			t.Error("enemy spawned during the inter-wave pause")
		}
	}
}

func TestWaveWaitsForClearScreen(t *testing.T) {
	g := newGame(t)
	s := quietState(g)
	s.WaveRemaining = 0
	s.Enemies[0] = Enemy{Active: true, X: sim.ToFix(40), Y: g.laneY[1], DX: sim.ToFix(1), Lane: 1}
	s.LanesFree[1] = false

	s = stepState(t, g, s, ActionNoop)

	if s.Wave != 0 {
		t.Errorf("wave advanced with enemies still on screen: %d", s.Wave)
	}
}
