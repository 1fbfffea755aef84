package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestSaveAndRetrieveEpisodes(t *testing.T) {
	store := openTestStore(t)

	for _, e := range []Episode{
		{GameID: "atlantis", Seed: 1, Steps: 500, Score: 100, Terminal: true, Digest: "aa"},
		{GameID: "atlantis", Seed: 2, Steps: 900, Score: 50, Terminal: false, Digest: "bb"},
		{GameID: "atlantis", Seed: 3, Steps: 700, Score: 200, Terminal: true, Digest: "cc"},
		{GameID: "abyss", Seed: 1, Steps: 300, Score: 500, Terminal: true, Digest: "dd"},
	} {
		if _, err := store.SaveEpisode(e); err != nil {
			t.Fatalf("SaveEpisode() failed: %v", err)
		}
	}

	top, err := store.TopEpisodes("atlantis", 10)
	if err != nil {
		t.Fatalf("TopEpisodes() failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("got %d episodes, want 3", len(top))
	}
	if top[0].Score != 200 || top[1].Score != 100 || top[2].Score != 50 {
		t.Errorf("episodes not ordered by score: %d %d %d", top[0].Score, top[1].Score, top[2].Score)
	}
	if top[0].Seed != 3 || top[0].Steps != 700 || !top[0].Terminal || top[0].Digest != "cc" {
		t.Errorf("best episode fields wrong: %+v", top[0])
	}

	high, err := store.HighScore("atlantis")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 200 {
		t.Errorf("high score = %d, want 200", high)
	}

	high, err = store.HighScore("nosuchgame")
	if err != nil {
		t.Fatalf("HighScore() on empty game failed: %v", err)
	}
	if high != 0 {
		t.Errorf("empty game high score = %d, want 0", high)
	}
}

func TestTopEpisodesLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 15; i++ {
		if _, err := store.SaveEpisode(Episode{GameID: "abyss", Seed: int64(i), Score: i * 10}); err != nil {
			t.Fatalf("SaveEpisode() failed: %v", err)
		}
	}

	top, err := store.TopEpisodes("abyss", 5)
	if err != nil {
		t.Fatalf("TopEpisodes() failed: %v", err)
	}
	if len(top) != 5 {
		t.Errorf("got %d episodes, want 5", len(top))
	}
	if top[0].Score != 140 {
		t.Errorf("best score = %d, want 140", top[0].Score)
	}
}

func TestClearEpisodes(t *testing.T) {
	store := openTestStore(t)

	store.SaveEpisode(Episode{GameID: "atlantis", Seed: 1, Score: 10})
	store.SaveEpisode(Episode{GameID: "abyss", Seed: 1, Score: 20})

	if err := store.ClearEpisodes("atlantis"); err != nil {
		t.Fatalf("ClearEpisodes() failed: %v", err)
	}

	top, _ := store.TopEpisodes("atlantis", 10)
	if len(top) != 0 {
		t.Errorf("atlantis episodes not cleared: %d left", len(top))
	}
	top, _ = store.TopEpisodes("abyss", 10)
	if len(top) != 1 {
		t.Errorf("abyss episodes should survive, got %d", len(top))
	}
}

func TestCheckpointRoundTrip(t *testing.T) {
	store := openTestStore(t)

	blob := []byte(`{"tick":42,"score":1300}`)
	if _, err := store.SaveCheckpoint(Checkpoint{GameID: "atlantis", Seed: 7, Tick: 42, State: blob}); err != nil {
		t.Fatalf("SaveCheckpoint() failed: %v", err)
	}

	c, err := store.LoadCheckpoint("atlantis", 7, 42)
	if err != nil {
		t.Fatalf("LoadCheckpoint() failed: %v", err)
	}
	if c == nil {
		t.Fatal("checkpoint not found")
	}
	if !bytes.Equal(c.State, blob) {
		t.Errorf("state blob = %q, want %q", c.State, blob)
	}

	missing, err := store.LoadCheckpoint("atlantis", 7, 99)
	if err != nil {
		t.Fatalf("LoadCheckpoint() on missing tick failed: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing checkpoint, got %+v", missing)
	}
}

func TestCheckpointOverwrite(t *testing.T) {
	store := openTestStore(t)

	store.SaveCheckpoint(Checkpoint{GameID: "abyss", Seed: 3, Tick: 10, State: []byte("old")})
	if _, err := store.SaveCheckpoint(Checkpoint{GameID: "abyss", Seed: 3, Tick: 10, State: []byte("new")}); err != nil {
		t.Fatalf("overwriting SaveCheckpoint() failed: %v", err)
	}

	c, err := store.LoadCheckpoint("abyss", 3, 10)
	if err != nil {
		t.Fatalf("LoadCheckpoint() failed: %v", err)
	}
	if string(c.State) != "new" {
		t.Errorf("state = %q, want overwritten value", c.State)
	}
}

func TestLatestCheckpoint(t *testing.T) {
	store := openTestStore(t)

	for _, tick := range []uint64{10, 50, 30} {
		store.SaveCheckpoint(Checkpoint{GameID: "atlantis", Seed: 5, Tick: tick, State: []byte("s")})
	}

	c, err := store.LatestCheckpoint("atlantis", 5)
	if err != nil {
		t.Fatalf("LatestCheckpoint() failed: %v", err)
	}
	if c == nil || c.Tick != 50 {
		t.Errorf("latest checkpoint = %+v, want tick 50", c)
	}

	none, err := store.LatestCheckpoint("atlantis", 999)
	if err != nil {
		t.Fatalf("LatestCheckpoint() on missing run failed: %v", err)
	}
	if none != nil {
		t.Errorf("expected nil for run without checkpoints, got %+v", none)
	}
}

func TestGameStats(t *testing.T) {
	store := openTestStore(t)

	store.SaveEpisode(Episode{GameID: "atlantis", Seed: 1, Score: 100})
	store.SaveEpisode(Episode{GameID: "atlantis", Seed: 2, Score: 300})

	stats, err := store.GetGameStats("atlantis")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.Episodes != 2 || stats.HighScore != 300 || stats.TotalScore != 400 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.AvgScore != 200 {
		t.Errorf("avg = %v, want 200", stats.AvgScore)
	}

	all, err := store.GetAllGamesStats()
	if err != nil {
		t.Fatalf("GetAllGamesStats() failed: %v", err)
	}
	if _, ok := all["atlantis"]; !ok {
		t.Error("atlantis missing from aggregate stats")
	}
}
