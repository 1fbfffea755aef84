package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	atl, err := LoadAtlantis("")
	if err != nil {
		t.Fatalf("LoadAtlantis: %v", err)
	}
	def := DefaultAtlantisConfig()
	if atl.Screen != def.Screen {
		t.Errorf("screen mismatch: %+v vs %+v", atl.Screen, def.Screen)
	}
	if atl.Bullets != def.Bullets {
		t.Errorf("bullets mismatch: %+v vs %+v", atl.Bullets, def.Bullets)
	}
	if atl.Waves != def.Waves {
		t.Errorf("waves mismatch: %+v vs %+v", atl.Waves, def.Waves)
	}
	if len(atl.Cannons.X) != 3 || len(atl.Enemies.LaneY) != 4 {
		t.Errorf("cannon/lane layout not loaded: %+v %+v", atl.Cannons.X, atl.Enemies.LaneY)
	}

	aby, err := LoadAbyss("")
	if err != nil {
		t.Fatalf("LoadAbyss: %v", err)
	}
	if aby != DefaultAbyssConfig() {
		t.Errorf("abyss defaults mismatch: %+v", aby)
	}
}

func TestLoadCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "atlantis.yaml")
	custom := []byte("screen:\n  width: 320\n  height: 240\nbullets:\n  max: 4\n")
	if err := os.WriteFile(path, custom, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAtlantis(path)
	if err != nil {
		t.Fatalf("LoadAtlantis(custom): %v", err)
	}
	if cfg.Screen.Width != 320 || cfg.Screen.Height != 240 {
		t.Errorf("custom screen not applied: %+v", cfg.Screen)
	}
	if cfg.Bullets.Max != 4 {
		t.Errorf("custom bullet cap not applied: %d", cfg.Bullets.Max)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := LoadAtlantis("/nonexistent/nowhere.yaml"); err == nil {
		t.Error("expected error for missing custom config")
	}

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("::: not yaml {{{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadAbyss(bad); err == nil {
		t.Error("expected error for malformed custom config")
	}
}
