package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := &Config{PlayerID: "alice", Team: "team1", PointsCap: 80, StrictFinish: true}
	if err := SaveConfig(tmpDir, cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(tmpDir, ".veganaut", "config.yaml")); err != nil {
		t.Fatalf("expected config file to exist: %v", err)
	}

	loaded, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("LoadConfig = %+v, want %+v", loaded, cfg)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	if _, err := LoadConfig(t.TempDir()); err == nil {
		t.Error("expected error for missing config")
	}
}

func TestLoadConfig_NegativeCap(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, Path(tmpDir), "points_cap: -5\n")

	if _, err := LoadConfig(tmpDir); err == nil {
		t.Error("expected error for negative points_cap")
	}
}

func TestResolve_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	cfg, err := Resolve(t.TempDir())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if cfg.PointsCap != 0 {
		t.Errorf("PointsCap = %d, want 0 so the visit service picks its default", cfg.PointsCap)
	}
	if want := filepath.Join(home, ".veganaut", "veganaut.db"); cfg.DBPath != want {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, want)
	}
	if cfg.StrictFinish {
		t.Error("StrictFinish should default to false")
	}
}

func TestResolve_EnvOverridesFile(t *testing.T) {
	tmpDir := t.TempDir()
	clearEnv(t)
	if err := SaveConfig(tmpDir, &Config{PlayerID: "alice", Team: "team1", PointsCap: 80, DBPath: "/tmp/file.db"}); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	t.Setenv(EnvTeam, "team2")
	t.Setenv(EnvPointsCap, "40")
	t.Setenv(EnvStrictFinish, "true")

	cfg, err := Resolve(tmpDir)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if cfg.Team != "team2" || cfg.PlayerID != "alice" {
		t.Errorf("expected team2/alice, got %s/%s", cfg.Team, cfg.PlayerID)
	}
	if cfg.PointsCap != 40 || !cfg.StrictFinish {
		t.Errorf("expected cap 40 strict, got %d %v", cfg.PointsCap, cfg.StrictFinish)
	}
	if cfg.DBPath != "/tmp/file.db" {
		t.Errorf("DBPath = %q, want /tmp/file.db", cfg.DBPath)
	}
}

func TestResolve_DotEnv(t *testing.T) {
	tmpDir := t.TempDir()
	clearEnv(t)
	writeFile(t, filepath.Join(tmpDir, ".env"), "VEGANAUT_PLAYER=bob\nVEGANAUT_DB_PATH=/tmp/env.db\n")
	t.Cleanup(func() {
		os.Unsetenv(EnvPlayer)
		os.Unsetenv(EnvDBPath)
	})

	cfg, err := Resolve(tmpDir)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if cfg.PlayerID != "bob" {
		t.Errorf("PlayerID = %q, want bob", cfg.PlayerID)
	}
	if cfg.DBPath != "/tmp/env.db" {
		t.Errorf("DBPath = %q, want /tmp/env.db", cfg.DBPath)
	}
}

func TestResolve_InvalidEnv(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric cap", EnvPointsCap, "lots"},
		{"negative cap", EnvPointsCap, "-1"},
		{"non-bool strict", EnvStrictFinish, "sometimes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Resolve(t.TempDir()); err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

// clearEnv unsets the overrides for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvDBPath, EnvTeam, EnvPlayer, EnvPointsCap, EnvStrictFinish} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
