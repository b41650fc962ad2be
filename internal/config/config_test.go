package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMergesOverridesOntoDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.toml")
	body := `
[server]
name = "test-server"

[sim]
tick_ms = 50
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Name != "test-server" {
		t.Fatalf("Server.Name = %q, want override to apply", cfg.Server.Name)
	}
	if cfg.Sim.TickMS != 50 {
		t.Fatalf("Sim.TickMS = %d, want override 50", cfg.Sim.TickMS)
	}
	// Fields the file doesn't mention should keep the compiled-in default.
	if cfg.Sim.WildernessLevelAllowance != 15 {
		t.Fatalf("Sim.WildernessLevelAllowance = %d, want default 15", cfg.Sim.WildernessLevelAllowance)
	}
	if cfg.Server.StartTime == 0 {
		t.Fatal("Load should stamp Server.StartTime")
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error loading a nonexistent config file")
	}
}
