package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.App.Port != 8000 {
		t.Errorf("port = %d, want 8000", cfg.App.Port)
	}
	if cfg.Solver.TimeLimit != 30*time.Second {
		t.Errorf("time limit = %v, want 30s", cfg.Solver.TimeLimit)
	}
	if cfg.Solver.Workers != 8 {
		t.Errorf("workers = %d, want 8", cfg.Solver.Workers)
	}
	if cfg.Archive.Enabled() {
		t.Error("DB_HOST 未設定ではアーカイブ無効のはず")
	}
	if !cfg.Metrics.Enabled {
		t.Error("metrics は既定で有効")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_PORT", "9100")
	t.Setenv("SOLVER_TIME_LIMIT", "10s")
	t.Setenv("SOLVER_WORKERS", "4")
	t.Setenv("DB_HOST", "db.example.com")
	t.Setenv("DB_PASSWORD", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.App.Port != 9100 {
		t.Errorf("port = %d", cfg.App.Port)
	}
	if cfg.Solver.TimeLimit != 10*time.Second {
		t.Errorf("time limit = %v", cfg.Solver.TimeLimit)
	}
	if cfg.Solver.Workers != 4 {
		t.Errorf("workers = %d", cfg.Solver.Workers)
	}
	if !cfg.Archive.Enabled() {
		t.Error("DB_HOST 設定時はアーカイブ有効のはず")
	}

	want := "host=db.example.com port=5432 user=shift password=secret dbname=shift_creation sslmode=disable"
	if got := cfg.Archive.DSN(); got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}
}

func TestLoadIgnoresMalformedEnv(t *testing.T) {
	t.Setenv("APP_PORT", "not-a-number")
	t.Setenv("SOLVER_TIME_LIMIT", "later")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.App.Port != 8000 {
		t.Errorf("不正値は既定値に戻るはず: %d", cfg.App.Port)
	}
	if cfg.Solver.TimeLimit != 30*time.Second {
		t.Errorf("不正値は既定値に戻るはず: %v", cfg.Solver.TimeLimit)
	}
}
