package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jobcal-engine/internal/domain"
)

func TestDefault_IsValid(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestEnsureUserConfig_WritesDefaultOnce(t *testing.T) {
	dir := t.TempDir()

	path, err := EnsureUserConfig(dir)
	if err != nil {
		t.Fatalf("EnsureUserConfig: %v", err)
	}
	if path != filepath.Join(dir, "config.yml") {
		t.Errorf("path = %s", path)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.Port != 38471 || cfg.Calendar.Timezone != "America/New_York" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}

	if err := os.WriteFile(path, []byte("app:\n  port: 9000\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := EnsureUserConfig(dir); err != nil {
		t.Fatal(err)
	}
	cfg, _ = Load(path)
	if cfg.App.Port != 9000 {
		t.Error("existing config was overwritten")
	}
}

func TestLoad_KeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("level = %q", cfg.Log.Level)
	}
	if cfg.App.Port != 38471 || cfg.Events.HeartbeatSeconds != 25 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
	path := filepath.Join(t.TempDir(), "bad.yml")
	_ = os.WriteFile(path, []byte("app: [unclosed\n"), 0o644)
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	env := map[string]string{"JOBCAL_PORT": "40000", "JOBCAL_DATA_DIR": "/tmp/jobcal"}
	if err := ApplyEnv(&cfg, func(k string) string { return env[k] }); err != nil {
		t.Fatal(err)
	}
	if cfg.App.Port != 40000 {
		t.Errorf("env not applied: %+v", cfg.App)
	}
	if cfg.Addr() != "127.0.0.1:40000" {
		t.Errorf("Addr = %s", cfg.Addr())
	}

	env["JOBCAL_PORT"] = "abc"
	if err := ApplyEnv(&cfg, func(k string) string { return env[k] }); err == nil {
		t.Error("expected error for non-numeric port")
	}
}

func TestDataDir(t *testing.T) {
	if got := DataDir(func(string) string { return "" }); got != "." {
		t.Errorf("default = %q", got)
	}
	env := map[string]string{"JOBCAL_DATA_DIR": "/tmp/jobcal"}
	if got := DataDir(func(k string) string { return env[k] }); got != "/tmp/jobcal" {
		t.Errorf("env = %q", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"port zero", func(c *Config) { c.App.Port = 0 }, "app.port"},
		{"port too high", func(c *Config) { c.App.Port = 70000 }, "app.port"},
		{"bad zone", func(c *Config) { c.Calendar.Timezone = "Mars/Olympus" }, "calendar.timezone"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"heartbeat", func(c *Config) { c.Events.HeartbeatSeconds = 0 }, "events.heartbeat_seconds"},
		{"burst", func(c *Config) { c.HTTP.MutationBurst = 0 }, "http.mutation_burst"},
		{"metrics path", func(c *Config) { c.Metrics.Path = "metrics" }, "metrics.path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_AggregatesErrors(t *testing.T) {
	cfg := Default()
	cfg.App.Port = -1
	cfg.Events.HeartbeatSeconds = -1
	err := Validate(cfg)
	if err == nil || !strings.Contains(err.Error(), "app.port") || !strings.Contains(err.Error(), "events.heartbeat_seconds") {
		t.Errorf("expected both problems, got %v", err)
	}
}

func TestNormalizeAndValidate(t *testing.T) {
	cfg := Default()
	cfg.HTTP.CORSOrigins = []string{" http://a ", "HTTP://A", "", "http://b"}
	cfg.Log.Level = " DEBUG "
	cfg.App.Host = "0.0.0.0"

	out, vr := NormalizeAndValidate(cfg)
	if !vr.OK() {
		t.Fatalf("unexpected errors: %v", vr.Errors)
	}
	if len(out.HTTP.CORSOrigins) != 2 || out.HTTP.CORSOrigins[0] != "http://a" {
		t.Errorf("origins = %v", out.HTTP.CORSOrigins)
	}
	if out.Log.Level != "debug" {
		t.Errorf("level = %q", out.Log.Level)
	}
	if len(vr.Warnings) == 0 || !strings.Contains(strings.Join(vr.Warnings, " "), "app.host") {
		t.Errorf("expected host warning, got %v", vr.Warnings)
	}

	cfg.App.Port = 0
	_, vr = NormalizeAndValidate(cfg)
	if vr.OK() || !strings.Contains(vr.Errors[0], "app.port") {
		t.Errorf("expected port error, got %+v", vr)
	}
}

func TestSaveAtomic_WritesBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	first := Default()
	if err := SaveAtomic(path, first); err != nil {
		t.Fatalf("SaveAtomic: %v", err)
	}
	second := Default()
	second.App.Port = 39000
	if err := SaveAtomic(path, second); err != nil {
		t.Fatalf("SaveAtomic: %v", err)
	}

	got, err := Load(path)
	if err != nil || got.App.Port != 39000 {
		t.Fatalf("reload = %+v, %v", got.App, err)
	}
	bak, err := Load(path + ".bak")
	if err != nil || bak.App.Port != 38471 {
		t.Errorf("backup = %+v, %v", bak.App, err)
	}

	bad := Default()
	bad.App.Port = 0
	if err := SaveAtomic(path, bad); err == nil {
		t.Error("invalid config was saved")
	}
}

func TestLocation(t *testing.T) {
	cfg := Default()
	loc, err := cfg.Location()
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	if loc.String() != "America/New_York" {
		t.Errorf("loc = %s", loc)
	}
	cfg.Calendar.Timezone = ""
	if loc, _ := cfg.Location(); loc == nil {
		t.Error("empty zone should fall back to local")
	}
}

func TestLoadSeed_Default(t *testing.T) {
	s, err := LoadSeed("")
	if err != nil {
		t.Fatalf("LoadSeed: %v", err)
	}
	leaders, emps, jobs, err := s.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(leaders) != 3 || len(emps) != 6 || len(jobs) != 5 {
		t.Errorf("counts: %d leaders, %d employees, %d jobs", len(leaders), len(emps), len(jobs))
	}
	if jobs[0].TeamLeader == nil || jobs[0].TeamLeader.Name != "Mike Stevens" || len(jobs[0].Employees) != 2 {
		t.Errorf("job 1 references not resolved: %+v", jobs[0])
	}
	if jobs[2].TeamLeader != nil {
		t.Errorf("job 3 should have no team leader")
	}
	if jobs[0].Date != domain.NewDate(2026, 10, 1) {
		t.Errorf("date = %s", jobs[0].Date)
	}
}

func TestSeed_ResolveRejectsUnknownReferences(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yml")
	data := `
team_leaders:
  - { id: 1, name: Mike }
employees: []
jobs:
  - { id: 1, date: 2026-10-01, title: A, customer: B, status: scheduled, job_type: install, team_leader: 9, employees: [4] }
  - { id: 2, date: 2026-10-02, title: C, customer: D, status: nope, job_type: install }
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := LoadSeed(path)
	if err != nil {
		t.Fatalf("LoadSeed: %v", err)
	}
	_, _, _, err = s.Resolve()
	var verr domain.ValidationErrors
	if !errors.As(err, &verr) || len(verr) != 3 {
		t.Fatalf("expected 3 validation errors, got %v", err)
	}
}
