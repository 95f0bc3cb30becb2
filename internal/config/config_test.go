package config

import (
	"path/filepath"
	"testing"
)

func newTestConfig(t *testing.T) *Config {
	t.Helper()
	cfg := defaults()
	cfg.filePath = filepath.Join(t.TempDir(), "config.json")
	return &cfg
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DefaultAgentKind == "" {
		t.Fatalf("expected a non-empty default agent kind")
	}
	if len(cfg.Repos) != 0 {
		t.Fatalf("expected no pinned repos by default")
	}
}

func TestAddRepoIsIdempotent(t *testing.T) {
	cfg := newTestConfig(t)
	if !cfg.AddRepo("/tmp/repo") {
		t.Fatalf("expected first AddRepo to report added")
	}
	if cfg.AddRepo("/tmp/repo") {
		t.Fatalf("expected duplicate AddRepo to report not added")
	}
	if len(cfg.GetRepos()) != 1 {
		t.Fatalf("expected exactly one pinned repo")
	}
}

func TestRemoveRepo(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.AddRepo("/tmp/repo")
	if !cfg.RemoveRepo("/tmp/repo") {
		t.Fatalf("expected RemoveRepo to report removed")
	}
	if len(cfg.GetRepos()) != 0 {
		t.Fatalf("expected no pinned repos after removal")
	}
}

func TestSaveAndLoadRoundTrips(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	cfg.AddRepo("/tmp/repo-a")
	cfg.AddRepo("/tmp/repo-b")
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reloaded, err := Load()
	if err != nil {
		t.Fatalf("Load() (reload) error = %v", err)
	}
	if len(reloaded.Repos) != 2 {
		t.Fatalf("expected 2 repos after reload, got %d", len(reloaded.Repos))
	}
}

func TestValidateRejectsDuplicateRepos(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Repos = []string{"/tmp/a", "/tmp/a"}
	if err := cfg.validate(); err == nil {
		t.Fatalf("expected validate() to reject duplicate repos")
	}
}
