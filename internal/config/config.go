// Package config holds user preferences that live outside the session
// database: pinned repository paths, and the fallback defaults a newly
// created session uses before any project-level .plural.yml overrides
// them. Session, operation, and usage persistence all moved to
// internal/store once the app gained real concurrent session state;
// this package keeps only what store has no natural home for.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/zhubert/plural-orchestrator/internal/store"
)

// Config holds process-wide user preferences, loaded once at startup.
// Changes made through its methods reach disk only when Save is called.
type Config struct {
	// Repos is the user's pinned/recently-used repository paths, shown in
	// the project picker before a repo has ever produced a session (and
	// therefore a store.Project row).
	Repos []string `json:"repos"`

	// DefaultAgentKind/DefaultModel/DefaultPermissionMode seed new
	// sessions when a project has no .plural.yml override.
	DefaultAgentKind      store.AgentKind      `json:"default_agent_kind"`
	DefaultModel          string               `json:"default_model"`
	DefaultPermissionMode store.PermissionMode `json:"default_permission_mode"`

	// DefaultAllowedTools is the tool allowlist passed to a backend
	// adapter's StartRequest when the project doesn't narrow it further.
	DefaultAllowedTools []string `json:"default_allowed_tools"`

	mu       sync.RWMutex
	filePath string
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".plural"), nil
}

func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// defaults returns the fallback values used when config.json doesn't
// exist yet (first run).
func defaults() Config {
	return Config{
		Repos:                 []string{},
		DefaultAgentKind:      store.AgentClaude,
		DefaultModel:          "claude-sonnet-4-5",
		DefaultPermissionMode: store.PermissionSuggest,
		DefaultAllowedTools:   []string{"Edit", "Read", "Bash(git:*)"},
	}
}

// Load reads config.json from disk, or returns defaults if it doesn't
// exist yet.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	cfg := defaults()
	cfg.filePath = path

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Repos == nil {
		c.Repos = []string{}
	}
	seen := make(map[string]bool, len(c.Repos))
	for _, r := range c.Repos {
		if r == "" {
			return fmt.Errorf("config: empty repo path")
		}
		if seen[r] {
			return fmt.Errorf("config: duplicate repo %q", r)
		}
		seen[r] = true
	}
	return nil
}

// Save writes the config back to disk.
func (c *Config) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	dir, err := configDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.filePath, data, 0644)
}

// AddRepo pins a repository path, returning false if it was already
// pinned.
func (c *Config) AddRepo(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range c.Repos {
		if r == path {
			return false
		}
	}
	c.Repos = append(c.Repos, path)
	return true
}

// RemoveRepo unpins a repository path.
func (c *Config) RemoveRepo(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, r := range c.Repos {
		if r == path {
			c.Repos = append(c.Repos[:i], c.Repos[i+1:]...)
			return true
		}
	}
	return false
}

// GetRepos returns a copy of the pinned repos slice.
func (c *Config) GetRepos() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	repos := make([]string, len(c.Repos))
	copy(repos, c.Repos)
	return repos
}
