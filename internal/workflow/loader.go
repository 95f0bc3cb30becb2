package workflow

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const policyFileName = ".plural.yml"

// Load reads and parses <repoPath>/.plural.yml. Returns nil, nil if the
// file does not exist — the caller falls back to process-wide defaults.
func Load(repoPath string) (*Policy, error) {
	fp := filepath.Join(repoPath, policyFileName)

	data, err := os.ReadFile(fp)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("workflow: read policy: %w", err)
	}

	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("workflow: parse policy: %w", err)
	}
	return &p, nil
}
