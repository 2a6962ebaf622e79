package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// LocalConfigFileName is the per-repo config file, looked up in the repo root.
const LocalConfigFileName = ".gtrim.toml"

// LocalConfig holds per-repo configuration overrides from .gtrim.toml.
// Pointer fields and empty values indicate "not set" (inherit from global).
type LocalConfig struct {
	Defaults LocalDefaults `toml:"defaults"`
}

// LocalDefaults holds local overrides of the global defaults.
type LocalDefaults struct {
	Bases          []string `toml:"bases"`     // replaces global
	Protected      []string `toml:"protected"` // appended to global
	Update         *bool    `toml:"update"`
	UpdateInterval *uint64  `toml:"update_interval"`
	Confirm        *bool    `toml:"confirm"`
	Detach         *bool    `toml:"detach"`
	Delete         string   `toml:"delete"`
}

// LoadLocal reads a per-repo .gtrim.toml config from the given repo path.
// Returns nil (no error) if the file doesn't exist.
// Returns an error only on parse or validation failure.
func LoadLocal(repoPath string) (*LocalConfig, error) {
	configFile := filepath.Join(repoPath, LocalConfigFileName)

	data, err := os.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read local config %s: %w", configFile, err)
	}

	var local LocalConfig
	meta, err := toml.Decode(string(data), &local)
	if err != nil {
		return nil, fmt.Errorf("failed to parse local config %s: %w", configFile, err)
	}

	// A [store] section only makes sense globally.
	if meta.IsDefined("store") {
		return nil, fmt.Errorf("local config %s: [store] is only allowed in the global config", configFile)
	}

	if local.Defaults.Delete != "" {
		if err := validateDeleteFilter(local.Defaults.Delete, "defaults.delete"); err != nil {
			return nil, fmt.Errorf("local config %s: %w", configFile, err)
		}
	}
	if err := validateBranchNames(local.Defaults.Bases, "defaults.bases"); err != nil {
		return nil, fmt.Errorf("local config %s: %w", configFile, err)
	}
	if err := validateBranchNames(local.Defaults.Protected, "defaults.protected"); err != nil {
		return nil, fmt.Errorf("local config %s: %w", configFile, err)
	}

	return &local, nil
}

const defaultLocalConfig = `# gtrim per-repo configuration
# Values here override the global config for this repository only.

[defaults]
# bases = ["main"]           # replaces the global list
# protected = ["release/*"]  # appended to the global list
# update = false
# update_interval = 60
# confirm = true
# detach = true
# delete = "merged,stray"
`

// DefaultLocalConfig returns the commented per-repo config template.
func DefaultLocalConfig() string {
	return defaultLocalConfig
}

// InitLocal creates a commented .gtrim.toml in repoPath.
// If force is true, overwrites existing file.
// Returns the path to the created file.
func InitLocal(repoPath string, force bool) (string, error) {
	path := filepath.Join(repoPath, LocalConfigFileName)
	if err := create(path, defaultLocalConfig, force); err != nil {
		return "", err
	}
	return path, nil
}
