package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ErrConfigExists is returned by Init when the config file is already there.
var ErrConfigExists = errors.New("config file already exists")

// Store backends selectable with store.backend.
const (
	BackendGit  = "git"
	BackendFile = "file"
)

// DefaultsConfig holds the fallback values for trim settings.
// They apply only when neither a flag nor git config sets the setting.
type DefaultsConfig struct {
	Bases          []string `toml:"bases"`
	Protected      []string `toml:"protected"`
	Update         bool     `toml:"update"`
	UpdateInterval uint64   `toml:"update_interval"` // seconds
	Confirm        bool     `toml:"confirm"`
	Detach         bool     `toml:"detach"`
	Delete         string   `toml:"delete"`
}

// StoreConfig selects how git configuration is read
type StoreConfig struct {
	Backend string `toml:"backend"` // "git" (default) or "file"
}

// Config holds the gtrim configuration
type Config struct {
	Defaults DefaultsConfig `toml:"defaults"`
	Store    StoreConfig    `toml:"store"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Defaults: DefaultsConfig{
			Bases:          []string{"develop", "main", "master"},
			Protected:      []string{},
			Update:         true,
			UpdateInterval: 5,
			Confirm:        true,
			Detach:         true,
			Delete:         "merged",
		},
		Store: StoreConfig{Backend: BackendGit},
	}
}

// Path returns the path to the global config file.
// GTRIM_CONFIG overrides the default ~/.config/gtrim/config.toml.
func Path() (string, error) {
	if p := os.Getenv("GTRIM_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "gtrim", "config.toml"), nil
}

// Load reads the global config file.
// Returns Default() if the file doesn't exist (no error).
// Returns an error only if the file exists but is invalid.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads config from path on top of Default().
// Keys missing from the file keep their default values.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enum fields and lists.
func (c *Config) Validate() error {
	if err := validateEnum(c.Store.Backend, "store.backend", ValidBackends); err != nil {
		return err
	}
	if err := validateDeleteFilter(c.Defaults.Delete, "defaults.delete"); err != nil {
		return err
	}
	if err := validateBranchNames(c.Defaults.Bases, "defaults.bases"); err != nil {
		return err
	}
	return validateBranchNames(c.Defaults.Protected, "defaults.protected")
}

// Encode renders c as TOML.
func (c *Config) Encode() (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const defaultConfig = `# gtrim configuration
#
# Values here are the last resort: a command-line flag wins over
# git config (trim.* keys), which wins over these defaults.

[defaults]
# Base branches merged branches are compared against (git config: trim.bases)
bases = ["develop", "main", "master"]

# Branches that are never trimmed (git config: trim.protected)
protected = []

# Fetch remotes before inspecting branches (git config: trim.update)
update = true

# Skip the fetch if the last one is younger than this many seconds
# (git config: trim.updateInterval)
update_interval = 5

# Ask before deleting (git config: trim.confirm)
confirm = true

# Detach HEAD when the current branch is trimmed (git config: trim.detach)
detach = true

# Which branches to delete (git config: trim.delete)
# Comma-separated: merged, merged-local, merged-remote, stray, diverged,
# local, remote, all
delete = "merged"

[store]
# How git configuration is read:
#   "git"  - through the git CLI (all scopes, includes)
#   "file" - parse config files directly, no git binary needed
backend = "git"
`

// DefaultConfig returns the commented default config file content.
func DefaultConfig() string {
	return defaultConfig
}

// Init creates a default config file at Path().
// If force is true, overwrites existing file
// Returns the path to the created file
func Init(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}
	if err := create(path, defaultConfig, force); err != nil {
		return "", err
	}
	return path, nil
}

// create writes content to path unless it exists and force is false.
func create(path, content string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
	}
	return writeAtomic(path, []byte(content))
}

// writeAtomic ensures the parent directory exists, writes to a temp file,
// then renames it over path.
func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tempPath, path)
}
