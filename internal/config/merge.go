package config

// MergeLocal merges a local per-repo config into a global config,
// returning a new Config without mutating the global.
// Returns global unchanged if local is nil.
func MergeLocal(global *Config, local *LocalConfig) *Config {
	if local == nil {
		return global
	}

	// Shallow copy global; Store is global-only and inherited as-is.
	merged := *global
	d := local.Defaults

	if len(d.Bases) > 0 {
		merged.Defaults.Bases = append([]string(nil), d.Bases...)
	}
	if len(d.Protected) > 0 {
		merged.Defaults.Protected = appendUnique(global.Defaults.Protected, d.Protected)
	}
	if d.Update != nil {
		merged.Defaults.Update = *d.Update
	}
	if d.UpdateInterval != nil {
		merged.Defaults.UpdateInterval = *d.UpdateInterval
	}
	if d.Confirm != nil {
		merged.Defaults.Confirm = *d.Confirm
	}
	if d.Detach != nil {
		merged.Defaults.Detach = *d.Detach
	}
	if d.Delete != "" {
		merged.Defaults.Delete = d.Delete
	}

	return &merged
}

// ForRepo loads the .gtrim.toml of repoPath and merges it over global.
func ForRepo(global *Config, repoPath string) (*Config, error) {
	local, err := LoadLocal(repoPath)
	if err != nil {
		return nil, err
	}
	return MergeLocal(global, local), nil
}

// appendUnique appends items from add to base, skipping duplicates.
// Returns a new slice without modifying base.
func appendUnique(base, add []string) []string {
	seen := make(map[string]bool, len(base)+len(add))
	result := make([]string, 0, len(base)+len(add))
	for _, s := range base {
		if !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range add {
		if !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	return result
}
