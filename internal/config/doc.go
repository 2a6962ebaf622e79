// Package config handles loading and validation of gtrim's own configuration.
//
// This is not git configuration. It supplies the defaults that trim settings
// fall back to when neither a flag nor a trim.* git config key sets them.
//
// # Configuration Sources (highest priority first)
//
//   - Per-repo .gtrim.toml in the repository root
//   - Global config file (GTRIM_CONFIG, or ~/.config/gtrim/config.toml)
//   - Built-in defaults ([Default])
//
// # Key Settings
//
//   - defaults.bases: base branches (default: develop, main, master)
//   - defaults.protected: never-trimmed branches (local lists are appended)
//   - defaults.update, defaults.update_interval: remote fetch behaviour
//   - defaults.confirm, defaults.detach: interaction defaults
//   - defaults.delete: delete filter, e.g. "merged,stray"
//   - store.backend: "git" (git CLI) or "file" (pure Go reader); global only
package config
