package git

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/raphi011/gtrim/internal/cmd"
	"github.com/raphi011/gtrim/internal/store"
)

// ConfigStore reads configuration through the git CLI, so includes,
// conditional includes and every scope git knows about are honoured.
type ConfigStore struct {
	dir string
}

var _ store.Store = (*ConfigStore)(nil)

// NewConfigStore returns a store reading the configuration seen from dir.
// An empty dir means the current working directory.
func NewConfigStore(dir string) *ConfigStore {
	return &ConfigStore{dir: dir}
}

// GetString implements store.Store.
// Uses: `git config -z --get <key>`
func (s *ConfigStore) GetString(ctx context.Context, key string) (string, error) {
	out, err := s.config(ctx, key, "--get", key)
	if err != nil {
		return "", err
	}
	value := string(bytes.TrimSuffix(out, []byte{0}))
	if !utf8.ValidString(value) {
		return "", fmt.Errorf("%w: %s is not valid UTF-8", store.ErrInvalidValue, key)
	}
	return value, nil
}

// GetBool implements store.Store.
// Uses: `git config -z --type=bool --get <key>`
func (s *ConfigStore) GetBool(ctx context.Context, key string) (bool, error) {
	out, err := s.config(ctx, key, "--type=bool", "--get", key)
	if err != nil {
		return false, err
	}
	switch string(bytes.TrimSuffix(out, []byte{0})) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("%w: unexpected boolean output %q for %s", store.ErrInvalidValue, out, key)
	}
}

// Entries implements store.Store.
// Uses: `git config -z --get-regexp ^<key>$`
func (s *ConfigStore) Entries(ctx context.Context, key string) ([]store.Entry, error) {
	pattern := "^" + regexp.QuoteMeta(store.CanonicalKey(key)) + "$"
	out, err := s.config(ctx, key, "--get-regexp", pattern)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return parseEntries(out), nil
}

func (s *ConfigStore) config(ctx context.Context, key string, args ...string) ([]byte, error) {
	if err := store.ValidateKey(key); err != nil {
		return nil, err
	}
	out, err := outputGit(ctx, s.dir, append([]string{"config", "-z"}, args...)...)
	if err != nil {
		// Keys are validated above, so status 1 can only mean "not set".
		if cmd.ExitCode(err) == 1 {
			return nil, store.NotFound(key)
		}
		return nil, fmt.Errorf("git config %s: %w", key, err)
	}
	return out, nil
}

// parseEntries splits `git config -z --get-regexp` output.
// Each record is "name\nvalue\x00", or "name\x00" for an entry without value.
func parseEntries(out []byte) []store.Entry {
	var entries []store.Entry
	for _, record := range bytes.Split(out, []byte{0}) {
		if len(record) == 0 {
			continue
		}
		name, value, hasValue := bytes.Cut(record, []byte{'\n'})
		entry := store.Entry{Name: name}
		if hasValue && utf8.Valid(value) {
			v := string(value)
			entry.Value = &v
		}
		entries = append(entries, entry)
	}
	return entries
}
