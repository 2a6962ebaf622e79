package store

import (
	"context"
	"fmt"

	"github.com/gopasspw/gitconfig"
)

// File reads git config files directly, without the git binary.
//
// It loads the system, global, local and worktree scopes of a git directory
// and the GIT_CONFIG_{COUNT,KEY,VALUE} environment, later scopes taking
// precedence.
//
// It differs from git in two ways:
//
//   - The parser keeps one value per key: the first one declared in a
//     scope. For a multi-valued key GetString returns that first value
//     where git returns the last, and Entries returns at most one entry.
//   - A key without value ("[trim] confirm") cannot be told apart from an
//     empty value ("confirm ="). Git reads the first as true and the second
//     as false, so GetBool rejects both with ErrInvalidValue.
type File struct {
	cfg *gitconfig.Configs
}

// LoadFile loads the configuration scopes of gitDir (the ".git" directory,
// or the repository itself when bare).
func LoadFile(gitDir string) *File {
	cfg := gitconfig.New()
	cfg.NoWrites = true
	cfg.LoadAll(gitDir)
	return &File{cfg: cfg}
}

// GetString implements Store.
func (f *File) GetString(_ context.Context, key string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	if !f.cfg.IsSet(key) {
		return "", NotFound(key)
	}
	return f.cfg.Get(key), nil
}

// GetBool implements Store.
func (f *File) GetBool(ctx context.Context, key string) (bool, error) {
	s, err := f.GetString(ctx, key)
	if err != nil {
		return false, err
	}
	if s == "" {
		return false, fmt.Errorf("%w: %s has no value (bare or empty keys are ambiguous without git)", ErrInvalidValue, key)
	}
	b, err := ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

// Entries implements Store.
func (f *File) Entries(_ context.Context, key string) ([]Entry, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	if !f.cfg.IsSet(key) {
		return nil, nil
	}
	v := f.cfg.Get(key)
	return []Entry{{Name: []byte(key), Value: &v}}, nil
}
