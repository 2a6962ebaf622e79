package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrNotFound marks a configuration key that is not set.
	// It is the only store error the resolver treats as absence.
	ErrNotFound = errors.New("config key not found")

	// ErrInvalidKey is returned for keys that are not "section[.subsection].name".
	ErrInvalidKey = errors.New("invalid config key")

	// ErrInvalidValue is returned when a stored value has the wrong shape,
	// e.g. a non-boolean read as bool.
	ErrInvalidValue = errors.New("invalid config value")
)

// Entry is one declared record under a key.
// Value is nil when the stored value is not valid text or the entry has no value.
type Entry struct {
	Name  []byte
	Value *string
}

// Store is the read-only view of a git configuration the resolver needs.
type Store interface {
	// GetString returns the effective (last declared) value of key.
	GetString(ctx context.Context, key string) (string, error)
	// GetBool returns the effective value of key interpreted as a git boolean.
	GetBool(ctx context.Context, key string) (bool, error)
	// Entries returns every entry declared for key, in declaration order.
	// A key with no entries yields an empty slice and no error.
	Entries(ctx context.Context, key string) ([]Entry, error)
}

// NotFound wraps ErrNotFound with the key that was looked up.
func NotFound(key string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, key)
}

// IsNotFound reports whether err means the key is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// ValidateKey checks that key has a section and a variable name.
func ValidateKey(key string) error {
	first := strings.IndexByte(key, '.')
	last := strings.LastIndexByte(key, '.')
	if first <= 0 {
		return fmt.Errorf("%w: %q does not contain a section", ErrInvalidKey, key)
	}
	name := key[last+1:]
	if name == "" {
		return fmt.Errorf("%w: %q does not contain a variable name", ErrInvalidKey, key)
	}
	for i, r := range name {
		if !isAlpha(r) && (i == 0 || !isDigit(r) && r != '-') {
			return fmt.Errorf("%w: %q has an invalid variable name", ErrInvalidKey, key)
		}
	}
	for _, r := range key[:first] {
		if !isAlpha(r) && !isDigit(r) && r != '-' {
			return fmt.Errorf("%w: %q has an invalid section name", ErrInvalidKey, key)
		}
	}
	return nil
}

// CanonicalKey lowercases the section and variable name of key.
// The subsection, if any, is case-sensitive and kept as is.
func CanonicalKey(key string) string {
	first := strings.IndexByte(key, '.')
	last := strings.LastIndexByte(key, '.')
	if first < 0 {
		return strings.ToLower(key)
	}
	if first == last {
		return strings.ToLower(key)
	}
	return strings.ToLower(key[:first]) + key[first:last+1] + strings.ToLower(key[last+1:])
}

// ParseBool interprets s the way git does for boolean settings.
// Any integer is accepted, non-zero meaning true.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true, nil
	case "false", "no", "off", "":
		return false, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n != 0, nil
	}
	return false, fmt.Errorf("%w: bad boolean value %q", ErrInvalidValue, s)
}

func isAlpha(r rune) bool { return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' }
func isDigit(r rune) bool { return r >= '0' && r <= '9' }
