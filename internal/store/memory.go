package store

import (
	"context"
	"fmt"
	"sync"
	"unicode/utf8"
)

// Memory is an in-memory Store holding entries in declaration order.
// Later entries win for single-value lookups, as in git.
type Memory struct {
	mu      sync.RWMutex
	entries []memoryEntry
}

type memoryEntry struct {
	key   string // canonical
	name  []byte
	raw   []byte
	valid bool // raw is text
	bare  bool // declared without "="
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Set replaces every entry of key with a single value.
func (m *Memory) Set(key, value string) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()

	canonical := CanonicalKey(key)
	kept := m.entries[:0]
	for _, e := range m.entries {
		if e.key != canonical {
			kept = append(kept, e)
		}
	}
	m.entries = append(kept, memoryEntry{key: canonical, name: []byte(key), raw: []byte(value), valid: true})
	return m
}

// Add appends another entry for key, making it multi-valued.
func (m *Memory) Add(key, value string) *Memory {
	return m.AddRaw(key, []byte(value))
}

// AddRaw appends an entry whose value is arbitrary bytes.
// Values that are not valid UTF-8 are reported with a nil Entry.Value.
func (m *Memory) AddRaw(key string, raw []byte) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, memoryEntry{
		key:   CanonicalKey(key),
		name:  []byte(key),
		raw:   raw,
		valid: utf8.Valid(raw),
	})
	return m
}

// AddBare appends an entry declared without a value ("[core]\n\tbare").
func (m *Memory) AddBare(key string) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, memoryEntry{key: CanonicalKey(key), name: []byte(key), bare: true})
	return m
}

func (m *Memory) last(key string) (memoryEntry, error) {
	if err := ValidateKey(key); err != nil {
		return memoryEntry{}, err
	}
	canonical := CanonicalKey(key)

	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].key == canonical {
			return m.entries[i], nil
		}
	}
	return memoryEntry{}, NotFound(key)
}

// GetString implements Store.
func (m *Memory) GetString(_ context.Context, key string) (string, error) {
	e, err := m.last(key)
	if err != nil {
		return "", err
	}
	if e.bare || !e.valid {
		return "", fmt.Errorf("%w: %s is not a valid string", ErrInvalidValue, key)
	}
	return string(e.raw), nil
}

// GetBool implements Store.
func (m *Memory) GetBool(_ context.Context, key string) (bool, error) {
	e, err := m.last(key)
	if err != nil {
		return false, err
	}
	if e.bare {
		return true, nil
	}
	b, err := ParseBool(string(e.raw))
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

// Entries implements Store.
func (m *Memory) Entries(_ context.Context, key string) ([]Entry, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	canonical := CanonicalKey(key)

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Entry
	for _, e := range m.entries {
		if e.key != canonical {
			continue
		}
		entry := Entry{Name: append([]byte(nil), e.name...)}
		if !e.bare && e.valid {
			v := string(e.raw)
			entry.Value = &v
		}
		out = append(out, entry)
	}
	return out, nil
}
