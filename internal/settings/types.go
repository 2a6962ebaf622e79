package settings

import (
	"errors"
	"fmt"
	"strings"
)

// BranchList is a list of branch names written as comma-separated text.
// Multiple git config entries of the same key are concatenated.
type BranchList []string

// UnmarshalText splits comma-separated names, ignoring blanks.
func (l *BranchList) UnmarshalText(text []byte) error {
	var out BranchList
	for _, name := range strings.Split(string(text), ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if strings.ContainsAny(name, " \t") {
			return fmt.Errorf("invalid branch name %q", name)
		}
		out = append(out, name)
	}
	*l = out
	return nil
}

// MarshalText joins the names with commas.
func (l BranchList) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l BranchList) String() string {
	return strings.Join(l, ",")
}

// DeleteFilter selects which kinds of branches may be deleted.
type DeleteFilter uint8

const (
	MergedLocal DeleteFilter = 1 << iota
	MergedRemote
	Stray
	Diverged

	Merged    = MergedLocal | MergedRemote
	DeleteAll = MergedLocal | MergedRemote | Stray | Diverged
)

// ErrEmptyFilter is returned for a delete filter that selects nothing.
var ErrEmptyFilter = errors.New("delete filter selects no branches")

var filterKinds = []struct {
	name string
	bits DeleteFilter
}{
	{"merged-local", MergedLocal},
	{"merged-remote", MergedRemote},
	{"stray", Stray},
	{"diverged", Diverged},
}

var filterAliases = map[string]DeleteFilter{
	"merged": Merged,
	"local":  MergedLocal | Stray,
	"remote": MergedRemote,
	"all":    DeleteAll,
}

// ParseDeleteFilter parses a comma-separated list of branch kinds and aliases.
func ParseDeleteFilter(s string) (DeleteFilter, error) {
	var f DeleteFilter
	for _, word := range strings.Split(s, ",") {
		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" {
			continue
		}
		if bits, ok := filterAliases[word]; ok {
			f |= bits
			continue
		}
		found := false
		for _, k := range filterKinds {
			if k.name == word {
				f |= k.bits
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown branch kind %q (use merged, merged-local, merged-remote, stray, diverged, local, remote or all)", word)
		}
	}
	if f == 0 {
		return 0, ErrEmptyFilter
	}
	return f, nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *DeleteFilter) UnmarshalText(text []byte) error {
	parsed, err := ParseDeleteFilter(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (f DeleteFilter) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// Has reports whether every kind in other is selected.
func (f DeleteFilter) Has(other DeleteFilter) bool {
	return f&other == other
}

// String lists the selected kinds, e.g. "merged-local,stray".
func (f DeleteFilter) String() string {
	var names []string
	for _, k := range filterKinds {
		if f.Has(k.bits) {
			names = append(names, k.name)
		}
	}
	return strings.Join(names, ",")
}
