package settings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/raphi011/gtrim/internal/resolve"
)

// Row is one setting flattened for display.
type Row struct {
	Name     string `json:"name"`
	Key      string `json:"key"`
	Value    string `json:"value"`
	Source   string `json:"source,omitempty"`
	Implicit bool   `json:"implicit"`
}

var names = []string{"bases", "protected", "update", "updateInterval", "confirm", "detach", "delete"}

// Names lists the setting names in display order.
func Names() []string {
	return append([]string(nil), names...)
}

// Rows flattens s in display order.
func (s *Settings) Rows() []Row {
	return []Row{
		row("bases", KeyBases, s.Bases, BranchList.String),
		row("protected", KeyProtected, s.Protected, BranchList.String),
		row("update", KeyUpdate, s.Update, strconv.FormatBool),
		row("updateInterval", KeyUpdateInterval, s.UpdateInterval, func(v uint64) string { return strconv.FormatUint(v, 10) }),
		row("confirm", KeyConfirm, s.Confirm, strconv.FormatBool),
		row("detach", KeyDetach, s.Detach, strconv.FormatBool),
		row("delete", KeyDelete, s.Delete, DeleteFilter.String),
	}
}

func row[T any](name, key string, v resolve.Value[T], format func(T) string) Row {
	return Row{
		Name:     name,
		Key:      key,
		Value:    format(v.Get()),
		Source:   v.Source(),
		Implicit: v.IsImplicit(),
	}
}

// Lookup returns the setting name for name, which may also be the git
// config key ("trim.bases"). Unknown names are an error that suggests the
// closest setting name.
func Lookup(name string) (string, error) {
	short := strings.TrimPrefix(name, "trim.")
	for _, n := range names {
		if strings.EqualFold(n, short) {
			return n, nil
		}
	}
	if s := Suggest(short); s != "" {
		return "", fmt.Errorf("unknown setting %q, did you mean %q?", name, s)
	}
	return "", fmt.Errorf("unknown setting %q", name)
}

// Select returns the rows named in want, in the order given.
// An empty want returns all rows.
func Select(rows []Row, want []string) ([]Row, error) {
	if len(want) == 0 {
		return rows, nil
	}

	byName := make(map[string]Row, len(rows))
	for _, r := range rows {
		byName[r.Name] = r
	}

	out := make([]Row, 0, len(want))
	for _, w := range want {
		name, err := Lookup(w)
		if err != nil {
			return nil, err
		}
		out = append(out, byName[name])
	}
	return out, nil
}

// Suggest returns the setting name closest to name, or "" if nothing matches.
func Suggest(name string) string {
	matches := fuzzy.Find(name, names)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}
