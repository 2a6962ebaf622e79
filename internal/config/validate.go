package config

import (
	"fmt"
	"slices"
	"strings"
)

// Valid enum values for configuration fields.
var (
	ValidBackends    = []string{BackendGit, BackendFile}
	ValidDeleteKinds = []string{"merged", "merged-local", "merged-remote", "stray", "diverged", "local", "remote", "all"}
)

// validateEnum checks that value (if non-empty) is one of the allowed values.
// Returns a formatted error mentioning the field name and allowed options.
func validateEnum(value, field string, allowed []string) error {
	if value == "" {
		return nil
	}
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("invalid %s %q: must be %s", field, value, formatOptions(allowed))
	}
	return nil
}

// validateDeleteFilter checks a comma-separated list of branch kinds.
// The list must name at least one kind.
func validateDeleteFilter(value, field string) error {
	selected := 0
	for _, word := range strings.Split(value, ",") {
		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" {
			continue
		}
		if !slices.Contains(ValidDeleteKinds, word) {
			return fmt.Errorf("invalid %s kind %q: must be %s", field, word, formatOptions(ValidDeleteKinds))
		}
		selected++
	}
	if selected == 0 {
		return fmt.Errorf("invalid %s: must name at least one branch kind", field)
	}
	return nil
}

// validateBranchNames rejects empty names and names containing separators
// used by the git config list syntax.
func validateBranchNames(names []string, field string) error {
	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("invalid %s[%d]: empty branch name", field, i)
		}
		if strings.ContainsAny(name, ", \t") {
			return fmt.Errorf("invalid %s[%d] %q: must not contain commas or whitespace", field, i, name)
		}
	}
	return nil
}

// formatOptions formats a list of allowed values for error messages.
// E.g., ["a", "b", "c"] -> `"a", "b", or "c"`
func formatOptions(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
