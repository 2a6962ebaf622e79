package resolve

import "fmt"

// Value is a resolved configuration value together with its provenance.
//
// A Value is either explicit, carrying the override label or store key that
// produced it, or implicit, meaning it came from a caller default.
type Value[T any] struct {
	value    T
	source   string
	implicit bool
}

// Explicit returns a value traced to source. source must not be empty.
func Explicit[T any](value T, source string) Value[T] {
	if source == "" {
		panic("resolve: explicit value without source")
	}
	return Value[T]{value: value, source: source}
}

// Implicit returns a value that came from a default.
func Implicit[T any](value T) Value[T] {
	return Value[T]{value: value, implicit: true}
}

// Get unwraps the value regardless of provenance.
func (v Value[T]) Get() T {
	return v.value
}

// IsImplicit reports whether the value came from a default.
func (v Value[T]) IsImplicit() bool {
	return v.implicit
}

// Source returns the label or key the value came from, or "" for an implicit value.
func (v Value[T]) Source() string {
	return v.source
}

// String formats the value with its provenance, e.g. `"upstream" (branch.release.remote)`.
func (v Value[T]) String() string {
	if v.implicit {
		return fmt.Sprintf("%v (default)", v.value)
	}
	return fmt.Sprintf("%v (%s)", v.value, v.source)
}
