package resolve

import (
	"context"
	"encoding"
	"fmt"

	"github.com/raphi011/gtrim/internal/store"
)

// ParseError is returned when a raw store value cannot be converted.
// It is never treated as absence.
type ParseError struct {
	Key string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid value for %s: %v", e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type override[T any] struct {
	source string
	value  T
}

// Request resolves one key against an explicit override, a store and a default.
//
// Requests are values: WithExplicit and WithDefault return modified copies
// and leave the receiver untouched. A request is meant to be consumed by a
// single terminal call (Read, Parse, ParseMulti, ParseText, ParseFlatten).
type Request[T any] struct {
	store    store.Store
	key      string
	explicit *override[T]
	fallback *T
}

// Get starts a request for key.
func Get[T any](s store.Store, key string) Request[T] {
	return Request[T]{store: s, key: key}
}

// WithExplicit installs value as an override labelled source.
// A nil value leaves the request unchanged; otherwise any previous override
// is replaced.
func (r Request[T]) WithExplicit(source string, value *T) Request[T] {
	if value == nil {
		return r
	}
	r.explicit = &override[T]{source: source, value: *value}
	return r
}

// WithDefault sets the value used when the store has nothing for the key.
func (r Request[T]) WithDefault(value T) Request[T] {
	r.fallback = &value
	return r
}

// overridden returns the explicit override, if any. When it is set the store
// must not be consulted at all.
func (r Request[T]) overridden() (*Value[T], bool) {
	if r.explicit == nil {
		return nil, false
	}
	v := Explicit(r.explicit.value, r.explicit.source)
	return &v, true
}

func (r Request[T]) found(value T) *Value[T] {
	v := Explicit(value, r.key)
	return &v
}

// absent returns the default, or nil when there is none.
func (r Request[T]) absent() *Value[T] {
	if r.fallback == nil {
		return nil
	}
	v := Implicit(*r.fallback)
	return &v
}

// Read resolves the request using fetch to query the store.
//
// A nil Value with a nil error means the key is unset and no default was
// given. Store errors other than absence are returned unchanged.
func (r Request[T]) Read(ctx context.Context, fetch Fetcher[T]) (*Value[T], error) {
	if v, ok := r.overridden(); ok {
		return v, nil
	}

	value, err := fetch(ctx, r.store, r.key)
	switch {
	case err == nil:
		return r.found(value), nil
	case store.IsNotFound(err):
		return r.absent(), nil
	default:
		return nil, err
	}
}

// Parse resolves the request from the key's single string value, converted
// with parse. A parse failure is returned as *ParseError.
func (r Request[T]) Parse(ctx context.Context, parse func(string) (T, error)) (*Value[T], error) {
	if v, ok := r.overridden(); ok {
		return v, nil
	}

	raw, err := r.store.GetString(ctx, r.key)
	if err != nil {
		if store.IsNotFound(err) {
			return r.absent(), nil
		}
		return nil, err
	}

	value, err := parse(raw)
	if err != nil {
		return nil, &ParseError{Key: r.key, Err: err}
	}
	return r.found(value), nil
}

// ParseMulti resolves the request from every entry of the key, in
// declaration order. A key whose entries are all missing or undecodable
// counts as absent (see Strings). aggregate runs
// once over the whole list; its failure is returned as *ParseError.
func (r Request[T]) ParseMulti(ctx context.Context, aggregate func([]string) (T, error)) (*Value[T], error) {
	if v, ok := r.overridden(); ok {
		return v, nil
	}

	raw, err := Strings(ctx, r.store, r.key)
	if err != nil {
		if store.IsNotFound(err) {
			return r.absent(), nil
		}
		return nil, err
	}
	value, err := aggregate(raw)
	if err != nil {
		return nil, &ParseError{Key: r.key, Err: err}
	}
	return r.found(value), nil
}

// ParseText is Parse with T's own text decoding.
func ParseText[T any, PT interface {
	*T
	encoding.TextUnmarshaler
}](ctx context.Context, r Request[T]) (*Value[T], error) {
	return r.Parse(ctx, func(raw string) (T, error) {
		var v T
		err := PT(&v).UnmarshalText([]byte(raw))
		return v, err
	})
}

// ParseFlatten decodes every entry of the key into a T and concatenates the
// results, keeping entry order and then the order within each entry.
func ParseFlatten[T ~[]U, U any, PT interface {
	*T
	encoding.TextUnmarshaler
}](ctx context.Context, r Request[T]) (*Value[T], error) {
	return r.ParseMulti(ctx, func(raw []string) (T, error) {
		var out T
		for _, s := range raw {
			var part T
			if err := PT(&part).UnmarshalText([]byte(s)); err != nil {
				var zero T
				return zero, err
			}
			out = append(out, part...)
		}
		return out, nil
	})
}
