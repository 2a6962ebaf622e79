package resolve

import (
	"context"
	"strings"

	"github.com/raphi011/gtrim/internal/log"
	"github.com/raphi011/gtrim/internal/store"
)

// Fetcher pulls a value of one shape directly out of a store.
type Fetcher[T any] func(ctx context.Context, s store.Store, key string) (T, error)

// String fetches the effective string value of a key.
func String(ctx context.Context, s store.Store, key string) (string, error) {
	return s.GetString(ctx, key)
}

// Bool fetches the effective boolean value of a key.
func Bool(ctx context.Context, s store.Store, key string) (bool, error) {
	return s.GetBool(ctx, key)
}

// Strings fetches every entry of a key in declaration order.
// Entries without a text value are skipped with a warning. A key with no
// usable entry is absent, so Strings then returns a store.ErrNotFound error.
func Strings(ctx context.Context, s store.Store, key string) ([]string, error) {
	entries, err := s.Entries(ctx, key)
	if err != nil {
		return nil, err
	}

	result := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Value == nil {
			log.FromContext(ctx).Warnf("non utf-8 config entry %s", strings.ToValidUTF8(string(e.Name), "\uFFFD"))
			continue
		}
		result = append(result, *e.Value)
	}
	if len(result) == 0 {
		return nil, store.NotFound(key)
	}
	return result, nil
}

