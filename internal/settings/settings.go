// Package settings resolves gtrim's trim.* settings from flags, git config
// and configured defaults.
package settings

import (
	"context"
	"fmt"
	"strconv"

	"github.com/raphi011/gtrim/internal/config"
	"github.com/raphi011/gtrim/internal/resolve"
	"github.com/raphi011/gtrim/internal/store"
)

// Git config keys of each setting.
const (
	KeyBases          = "trim.bases"
	KeyProtected      = "trim.protected"
	KeyUpdate         = "trim.update"
	KeyUpdateInterval = "trim.updateInterval"
	KeyConfirm        = "trim.confirm"
	KeyDetach         = "trim.detach"
	KeyDelete         = "trim.delete"
)

// Flag is a command-line override: the flag as typed and its value.
// A nil Value means the flag was not given.
type Flag[T any] struct {
	Name  string
	Value *T
}

// Set returns a Flag carrying value.
func Set[T any](name string, value T) Flag[T] {
	return Flag[T]{Name: name, Value: &value}
}

func (f Flag[T]) label(fallback string) string {
	if f.Name == "" {
		return fallback
	}
	return f.Name
}

// Overrides holds the flags that take precedence over git config.
type Overrides struct {
	Bases          Flag[BranchList]
	Protected      Flag[BranchList]
	Update         Flag[bool]
	UpdateInterval Flag[uint64]
	Confirm        Flag[bool]
	Detach         Flag[bool]
	Delete         Flag[DeleteFilter]
}

// Defaults are used when neither a flag nor git config sets a value.
type Defaults struct {
	Bases          BranchList
	Protected      BranchList
	Update         bool
	UpdateInterval uint64
	Confirm        bool
	Detach         bool
	Delete         DeleteFilter
}

// DefaultsFromConfig converts the [defaults] section of the gtrim config.
func DefaultsFromConfig(c config.DefaultsConfig) (Defaults, error) {
	del, err := ParseDeleteFilter(c.Delete)
	if err != nil {
		return Defaults{}, fmt.Errorf("invalid defaults.delete: %w", err)
	}
	return Defaults{
		Bases:          BranchList(c.Bases),
		Protected:      BranchList(c.Protected),
		Update:         c.Update,
		UpdateInterval: c.UpdateInterval,
		Confirm:        c.Confirm,
		Detach:         c.Detach,
		Delete:         del,
	}, nil
}

// Settings holds every resolved setting with its provenance.
type Settings struct {
	Bases          resolve.Value[BranchList]
	Protected      resolve.Value[BranchList]
	Update         resolve.Value[bool]
	UpdateInterval resolve.Value[uint64]
	Confirm        resolve.Value[bool]
	Detach         resolve.Value[bool]
	Delete         resolve.Value[DeleteFilter]
}

// Resolve resolves all settings. Every setting has a default, so every
// field of the result is set; errors come from the store or from values
// that fail to parse.
func Resolve(ctx context.Context, s store.Store, o Overrides, d Defaults) (*Settings, error) {
	var (
		out Settings
		err error
	)

	if out.Bases, err = required(resolve.ParseFlatten(ctx,
		resolve.Get[BranchList](s, KeyBases).
			WithExplicit(o.Bases.label("--bases"), o.Bases.Value).
			WithDefault(d.Bases))); err != nil {
		return nil, err
	}

	if out.Protected, err = required(resolve.ParseFlatten(ctx,
		resolve.Get[BranchList](s, KeyProtected).
			WithExplicit(o.Protected.label("--protected"), o.Protected.Value).
			WithDefault(d.Protected))); err != nil {
		return nil, err
	}

	if out.Update, err = readBool(ctx, s, KeyUpdate, o.Update.label("--update"), o.Update.Value, d.Update); err != nil {
		return nil, err
	}

	if out.UpdateInterval, err = required(
		resolve.Get[uint64](s, KeyUpdateInterval).
			WithExplicit(o.UpdateInterval.label("--update-interval"), o.UpdateInterval.Value).
			WithDefault(d.UpdateInterval).
			Parse(ctx, parseSeconds)); err != nil {
		return nil, err
	}

	if out.Confirm, err = readBool(ctx, s, KeyConfirm, o.Confirm.label("--confirm"), o.Confirm.Value, d.Confirm); err != nil {
		return nil, err
	}

	if out.Detach, err = readBool(ctx, s, KeyDetach, o.Detach.label("--detach"), o.Detach.Value, d.Detach); err != nil {
		return nil, err
	}

	if out.Delete, err = required(resolve.ParseText(ctx,
		resolve.Get[DeleteFilter](s, KeyDelete).
			WithExplicit(o.Delete.label("--delete"), o.Delete.Value).
			WithDefault(d.Delete))); err != nil {
		return nil, err
	}

	return &out, nil
}

func readBool(ctx context.Context, s store.Store, key, label string, value *bool, def bool) (resolve.Value[bool], error) {
	return required(resolve.Get[bool](s, key).
		WithExplicit(label, value).
		WithDefault(def).
		Read(ctx, resolve.Bool))
}

func parseSeconds(raw string) (uint64, error) {
	return strconv.ParseUint(raw, 10, 64)
}

// required unwraps a resolution that had a default.
func required[T any](v *resolve.Value[T], err error) (resolve.Value[T], error) {
	if err != nil {
		return resolve.Value[T]{}, err
	}
	if v == nil {
		panic("settings: default not applied")
	}
	return *v, nil
}
