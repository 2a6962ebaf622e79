package resolve

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/raphi011/gtrim/internal/log"
	"github.com/raphi011/gtrim/internal/store"
)

// countingStore wraps a store and counts lookups; err, when set, is
// returned from every call.
type countingStore struct {
	inner store.Store
	calls int
	err   error
}

func (c *countingStore) GetString(ctx context.Context, key string) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return c.inner.GetString(ctx, key)
}

func (c *countingStore) GetBool(ctx context.Context, key string) (bool, error) {
	c.calls++
	if c.err != nil {
		return false, c.err
	}
	return c.inner.GetBool(ctx, key)
}

func (c *countingStore) Entries(ctx context.Context, key string) ([]store.Entry, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.inner.Entries(ctx, key)
}

// logCtx returns a context with a logger writing to the returned buffer.
func logCtx() (context.Context, *bytes.Buffer) {
	var buf bytes.Buffer
	return log.WithLogger(context.Background(), log.New(&buf, false, false)), &buf
}

func ptr[T any](v T) *T { return &v }

// csvList decodes comma-separated text, used to exercise the text-decoding variants.
type csvList []string

func (l *csvList) UnmarshalText(text []byte) error {
	*l = nil
	for _, part := range strings.Split(string(text), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.ContainsAny(part, " \t") {
			return fmt.Errorf("invalid item %q", part)
		}
		*l = append(*l, part)
	}
	return nil
}

type level int

func (l *level) UnmarshalText(text []byte) error {
	switch string(text) {
	case "low":
		*l = 1
	case "high":
		*l = 2
	default:
		return fmt.Errorf("unknown level %q", text)
	}
	return nil
}

func TestRead_ExplicitWins(t *testing.T) {
	t.Parallel()
	ctx, _ := logCtx()

	cs := &countingStore{inner: store.NewMemory().Set("branch.main.remote", "upstream")}

	tests := []struct {
		name string
		req  Request[string]
	}{
		{
			name: "override only",
			req:  Get[string](cs, "branch.main.remote").WithExplicit("--remote", ptr("fork")),
		},
		{
			name: "override after default",
			req:  Get[string](cs, "branch.main.remote").WithDefault("origin").WithExplicit("--remote", ptr("fork")),
		},
		{
			name: "override before default",
			req:  Get[string](cs, "branch.main.remote").WithExplicit("--remote", ptr("fork")).WithDefault("origin"),
		},
		{
			name: "later override replaces earlier",
			req:  Get[string](cs, "branch.main.remote").WithExplicit("-r", ptr("other")).WithExplicit("--remote", ptr("fork")),
		},
		{
			name: "nil override keeps earlier",
			req:  Get[string](cs, "branch.main.remote").WithExplicit("--remote", ptr("fork")).WithExplicit("-r", nil),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.req.Read(ctx, String)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if got == nil {
				t.Fatal("Read() = nil, want explicit value")
			}
			if got.IsImplicit() || got.Get() != "fork" || got.Source() != "--remote" {
				t.Errorf("Read() = %v, want fork (--remote)", got)
			}
		})
	}

	if cs.calls != 0 {
		t.Errorf("store queried %d times, want 0 when an override is set", cs.calls)
	}
}

func TestRead_OverrideSkipsStoreForAllVariants(t *testing.T) {
	t.Parallel()
	ctx, buf := logCtx()

	cs := &countingStore{err: errors.New("must not be called")}

	if _, err := Get[string](cs, "a.b").WithExplicit("--a", ptr("x")).Parse(ctx, func(s string) (string, error) { return s, nil }); err != nil {
		t.Errorf("Parse() error = %v", err)
	}
	if _, err := Get[[]string](cs, "a.b").WithExplicit("--a", ptr([]string{"x"})).ParseMulti(ctx, func(s []string) ([]string, error) { return s, nil }); err != nil {
		t.Errorf("ParseMulti() error = %v", err)
	}
	if _, err := ParseFlatten(ctx, Get[csvList](cs, "a.b").WithExplicit("--a", ptr(csvList{"x"}))); err != nil {
		t.Errorf("ParseFlatten() error = %v", err)
	}
	if _, err := ParseText(ctx, Get[level](cs, "a.b").WithExplicit("--a", ptr(level(1)))); err != nil {
		t.Errorf("ParseText() error = %v", err)
	}

	if cs.calls != 0 {
		t.Errorf("store queried %d times, want 0", cs.calls)
	}
	if buf.Len() != 0 {
		t.Errorf("logged %q, want nothing", buf.String())
	}
}

func TestRead_Precedence(t *testing.T) {
	t.Parallel()
	ctx, _ := logCtx()

	s := store.NewMemory().
		Set("core.bare", "true").
		Set("user.email", "local@test").
		Set("core.editor", "")

	tests := []struct {
		name         string
		req          Request[string]
		wantNil      bool
		wantValue    string
		wantSource   string
		wantImplicit bool
	}{
		{
			name:       "store value",
			req:        Get[string](s, "user.email").WithDefault("nobody@test"),
			wantValue:  "local@test",
			wantSource: "user.email",
		},
		{
			name:         "absent with default",
			req:          Get[string](s, "user.name").WithDefault("anonymous"),
			wantValue:    "anonymous",
			wantImplicit: true,
		},
		{
			name:    "absent without default",
			req:     Get[string](s, "user.name"),
			wantNil: true,
		},
		{
			name:       "empty string is present",
			req:        Get[string](s, "core.editor").WithDefault("vi"),
			wantValue:  "",
			wantSource: "core.editor",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := tt.req.Read(ctx, String)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if tt.wantNil {
				if got != nil {
					t.Errorf("Read() = %v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("Read() = nil, want value")
			}
			if got.Get() != tt.wantValue || got.Source() != tt.wantSource || got.IsImplicit() != tt.wantImplicit {
				t.Errorf("Read() = {%q, %q, implicit=%v}, want {%q, %q, implicit=%v}",
					got.Get(), got.Source(), got.IsImplicit(), tt.wantValue, tt.wantSource, tt.wantImplicit)
			}
		})
	}
}

func TestRead_Bool(t *testing.T) {
	t.Parallel()
	ctx, _ := logCtx()

	s := store.NewMemory().Set("core.bare", "true")

	got, err := Get[bool](s, "core.bare").Read(ctx, Bool)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got == nil || !got.Get() || got.Source() != "core.bare" || got.IsImplicit() {
		t.Errorf("Read(core.bare) = %v, want true (core.bare)", got)
	}
}

func TestRead_StoreErrorUnchanged(t *testing.T) {
	t.Parallel()
	ctx, _ := logCtx()

	storeErr := errors.New("bad config file line 3")
	cs := &countingStore{err: storeErr}

	got, err := Get[string](cs, "user.name").WithDefault("anonymous").Read(ctx, String)
	if err != storeErr {
		t.Errorf("Read() error = %v, want the store error unchanged", err)
	}
	if got != nil {
		t.Errorf("Read() = %v, want nil on error", got)
	}

	// A type mismatch is a store error, not absence.
	s := store.NewMemory().Set("trim.update", "sometimes")
	_, err = Get[bool](s, "trim.update").WithDefault(true).Read(ctx, Bool)
	if !errors.Is(err, store.ErrInvalidValue) {
		t.Errorf("Read(bool mismatch) error = %v, want ErrInvalidValue", err)
	}
}

func TestRequest_IsNotMutated(t *testing.T) {
	t.Parallel()
	ctx, _ := logCtx()

	base := Get[string](store.NewMemory(), "user.name")
	withDefault := base.WithDefault("anonymous")
	_ = withDefault.WithExplicit("--name", ptr("flag"))

	got, err := base.Read(ctx, String)
	if err != nil || got != nil {
		t.Errorf("base.Read() = %v, %v; want nil, nil", got, err)
	}

	got, err = withDefault.Read(ctx, String)
	if err != nil || got == nil || !got.IsImplicit() || got.Get() != "anonymous" {
		t.Errorf("withDefault.Read() = %v, %v; want implicit anonymous", got, err)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()
	ctx, _ := logCtx()

	s := store.NewMemory().
		Set("trim.updateInterval", "30").
		Set("trim.bad", "soon")

	parseUint := func(raw string) (uint64, error) { return strconv.ParseUint(raw, 10, 64) }

	got, err := Get[uint64](s, "trim.updateInterval").WithDefault(5).Parse(ctx, parseUint)
	if err != nil || got == nil || got.Get() != 30 || got.Source() != "trim.updateInterval" {
		t.Errorf("Parse(present) = %v, %v; want 30 (trim.updateInterval)", got, err)
	}

	got, err = Get[uint64](s, "trim.missing").WithDefault(5).Parse(ctx, parseUint)
	if err != nil || got == nil || !got.IsImplicit() || got.Get() != 5 {
		t.Errorf("Parse(absent) = %v, %v; want implicit 5", got, err)
	}

	got, err = Get[uint64](s, "trim.bad").WithDefault(5).Parse(ctx, parseUint)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Parse(bad) error = %v, want *ParseError", err)
	}
	if parseErr.Key != "trim.bad" {
		t.Errorf("ParseError.Key = %q, want trim.bad", parseErr.Key)
	}
	if !errors.Is(err, strconv.ErrSyntax) {
		t.Errorf("Parse(bad) error = %v, want to wrap strconv.ErrSyntax", err)
	}
	if got != nil {
		t.Errorf("Parse(bad) = %v, want nil", got)
	}
}

func TestParseText(t *testing.T) {
	t.Parallel()
	ctx, _ := logCtx()

	s := store.NewMemory().Set("trim.level", "high").Set("trim.other", "medium")

	got, err := ParseText(ctx, Get[level](s, "trim.level"))
	if err != nil || got == nil || got.Get() != 2 {
		t.Errorf("ParseText(high) = %v, %v; want 2", got, err)
	}

	_, err = ParseText(ctx, Get[level](s, "trim.other").WithDefault(1))
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("ParseText(medium) error = %v, want *ParseError", err)
	}
}

func TestParseMulti(t *testing.T) {
	t.Parallel()
	ctx, _ := logCtx()

	s := store.NewMemory().
		Add("remote.origin.fetch", "+refs/heads/*:refs/remotes/origin/*").
		Add("remote.origin.fetch", "+refs/tags/*:refs/tags/*")

	calls := 0
	join := func(raw []string) (string, error) {
		calls++
		return strings.Join(raw, " "), nil
	}

	got, err := Get[string](s, "remote.origin.fetch").ParseMulti(ctx, join)
	if err != nil {
		t.Fatalf("ParseMulti() error = %v", err)
	}
	want := "+refs/heads/*:refs/remotes/origin/* +refs/tags/*:refs/tags/*"
	if got == nil || got.Get() != want || got.Source() != "remote.origin.fetch" {
		t.Errorf("ParseMulti() = %v, want %q", got, want)
	}
	if calls != 1 {
		t.Errorf("aggregate called %d times, want 1", calls)
	}

	failing := func([]string) (string, error) { return "", errors.New("boom") }
	_, err = Get[string](s, "remote.origin.fetch").WithDefault("x").ParseMulti(ctx, failing)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("ParseMulti(failing) error = %v, want *ParseError", err)
	}
}

func TestParseMulti_EmptyIsAbsent(t *testing.T) {
	t.Parallel()
	ctx, _ := logCtx()

	s := store.NewMemory()
	identity := func(raw []string) ([]string, error) { return raw, nil }

	got, err := Get[[]string](s, "trim.bases").WithDefault([]string{"main"}).ParseMulti(ctx, identity)
	if err != nil || got == nil || !got.IsImplicit() || !slices.Equal(got.Get(), []string{"main"}) {
		t.Errorf("ParseMulti(empty, default) = %v, %v; want implicit [main]", got, err)
	}

	got, err = Get[[]string](s, "trim.bases").ParseMulti(ctx, identity)
	if err != nil || got != nil {
		t.Errorf("ParseMulti(empty) = %v, %v; want nil, nil", got, err)
	}
}

func TestRead_StringsEmptyIsAbsent(t *testing.T) {
	t.Parallel()
	ctx, _ := logCtx()

	s := store.NewMemory()

	got, err := Get[[]string](s, "remote.origin.fetch").WithDefault([]string{"dflt"}).Read(ctx, Strings)
	if err != nil || got == nil || !got.IsImplicit() || got.Source() != "" || !slices.Equal(got.Get(), []string{"dflt"}) {
		t.Errorf("Read(Strings, empty, default) = %v, %v; want implicit [dflt]", got, err)
	}

	got, err = Get[[]string](s, "remote.origin.fetch").Read(ctx, Strings)
	if err != nil || got != nil {
		t.Errorf("Read(Strings, empty) = %v, %v; want nil, nil", got, err)
	}
}

func TestStrings_AllUndecodableIsAbsent(t *testing.T) {
	t.Parallel()
	ctx, buf := logCtx()

	s := store.NewMemory().AddRaw("remote.origin.fetch", []byte{0xff})

	if _, err := Strings(ctx, s, "remote.origin.fetch"); !store.IsNotFound(err) {
		t.Errorf("Strings(only undecodable) error = %v, want ErrNotFound", err)
	}

	got, err := Get[[]string](s, "remote.origin.fetch").WithDefault([]string{"dflt"}).Read(ctx, Strings)
	if err != nil || got == nil || !got.IsImplicit() {
		t.Errorf("Read(Strings, only undecodable) = %v, %v; want implicit default", got, err)
	}
	if !strings.Contains(buf.String(), "non utf-8 config entry remote.origin.fetch") {
		t.Errorf("warning missing, log = %q", buf.String())
	}
}

func TestStrings_SkipsUndecodableEntries(t *testing.T) {
	t.Parallel()
	ctx, buf := logCtx()

	s := store.NewMemory().
		Add("remote.origin.fetch", "+refs/heads/*:refs/remotes/origin/*").
		AddRaw("remote.origin.fetch", []byte{'+', 0xc3, 0x28}).
		Add("remote.origin.fetch", "+refs/tags/*:refs/tags/*")

	got, err := Get[[]string](s, "remote.origin.fetch").Read(ctx, Strings)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	want := []string{"+refs/heads/*:refs/remotes/origin/*", "+refs/tags/*:refs/tags/*"}
	if got == nil || !slices.Equal(got.Get(), want) {
		t.Errorf("Read() = %v, want %v", got, want)
	}

	if n := strings.Count(buf.String(), "warning:"); n != 1 {
		t.Errorf("logged %d warnings, want 1: %q", n, buf.String())
	}
	if !strings.Contains(buf.String(), "remote.origin.fetch") {
		t.Errorf("warning %q does not name the entry", buf.String())
	}
}

func TestParseFlatten(t *testing.T) {
	t.Parallel()
	ctx, _ := logCtx()

	s := store.NewMemory().
		Add("trim.bases", "develop, main").
		Add("trim.bases", "").
		Add("trim.bases", "release").
		Set("trim.protected", "a b")

	got, err := ParseFlatten(ctx, Get[csvList](s, "trim.bases"))
	if err != nil {
		t.Fatalf("ParseFlatten() error = %v", err)
	}
	want := csvList{"develop", "main", "release"}
	if got == nil || !slices.Equal(got.Get(), want) || got.Source() != "trim.bases" {
		t.Errorf("ParseFlatten() = %v, want %v (trim.bases)", got, want)
	}

	_, err = ParseFlatten(ctx, Get[csvList](s, "trim.protected"))
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("ParseFlatten(invalid) error = %v, want *ParseError", err)
	}

	got, err = ParseFlatten(ctx, Get[csvList](s, "trim.missing").WithDefault(csvList{"master"}))
	if err != nil || got == nil || !got.IsImplicit() || !slices.Equal(got.Get(), csvList{"master"}) {
		t.Errorf("ParseFlatten(absent) = %v, %v; want implicit [master]", got, err)
	}
}
