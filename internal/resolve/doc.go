// Package resolve combines an explicit override, a configuration store and a
// default into one typed value that remembers where it came from.
//
// # Precedence
//
// Highest priority first:
//
//   - Explicit override installed with [Request.WithExplicit] (usually a flag)
//   - The store value for the request key
//   - The default installed with [Request.WithDefault]
//
// The result is a [Value]: explicit values carry the override label or the
// store key as their source, defaults are implicit. When no source has a
// value the terminal call returns a nil *Value and a nil error.
//
// # Usage
//
//	remote, err := resolve.Get[string](s, "branch.main.remote").
//		WithExplicit("--remote", flagRemote).
//		WithDefault("origin").
//		Read(ctx, resolve.String)
//
// An override short-circuits resolution: the store is not read at all, so
// no store warnings are logged for overridden keys.
//
// # Variants
//
//   - [Request.Read]: fetch with a [Fetcher] ([String], [Bool], [Strings])
//   - [Request.Parse], [ParseText]: convert the single string value
//   - [Request.ParseMulti]: aggregate every entry of a multi-valued key
//   - [ParseFlatten]: decode each entry into a slice and concatenate
//
// For multi-valued keys an empty entry list counts as absent, while a single
// value that is the empty string is present.
package resolve
