// Package store defines the read-only configuration store consumed by the
// resolver, together with the stores gtrim ships.
//
// A [Store] answers three questions about a git-style key: its effective
// string value, its effective boolean value, and the ordered list of every
// entry declared for it. Absence is always reported as an error wrapping
// [ErrNotFound]; any other error is a real store failure.
//
// # Implementations
//
//   - [Memory]: ordered in-memory entries, used by tests and embedders
//   - [File]: pure Go reader over the git config files of a repository
//   - git.ConfigStore (package internal/git): the git CLI itself
//
// # Keys
//
// Keys follow git's "section[.subsection].name" form. Section and variable
// name compare case-insensitively, the subsection case-sensitively; see
// [CanonicalKey].
package store
