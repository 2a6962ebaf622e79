// Package git provides git operations via shell commands.
//
// All operations use [os/exec.Command] to call the git CLI directly rather than
// using Go git libraries. This ensures the configuration gtrim resolves is the
// one git itself sees: every scope, includes, includeIf and
// GIT_CONFIG_* overrides.
//
// # Configuration Store
//
// [ConfigStore] implements the resolver's store on top of "git config -z":
//
//   - GetString: git config --get (last value wins)
//   - GetBool: git config --type=bool --get (git's boolean rules)
//   - Entries: git config --get-regexp (every entry, declaration order)
//
// Exit status 1 from "git config" is reported as store.ErrNotFound. Keys are
// validated before git runs, so the status cannot stem from a malformed key.
//
// # Repository Queries
//
//   - [GetCurrentBranch]: branch checked out in a work tree
//   - [FindGitDir]: locate the repository config directory without git
//   - [CheckGit], [IsInsideRepoPath]: environment checks
package git
