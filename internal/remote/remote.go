// Package remote resolves which remote a branch fetches from and pushes to,
// following git's precedence rules.
package remote

import (
	"context"
	"fmt"

	"github.com/raphi011/gtrim/internal/resolve"
	"github.com/raphi011/gtrim/internal/store"
)

// DefaultRemote is used when a branch has no configured remote.
const DefaultRemote = "origin"

// PushDefaultKey is the repository-wide push remote.
const PushDefaultKey = "remote.pushDefault"

// RemoteKey returns the key holding the tracked remote of branch.
func RemoteKey(branch string) string {
	return fmt.Sprintf("branch.%s.remote", branch)
}

// PushRemoteKey returns the key holding the per-branch push remote.
func PushRemoteKey(branch string) string {
	return fmt.Sprintf("branch.%s.pushRemote", branch)
}

// GetRemote resolves branch.<branch>.remote, defaulting to "origin".
// The result is never absent.
func GetRemote(ctx context.Context, s store.Store, branch string) (resolve.Value[string], error) {
	v, err := resolve.Get[string](s, RemoteKey(branch)).
		WithDefault(DefaultRemote).
		Read(ctx, resolve.String)
	if err != nil {
		return resolve.Value[string]{}, err
	}
	if v == nil {
		panic("remote: default remote not applied")
	}
	return *v, nil
}

// GetPushRemote resolves the remote branch is pushed to:
// branch.<branch>.pushRemote, then remote.pushDefault, then GetRemote.
// The first tier with a value wins and is reported as the source.
func GetPushRemote(ctx context.Context, s store.Store, branch string) (resolve.Value[string], error) {
	for _, key := range []string{PushRemoteKey(branch), PushDefaultKey} {
		v, err := resolve.Get[string](s, key).Read(ctx, resolve.String)
		if err != nil {
			return resolve.Value[string]{}, err
		}
		if v != nil {
			return *v, nil
		}
	}
	return GetRemote(ctx, s, branch)
}
