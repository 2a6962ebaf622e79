package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/gtrim/internal/git"
	"github.com/raphi011/gtrim/internal/output"
	"github.com/raphi011/gtrim/internal/remote"
	"github.com/raphi011/gtrim/internal/resolve"
	"github.com/raphi011/gtrim/internal/store"
)

type remoteFunc func(ctx context.Context, s store.Store, branch string) (resolve.Value[string], error)

func newRemoteCmd() *cobra.Command {
	return newRemoteLookupCmd(remoteLookup{
		use:   "remote [branch]",
		short: "Show the remote a branch pulls from",
		long: `Show the remote a branch pulls from.

Reads branch.<branch>.remote and falls back to "origin".
Without a branch, the current branch is used.`,
		example: `  gtrim remote
  gtrim remote feature/login --json`,
		key:     remote.RemoteKey,
		resolve: remote.GetRemote,
	})
}

func newPushRemoteCmd() *cobra.Command {
	return newRemoteLookupCmd(remoteLookup{
		use:   "push-remote [branch]",
		short: "Show the remote a branch pushes to",
		long: `Show the remote a branch pushes to.

Checks, in order: branch.<branch>.pushRemote, remote.pushDefault,
branch.<branch>.remote, and finally "origin".
Without a branch, the current branch is used.`,
		example: `  gtrim push-remote
  gtrim push-remote main`,
		key:     remote.PushRemoteKey,
		resolve: remote.GetPushRemote,
	})
}

type remoteLookup struct {
	use, short, long, example string
	key                       func(branch string) string
	resolve                   remoteFunc
}

func newRemoteLookupCmd(l remoteLookup) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:               l.use,
		Short:             l.short,
		Long:              l.long,
		Example:           l.example,
		GroupID:           GroupQuery,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e := envFromContext(ctx)

			var branch string
			if len(args) == 1 {
				branch = args[0]
			} else {
				// The file store runs without git, but the current branch
				// still comes from git.
				if err := git.CheckGit(); err != nil {
					return fmt.Errorf("%w; pass a branch name to resolve without git", err)
				}
				if !git.IsInsideRepoPath(ctx, e.Dir) {
					return fmt.Errorf("not a git repository: %s (pass a branch name)", e.Dir)
				}
				current, err := git.GetCurrentBranch(ctx, e.Dir)
				if err != nil {
					return err
				}
				branch = current
			}

			s, err := e.openStore(ctx)
			if err != nil {
				return err
			}

			v, err := l.resolve(ctx, s, branch)
			if err != nil {
				return err
			}

			out := output.FromContext(ctx)
			if jsonOutput {
				return out.JSON(valueJSON{Key: l.key(branch), Value: v.Get(), Source: v.Source(), Implicit: v.IsImplicit()})
			}
			out.Println(v.Get() + " " + output.Dim(provenance(v.Source(), v.IsImplicit())))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
