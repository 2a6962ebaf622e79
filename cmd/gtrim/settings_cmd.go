package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/raphi011/gtrim/internal/output"
	"github.com/raphi011/gtrim/internal/settings"
)

func newSettingsCmd() *cobra.Command {
	var (
		bases          string
		protected      string
		update         bool
		noUpdate       bool
		updateInterval uint64
		confirm        bool
		noConfirm      bool
		detach         bool
		noDetach       bool
		deleteKinds    string
		jsonOutput     bool
	)

	cmd := &cobra.Command{
		Use:     "settings [name...]",
		Short:   "Show the resolved trim settings",
		GroupID: GroupQuery,
		Long: `Show the trim settings and where each value came from.

A flag wins over git config (trim.* keys), which wins over the defaults of
the gtrim config file. Multi-valued keys such as trim.bases are merged:
every entry may itself be a comma-separated list.

Names may be given as setting names (bases) or git keys (trim.bases).`,
		Example: `  gtrim settings
  gtrim settings bases protected
  gtrim settings --delete merged,stray --no-confirm
  gtrim settings --json`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return settings.Names(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e := envFromContext(ctx)
			flags := cmd.Flags()

			var o settings.Overrides
			var err error
			if o.Bases, err = branchListFlag(flags, "bases", bases); err != nil {
				return err
			}
			if o.Protected, err = branchListFlag(flags, "protected", protected); err != nil {
				return err
			}
			o.Update = boolFlag(flags, "update", update, "no-update", noUpdate)
			o.Confirm = boolFlag(flags, "confirm", confirm, "no-confirm", noConfirm)
			o.Detach = boolFlag(flags, "detach", detach, "no-detach", noDetach)
			if flags.Changed("update-interval") {
				o.UpdateInterval = settings.Set("--update-interval", updateInterval)
			}
			if flags.Changed("delete") {
				f, err := settings.ParseDeleteFilter(deleteKinds)
				if err != nil {
					return fmt.Errorf("invalid --delete: %w", err)
				}
				o.Delete = settings.Set("--delete", f)
			}

			defaults, err := e.defaults(ctx)
			if err != nil {
				return err
			}
			s, err := e.openStore(ctx)
			if err != nil {
				return err
			}

			resolved, err := settings.Resolve(ctx, s, o, defaults)
			if err != nil {
				return err
			}
			rows, err := settings.Select(resolved.Rows(), args)
			if err != nil {
				return err
			}

			out := output.FromContext(ctx)
			if jsonOutput {
				return out.JSON(rows)
			}

			table := make([][]string, 0, len(rows))
			for _, r := range rows {
				table = append(table, []string{r.Name, r.Value, output.Dim(provenance(r.Source, r.Implicit))})
			}
			out.Table([]string{"SETTING", "VALUE", "SOURCE"}, table)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&bases, "bases", "", "Comma-separated base branches")
	f.StringVar(&protected, "protected", "", "Comma-separated protected branches")
	f.BoolVar(&update, "update", false, "Fetch remotes before trimming")
	f.BoolVar(&noUpdate, "no-update", false, "Do not fetch remotes")
	f.Uint64Var(&updateInterval, "update-interval", 0, "Skip the fetch if the last one is younger than `seconds`")
	f.BoolVar(&confirm, "confirm", false, "Ask before deleting")
	f.BoolVar(&noConfirm, "no-confirm", false, "Do not ask before deleting")
	f.BoolVar(&detach, "detach", false, "Detach HEAD when the current branch is trimmed")
	f.BoolVar(&noDetach, "no-detach", false, "Never trim the current branch")
	f.StringVarP(&deleteKinds, "delete", "d", "", "Branch kinds to delete (merged, stray, diverged, local, remote, all, ...)")
	f.BoolVar(&jsonOutput, "json", false, "Output as JSON")

	cmd.MarkFlagsMutuallyExclusive("update", "no-update")
	cmd.MarkFlagsMutuallyExclusive("confirm", "no-confirm")
	cmd.MarkFlagsMutuallyExclusive("detach", "no-detach")

	return cmd
}

func branchListFlag(flags *pflag.FlagSet, name, raw string) (settings.Flag[settings.BranchList], error) {
	if !flags.Changed(name) {
		return settings.Flag[settings.BranchList]{}, nil
	}
	var l settings.BranchList
	if err := l.UnmarshalText([]byte(raw)); err != nil {
		return settings.Flag[settings.BranchList]{}, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return settings.Set("--"+name, l), nil
}

// boolFlag turns a --x/--no-x pair into an override labelled with the flag
// that was given.
func boolFlag(flags *pflag.FlagSet, on string, onValue bool, off string, offValue bool) settings.Flag[bool] {
	switch {
	case flags.Changed(off):
		return settings.Set("--"+off, !offValue)
	case flags.Changed(on):
		return settings.Set("--"+on, onValue)
	default:
		return settings.Flag[bool]{}
	}
}
