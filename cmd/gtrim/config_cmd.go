package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/raphi011/gtrim/internal/config"
	"github.com/raphi011/gtrim/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage configuration",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Long: `Manage gtrim configuration.

Global config: ~/.config/gtrim/config.toml (or $GTRIM_CONFIG)
Local config:  .gtrim.toml (in the repository root)

These files only hold defaults: git config (trim.* keys) and flags win.`,
		Example: `  gtrim config init          # Create default global config
  gtrim config init --local  # Create local repo config
  gtrim config show          # Show effective config`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force  bool
		stdout bool
		local  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default config file",
		Args:  cobra.NoArgs,
		Long: `Create default config file.

Without flags, creates the global config.
With --local, creates .gtrim.toml in the current repository root.`,
		Example: `  gtrim config init           # Create global config
  gtrim config init --local   # Create local repo config
  gtrim config init -f        # Overwrite existing config
  gtrim config init -s        # Print config to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			content := config.DefaultConfig()
			if local {
				content = config.DefaultLocalConfig()
			}
			if stdout {
				out.Print(content)
				return nil
			}

			var (
				path string
				err  error
			)
			if local {
				_, root := envFromContext(ctx).repoConfig(ctx)
				if root == "" {
					return errors.New("not inside a git repository")
				}
				path, err = config.InitLocal(root, force)
			} else {
				path, err = config.Init(force)
			}
			if errors.Is(err, config.ErrConfigExists) {
				return fmt.Errorf("%w (use -f to overwrite)", err)
			}
			if err != nil {
				return err
			}

			out.Printf("Created config file: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config")
	cmd.Flags().BoolVarP(&stdout, "stdout", "s", false, "Print config to stdout")
	cmd.Flags().BoolVar(&local, "local", false, "Create per-repo .gtrim.toml instead of global config")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Args:  cobra.NoArgs,
		Long: `Show effective configuration.

Inside a repository the local .gtrim.toml is merged over the global config.`,
		Example: `  gtrim config show         # Show config as TOML
  gtrim config show --json  # Output as JSON`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			effective, root := envFromContext(ctx).repoConfig(ctx)

			if jsonOutput {
				return out.JSON(effective)
			}

			if path, err := config.Path(); err == nil {
				out.Printf("# Global config: %s\n", path)
			}
			if root != "" {
				local := filepath.Join(root, config.LocalConfigFileName)
				if _, err := os.Stat(local); err == nil {
					out.Printf("# Local config:  %s\n", local)
				} else {
					out.Printf("# Local config:  (none)\n")
				}
			}
			out.Println()

			text, err := effective.Encode()
			if err != nil {
				return err
			}
			out.Print(text)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
