package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raphi011/gtrim/internal/config"
	"github.com/raphi011/gtrim/internal/git"
	"github.com/raphi011/gtrim/internal/log"
	"github.com/raphi011/gtrim/internal/output"
)

var (
	// Global flags
	verbose   bool
	quiet     bool
	chdir     string
	fileStore bool

	// Loaded once in Execute
	cfg *config.Config
)

// Command group IDs for organizing help output
const (
	GroupQuery  = "query"
	GroupConfig = "config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gtrim",
	Short: "Inspect the git configuration that drives branch trimming",
	Long: `gtrim resolves git configuration the way git itself layers it.

Every value is reported together with where it came from: a command-line
flag, a git config key, or a built-in default. Remotes follow git's own
fallback chains (branch.<name>.pushRemote, remote.pushDefault,
branch.<name>.remote, "origin").`,
	SilenceUsage:               true,
	SilenceErrors:              true,
	SuggestionsMinimumDistance: 2,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip setup for completion and help commands
		if cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "help" {
			return nil
		}

		// Flags are parsed now, so the logger can honour them.
		ctx := log.WithLogger(cmd.Context(), log.New(os.Stderr, verbose, quiet))

		dir := chdir
		if dir == "" {
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
			dir = wd
		}

		e := &env{Config: cfg, Dir: dir, FileStore: fileStore}
		if e.backend() == config.BackendGit {
			if err := git.CheckGit(); err != nil {
				return err
			}
		}
		cmd.SetContext(withEnv(ctx, e))
		return nil
	},
	// Run is not set - shows help when no subcommand provided
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	loadedCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	cfg = &loadedCfg

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// stdout carries the values, stderr the diagnostics
	ctx = output.WithPrinterValue(ctx, output.NewTerminal(os.Stdout, os.Environ()))

	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Run 'gtrim -h' for help")
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show git commands being executed")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	rootCmd.PersistentFlags().StringVarP(&chdir, "chdir", "C", "", "Run as if gtrim was started in `dir`")
	rootCmd.PersistentFlags().BoolVar(&fileStore, "file-store", false, "Read config files directly instead of asking git")

	// Version flag
	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupQuery, Title: "Query Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	// Query commands
	rootCmd.AddCommand(newGetCmd())
	rootCmd.AddCommand(newRemoteCmd())
	rootCmd.AddCommand(newPushRemoteCmd())
	rootCmd.AddCommand(newSettingsCmd())

	// Config commands
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCompletionCmd())
}
