// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	opts := &mineOptions{}

	rootCmd := &cobra.Command{
		Use:   "issue-tenure",
		Short: "Mines GitHub issues and reports reporter tenure per project.",
		Long: `issue-tenure reads a table of (project, namespace) pairs, fetches every issue
of each project from GitHub and writes one row per kept issue, together with
the reporter's tenure: the number of days since their first issue in the project.

The GitHub token is read from the GITHUB_TOKEN environment variable or the
config file.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMine(cmd, opts)
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log progress to stderr")
	addMineFlags(rootCmd, opts)

	rootCmd.AddCommand(newStatsCmd())
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
