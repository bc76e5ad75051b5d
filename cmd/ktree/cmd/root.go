// Package cmd provides the CLI commands for ktree.
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	ktree "github.com/hupe1980/ktreego"
)

var verbose bool

// NewRootCmd creates the root command for the ktree CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ktree",
		Short: "Build and inspect k-tree vector clusterings",
		Long: `ktree builds a height-balanced clustering tree from a text file of
vectors (one whitespace-separated vector per line) and persists it in a
compact binary format.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newBuildCmd())
	cmd.AddCommand(newVerifyCmd())
	cmd.AddCommand(newDumpCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func buildLogger() *ktree.Logger {
	if verbose {
		return ktree.NewTextLogger(slog.LevelDebug)
	}
	return ktree.NewTextLogger(slog.LevelInfo)
}
