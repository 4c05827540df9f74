// Package cli wires the vortexgames command tree.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Execute builds the command tree and runs it. With no subcommand the
// server starts.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	serve := newServeCmd()

	cmd := &cobra.Command{
		Use:           "vortexgames",
		Short:         "VortexGames catalog API and admin console",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}

	cmd.AddCommand(serve)
	cmd.AddCommand(newUserCmd())
	return cmd
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}
