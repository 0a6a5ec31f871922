// Gray Logic Sim - smart home device simulator
//
// This is the main entry point for the simulator. It executes command
// scripts against simulated plugs, lamps and cameras, writes the textual
// log, and optionally mirrors every transition to SQLite, MQTT and
// InfluxDB.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	_ "github.com/nerrad567/gray-logic-sim/migrations"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	// Cancels on Ctrl+C or SIGTERM; the interpreter checks it between commands.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. The config path flag is shared by
// every subcommand and defaults to GRAYLOGIC_CONFIG.
func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "graylogic-sim",
		Short:         "Simulate smart home devices from a command script",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("GRAYLOGIC_CONFIG"),
		"path to the YAML configuration file (defaults only when empty)")

	root.AddCommand(
		newRunCmd(&configPath),
		newHistoryCmd(&configPath),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "graylogic-sim %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
