package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "faultbench",
		Short: "Fault injection resilience harness for ranking programs",
		Long: `faultbench measures how resilient a ranking program is to injected
transient memory faults.

It runs the target once per seed to capture a baseline ranking, then re-runs
it under a fault-injection supervisor across a grid of error classes and
error counts, comparing each corrupted ranking against the baseline.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for scripted consumption)")

	// Add subcommands
	rootCmd.AddCommand(
		newVersionCmd(),
		newSweepCmd(),
		newReportCmd(),
	)

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{"version": version})
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "faultbench version %s\n", version)
			}
		},
	}
}
