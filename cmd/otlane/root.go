package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "otlane",
	Short: "Otlane - rule-based overtaking-lane access control for vehicle simulations",
	Long: `Otlane is a control side environment that decides per timestep which
simulated vehicles may use the dedicated overtaking lane.

It applies a composable rule set to vehicle telemetry, providing:
  - Declarative YAML rule sets with ALL/ANY boolean composition
  - Hot reload of rule files and cron-scheduled rule profiles
  - A synthetic vehicle feed for standalone runs
  - Prometheus metrics and a SQLite run results journal`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: built-in defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
