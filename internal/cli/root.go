package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "loadfire --config <file>",
	Short:   "Fire a fixed number of concurrent HTTP requests at one endpoint",
	Version: version,
	Long: `Loadfire sends a fixed number of HTTP requests to a single endpoint, all at once,
and reports how many succeeded and how long they took.

Request bodies may contain ${column} placeholders that are filled from the rows
of a CSV or Excel data file, one row per request in round-robin order.

  loadfire --config loadtest.yaml`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runLoadTest,
}

// Execute runs the root command. Errors are printed to stderr and returned so
// main can set the exit code.
func Execute() error {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func init() {
	RootCmd.Flags().StringP("config", "c", "", "Load test configuration file (YAML or JSON)")
	RootCmd.Flags().BoolP("quiet", "q", false, "Disable live progress output, show only final summary")
	RootCmd.Flags().BoolP("verbose", "v", false, "Show failure breakdown in the summary")
	RootCmd.Flags().Bool("no-color", false, "Disable colored output")
	RootCmd.Flags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	RootCmd.Flags().Bool("log-json", false, "Write logs as JSON")

	_ = RootCmd.MarkFlagRequired("config")
}
