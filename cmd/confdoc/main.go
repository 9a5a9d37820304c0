// Confdoc inspects, queries and converts configuration documents.
//
// Documents are read from YAML, XML or SDF files into a single tree model
// of groups, arrays and typed values. The format is picked from the file
// extension unless --format is given.
//
// Usage:
//
//	confdoc [command] [flags]
//
// See 'confdoc --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/confdoc/internal/logging"
	"github.com/muurk/confdoc/internal/ui"
	"github.com/muurk/confdoc/internal/version"
)

// Global flags
var (
	inputFormat string
	logLevel    string
	noColor     bool
)

func main() {
	defer logging.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "confdoc",
	Short: "Configuration document inspector",
	Long: `A utility for inspecting, querying and converting configuration documents.

YAML, XML and SDF files are loaded into one tree model of groups, arrays
and typed values, so the same commands work on every format.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Initialize(logLevel); err != nil {
			return err
		}
		ui.SetColorEnabled(!noColor && ui.IsTerminal())
		return nil
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&inputFormat, "format", "", "Input format (yaml, xml, sdf); default from file extension")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); default from "+logging.LogLevelEnvVar)
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		info := version.Info()
		fmt.Fprintf(cmd.OutOrStdout(), "confdoc %s (commit: %s, %s, %s)\n", info.Version, info.Commit, info.GoVersion, info.Platform)
	},
}
