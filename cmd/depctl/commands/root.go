package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "depctl",
		Short: "depctl - component dependency manager",
		Long: `depctl tracks software components, the dependencies between them and which
of them are installed.

It reads a line-oriented command language:

  DEPEND <component> <dependency>...   declare dependencies (cycles are rejected)
  INSTALL <component>                  install a component and what it needs
  REMOVE <component>                   remove a component and unneeded dependencies
  LIST                                 list installed components
  END                                  stop processing

Component names are case-sensitive and at most 10 characters long.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "telemetry config file path (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newShellCommand())
	rootCmd.AddCommand(newGraphCommand())
	rootCmd.AddCommand(newStateCommand())

	return rootCmd
}
