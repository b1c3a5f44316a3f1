package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newGraphCommand() *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "graph [script]",
		Short: "Print the dependency graph in DOT format",
		Long: `Apply a manifest and/or a command script, then print the resulting dependency
graph in Graphviz DOT format. Components are coloured by installation status.

The script transcript is discarded.`,
		Example: `  # Render a manifest
  depctl graph --manifest components.yaml | dot -Tsvg > deps.svg

  # Render the state left by a script
  depctl graph commands.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tel, err := setupTelemetry(ctx)
			if err != nil {
				return err
			}
			defer shutdownTelemetry(tel)

			eng, err := newEngine(manifestPath)
			if err != nil {
				return err
			}

			if len(args) > 0 {
				if err := replay(ctx, eng, args[0], cmd.InOrStdin(), io.Discard); err != nil {
					return err
				}
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), eng.ToDOT())
			return err
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "YAML manifest of components to declare first")

	return cmd
}
