package commands

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/openfroyo/depctl/pkg/command"
)

func newStateCommand() *cobra.Command {
	var (
		manifestPath string
		jsonOutput   bool
		color        bool
	)

	cmd := &cobra.Command{
		Use:   "state [script]",
		Short: "Print the status of every known component",
		Long: `Apply a manifest and/or a command script, then print every component seen so
far with its status and declared dependencies.

Statuses: installed, installed_as_dependency, uninstalled, not_installed.
The script transcript is discarded.`,
		Example: `  # Show the state left by a script
  depctl state commands.txt

  # As JSON
  depctl state --json commands.txt`,
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

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(eng.Snapshot())
			}

			command.WriteStateTable(cmd.OutOrStdout(), eng.Snapshot(), command.TableOptions{Color: color})
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "YAML manifest of components to declare first")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	cmd.Flags().BoolVar(&color, "color", false, "colour the status column")

	return cmd
}
