package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/openfroyo/depctl/pkg/command"
	"github.com/openfroyo/depctl/pkg/telemetry"
)

func newRunCommand() *cobra.Command {
	var (
		jsonOutput   bool
		manifestPath string
		watch        bool
	)

	cmd := &cobra.Command{
		Use:   "run [script]",
		Short: "Run a command script",
		Long: `Run DEPEND, INSTALL, REMOVE, LIST and END commands from a file, or from stdin
when no file is given, and print the transcript.

With --watch the script is re-run against a fresh state every time it (or the
manifest) changes, until interrupted.`,
		Example: `  # Run a script file
  depctl run commands.txt

  # Read commands from stdin
  printf 'INSTALL A\nLIST\nEND\n' | depctl run

  # Start from a manifest and print JSON records
  depctl run --manifest components.yaml --json commands.txt

  # Re-run on every save
  depctl run --watch commands.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script := ""
			if len(args) > 0 {
				script = args[0]
			}
			if watch && (script == "" || script == "-") {
				return fmt.Errorf("--watch requires a script file")
			}

			ctx := cmd.Context()
			tel, err := setupTelemetry(ctx)
			if err != nil {
				return err
			}
			defer shutdownTelemetry(tel)

			format := command.FormatText
			if jsonOutput {
				format = command.FormatJSON
			}

			runOnce := func() error {
				eng, err := newEngine(manifestPath)
				if err != nil {
					return err
				}
				return replay(ctx, eng, script, cmd.InOrStdin(), cmd.OutOrStdout(),
					command.WithFormat(format),
					command.WithTelemetry(tel),
				)
			}

			if err := runOnce(); err != nil {
				if !watch {
					return err
				}
				tel.Logger.WithError(err).Error("Run failed")
			}
			if !watch {
				return nil
			}

			return watchAndRerun(ctx, tel, script, manifestPath, cmd.ErrOrStderr(), runOnce)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print one JSON record per command")
	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "YAML manifest of components to declare first")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-run the script whenever it changes")

	return cmd
}

// watchAndRerun blocks until ctx is done, calling runOnce after every change to the
// script or manifest.
func watchAndRerun(ctx context.Context, tel *telemetry.Telemetry, script, manifestPath string, stderr io.Writer, runOnce func() error) error {
	paths := []string{script}
	if manifestPath != "" {
		paths = append(paths, manifestPath)
	}

	logger := tel.Logger.WithField("script", script)
	watcher := command.NewWatcher(tel.Logger.Zerolog())
	return watcher.Watch(ctx, paths, func(path string) error {
		fmt.Fprintf(stderr, "--- %s changed, re-running %s\n", path, script)
		logger.WithField("changed", path).Info("Re-running script")

		err := runOnce()
		// Each re-run is its own batch of spans
		if flushErr := tel.Flush(ctx); flushErr != nil {
			logger.WithError(flushErr).Warn("Failed to flush telemetry")
		}
		return err
	})
}
