package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/openfroyo/depctl/pkg/command"
	"github.com/openfroyo/depctl/pkg/engine"
)

const shellPrompt = "depctl> "

func newShellCommand() *cobra.Command {
	var (
		manifestPath string
		historyFile  string
	)

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive command shell",
		Long: `Start an interactive shell that reads one command per line, with history and
tab completion of keywords and known component names.

END, Ctrl+D or an interrupt leave the shell. The state is not kept between sessions.`,
		Example: `  # Start with an empty universe
  depctl shell

  # Start with components pre-declared from a manifest
  depctl shell --manifest components.yaml`,
		Args: cobra.NoArgs,
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

			if historyFile == "" {
				historyFile = defaultHistoryFile()
			}

			rl, err := readline.NewEx(&readline.Config{
				Prompt:            shellPrompt,
				HistoryFile:       historyFile,
				AutoComplete:      newCompleter(eng),
				InterruptPrompt:   "^C",
				EOFPrompt:         "END",
				HistorySearchFold: true,
			})
			if err != nil {
				return fmt.Errorf("failed to create readline instance: %w", err)
			}
			defer rl.Close()

			interp := command.NewInterpreter(eng, cmd.OutOrStdout(), command.WithTelemetry(tel))
			log.Debug().Str("session_id", interp.SessionID()).Str("history", historyFile).Msg("Shell started")

			for {
				if ctx.Err() != nil {
					return nil
				}

				line, err := rl.Readline()
				if errors.Is(err, readline.ErrInterrupt) {
					if len(line) == 0 {
						return nil
					}
					continue
				} else if errors.Is(err, io.EOF) {
					return nil
				} else if err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}

				done, err := interp.Execute(ctx, line)
				if err != nil {
					return err
				}
				if done {
					return nil
				}
			}
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "YAML manifest of components to declare first")
	cmd.Flags().StringVar(&historyFile, "history", "", "history file path (default: user cache dir)")

	return cmd
}

// newCompleter completes keywords and, after them, the components the engine knows about.
func newCompleter(eng *engine.Engine) *readline.PrefixCompleter {
	components := readline.PcItemDynamic(func(string) []string {
		return componentNames(eng)
	})

	return readline.NewPrefixCompleter(
		readline.PcItem(string(command.KeywordDepend), components),
		readline.PcItem(string(command.KeywordInstall), components),
		readline.PcItem(string(command.KeywordRemove), components),
		readline.PcItem(string(command.KeywordList)),
		readline.PcItem(string(command.KeywordEnd)),
	)
}

// componentNames returns every component the engine has seen.
func componentNames(eng *engine.Engine) []string {
	states := eng.Snapshot()
	names := make([]string, 0, len(states))
	for _, state := range states {
		names = append(names, state.Name)
	}
	return names
}

// defaultHistoryFile returns a history path in the user cache dir, creating the
// directory if needed, or in the temp dir when that fails.
func defaultHistoryFile() string {
	dir, err := os.UserCacheDir()
	if err == nil {
		dir = filepath.Join(dir, "depctl")
		if err = os.MkdirAll(dir, 0o755); err == nil {
			return filepath.Join(dir, "history")
		}
	}

	log.Debug().Err(err).Msg("Falling back to temp dir for shell history")
	return filepath.Join(os.TempDir(), ".depctl_history")
}
