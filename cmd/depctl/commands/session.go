package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/openfroyo/depctl/pkg/command"
	"github.com/openfroyo/depctl/pkg/engine"
	"github.com/openfroyo/depctl/pkg/manifest"
	"github.com/openfroyo/depctl/pkg/telemetry"
)

// setupTelemetry loads the telemetry config, installs the global logger and starts
// the metrics server when the config asks for one. The caller must call Shutdown.
func setupTelemetry(ctx context.Context) (*telemetry.Telemetry, error) {
	cfg, err := telemetry.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if verbose {
		cfg.Logging.Level = "debug"
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	tel, err := telemetry.NewTelemetry(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	tel.Logger.SetGlobal()

	if err := tel.StartMetricsServer(ctx); err != nil {
		return nil, fmt.Errorf("failed to start metrics server: %w", err)
	}

	return tel, nil
}

// shutdownTelemetry flushes pending spans, logging rather than failing.
func shutdownTelemetry(tel *telemetry.Telemetry) {
	if err := tel.Shutdown(context.Background()); err != nil {
		tel.Logger.WithError(err).Warn("Failed to shut down telemetry")
	}
}

// newEngine creates an engine, pre-declaring the components of manifestPath if set.
func newEngine(manifestPath string) (*engine.Engine, error) {
	eng := engine.New()
	if manifestPath == "" {
		return eng, nil
	}

	m, err := manifest.NewLoader().LoadFromFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}
	if err := m.Apply(eng); err != nil {
		return nil, fmt.Errorf("failed to apply manifest %s: %w", manifestPath, err)
	}

	log.Debug().Str("path", manifestPath).Int("components", len(m.Components)).Msg("Manifest applied")
	return eng, nil
}

// openScript opens path for reading, or returns stdin when path is empty or "-".
func openScript(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(stdin), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open script: %w", err)
	}
	return f, nil
}

// replay runs the script at path through a new interpreter driving eng.
func replay(ctx context.Context, eng *engine.Engine, path string, stdin io.Reader, out io.Writer, opts ...command.Option) error {
	script, err := openScript(path, stdin)
	if err != nil {
		return err
	}
	defer script.Close()

	interp := command.NewInterpreter(eng, out, opts...)
	if err := interp.Run(ctx, script); err != nil {
		return fmt.Errorf("failed to run script: %w", err)
	}
	return nil
}
