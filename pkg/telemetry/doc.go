// Package telemetry provides observability instrumentation for depctl.
//
// The telemetry package integrates structured logging (zerolog), distributed tracing
// (OpenTelemetry) and metrics (Prometheus) behind a single Telemetry value that the
// command interpreter carries through every command it executes.
//
// # Usage
//
// Initialize telemetry at application startup:
//
//	cfg, err := telemetry.LoadConfig(configPath)
//	if err != nil {
//	    return err
//	}
//
//	tel, err := telemetry.NewTelemetry(cfg)
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(context.Background())
//
//	tel.Logger.SetGlobal()
//	ctx = tel.WithContext(ctx)
//
// # Structured Logging
//
// Logs always go to stderr or a file. Standard output is reserved for the
// command transcript, so a script run stays byte-for-byte comparable:
//
//	logger := tel.Logger.NewSubsystemLogger("interpreter").WithSessionID(id)
//	logger.WithCommand("INSTALL", 12).WithComponent("DNS").Debug("executing")
//
// Log levels: trace, debug, info, warn, error, fatal
//
// # Distributed Tracing
//
// Each interpreted command becomes one span named after its keyword
// ("command.install", "command.remove", ...). Engine notifications are attached
// as span events:
//
//	op := telemetry.StartOperation(tel.WithContext(ctx), telemetry.CommandOperation("INSTALL"),
//	    telemetry.CommandAttributes("INSTALL", "DNS", sessionID)...)
//	telemetry.AddNotificationEvent(op.Span, "installing", "TCPIP", true)
//	op.End(err)
//
// Exporters: otlp (gRPC), stdout (pretty printed to stderr), none.
//
// # Metrics
//
// The following metrics are registered under the configured namespace:
//
//	commands_total{command,outcome}      processed commands (ok, rejected, invalid)
//	command_duration_seconds{command}    command latency
//	notifications_total{kind}            installing, removing, already_installed, not_installed
//	rejections_total{code}               NAME_TOO_LONG, CYCLE_REJECTED, STILL_NEEDED, ...
//	components_installed                 installed components after the last command
//
// When metrics.serve is true the registry is exposed over HTTP:
//
//	metrics:
//	  enabled: true
//	  serve: true
//	  listen_address: ":9090"
//	  path: /metrics
//
// # Configuration
//
// Configuration is YAML. LoadConfig overlays the file on DefaultConfig, so a
// file only needs the keys it changes:
//
//	logging:
//	  level: debug
//	  format: json
//	tracing:
//	  enabled: true
//	  exporter: otlp
//	  endpoint: localhost:4317
package telemetry
