package telemetry_test

import (
	"context"
	"fmt"
	"time"

	"github.com/openfroyo/depctl/pkg/telemetry"
)

// Example_basicSetup demonstrates basic telemetry setup.
func Example_basicSetup() {
	cfg := telemetry.DefaultConfig()
	cfg.ServiceVersion = "1.0.0"

	tel, err := telemetry.NewTelemetry(cfg)
	if err != nil {
		panic(err)
	}
	defer tel.Shutdown(context.Background())

	ctx, cancel := context.WithCancel(tel.WithContext(context.Background()))
	defer cancel()

	// No-op unless metrics.serve is set
	if err := tel.StartMetricsServer(ctx); err != nil {
		panic(err)
	}

	logger := telemetry.FromContext(ctx)
	logger.Info("session started")

	// Output varies, no output specified
}

// Example_commandSpan demonstrates tracing a single command.
func Example_commandSpan() {
	tel := telemetry.NewNoopTelemetry()
	defer tel.Shutdown(context.Background())

	ctx := tel.WithContext(context.Background())

	op := telemetry.StartOperation(ctx, telemetry.CommandOperation("INSTALL"),
		telemetry.CommandAttributes("INSTALL", "DNS", "session-1")...)
	telemetry.AddNotificationEvent(op.Span, "installing", "TCPIP", true)
	telemetry.AddNotificationEvent(op.Span, "installing", "DNS", false)
	op.End(nil)

	fmt.Println(telemetry.CommandOperation("INSTALL"))

	// Output:
	// command.install
}

// Example_metrics demonstrates recording command metrics.
func Example_metrics() {
	cfg := telemetry.DefaultConfig()
	metrics, err := telemetry.NewMetrics(cfg.Metrics)
	if err != nil {
		panic(err)
	}

	timer := telemetry.NewTimer()
	metrics.RecordNotification("installing")
	metrics.SetInstalledCount(1)
	metrics.RecordCommand("INSTALL", telemetry.OutcomeOK, timer.Duration())

	metrics.RecordRejection("STILL_NEEDED")
	metrics.RecordCommand("REMOVE", telemetry.OutcomeRejected, 50*time.Microsecond)

	families, _ := metrics.Registry().Gather()
	fmt.Println(len(families))

	// Output:
	// 5
}
