package telemetry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Command outcomes used as the "outcome" label of commands_total.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeInvalid  = "invalid"
)

// Metrics provides Prometheus metrics for depctl.
type Metrics struct {
	config MetricsConfig

	// Command metrics
	commandsTotal   *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec

	// Engine outcome metrics
	notificationsTotal *prometheus.CounterVec
	rejectionsTotal    *prometheus.CounterVec

	// State metrics
	componentsInstalled prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector with the given configuration.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		// Return a no-op metrics instance
		return &Metrics{config: cfg}, nil
	}

	namespace := cfg.Namespace
	buckets := cfg.DefaultHistogramBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "commands_total",
				Help:      "Total number of commands processed",
			},
			[]string{"command", "outcome"},
		),
		commandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "command_duration_seconds",
				Help:      "Duration of command execution in seconds",
				Buckets:   buckets,
			},
			[]string{"command"},
		),

		notificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_total",
				Help:      "Total number of notifications emitted by the engine",
			},
			[]string{"kind"},
		),
		rejectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rejections_total",
				Help:      "Total number of rejected commands by error code",
			},
			[]string{"code"},
		),

		componentsInstalled: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "components_installed",
				Help:      "Current number of installed components",
			},
		),
	}

	registry.MustRegister(
		m.commandsTotal,
		m.commandDuration,
		m.notificationsTotal,
		m.rejectionsTotal,
		m.componentsInstalled,
	)

	return m, nil
}

// Registry returns the underlying registry, or nil when metrics are disabled.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordCommand records a processed command with its outcome and duration.
func (m *Metrics) RecordCommand(command, outcome string, duration time.Duration) {
	if m.commandsTotal == nil {
		return
	}
	m.commandsTotal.WithLabelValues(command, outcome).Inc()
	m.commandDuration.WithLabelValues(command).Observe(duration.Seconds())
}

// RecordNotification counts a single engine notification.
func (m *Metrics) RecordNotification(kind string) {
	if m.notificationsTotal == nil {
		return
	}
	m.notificationsTotal.WithLabelValues(kind).Inc()
}

// RecordRejection counts a rejected command by its error code.
func (m *Metrics) RecordRejection(code string) {
	if m.rejectionsTotal == nil {
		return
	}
	if code == "" {
		code = "unknown"
	}
	m.rejectionsTotal.WithLabelValues(code).Inc()
}

// SetInstalledCount sets the current number of installed components.
func (m *Metrics) SetInstalledCount(count int) {
	if m.componentsInstalled == nil {
		return
	}
	m.componentsInstalled.Set(float64(count))
}

// Timer provides a convenient way to time operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer was created.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// StartMetricsServer starts an HTTP server to expose metrics when serving is
// enabled. The server stops when ctx is cancelled.
func (m *Metrics) StartMetricsServer(ctx context.Context) error {
	if !m.config.Enabled || !m.config.Serve {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(m.config.Path, m.Handler())

	server := &http.Server{
		Addr:              m.config.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			// Log error but don't fail the application
			log.Error().Err(err).Str("address", m.config.ListenAddress).Msg("metrics server error")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info().Str("address", m.config.ListenAddress).Str("path", m.config.Path).Msg("metrics server started")
	return nil
}
