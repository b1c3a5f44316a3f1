package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestMetrics(t *testing.T) *Metrics {
	t.Helper()
	m, err := NewMetrics(DefaultConfig().Metrics)
	if err != nil {
		t.Fatalf("Failed to create metrics: %v", err)
	}
	return m
}

func TestMetrics_RecordCommand(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordCommand("INSTALL", OutcomeOK, time.Millisecond)
	m.RecordCommand("INSTALL", OutcomeOK, time.Millisecond)
	m.RecordCommand("REMOVE", OutcomeRejected, time.Millisecond)

	if got := testutil.ToFloat64(m.commandsTotal.WithLabelValues("INSTALL", OutcomeOK)); got != 2 {
		t.Errorf("Expected 2 INSTALL commands, got %v", got)
	}
	if got := testutil.ToFloat64(m.commandsTotal.WithLabelValues("REMOVE", OutcomeRejected)); got != 1 {
		t.Errorf("Expected 1 rejected REMOVE, got %v", got)
	}
	if got := testutil.CollectAndCount(m.commandDuration); got != 2 {
		t.Errorf("Expected 2 duration series, got %d", got)
	}
}

func TestMetrics_NotificationsAndRejections(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordNotification("installing")
	m.RecordNotification("installing")
	m.RecordNotification("removing")
	m.RecordRejection("CYCLE_REJECTED")
	m.RecordRejection("")

	if got := testutil.ToFloat64(m.notificationsTotal.WithLabelValues("installing")); got != 2 {
		t.Errorf("Expected 2 installing notifications, got %v", got)
	}
	if got := testutil.ToFloat64(m.rejectionsTotal.WithLabelValues("CYCLE_REJECTED")); got != 1 {
		t.Errorf("Expected 1 cycle rejection, got %v", got)
	}
	if got := testutil.ToFloat64(m.rejectionsTotal.WithLabelValues("unknown")); got != 1 {
		t.Errorf("Expected empty code to count as unknown, got %v", got)
	}
}

func TestMetrics_InstalledGauge(t *testing.T) {
	m := newTestMetrics(t)

	m.SetInstalledCount(4)
	m.SetInstalledCount(3)

	if got := testutil.ToFloat64(m.componentsInstalled); got != 3 {
		t.Errorf("Expected 3, got %v", got)
	}
}

func TestMetrics_Disabled(t *testing.T) {
	cfg := DefaultConfig().Metrics
	cfg.Enabled = false

	m, err := NewMetrics(cfg)
	if err != nil {
		t.Fatalf("Failed to create metrics: %v", err)
	}

	// must not panic
	m.RecordCommand("LIST", OutcomeOK, time.Millisecond)
	m.RecordNotification("installing")
	m.RecordRejection("STILL_NEEDED")
	m.SetInstalledCount(1)

	if m.Registry() != nil {
		t.Error("Expected no registry for disabled metrics")
	}
	if err := m.StartMetricsServer(context.Background()); err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
}

func TestMetrics_Handler(t *testing.T) {
	m := newTestMetrics(t)
	m.RecordCommand("DEPEND", OutcomeOK, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `depctl_commands_total{command="DEPEND",outcome="ok"} 1`) {
		t.Errorf("Expected commands_total series in output:\n%s", rec.Body.String())
	}
}
