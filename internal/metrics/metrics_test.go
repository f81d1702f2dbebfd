package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

// TestInitSucceeds verifies that Init() registers metrics without error
func TestInitSucceeds(t *testing.T) {
	// Don't run in parallel since we're testing global state
	reg := prometheus.NewRegistry()

	err := Init(reg)
	if err != nil {
		t.Fatalf("Init() failed: %v", err)
	}

	// Record some data to make metrics appear in Gather output
	RecordRequest("GET", "/dashboard/:key", "200")
	RecordRequestDuration("GET", "/dashboard/:key", "200", 0.05)
	RecordGuardDenial("no_session")
	RecordKPIPoll("seafdec", "ok")
	RecordRemoteVerification("denied")

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}

	metricNames := make(map[string]bool)
	for _, mf := range metrics {
		metricNames[mf.GetName()] = true
	}

	expectedMetrics := []string{
		"solar_web_requests_total",
		"solar_web_request_duration_seconds",
		"solar_web_guard_denials_total",
		"solar_web_kpi_polls_total",
		"solar_web_remote_verifications_total",
		"solar_web_info",
	}

	for _, expectedMetric := range expectedMetrics {
		if !metricNames[expectedMetric] {
			t.Errorf("expected metric %q not found in registry", expectedMetric)
		}
	}
}

// TestInitDuplicateRegistration verifies Init fails cleanly on a registry that
// already holds the collectors
func TestInitDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Init(reg); err != nil {
		t.Fatalf("first Init() failed: %v", err)
	}
	if err := Init(reg); err == nil {
		t.Error("second Init() on same registry should fail")
	}
}

// TestGetMetricsText verifies text-format output contains recorded series
func TestGetMetricsText(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Init(reg); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}

	RecordGuardDenial("dashboard_mismatch")

	text, err := GetMetricsText(reg)
	if err != nil {
		t.Fatalf("GetMetricsText() failed: %v", err)
	}

	if !strings.Contains(text, "solar_web_guard_denials_total") {
		t.Errorf("metrics text missing guard denial series:\n%s", text)
	}
}
