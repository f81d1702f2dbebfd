// Package metrics provides Prometheus metrics collection for the dashboard gateway.
package metrics

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Global metrics - used by the application
	// Using atomic.Pointer for lock-free initialization checks on hot path metrics.
	requestsTotal    atomic.Pointer[prometheus.CounterVec]
	requestDuration  atomic.Pointer[prometheus.HistogramVec]
	guardDenials     atomic.Pointer[prometheus.CounterVec]
	kpiPollsTotal    atomic.Pointer[prometheus.CounterVec]
	remoteVerifTotal atomic.Pointer[prometheus.CounterVec]
)

// Init initializes all Prometheus metrics and registers them with the provided registry.
// This should be called once at application startup.
func Init(reg prometheus.Registerer) error {
	requestsTotalVec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "solar",
			Subsystem: "web",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled by the gateway",
		},
		[]string{"method", "path", "status"},
	)
	if err := reg.Register(requestsTotalVec); err != nil {
		return fmt.Errorf("failed to register requestsTotal: %w", err)
	}

	requestDurationVec := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "solar",
			Subsystem: "web",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	if err := reg.Register(requestDurationVec); err != nil {
		return fmt.Errorf("failed to register requestDuration: %w", err)
	}

	// Guard denials: every redirect-to-login produced by the route guard,
	// labelled by reason ("no_session", "role_mismatch", "dashboard_mismatch",
	// "unknown_dashboard", "verify_expired", "verify_denied", "verify_failed")
	guardDenialsVec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "solar",
			Subsystem: "web",
			Name:      "guard_denials_total",
			Help:      "Total number of protected page loads denied by the route guard",
		},
		[]string{"reason"},
	)
	if err := reg.Register(guardDenialsVec); err != nil {
		return fmt.Errorf("failed to register guardDenials: %w", err)
	}

	kpiPollsTotalVec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "solar",
			Subsystem: "web",
			Name:      "kpi_polls_total",
			Help:      "Total number of KPI poll attempts against the backend",
		},
		[]string{"station", "outcome"},
	)
	if err := reg.Register(kpiPollsTotalVec); err != nil {
		return fmt.Errorf("failed to register kpiPollsTotal: %w", err)
	}

	remoteVerifTotalVec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "solar",
			Subsystem: "web",
			Name:      "remote_verifications_total",
			Help:      "Total number of backend admin-privilege verifications",
		},
		[]string{"outcome"},
	)
	if err := reg.Register(remoteVerifTotalVec); err != nil {
		return fmt.Errorf("failed to register remoteVerifTotal: %w", err)
	}

	// Info gauge: static metric with constant label values for build info
	infoGaugeVec := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "solar",
			Subsystem: "web",
			Name:      "info",
			Help:      "Gateway version and build information",
		},
		[]string{"version"},
	)
	infoGaugeInstance := infoGaugeVec.WithLabelValues("1.0.0")
	if err := reg.Register(infoGaugeVec); err != nil {
		return fmt.Errorf("failed to register infoGauge: %w", err)
	}
	infoGaugeInstance.Set(1)

	// Store metrics in atomics for lock-free access in record functions
	requestsTotal.Store(requestsTotalVec)
	requestDuration.Store(requestDurationVec)
	guardDenials.Store(guardDenialsVec)
	kpiPollsTotal.Store(kpiPollsTotalVec)
	remoteVerifTotal.Store(remoteVerifTotalVec)

	return nil
}

// RecordRequest increments the requests counter for the given method, path, and status code.
// The path should be normalized (e.g., "/dashboard/:key" instead of "/dashboard/B1").
func RecordRequest(method, path, statusCode string) {
	if counter := requestsTotal.Load(); counter != nil {
		counter.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordRequestDuration records the latency for a request.
// Duration should be in seconds.
func RecordRequestDuration(method, path, statusCode string, durationSeconds float64) {
	if histogram := requestDuration.Load(); histogram != nil {
		histogram.WithLabelValues(method, path, statusCode).Observe(durationSeconds)
	}
}

// RecordGuardDenial increments the guard denials counter for the given reason.
func RecordGuardDenial(reason string) {
	if counter := guardDenials.Load(); counter != nil {
		counter.WithLabelValues(reason).Inc()
	}
}

// RecordKPIPoll increments the KPI poll counter.
// Outcome is "ok" or "error".
func RecordKPIPoll(station, outcome string) {
	if counter := kpiPollsTotal.Load(); counter != nil {
		counter.WithLabelValues(station, outcome).Inc()
	}
}

// RecordRemoteVerification increments the remote verification counter.
// Outcome is "ok", "expired", "denied" or "failed".
func RecordRemoteVerification(outcome string) {
	if counter := remoteVerifTotal.Load(); counter != nil {
		counter.WithLabelValues(outcome).Inc()
	}
}

// Handler returns an HTTP handler for Prometheus metrics in text format.
// This handler should be registered at /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// GetMetricsText returns the Prometheus text-format output from a registry.
// This is useful for testing and debugging.
func GetMetricsText(reg prometheus.Gatherer) (string, error) {
	handler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	body, err := io.ReadAll(w.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read metrics output: %w", err)
	}

	return string(body), nil
}
