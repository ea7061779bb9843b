// Package telemetry exposes the service's Prometheus collectors.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var Metrics = struct {
	ExecutionsTotal   *prometheus.CounterVec
	ExecutionDuration *prometheus.HistogramVec
	ExecutionsActive  prometheus.Gauge
	FileRequestsTotal *prometheus.CounterVec
}{
	ExecutionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scriptbox",
		Name:      "executions_total",
		Help:      "Total script executions by kind and outcome.",
	}, []string{"kind", "outcome"}),

	ExecutionDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "scriptbox",
		Name:      "execution_duration_seconds",
		Help:      "Script execution wall time in seconds.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"kind"}),

	ExecutionsActive: promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "scriptbox",
		Name:      "executions_active",
		Help:      "Number of script executions currently running.",
	}),

	FileRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scriptbox",
		Name:      "file_requests_total",
		Help:      "Total artifact retrieval requests by status.",
	}, []string{"status"}),
}

// ExecutionOutcome maps a finished run to a metric label value.
func ExecutionOutcome(timedOut bool, exitCode int) string {
	switch {
	case timedOut:
		return "timeout"
	case exitCode == 0:
		return "ok"
	default:
		return "nonzero_exit"
	}
}
