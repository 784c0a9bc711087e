// Package metrics exposes prometheus collectors for the authorization and
// hierarchy subsystems.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Authorization metrics
var (
	// AuthzDecisions tracks authorization gate outcomes.
	AuthzDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_decisions_total",
			Help: "Total number of authorization gate decisions by outcome",
		},
		[]string{"gate", "outcome"},
	)
)

// Tree build metrics
var (
	// TreeBuilds tracks tree construction by kind and result.
	TreeBuilds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tree_builds_total",
			Help: "Total number of tree builds by kind and result",
		},
		[]string{"kind", "result"},
	)

	// TreeBuildDuration tracks tree construction latency.
	TreeBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tree_build_duration_seconds",
			Help:    "Tree build duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"kind"},
	)

	// ReportingCyclesDetected counts traversals aborted on cyclic org data.
	ReportingCyclesDetected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reporting_cycles_detected_total",
			Help: "Total number of reads aborted due to a reports-to cycle",
		},
	)
)

// HTTP metrics
var (
	// HTTPRequestsTotal tracks HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration tracks request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
