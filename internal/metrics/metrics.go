// Package metrics declares the Prometheus collectors for the API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	// HTTPRequestsTotal tracks requests by method, route and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)
)

// Authorization metrics
var (
	// PermissionDenialsTotal tracks denied permission checks by key.
	PermissionDenialsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "permission_denials_total",
			Help: "Total number of denied permission checks",
		},
		[]string{"key"},
	)

	// LoginsTotal tracks login attempts by outcome.
	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logins_total",
			Help: "Total number of login attempts by outcome",
		},
		[]string{"outcome"},
	)
)

// Storage metrics
var (
	// FileUploadsTotal tracks file uploads by category.
	FileUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "file_uploads_total",
			Help: "Total number of file uploads by category",
		},
		[]string{"category"},
	)

	// FileDeletesTotal tracks storage delete attempts by outcome. Cascade
	// deletes record one increment per referenced file.
	FileDeletesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "file_deletes_total",
			Help: "Total number of storage delete attempts by outcome",
		},
		[]string{"outcome"},
	)

	// CascadeDeletesTotal tracks cascade deletions by resource and outcome.
	CascadeDeletesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cascade_deletes_total",
			Help: "Total number of cascade deletions by resource and outcome",
		},
		[]string{"resource", "outcome"},
	)
)
