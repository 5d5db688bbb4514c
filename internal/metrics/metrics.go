// Package metrics defines Prometheus metrics for babelex.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "babelex_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "babelex_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "babelex_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	ItemsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "babelex_extract_items_total",
			Help: "Input items processed by extraction action",
		},
		[]string{"action"},
	)

	RowsWritten = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "babelex_extract_rows_total",
			Help: "Output rows written by extraction action",
		},
		[]string{"action"},
	)

	TaskFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "babelex_extract_failures_total",
			Help: "Failed extraction tasks by action",
		},
		[]string{"action"},
	)

	NeighbourhoodSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "babelex_neighbourhood_size",
			Help:    "Number of neighbours found per walk",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	WalkDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "babelex_walk_duration_seconds",
			Help:    "Neighbourhood walk duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
	)

	OntologyLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "babelex_ontology_lookups_total",
			Help: "Ontology lookups by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		ItemsProcessed, RowsWritten, TaskFailures,
		NeighbourhoodSize, WalkDuration,
		OntologyLookups,
	)
}

// WriteTextfile writes the default registry to path in the node-exporter
// textfile collector format.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}

	return nil
}
