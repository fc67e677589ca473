package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the launcher. Using promauto for automatic
// registration with the default registry; scraped via the status server
// while a run is in flight.
var (
	// RunsTotal counts dispatched runs by outcome.
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trainctl",
			Subsystem: "runs",
			Name:      "total",
			Help:      "Total number of dispatched training runs by outcome",
		},
		[]string{"outcome"},
	)

	// RunDuration tracks wall-clock duration of external runs.
	// Training runs last hours, so buckets go to ~36h.
	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "trainctl",
			Subsystem: "runs",
			Name:      "duration_seconds",
			Help:      "Wall-clock duration of external training runs in seconds",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 18),
		},
		[]string{"outcome"},
	)

	// RunInFlight is 1 while the launcher is blocked on an external run.
	RunInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "trainctl",
			Subsystem: "runs",
			Name:      "in_flight",
			Help:      "Whether a training run is currently in flight",
		},
	)

	// ConfigErrors counts invocations rejected before dispatch.
	ConfigErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "trainctl",
			Subsystem: "config",
			Name:      "errors_total",
			Help:      "Total invocations rejected by configuration validation",
		},
	)

	// FetchedObjects counts data objects retrieved before a run.
	FetchedObjects = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trainctl",
			Subsystem: "fetch",
			Name:      "objects_total",
			Help:      "Total data objects fetched by result",
		},
		[]string{"result"},
	)

	// FetchedBytes counts bytes downloaded from object storage.
	FetchedBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "trainctl",
			Subsystem: "fetch",
			Name:      "bytes_total",
			Help:      "Total bytes downloaded from object storage",
		},
	)
)

// RecordRun records metrics for a completed external run.
func RecordRun(outcome string, durationSeconds float64) {
	RunsTotal.WithLabelValues(outcome).Inc()
	RunDuration.WithLabelValues(outcome).Observe(durationSeconds)
}
