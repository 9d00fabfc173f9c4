// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "neuron"

var (
	// StatusReports counts reports sent to the status sink by context and outcome.
	StatusReports = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_reports_total",
		Help:      "commit statuses sent to the status sink",
	}, []string{"context", "outcome"})

	// JobsEnqueued counts check run jobs pushed to the work queue.
	JobsEnqueued = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_enqueued_total",
		Help:      "check run jobs pushed to the work queue",
	}, []string{"outcome"})

	// CheckSetTransitions counts check set status changes by target status.
	CheckSetTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "check_set_transitions_total",
		Help:      "check set status transitions",
	}, []string{"status"})

	// CheckPatches counts worker status patches applied by check status.
	CheckPatches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "check_patches_total",
		Help:      "worker status patches applied to checks",
	}, []string{"status"})

	// CoverageIngestions counts coverage ingestions by result.
	CoverageIngestions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "coverage_ingestions_total",
		Help:      "coverage reports ingested",
	}, []string{"result"})

	// CoverageIngestDuration measures a full coverage ingestion.
	CoverageIngestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "coverage_ingest_duration_seconds",
		Help:      "time spent decoding and storing a coverage report",
		Buckets:   prometheus.DefBuckets,
	})

	// LockContention counts lock acquisitions refused because another owner held the lease.
	LockContention = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lock_contention_total",
		Help:      "lock acquisitions refused with a busy lease",
	})

	// LeasesSwept counts expired leases removed by the sweeper.
	LeasesSwept = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "leases_swept_total",
		Help:      "expired leases removed by the sweeper",
	})
)

func init() {
	prometheus.MustRegister(
		StatusReports,
		JobsEnqueued,
		CheckSetTransitions,
		CheckPatches,
		CoverageIngestions,
		CoverageIngestDuration,
		LockContention,
		LeasesSwept,
	)
}

// Handler returns the http handler serving the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
