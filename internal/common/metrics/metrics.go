// internal/common/metrics/metrics.go
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CollapseStatus maps a terminal status onto a bounded metric label. ERR:
// statuses carry free-form diagnostics and would explode label cardinality,
// so they all collapse to "ERR".
func CollapseStatus(status string) string {
	if strings.HasPrefix(status, "ERR:") {
		return "ERR"
	}
	return status
}

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	// ScoringRuns counts completed scoring runs per terminal status. ERR:
	// statuses are collapsed to a single "ERR" label value to keep
	// cardinality bounded.
	ScoringRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ats_scoring_runs_total",
			Help: "Total number of resume scoring runs by terminal status",
		},
		[]string{"status"},
	)

	ScoringDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "ats_scoring_duration_seconds",
			Help: "Duration of resume scoring runs in seconds",
		},
		[]string{"status"},
	)

	ExtractionBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ats_extraction_input_bytes",
			Help:    "Size of resume binaries fed to the extractor",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		},
	)
)
