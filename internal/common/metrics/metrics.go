// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

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
			Name:    "worker_job_duration_seconds",
			Help:    "Duration of job processing in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"task_type"},
	)

	DiagnosticsScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagnostic_scored_total",
			Help: "Diagnostics scored, by maturity tier and whether the gating cap applied",
		},
		[]string{"nivel", "capped"},
	)

	DiagnosticTotalScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "diagnostic_total_score",
			Help:    "Distribution of diagnostic total scores",
			Buckets: []float64{24, 49, 74, 100},
		},
	)

	CRMConversions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_conversions_total",
			Help: "CRM conversion attempts by outcome",
		},
		[]string{"outcome"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagnostic_notifications_total",
			Help: "Summary notifications by channel and status",
		},
		[]string{"channel", "status"},
	)
)

// ObserveJob records completion or failure and the elapsed time for one job.
func ObserveJob(taskType string, start time.Time, errorCode string) {
	WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
	if errorCode != "" {
		WorkerJobsFailed.WithLabelValues(taskType, errorCode).Inc()
		return
	}
	WorkerJobsCompleted.WithLabelValues(taskType).Inc()
}
