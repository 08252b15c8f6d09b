package metrics

import (
	"skillpath/internal/domain/feedback"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecalibrationRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillpath_recalibration_runs_total",
			Help: "Recalibration runs by result",
		},
		[]string{"result"},
	)

	RecalibrationFolds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillpath_recalibration_folds_total",
			Help: "Entity folds by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	FeedbackProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skillpath_feedback_processed_total",
			Help: "Feedback records marked processed",
		},
	)

	RecalibrationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "skillpath_recalibration_duration_seconds",
			Help:    "Duration of recalibration runs in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillpath_http_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)
)

// ObserveRecalibration records one finished run.
func ObserveRecalibration(in feedback.Insights, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	RecalibrationRuns.WithLabelValues(result).Inc()

	for _, c := range in.Committed {
		RecalibrationFolds.WithLabelValues(string(c.Kind), "committed").Inc()
	}
	for _, d := range in.Deferred {
		RecalibrationFolds.WithLabelValues(string(d.Kind), "deferred").Inc()
	}
	FeedbackProcessed.Add(float64(in.Processed))

	if !in.StartedAt.IsZero() && !in.FinishedAt.IsZero() {
		RecalibrationDuration.Observe(in.FinishedAt.Sub(in.StartedAt).Seconds())
	}
}
