package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds everything semla exports. One-shot commands write it out as a
// node-exporter textfile, `semla serve` exposes it on /metrics.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	SubmissionsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "semla_submissions_total",
			Help: "Submission attempts by outcome",
		},
		[]string{"task", "outcome"},
	)

	BenchmarkDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "semla_benchmark_duration_seconds",
			Help:    "Wall-clock duration of benchmark runs",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"task"},
	)

	TaskBestPoints = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "semla_task_best_points",
			Help: "Best final points per task",
		},
		[]string{"task"},
	)

	APIRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "semla_api_request_duration_seconds",
			Help:    "Duration of API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)

// Flush writes the registry to path. An empty path is a no-op.
func Flush(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
