// Package metrics records Prometheus metrics for a provisioning run.
//
// A run is a short-lived process, so metrics are written to a node-exporter
// textfile after the run instead of being served.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dwhprov"

// Recorder implements provisioning.Metrics on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	stageTotal    *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	pollsTotal    *prometheus.CounterVec
	warningsTotal *prometheus.CounterVec
	lastRun       prometheus.Gauge
}

// NewRecorder creates a Recorder with all metrics registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),

		stageTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "stage",
				Name:      "runs_total",
				Help:      "Total number of stage executions by result",
			},
			[]string{"stage", "result"},
		),

		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "stage",
				Name:      "duration_seconds",
				Help:      "Duration of each stage in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.1, 2, 16), // 100ms to ~55min
			},
			[]string{"stage"},
		),

		pollsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cluster",
				Name:      "status_polls_total",
				Help:      "Total number of cluster status checks by reported status",
			},
			[]string{"status"},
		),

		warningsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "stage",
				Name:      "warnings_total",
				Help:      "Total number of non-fatal stage failures",
			},
			[]string{"stage"},
		),

		lastRun: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_run_timestamp_seconds",
				Help:      "Unix time the metrics were written",
			},
		),
	}

	r.registry.MustRegister(
		r.stageTotal,
		r.stageDuration,
		r.pollsTotal,
		r.warningsTotal,
		r.lastRun,
	)
	return r
}

// ObserveStage records a stage result and its duration.
func (r *Recorder) ObserveStage(stage, result string, d time.Duration) {
	r.stageTotal.WithLabelValues(stage, result).Inc()
	r.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// ObservePoll records one cluster status check.
func (r *Recorder) ObservePoll(status string) {
	r.pollsTotal.WithLabelValues(status).Inc()
}

// ObserveWarning records a non-fatal stage failure.
func (r *Recorder) ObserveWarning(stage string) {
	r.warningsTotal.WithLabelValues(stage).Inc()
}

// Registry returns the registry holding the run metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes all metrics in text exposition format to path.
func (r *Recorder) WriteTextfile(path string) error {
	r.lastRun.SetToCurrentTime()
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
