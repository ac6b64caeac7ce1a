package instrumentation

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gocrane/canary-metrics/pkg/known"
)

// Recorder is the sink for measurements taken while fetching metrics.
// Implementations must be safe for concurrent use.
type Recorder interface {
	// ObserveFetchTime records the wall time of one call to a monitoring backend.
	ObserveFetchTime(backend, project, region string, d time.Duration)
	// IncPointCountMismatch counts a series whose point count differs from the
	// number of intervals in the queried window.
	IncPointCountMismatch(metric string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveFetchTime(string, string, string, time.Duration) {}
func (nopRecorder) IncPointCountMismatch(string)                           {}

// NopRecorder discards every measurement.
var NopRecorder Recorder = nopRecorder{}

// PrometheusRecorder records measurements into prometheus collectors.
type PrometheusRecorder struct {
	FetchTime          *prometheus.HistogramVec
	PointCountMismatch *prometheus.CounterVec
}

// NewPrometheusRecorder creates the collectors and registers them to reg.
// A nil reg leaves the collectors unregistered.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	r := &PrometheusRecorder{
		FetchTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "canary_metrics_fetch_time_seconds",
				Help:    "Time spent in a single list call against the monitoring backend, successful or not.",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
			},
			[]string{known.BackendLabel, known.ProjectLabel, known.RegionLabel},
		),
		PointCountMismatch: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "canary_metrics_point_count_mismatch_total",
				Help: "Series whose point count differs from the expected number of intervals.",
			},
			[]string{known.MetricLabel},
		),
	}
	if reg != nil {
		reg.MustRegister(r.FetchTime, r.PointCountMismatch)
	}
	return r
}

func (r *PrometheusRecorder) ObserveFetchTime(backend, project, region string, d time.Duration) {
	r.FetchTime.WithLabelValues(backend, project, region).Observe(d.Seconds())
}

func (r *PrometheusRecorder) IncPointCountMismatch(metric string) {
	r.PointCountMismatch.WithLabelValues(metric).Inc()
}

// OrNop returns r, or NopRecorder when r is nil.
func OrNop(r Recorder) Recorder {
	if r == nil {
		return NopRecorder
	}
	return r
}
