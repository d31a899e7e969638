package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	resolutions     *prometheus.CounterVec
	upstreamRetries prometheus.Counter
	selfHeals       prometheus.Counter
	cacheWriteFails prometheus.Counter
	errorsTotal     *prometheus.CounterVec
	latency         *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		resolutions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aletheia_resolutions_total",
				Help: "Total intelligence resolutions by serving source",
			},
			[]string{"source"},
		),
		upstreamRetries: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "aletheia_upstream_retries_total",
				Help: "Total retry attempts against the prediction service",
			},
		),
		selfHeals: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "aletheia_self_heals_total",
				Help: "Total corrective rewrites of corrupted cached history",
			},
		),
		cacheWriteFails: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "aletheia_cache_write_failures_total",
				Help: "Total best-effort cache writes that failed",
			},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aletheia_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "aletheia_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: []float64{0.005, 0.025, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 90},
			},
			[]string{"operation"},
		),
	}
}

// RecordResolution records a served resolution by source tag.
func (r *Recorder) RecordResolution(source string) {
	r.resolutions.WithLabelValues(source).Inc()
}

// RecordUpstreamRetry records one retry attempt.
func (r *Recorder) RecordUpstreamRetry() {
	r.upstreamRetries.Inc()
}

// RecordSelfHeal records one corrective history rewrite.
func (r *Recorder) RecordSelfHeal() {
	r.selfHeals.Inc()
}

// RecordCacheWriteFailure records a swallowed cache write error.
func (r *Recorder) RecordCacheWriteFailure() {
	r.cacheWriteFails.Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
