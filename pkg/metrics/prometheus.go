package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	ingested   *prometheus.CounterVec
	duplicates prometheus.Counter
	rejected   *prometheus.CounterVec
	errors     *prometheus.CounterVec
	queueDepth prometheus.Gauge
	latency    *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		ingested: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketpulse_alerts_ingested_total",
				Help: "Total number of alerts accepted by the pipeline",
			},
			[]string{"category", "ticker"},
		),
		duplicates: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "marketpulse_alerts_duplicate_total",
				Help: "Total number of raw blocks rejected as duplicates",
			},
		),
		rejected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketpulse_alerts_rejected_total",
				Help: "Total number of raw blocks rejected by the parser",
			},
			[]string{"reason"},
		),
		errors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketpulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		queueDepth: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "marketpulse_retry_queue_depth",
				Help: "Current number of payloads buffered for redelivery",
			},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marketpulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordIngested records one accepted alert.
func (r *Recorder) RecordIngested(category, ticker string) {
	r.ingested.WithLabelValues(category, ticker).Inc()
}

// RecordDuplicate records a duplicate raw block.
func (r *Recorder) RecordDuplicate() {
	r.duplicates.Inc()
}

// RecordRejected records a parse rejection.
func (r *Recorder) RecordRejected(reason string) {
	r.rejected.WithLabelValues(reason).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errors.WithLabelValues(kind).Inc()
}

// RecordQueueDepth records the retry queue length.
func (r *Recorder) RecordQueueDepth(n int) {
	r.queueDepth.Set(float64(n))
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
