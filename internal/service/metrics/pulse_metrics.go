package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	PulseLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "marketpulse",
			Subsystem: "pulse",
			Name:      "latency_seconds",
			Help:      "Latency of pulse endpoints",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	PulseErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "marketpulse",
			Subsystem: "pulse",
			Name:      "errors_total",
			Help:      "Errors by pulse endpoint",
		},
		[]string{"endpoint"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(PulseLatency, PulseErrors)
	})
}
