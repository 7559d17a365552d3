package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(sourceFetchesTotal, sourceFetchLatencyMs) }

var sourceFetchesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "source_fetches_total",
		Help: "Recall feed fetch attempts, labeled by outcome.",
	},
	[]string{"result"}, // 'ok', 'unavailable', 'malformed'
)

var sourceFetchLatencyMs = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "source_fetch_latency_ms",
		Help:    "Recall feed fetch latency distribution in milliseconds.",
		Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000},
	},
	[]string{"result"},
)

func ObserveSourceFetch(result string, elapsed time.Duration) {
	r := norm(result)
	sourceFetchesTotal.WithLabelValues(r).Inc()
	sourceFetchLatencyMs.WithLabelValues(r).Observe(float64(elapsed.Milliseconds()))
}
