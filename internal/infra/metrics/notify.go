package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(notificationsTotal, notificationLatencyMs) }

var notificationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "notifications_total",
		Help: "Chat post attempts, labeled by platform and outcome.",
	},
	[]string{"platform", "result"}, // result: 'ok', 'auth', 'rejected', 'unavailable'
)

var notificationLatencyMs = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "notification_latency_ms",
		Help:    "Chat post latency distribution in milliseconds.",
		Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000},
	},
	[]string{"platform"},
)

func ObserveNotification(platform, result string, elapsed time.Duration) {
	notificationsTotal.WithLabelValues(norm(platform), norm(result)).Inc()
	notificationLatencyMs.WithLabelValues(norm(platform)).Observe(float64(elapsed.Milliseconds()))
}
