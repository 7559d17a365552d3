package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(pollRunsTotal, newRecordsTotal, markerAgeSeconds) }

var pollRunsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "poll_runs_total",
		Help: "Total number of poll runs, labeled by outcome.",
	},
	[]string{"result"}, // 'completed', 'baselined', 'skipped', 'failed'
)

var newRecordsTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "new_records_total",
		Help: "Total number of recall records selected as new across all runs.",
	},
)

var markerAgeSeconds = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "marker_age_seconds",
		Help: "Seconds since the novelty marker last advanced.",
	},
)

func IncPollRun(result string) {
	pollRunsTotal.WithLabelValues(norm(result)).Inc()
}

func AddNewRecords(n int) {
	if n > 0 {
		newRecordsTotal.Add(float64(n))
	}
}

func SetMarkerAgeSeconds(sec float64) {
	markerAgeSeconds.Set(sec)
}
