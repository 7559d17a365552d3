package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(httpRequestsTotal) }

var httpRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Ops server requests, labeled by route, method and status code.",
	},
	[]string{"route", "method", "code"},
)

func IncHTTPRequest(route, method string, code int) {
	httpRequestsTotal.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
}
