package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts requests served by this service, by route
	// pattern and status class.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookingcal_http_requests_total",
		Help: "Number of HTTP requests served",
	}, []string{"path", "status"})

	// UpstreamRequests counts calls to the YesPlan API, by normalized
	// endpoint shape and outcome.
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookingcal_yesplan_requests_total",
		Help: "Number of requests issued to the YesPlan API",
	}, []string{"endpoint", "outcome"})
)
