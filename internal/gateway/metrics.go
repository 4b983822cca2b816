package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// requestsTotal tracks gateway operations by routing mode and outcome.
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskgate_requests_total",
			Help: "Total number of gateway operations",
		},
		[]string{"op", "mode", "outcome"},
	)

	// requestDuration tracks end-to-end operation latency, retries included.
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taskgate_request_duration_seconds",
			Help:    "Gateway operation latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op", "mode"},
	)

	// retriesTotal counts individual resubmissions.
	retriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskgate_retries_total",
			Help: "Total number of retry attempts",
		},
		[]string{"op"},
	)

	// tokenRefreshTotal counts token-refresh cycles by outcome.
	tokenRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskgate_token_refresh_total",
			Help: "Total number of token refresh attempts",
		},
		[]string{"outcome"},
	)
)
