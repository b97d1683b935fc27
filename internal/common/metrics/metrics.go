package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QuoteRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quote_requests_total",
			Help: "Total number of upstream quote requests by terminal status",
		},
		[]string{"status"},
	)

	QuoteRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "quote_request_duration_seconds",
			Help: "Duration of upstream quote requests in seconds",
		},
		[]string{"status"},
	)

	QuoteRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quote_retries_total",
			Help: "Total number of retried upstream quote attempts",
		},
	)

	RateLimitWaitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rate_limit_waits_total",
			Help: "Total number of poll waits caused by the request quota",
		},
	)

	BatchesProcessedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "batches_processed_total",
			Help: "Total number of variant batches dispatched",
		},
	)

	VariantsProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "variants_processed_total",
			Help: "Total number of dimension variants processed by outcome",
		},
		[]string{"outcome"},
	)
)
