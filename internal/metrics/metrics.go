// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "escrow_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "escrow_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// DeliveryTransitionsTotal counts committed lifecycle transitions by target status.
	DeliveryTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "escrow_delivery_transitions_total",
			Help: "Total number of committed delivery status transitions",
		},
		[]string{"status"},
	)

	EscrowFundedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "escrow_funded_amount_total",
			Help: "Sum of payment amounts moved into escrow (float64, exact up to 2^53)",
		},
	)

	PlatformFeesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "escrow_platform_fees_total",
			Help: "Sum of platform fees credited to the treasury (float64, exact up to 2^53)",
		},
	)

	VehiclesRegisteredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "escrow_vehicles_registered_total",
			Help: "Total number of registered vehicles",
		},
	)

	RateLimitExceededTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "escrow_rate_limit_exceeded_total",
			Help: "Total number of requests rejected due to rate limiting",
		},
		[]string{"method", "route"},
	)
)
