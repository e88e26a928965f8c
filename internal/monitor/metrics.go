// Package monitor exposes the gateway's Prometheus metrics.
package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "amazonpay_http_requests_total",
		Help: "HTTP requests handled, by method, path pattern and status.",
	}, []string{"method", "path", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "amazonpay_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	AuthorizationOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "amazonpay_authorization_outcomes_total",
		Help: "Authorization attempts by tagged outcome.",
	}, []string{"outcome"})

	NotificationsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "amazonpay_notifications_total",
		Help: "Verified provider notifications by type and result.",
	}, []string{"type", "result"})

	RecheckRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "amazonpay_recheck_runs_total",
		Help: "Scheduled authorization re-checks by result.",
	}, []string{"result"})
)
