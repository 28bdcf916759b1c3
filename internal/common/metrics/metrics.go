// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "candidature_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "candidature_http_request_duration_seconds",
			Help: "Duration of HTTP request handling in seconds",
		},
		[]string{"method", "route"},
	)

	CandidaturesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "candidature_submissions_total",
			Help: "Total number of candidatures persisted",
		},
	)

	CandidaturesRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "candidature_rejections_total",
			Help: "Total number of submissions rejected before persistence",
		},
		[]string{"reason"},
	)

	ConfirmationEmailsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "candidature_confirmation_email_failures_total",
			Help: "Total number of confirmation emails that could not be sent",
		},
	)
)
