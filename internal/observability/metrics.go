package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	gatewayRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uliza_gateway_requests_total",
			Help: "Total number of gateway requests",
		},
		[]string{"tree", "outcome"},
	)

	gatewayRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "uliza_gateway_request_duration_seconds",
			Help:    "Gateway request handling duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"tree"},
	)

	transitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uliza_transitions_total",
			Help: "Total number of state machine transitions",
		},
		[]string{"tree", "result"},
	)

	hookFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uliza_hook_failures_total",
			Help: "Total number of failed domain-action hooks",
		},
		[]string{"tree", "node"},
	)

	storeErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uliza_store_errors_total",
			Help: "Total number of session store failures",
		},
		[]string{"op"},
	)

	sessionsPurgedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "uliza_sessions_purged_total",
			Help: "Total number of sessions removed by the janitor",
		},
	)

	notificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uliza_notifications_total",
			Help: "Total number of outbound notification sends",
		},
		[]string{"status"},
	)

	rateLimitedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "uliza_rate_limited_total",
			Help: "Total number of requests rejected by the per-caller rate limiter",
		},
	)

	initOnce sync.Once
)

// InitMetrics registers the engine's Prometheus collectors.
func InitMetrics() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			gatewayRequestsTotal,
			gatewayRequestDuration,
			transitionsTotal,
			hookFailuresTotal,
			storeErrorsTotal,
			sessionsPurgedTotal,
			notificationsTotal,
			rateLimitedTotal,
		)
	})
}

// MetricsHandler returns an HTTP handler for Prometheus metrics.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// RecordGatewayRequest records one handled gateway request.
func RecordGatewayRequest(tree, outcome string, duration time.Duration) {
	gatewayRequestsTotal.WithLabelValues(tree, outcome).Inc()
	gatewayRequestDuration.WithLabelValues(tree).Observe(duration.Seconds())
}

// RecordTransition records one state machine transition result.
func RecordTransition(tree, result string) {
	transitionsTotal.WithLabelValues(tree, result).Inc()
}

// RecordHookFailure records a failed domain-action hook.
func RecordHookFailure(tree, node string) {
	hookFailuresTotal.WithLabelValues(tree, node).Inc()
}

// RecordStoreError records a session store failure.
func RecordStoreError(op string) {
	storeErrorsTotal.WithLabelValues(op).Inc()
}

// RecordPurged adds to the janitor purge counter.
func RecordPurged(count int) {
	sessionsPurgedTotal.Add(float64(count))
}

// RecordNotification records an outbound notification attempt.
func RecordNotification(status string) {
	notificationsTotal.WithLabelValues(status).Inc()
}

// RecordRateLimited counts a rejected request.
func RecordRateLimited() {
	rateLimitedTotal.Inc()
}
