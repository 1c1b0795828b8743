// Package metrics provides Prometheus instrumentation for backend round trips.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sells-group/fraud-cli/internal/model"
)

var (
	// BackendRequestsTotal counts backend calls by endpoint and outcome.
	BackendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fraudcli",
			Name:      "backend_requests_total",
			Help:      "Total scoring API calls by endpoint and classified outcome.",
		},
		[]string{"endpoint", "outcome"},
	)

	// BackendRequestDuration observes call latency by endpoint.
	BackendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fraudcli",
			Name:      "backend_request_duration_seconds",
			Help:      "Scoring API call duration in seconds, including cold starts.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"endpoint"},
	)

	// CategoryFallbackTotal counts category resolutions served from the static list.
	CategoryFallbackTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fraudcli",
			Name:      "category_fallback_total",
			Help:      "Category resolutions that degraded to the built-in list.",
		},
	)

	// VerdictsTotal counts interpreted scoring results by severity tier.
	VerdictsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fraudcli",
			Name:      "verdicts_total",
			Help:      "Scoring results by severity tier.",
		},
		[]string{"tier"},
	)
)

func init() {
	prometheus.MustRegister(
		BackendRequestsTotal,
		BackendRequestDuration,
		CategoryFallbackTotal,
		VerdictsTotal,
	)
}

// ObserveRequest records one finished backend call.
func ObserveRequest(endpoint string, state model.FetchState, elapsed time.Duration) {
	BackendRequestsTotal.WithLabelValues(endpoint, string(state)).Inc()
	BackendRequestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// ObserveVerdict records the tier of an interpreted result.
func ObserveVerdict(tier model.SeverityTier) {
	VerdictsTotal.WithLabelValues(string(tier)).Inc()
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
