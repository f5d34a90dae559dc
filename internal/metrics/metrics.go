package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/ErlanBelekov/briefly/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Auth metrics

	AuthEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "briefly",
		Name:      "auth_events_total",
		Help:      "Register, login and logout attempts, by outcome.",
	}, []string{"event", "outcome"})

	// Article metrics

	ArticlesCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "briefly",
		Name:      "articles_created_total",
		Help:      "Total articles created.",
	})

	// Summary metrics

	SummariesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "briefly",
		Name:      "summaries_total",
		Help:      "Summaries produced, by source (ai or local).",
	}, []string{"source"})

	SummaryFallbacksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "briefly",
		Name:      "summary_fallbacks_total",
		Help:      "Remote summarization failures that fell back to the local summary, by reason.",
	}, []string{"reason"})

	SummaryRemoteDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "briefly",
		Name:      "summary_remote_duration_seconds",
		Help:      "Latency of remote summarization calls, including failures.",
		Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
	})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "briefly",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "briefly",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		AuthEventsTotal,
		ArticlesCreatedTotal,
		SummariesTotal,
		SummaryFallbacksTotal,
		SummaryRemoteDuration,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// NewServer serves /metrics plus the liveness and readiness probes. It runs on
// its own port so probes and scrapes never go through the public router.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Readiness(r.Context()))
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeHealth(w http.ResponseWriter, result health.HealthResult) {
	w.Header().Set("Content-Type", "application/json")
	if result.Status != "up" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(result)
}
