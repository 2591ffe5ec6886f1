package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "codelens", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "codelens", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	Reviews = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "codelens", Name: "reviews_total", Help: "Review requests by outcome."},
		[]string{"language", "outcome"}, // outcome: ok|invalid|unconfigured|failed
	)
	LLMLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "codelens", Name: "llm_request_duration_seconds",
			Help:    "Duration of review calls to the language model.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"outcome"},
	)
	PersistFailures = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "codelens", Name: "review_persist_failures_total", Help: "Reviews returned to the user but not stored."},
	)
	ScoreHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "codelens", Name: "review_score",
			Help:    "Distribution of review scores.",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		},
	)
)

// InitRegistry registers every collector on a fresh registry.
func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, Reviews, LLMLatency, PersistFailures, ScoreHistogram)
	return reg
}

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveReview(language, outcome string) {
	Reviews.WithLabelValues(language, outcome).Inc()
}

func ObserveLLM(outcome string, dur time.Duration) {
	LLMLatency.WithLabelValues(outcome).Observe(dur.Seconds())
}

func ObserveScore(score int) {
	ScoreHistogram.Observe(float64(score))
}

func PersistFailed() {
	PersistFailures.Inc()
}
