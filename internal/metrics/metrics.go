// Package metrics holds prometheus collectors and the HTTP middleware.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline metrics. Registered explicitly via RegisterPipelineMetrics (no init()).
var (
	AskRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchlight",
			Name:      "ask_requests_total",
			Help:      "Ask pipeline invocations by category and cache outcome",
		},
		[]string{"category", "cache"},
	)

	AnswerCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchlight",
			Name:      "answer_cache_total",
			Help:      "Answer cache lookups by result (hit/miss)",
		},
		[]string{"result"},
	)

	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchlight",
			Name:      "search_requests_total",
			Help:      "Upstream search calls by source and status",
		},
		[]string{"source", "status"},
	)

	SearchRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "searchlight",
			Name:      "search_request_duration_seconds",
			Help:      "Upstream search call duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"source"},
	)

	ChatStreamErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchlight",
			Name:      "chat_stream_errors_total",
			Help:      "Chat stream failures by model",
		},
		[]string{"model"},
	)

	RateLimitRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "searchlight",
			Name:      "ratelimit_rejected_total",
			Help:      "Requests rejected by the per-identity rate limit",
		},
	)
)

var pipelineRegistered bool

// RegisterPipelineMetrics registers pipeline collectors with the default registry.
// Safe to call once from the composition root; tests rely on it being explicit.
func RegisterPipelineMetrics() {
	if pipelineRegistered {
		return
	}
	pipelineRegistered = true
	prometheus.MustRegister(
		AskRequestsTotal,
		AnswerCacheTotal,
		SearchRequestsTotal,
		SearchRequestDuration,
		ChatStreamErrorsTotal,
		RateLimitRejectedTotal,
	)
}
