package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)

var (
	// Taste-graph calls partitioned by endpoint and outcome
	tasteGraphCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tastegraph_calls_total",
			Help: "Total number of taste-graph API calls",
		},
		[]string{"endpoint", "outcome"},
	)

	tasteGraphCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tastegraph_call_duration_seconds",
			Help:    "Taste-graph API call latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Recommendation slots that came back empty or failed, by category
	degradedRecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "degraded_recommendations_total",
			Help: "Recommendation categories dropped from an audience because the upstream failed or returned nothing",
		},
		[]string{"category"},
	)

	// LLM completions partitioned by provider, purpose and outcome
	llmCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_calls_total",
			Help: "Total number of LLM completion calls",
		},
		[]string{"provider", "purpose", "outcome"},
	)
)

func outcomeOf(err error) string {
	if err != nil {
		return outcomeError
	}
	return outcomeSuccess
}

// RecordDegradedRecommendation counts a dropped recommendation slot
func RecordDegradedRecommendation(category string) {
	degradedRecommendationsTotal.WithLabelValues(category).Inc()
}

// RecordLLMCall counts one completion attempt
func RecordLLMCall(provider, purpose string, err error) {
	llmCallsTotal.WithLabelValues(provider, purpose, outcomeOf(err)).Inc()
}
