package metrics

import "github.com/prometheus/client_golang/prometheus"

// Answer pipeline Prometheus metrics.
var (
	AnswerRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "culinara",
			Name:      "answer_requests_total",
			Help:      "Total answer requests by final source",
		},
		[]string{"source"}, // "corpus" / "web" / "none"
	)

	AnswerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "culinara",
			Name:      "answer_duration_seconds",
			Help:      "End-to-end answer latency in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		},
		[]string{"source"},
	)

	CandidatesRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "culinara",
			Name:      "candidates_rejected_total",
			Help:      "Retrieval candidates rejected during re-ranking",
		},
		[]string{"reason"}, // "dietary" / "threshold" / "collection_page"
	)

	FallbackRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "culinara",
			Name:      "fallback_runs_total",
			Help:      "Web fallback pipeline runs by outcome",
		},
		[]string{"outcome"}, // "ok" / "empty" / "deadline" / "search_error"
	)

	PageFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "culinara",
			Name:      "page_fetches_total",
			Help:      "Fallback page fetches by result",
		},
		[]string{"result"}, // "ok" / "fetch_error" / "parse_error" / "rejected"
	)

	PageFetchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "culinara",
			Name:      "page_fetch_duration_seconds",
			Help:      "Fallback page fetch duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		},
	)

	CollectionExpansionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "culinara",
			Name:      "collection_expansions_total",
			Help:      "Collection pages expanded into item fetches",
		},
	)
)

var answerMetricsRegistered bool

// RegisterAnswerMetrics registers answer pipeline metrics. Must be called once from main.
func RegisterAnswerMetrics() {
	if answerMetricsRegistered {
		return
	}
	prometheus.MustRegister(AnswerRequestsTotal)
	prometheus.MustRegister(AnswerDuration)
	prometheus.MustRegister(CandidatesRejectedTotal)
	prometheus.MustRegister(FallbackRunsTotal)
	prometheus.MustRegister(PageFetchesTotal)
	prometheus.MustRegister(PageFetchDuration)
	prometheus.MustRegister(CollectionExpansionsTotal)
	answerMetricsRegistered = true
}
