package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Discovery session metrics
	SessionsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_sessions_started_total",
			Help: "Total number of discovery sessions started",
		},
		[]string{"session_type"},
	)

	SessionsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_sessions_completed_total",
			Help: "Total number of discovery sessions finished, by terminal status",
		},
		[]string{"session_type", "status"},
	)

	SessionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "discovery_session_duration_seconds",
			Help:    "Discovery session wall-clock duration in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
		[]string{"session_type"},
	)

	// Query generation metrics
	QueriesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_queries_generated_total",
			Help: "Total number of search queries generated",
		},
		[]string{"engine", "method"},
	)

	QueryGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "discovery_query_generation_duration_ms",
			Help:    "Query generation duration in milliseconds",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000, 30000},
		},
		[]string{"engine"},
	)

	QueryCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "discovery_query_cache_hits_total",
			Help: "Total number of query cache hits",
		},
	)

	QueryCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "discovery_query_cache_misses_total",
			Help: "Total number of query cache misses",
		},
	)

	QueryCacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "discovery_query_cache_size",
			Help: "Current number of entries in the query cache",
		},
	)

	QueryCacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "discovery_query_cache_evictions_total",
			Help: "Total number of query cache LRU evictions",
		},
	)

	// LLM metrics
	LLMRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_llm_requests_total",
			Help: "Total number of LLM completion requests",
		},
		[]string{"status"},
	)

	LLMRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "discovery_llm_request_duration_seconds",
			Help:    "LLM completion request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Search adapter metrics
	AdapterSearches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_adapter_searches_total",
			Help: "Total number of adapter search calls",
		},
		[]string{"engine", "status"},
	)

	AdapterSearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "discovery_adapter_search_duration_seconds",
			Help:    "Adapter search call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"engine"},
	)

	AdapterZeroResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_adapter_zero_results_total",
			Help: "Total number of adapter calls that returned zero results",
		},
		[]string{"engine"},
	)

	// Processor metrics
	ResultsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_results_processed_total",
			Help: "Total number of search results processed, by outcome",
		},
		[]string{"outcome"},
	)

	CandidatesCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_candidates_created_total",
			Help: "Total number of funding source candidates created",
		},
		[]string{"status"},
	)

	// Blacklist cache metrics
	BlacklistCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "discovery_blacklist_cache_hits_total",
			Help: "Total number of blacklist cache hits",
		},
	)

	BlacklistCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "discovery_blacklist_cache_misses_total",
			Help: "Total number of blacklist cache misses",
		},
	)

	BlacklistStoreFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "discovery_blacklist_store_fallbacks_total",
			Help: "Total number of blacklist checks answered directly by the store because the cache was unreachable",
		},
	)

	// Circuit breaker metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "discovery_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTrips = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_circuit_breaker_trips_total",
			Help: "Total number of circuit breaker open transitions",
		},
		[]string{"name"},
	)
)

// RecordSessionMetrics records metrics for a finished discovery session.
func RecordSessionMetrics(sessionType, status string, durationSeconds float64) {
	SessionsCompleted.WithLabelValues(sessionType, status).Inc()
	SessionDuration.WithLabelValues(sessionType).Observe(durationSeconds)
}
