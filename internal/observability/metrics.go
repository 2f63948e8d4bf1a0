package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "company_search_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"path", "method", "status"},
	)

	// ActiveConnections tracks active connections
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "company_search_active_connections",
			Help: "Number of active connections",
		},
	)

	// SearchDuration tracks the page fetch stage by query shape and outcome
	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "company_search_query_duration_seconds",
			Help:    "Duration of registry page queries in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
		[]string{"shape", "outcome"},
	)

	// CountResolutions tracks how page totals were resolved
	CountResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "company_search_count_resolutions_total",
			Help: "Number of page totals resolved, by source",
		},
		[]string{"source"},
	)

	// RegistryOperations tracks registry operations
	RegistryOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "company_search_registry_operations_total",
			Help: "Number of registry operations",
		},
		[]string{"operation", "status"},
	)

	// CacheHits tracks count cache hits/misses
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "company_search_cache_hits_total",
			Help: "Number of count cache lookups, by result",
		},
		[]string{"result"},
	)
)
