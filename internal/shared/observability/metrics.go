package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mettagraph_parse_seconds",
		Help:    "Time spent parsing a corpus.",
		Buckets: prometheus.DefBuckets,
	}, []string{"dialect"})

	GraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mettagraph_graph_nodes_total",
		Help: "Number of nodes in the most recently analyzed graph.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mettagraph_graph_edges_total",
		Help: "Number of edges in the most recently analyzed graph.",
	})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mettagraph_analysis_seconds",
		Help:    "Time spent on analysis stages.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	ResultCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mettagraph_result_cache_hits_total",
		Help: "Analysis runs answered from the result cache.",
	})

	ResultCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mettagraph_result_cache_misses_total",
		Help: "Analysis runs that had to be computed.",
	})

	ParseWarnings = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mettagraph_parse_warnings_total",
		Help: "Warnings recovered from malformed expressions.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mettagraph_watcher_events_total",
		Help: "File system events received by the corpus watcher.",
	})
)
