// Package metrics exposes engine counters for operators tuning cache
// capacity and interpolation cost.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "frameengine_cache_hits_total",
		Help: "Frame requests served from the cache",
	})

	CacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "frameengine_cache_misses_total",
		Help: "Frame requests that required decode or synthesis",
	})

	CacheEvictionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "frameengine_cache_evictions_total",
		Help: "Frames dropped from the cache at capacity",
	})

	DecodesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "frameengine_decodes_total",
		Help: "Raw frame decodes by outcome",
	}, []string{"status"})

	SynthesisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "frameengine_synthesis_duration_seconds",
		Help:    "Time spent estimating motion and synthesizing one frame",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	})

	RequestsCoalescedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "frameengine_requests_coalesced_total",
		Help: "Pending frame requests superseded before execution",
	})
)
