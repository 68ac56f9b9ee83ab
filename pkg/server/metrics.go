package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	productRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "boutique_product_requests_total",
		Help: "The total number of filtered product listings",
	})
	facetRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "boutique_facet_requests_total",
		Help: "The total number of facet option requests",
	})
	facetCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "boutique_facet_cache_hits_total",
		Help: "Facet option requests answered from cache",
	})
	filterDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "boutique_filter_duration_seconds",
		Help:    "Time spent applying filters to a snapshot",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	})
	sessionChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boutique_filter_session_changes_total",
		Help: "Filter session mutations by operation",
	}, []string{"op"})
	reloads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "boutique_admin_reloads_total",
		Help: "Catalog reloads requested through the admin api",
	})
)
