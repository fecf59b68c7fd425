package prom

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StoreGets = promauto.NewCounter(prometheus.CounterOpts{
		Name: "simdex_store_get_requests_total",
		Help: "The total number of feature collection fetches performed",
	})
	StorePuts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "simdex_store_put_requests_total",
		Help: "The total number of feature collection writes performed",
	})
	StoreDeletes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "simdex_store_delete_requests_total",
		Help: "The total number of feature collection deletes performed",
	})
	IndexScans = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "simdex_store_index_scans_total",
		Help: "The total number of index scans performed per index",
	}, []string{"index"})
	FCCacheLookups = promauto.NewCounter(prometheus.CounterOpts{
		Name: "simdex_store_cache_lookups_total",
		Help: "The total number of feature collection cache lookups performed",
	})
	FCCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "simdex_store_cache_hits_total",
		Help: "The total number of feature collection cache hits",
	})
	LabelPuts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "simdex_label_put_requests_total",
		Help: "The total number of label writes performed",
	})
	LabelHookPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "simdex_label_hook_published_total",
		Help: "The total number of label events published to the hook topic",
	})
	LabelHookErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "simdex_label_hook_errors_total",
		Help: "The total number of label hook publish failures",
	})
)
