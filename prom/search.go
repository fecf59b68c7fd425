package prom

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SearchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "simdex_search_requests_total",
		Help: "The total number of search invocations per engine",
	}, []string{"engine"})
	SearchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "simdex_search_errors_total",
		Help: "The total number of failed search invocations per engine",
	}, []string{"engine"})
	PipelineRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "simdex_pipeline_rejected_total",
		Help: "The total number of candidates rejected per filter stage",
	}, []string{"filter"})
	PipelineDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "simdex_pipeline_filter_duration",
		Help:    "Duration of a single filter stage evaluation",
		Buckets: []float64{.00001, .0001, .001, .005, .01, .025, .050, .1, .25, .5, 1},
	}, []string{"filter"})
	SampleConsidered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "simdex_sample_considered_total",
		Help: "The total number of candidates considered by the reservoir sampler",
	})
	SampleTruncatedScans = promauto.NewCounter(prometheus.CounterOpts{
		Name: "simdex_sample_truncated_scans_total",
		Help: "The total number of sampling passes cut short by a scan limit",
	})
	DigestComparisons = promauto.NewCounter(prometheus.CounterOpts{
		Name: "simdex_digest_comparisons_total",
		Help: "The total number of pairwise digest comparisons performed",
	})
)
