package prom

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RestapiTimes = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "simdex_restapi_request_duration",
		Help:    "Duration of restapi requests",
		Buckets: []float64{.005, .01, .025, .050, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"method", "route"})
	RestapiCodes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "simdex_restapi_response_codes_total",
		Help: "The total number of restapi responses per status code",
	}, []string{"method", "route", "code"})
)
