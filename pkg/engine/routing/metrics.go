package routing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// composeTotal counts compose calls by outcome
	composeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wayroute_compose_total",
		Help: "Total route compose requests by outcome",
	}, []string{"outcome"})

	composeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wayroute_compose_duration_seconds",
		Help:    "Route compose duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
	})

	// variantTotal counts per metric pipeline outcomes: ok, no_route, upstream
	variantTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wayroute_variant_total",
		Help: "Total route variants by metric and outcome",
	}, []string{"metric", "outcome"})

	legTimeoutTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wayroute_leg_timeout_total",
		Help: "Total shortest path calls that hit the per call timeout",
	}, []string{"metric"})
)

const (
	outcomeOK         = "ok"
	outcomePartial    = "partial"
	outcomeInvalid    = "invalid_input"
	outcomeUnresolved = "points_not_resolved"
	outcomeNoRoute    = "no_route"
	outcomeUpstream   = "upstream"
)
