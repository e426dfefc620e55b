package routes

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	engineRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "landed_cost_engine_runs_total",
		Help: "Number of landed-cost computations, by kind and outcome.",
	}, []string{"kind", "outcome"})

	engineDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "landed_cost_engine_duration_seconds",
		Help:    "Time spent computing landed-cost comparisons.",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	}, []string{"kind"})

	skippedOffers = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "landed_cost_skipped_offers_total",
		Help: "Price records excluded from a comparison, by reason.",
	}, []string{"reason"})
)
