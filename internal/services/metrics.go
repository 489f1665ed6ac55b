package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Evaluation outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
	OutcomePanic   = "panic"
)

var (
	evaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "badge_evaluations_total",
			Help: "Family evaluations run by the dispatcher, by outcome.",
		},
		[]string{"family", "outcome"},
	)

	evaluationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "badge_evaluation_duration_seconds",
			Help:    "Duration of one family evaluation including progress and award writes.",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"family"},
	)

	awardsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "badge_awards_total",
			Help: "Badges newly awarded.",
		},
		[]string{"badge"},
	)

	configErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "badge_config_errors_total",
			Help: "Badge keys wired to the dispatcher that are missing from the catalog.",
		},
	)

	sourceRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "badge_source_retries_total",
			Help: "Retried source collaborator calls.",
		},
		[]string{"source"},
	)
)
