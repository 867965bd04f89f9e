package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ActionsExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "actioneer_actions_executed_total",
		Help: "Total number of actions executed, labelled by type and outcome.",
	}, []string{"action_type", "outcome"})

	ChainsExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "actioneer_chains_executed_total",
		Help: "Total number of action chains executed, labelled by mode.",
	}, []string{"mode"})

	DispatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "actioneer_dispatch_duration_ms",
		Help:    "Action dispatch latency in milliseconds.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	})
)

// Outcome labels for ActionsExecuted.
const (
	OutcomeSuccess   = "success"
	OutcomeFailure   = "failure"
	OutcomeGuarded   = "guarded"
	OutcomeCancelled = "cancelled"
)
