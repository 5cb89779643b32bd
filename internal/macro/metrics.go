package macro

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// mutationsTotal counts gated operations by outcome (applied, rejected, invalid).
	mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "facet_macro_mutations_total",
		Help: "Gated declaration mutations by operation and outcome",
	}, []string{"op", "outcome"})

	// accessesTotal counts tracked semantic accesses.
	accessesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "facet_macro_tracked_accesses_total",
		Help: "Read and write accesses recorded by compilation units",
	}, []string{"access"})

	// unitTransitionsTotal counts compilation unit phase changes.
	unitTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "facet_macro_unit_transitions_total",
		Help: "Compilation unit phase transitions by target phase",
	}, []string{"phase"})
)

const (
	outcomeApplied  = "applied"
	outcomeRejected = "rejected"
	outcomeInvalid  = "invalid"
)
