// Package metrics exposes pipeline counters for operational monitoring.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RunsStarted counts pipeline runs begun.
	RunsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "postforge",
		Name:      "runs_started_total",
		Help:      "Number of campaign generation runs started.",
	})

	// RunsCompleted counts runs that reached COMPLETE.
	RunsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "postforge",
		Name:      "runs_completed_total",
		Help:      "Number of campaign generation runs that completed.",
	})

	// RunsFailed counts runs aborted by a fatal stage-one error.
	RunsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "postforge",
		Name:      "runs_failed_total",
		Help:      "Number of campaign generation runs that failed fatally.",
	})

	// ItemsFailed counts per-item failures by pipeline stage.
	ItemsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "postforge",
		Name:      "items_failed_total",
		Help:      "Number of per-item failures, labeled by stage.",
	}, []string{"stage"})

	// EmptyDevelopment counts runs where every idea failed to develop.
	// A non-zero rate here usually means a systemic provider outage rather
	// than flaky individual items.
	EmptyDevelopment = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "postforge",
		Name:      "empty_development_runs_total",
		Help:      "Runs that produced ideas but developed none of them.",
	})

	// PublicationsProduced counts final publications by content type.
	PublicationsProduced = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "postforge",
		Name:      "publications_produced_total",
		Help:      "Final publications produced, labeled by content type.",
	}, []string{"content_type"})
)
