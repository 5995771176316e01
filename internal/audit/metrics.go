package audit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recordsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "inventory",
		Subsystem: "audit",
		Name:      "records_total",
		Help:      "History records appended, by entity type and action.",
	}, []string{"entity", "action"})

	failuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "inventory",
		Subsystem: "audit",
		Name:      "failures_total",
		Help:      "History records lost to audit failures, by entity type and stage.",
	}, []string{"entity", "stage"})

	atomicRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "inventory",
		Subsystem: "audit",
		Name:      "atomic_runs_total",
		Help:      "Atomic multi-step runs, by result.",
	}, []string{"result"})
)

// failure stages
const (
	stageDiff     = "diff"
	stageSnapshot = "snapshot"
	stageAppend   = "append"
)
