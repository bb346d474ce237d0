package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_import_rows_total",
		Help: "Total number of source rows processed by import runs.",
	}, []string{"source", "result"})

	entitiesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_import_entities_total",
		Help: "Total number of entity resolutions, by kind and whether the instance was created or reused.",
	}, []string{"kind", "result"})

	flushesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "schedule_import_flushes_total",
		Help: "Total number of repository flushes issued by import runs.",
	})

	runDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "schedule_import_run_duration_seconds",
		Help:    "Duration of import runs.",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
	}, []string{"source", "result"})
)

// Collectors returns the import collectors so callers can push them.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{rowsTotal, entitiesTotal, flushesTotal, runDurationSeconds}
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
