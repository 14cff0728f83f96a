package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	tasksTotal     *prometheus.CounterVec
	taskDuration   prometheus.Histogram
	batchesEmitted prometheus.Counter
	rowsEmitted    prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	return &metrics{
		tasksTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "colibri",
			Subsystem: "worker",
			Name:      "tasks_total",
			Help:      "Total number of task attempts executed, by outcome.",
		}, []string{"outcome"}),
		taskDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Namespace: "colibri",
			Subsystem: "worker",
			Name:      "task_duration_seconds",
			Help:      "Wall clock time spent executing one task attempt.",
			Buckets:   prometheus.DefBuckets,
		}),
		batchesEmitted: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "colibri",
			Subsystem: "worker",
			Name:      "batches_emitted_total",
			Help:      "Total number of record batches streamed to combiners.",
		}),
		rowsEmitted: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "colibri",
			Subsystem: "worker",
			Name:      "rows_emitted_total",
			Help:      "Total number of rows streamed to combiners.",
		}),
	}
}
