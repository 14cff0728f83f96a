package combiner

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	tasksTotal    *prometheus.CounterVec
	attemptsTotal prometheus.Counter
	retriesTotal  prometheus.Counter
	inFlight      prometheus.Gauge
	queryDuration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	return &metrics{
		tasksTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "colibri",
			Subsystem: "combiner",
			Name:      "tasks_total",
			Help:      "Total number of tasks by terminal state.",
		}, []string{"state"}),
		attemptsTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "colibri",
			Subsystem: "combiner",
			Name:      "task_attempts_total",
			Help:      "Total number of task attempts dispatched, retries included.",
		}),
		retriesTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "colibri",
			Subsystem: "combiner",
			Name:      "task_retries_total",
			Help:      "Total number of task attempts that were retries.",
		}),
		inFlight: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: "colibri",
			Subsystem: "combiner",
			Name:      "tasks_in_flight",
			Help:      "Number of tasks with a running attempt.",
		}),
		queryDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "colibri",
			Subsystem: "combiner",
			Name:      "query_duration_seconds",
			Help:      "Wall clock time from fan-out to trailer, by result status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
	}
}
