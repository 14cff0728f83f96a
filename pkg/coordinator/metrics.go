package coordinator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	queriesTotal       *prometheus.CounterVec
	queryDuration      *prometheus.HistogramVec
	partitionsPerQuery prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	return &metrics{
		queriesTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "colibri",
			Subsystem: "coordinator",
			Name:      "queries_total",
			Help:      "Total number of queries by final status.",
		}, []string{"status"}),
		queryDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "colibri",
			Subsystem: "coordinator",
			Name:      "query_duration_seconds",
			Help:      "Wall clock time from submission to final status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
		partitionsPerQuery: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Namespace: "colibri",
			Subsystem: "coordinator",
			Name:      "partitions_per_query",
			Help:      "Number of partitions a query resolved to.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}
}
