package ingest

import "github.com/prometheus/client_golang/prometheus"

var (
	samplesAttemptedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "healthsync",
		Subsystem: "ingest",
		Name:      "samples_attempted_total",
		Help:      "Number of samples produced by payload parsing and coalescing.",
	})

	samplesInsertedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "healthsync",
		Subsystem: "ingest",
		Name:      "samples_inserted_total",
		Help:      "Number of samples newly persisted after claim resolution.",
	})

	syncDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "healthsync",
		Subsystem: "ingest",
		Name:      "sync_duration_seconds",
		Help:      "End-to-end time spent processing a sync payload.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
	})
)

func init() {
	prometheus.MustRegister(samplesAttemptedCounter, samplesInsertedCounter, syncDuration)
}
