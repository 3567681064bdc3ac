package postgres

import "github.com/prometheus/client_golang/prometheus"

var (
	writtenCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "healthsync",
		Subsystem: "store",
		Name:      "samples_written_total",
		Help:      "Number of samples persisted after winning their claim.",
	})

	duplicatesCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "healthsync",
		Subsystem: "store",
		Name:      "samples_duplicate_total",
		Help:      "Number of samples skipped because their fingerprint was already claimed.",
	})

	chunkDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "healthsync",
		Subsystem: "store",
		Name:      "chunk_duration_seconds",
		Help:      "Time spent claiming and writing one sample chunk.",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
	})

	claimsSweptCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "healthsync",
		Subsystem: "store",
		Name:      "claims_swept_total",
		Help:      "Number of expired claim records removed by the janitor.",
	})
)

func init() {
	prometheus.MustRegister(writtenCounter, duplicatesCounter, chunkDuration, claimsSweptCounter)
}
