package audit

import "github.com/prometheus/client_golang/prometheus"

var (
	publishedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "healthsync",
		Subsystem: "audit",
		Name:      "events_published_total",
		Help:      "Number of audit entries successfully mirrored to Kafka.",
	})

	publishFailedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "healthsync",
		Subsystem: "audit",
		Name:      "events_publish_failed_total",
		Help:      "Number of audit entries that failed to publish to Kafka.",
	})
)

func init() {
	prometheus.MustRegister(publishedCounter, publishFailedCounter)
}
