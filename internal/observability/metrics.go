package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var samplePersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
	Namespace: "healthsync",
	Subsystem: "persistence",
	Name:      "last_sample_persisted_timestamp_seconds",
	Help:      "Unix timestamp of the most recent sample batch persisted to Postgres.",
})

func init() {
	prometheus.MustRegister(samplePersistGauge)
}

// RecordSamplesPersisted updates the persistence watermark gauge.
func RecordSamplesPersisted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	samplePersistGauge.Set(float64(ts.Unix()))
}
