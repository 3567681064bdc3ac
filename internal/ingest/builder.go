package ingest

import (
	"strconv"
	"strings"

	"example.com/healthsync/internal/domain"
)

// BuildSamples expands parsed entries into typed, unit-tagged samples owned
// by uid. Sleep entries take their numeric value from the normalized
// duration and keep the reported stage and raw duration string as payload
// attributes; every other metric parses its value line as a number. Entries
// whose value cannot be interpreted are dropped.
func BuildSamples(uid, device string, parsed map[domain.MetricType][]Entry) []domain.Sample {
	samples := make([]domain.Sample, 0, totalEntries(parsed))

	for metricType, entries := range parsed {
		for _, entry := range entries {
			if entry.TS.IsZero() {
				continue
			}

			sample := domain.Sample{
				TS:     entry.TS,
				Type:   metricType,
				Unit:   metricType.Unit(),
				UID:    uid,
				Source: domain.SourceShortcut,
				Device: device,
			}

			if metricType == domain.MetricSleep {
				minutes, ok := NormalizeDuration(entry.Duration)
				if !ok {
					continue
				}
				sample.Value = domain.Float(float64(minutes))
				sample.Payload = map[string]any{
					"stage":        strings.TrimSpace(entry.Value),
					"duration_str": entry.Duration,
				}
			} else {
				value, err := strconv.ParseFloat(strings.TrimSpace(entry.Value), 64)
				if err != nil {
					continue
				}
				sample.Value = domain.Float(value)
			}

			sample.Fingerprint = Fingerprint(sample)
			samples = append(samples, sample)
		}
	}

	return samples
}

func totalEntries(parsed map[domain.MetricType][]Entry) int {
	n := 0
	for _, entries := range parsed {
		n += len(entries)
	}
	return n
}
