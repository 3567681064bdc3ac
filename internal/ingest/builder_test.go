package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/healthsync/internal/domain"
)

func TestBuildSamplesNumericMetric(t *testing.T) {
	ts := time.Date(2025, time.March, 4, 10, 30, 0, 0, time.UTC)
	parsed := map[domain.MetricType][]Entry{
		domain.MetricHeartRate: {{TS: ts, Value: "62"}},
	}

	samples := BuildSamples("user-1", "watch-7", parsed)
	require.Len(t, samples, 1)

	s := samples[0]
	require.Equal(t, domain.MetricHeartRate, s.Type)
	require.Equal(t, "bpm", s.Unit)
	require.Equal(t, 62.0, *s.Value)
	require.Equal(t, "user-1", s.UID)
	require.Equal(t, "watch-7", s.Device)
	require.Equal(t, domain.SourceShortcut, s.Source)
	require.NotEmpty(t, s.Fingerprint)
}

func TestBuildSamplesSleepUsesDuration(t *testing.T) {
	ts := time.Date(2025, time.March, 4, 12, 30, 0, 0, time.UTC)
	parsed := map[domain.MetricType][]Entry{
		domain.MetricSleep: {{TS: ts, Value: "Core", Duration: "7:30"}},
	}

	samples := BuildSamples("user-1", "", parsed)
	require.Len(t, samples, 1)

	s := samples[0]
	require.Equal(t, 450.0, *s.Value)
	require.Equal(t, "min", s.Unit)
	require.Equal(t, "Core", s.Payload["stage"])
	require.Equal(t, "7:30", s.Payload["duration_str"])
}

func TestBuildSamplesDropsUnparseableValues(t *testing.T) {
	ts := time.Date(2025, time.March, 4, 10, 30, 0, 0, time.UTC)
	parsed := map[domain.MetricType][]Entry{
		domain.MetricSteps: {
			{TS: ts, Value: "not a number"},
			{TS: ts.Add(time.Minute), Value: "250"},
		},
		domain.MetricSleep: {
			{TS: ts, Value: "Core", Duration: "soon"},
		},
	}

	samples := BuildSamples("user-1", "", parsed)
	require.Len(t, samples, 1)
	require.Equal(t, 250.0, *samples[0].Value)
}
