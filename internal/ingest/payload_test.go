package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/healthsync/internal/domain"
)

func TestDecodeUploadExtractsDeviceAndSkipsMalformedKeys(t *testing.T) {
	body := []byte(`{
		"device": "watch-7",
		"heart": {"dates": "4 Mar 2025, 8:30 pm", "values": "62"},
		"bogus": 42
	}`)

	payload, device, err := DecodeUpload(body)
	require.NoError(t, err)
	require.Equal(t, "watch-7", device)
	require.Contains(t, payload, "heart")
	require.NotContains(t, payload, "bogus")
}

func TestDecodeUploadRejectsNonObjectBody(t *testing.T) {
	_, _, err := DecodeUpload([]byte(`"not an object"`))
	require.Error(t, err)
}

func TestParsePayloadPairsLinesPositionally(t *testing.T) {
	payload := RawPayload{
		"heart": {
			Dates:  "4 Mar 2025, 8:30 pm\n4 Mar 2025, 8:31 pm",
			Values: "62\n64",
		},
	}

	parsed := ParsePayload(payload)
	entries := parsed[domain.MetricHeartRate]
	require.Len(t, entries, 2)
	require.Equal(t, "62", entries[0].Value)
	require.Equal(t, "64", entries[1].Value)
	require.True(t, entries[0].TS.Before(entries[1].TS))
}

func TestParsePayloadDropsBadTimestampsOnly(t *testing.T) {
	payload := RawPayload{
		"steps": {
			Dates:  "not a date\n4 Mar 2025, 8:30 pm",
			Values: "100\n200",
		},
	}

	parsed := ParsePayload(payload)
	entries := parsed[domain.MetricSteps]
	require.Len(t, entries, 1)
	// positional pairing keeps the value aligned with its own line
	require.Equal(t, "200", entries[0].Value)
}

func TestParsePayloadIgnoresUnknownKeys(t *testing.T) {
	payload := RawPayload{
		"bloodType": {Dates: "4 Mar 2025, 8:30 pm", Values: "AB"},
	}
	require.Empty(t, ParsePayload(payload))
}

func TestParsePayloadCarriesDurations(t *testing.T) {
	payload := RawPayload{
		"sleep": {
			Dates:     "4 Mar 2025, 10:30 pm",
			Values:    "Core",
			Durations: "7:30",
		},
	}

	parsed := ParsePayload(payload)
	entries := parsed[domain.MetricSleep]
	require.Len(t, entries, 1)
	require.Equal(t, "Core", entries[0].Value)
	require.Equal(t, "7:30", entries[0].Duration)
	require.Equal(t, time.Date(2025, time.March, 4, 12, 30, 0, 0, time.UTC), entries[0].TS)
}
