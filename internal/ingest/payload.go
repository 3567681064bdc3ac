package ingest

import (
	"encoding/json"
	"strings"
	"time"

	"example.com/healthsync/internal/domain"
)

// MetricLines is the wire shape for one metric key: positionally aligned
// newline-delimited lists. Durations are only populated for sleep.
type MetricLines struct {
	Dates     string `json:"dates"`
	Values    string `json:"values"`
	Durations string `json:"durations"`
}

// RawPayload maps client metric keys to their line lists. Unknown keys are
// ignored during parsing.
type RawPayload map[string]MetricLines

// metricSchema fixes the set of client keys the parser understands and the
// metric type each maps to.
var metricSchema = map[string]domain.MetricType{
	"heart":                domain.MetricHeartRate,
	"steps":                domain.MetricSteps,
	"sleep":                domain.MetricSleep,
	"walkingSpeed":         domain.MetricWalkingSpeed,
	"walkingAsymmetry":     domain.MetricWalkingAsymmetry,
	"walkingSteadiness":    domain.MetricWalkingSteadiness,
	"doubleSupportTime":    domain.MetricDoubleSupportTime,
	"walkingStepLength":    domain.MetricWalkingStepLength,
	"heartRateVariability": domain.MetricHeartRateVariability,
	"restingHeart":         domain.MetricRestingHeartRate,
	"walkingHeartAverage":  domain.MetricWalkingHeartRateAvg,
	"activeEnergy":         domain.MetricActiveEnergy,
	"restingEnergy":        domain.MetricRestingEnergy,
	"standMinutes":         domain.MetricStandMinutes,
}

// Entry is one timestamp/value pair extracted from the line lists. Duration
// is the raw duration string for metrics that carry one.
type Entry struct {
	TS       time.Time
	Value    string
	Duration string
}

// DecodeUpload decodes a sync request body. The body is a JSON object whose
// keys are metric names; an optional top-level "device" string names the
// reporting device. Keys that fail to decode as metric lines are skipped
// rather than failing the upload.
func DecodeUpload(data []byte) (RawPayload, string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, "", err
	}

	payload := make(RawPayload, len(fields))
	device := ""
	for key, raw := range fields {
		if key == "device" {
			_ = json.Unmarshal(raw, &device)
			continue
		}
		var lines MetricLines
		if err := json.Unmarshal(raw, &lines); err != nil {
			continue
		}
		payload[key] = lines
	}
	return payload, device, nil
}

// ParsePayload walks the raw payload and pairs timestamp, value and duration
// lines per known metric key into ordered entries. Positions whose timestamp
// fails to normalize are dropped; a bad position never fails the payload.
func ParsePayload(raw RawPayload) map[domain.MetricType][]Entry {
	out := make(map[domain.MetricType][]Entry)

	for key, lines := range raw {
		metricType, ok := metricSchema[key]
		if !ok {
			continue
		}

		dates := splitLines(lines.Dates)
		values := splitLines(lines.Values)
		durations := splitLines(lines.Durations)

		entries := make([]Entry, 0, len(dates))
		for i, date := range dates {
			ts, ok := NormalizeTimestamp(date)
			if !ok {
				continue
			}
			entry := Entry{TS: ts}
			if i < len(values) {
				entry.Value = values[i]
			}
			if i < len(durations) {
				entry.Duration = durations[i]
			}
			entries = append(entries, entry)
		}
		if len(entries) > 0 {
			out[metricType] = entries
		}
	}

	return out
}

func splitLines(block string) []string {
	if strings.TrimSpace(block) == "" {
		return nil
	}
	parts := strings.Split(strings.ReplaceAll(block, "\r\n", "\n"), "\n")
	out := make([]string, len(parts))
	for i, part := range parts {
		out[i] = strings.TrimSpace(part)
	}
	return out
}
