package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"example.com/healthsync/internal/domain"
)

// canonicalSample is the deterministic serialization the fingerprint is
// computed over. Field order is fixed by the struct definition, so the JSON
// encoding is stable regardless of how the sample was assembled.
type canonicalSample struct {
	UID    string   `json:"uid"`
	Type   string   `json:"type"`
	Unit   string   `json:"unit"`
	Device string   `json:"device"`
	TS     string   `json:"ts"`
	Value  *float64 `json:"value"`
	Stage  string   `json:"stage,omitempty"`
}

// Fingerprint computes the identity hash of a sample. Two samples with the
// same owner, type, unit, device, value and a timestamp inside the same
// rounding granularity share a fingerprint and count as one logical
// observation. Timestamps round to the minute for steps and sleep, whose
// sources frequently disagree on the exact second, and to the second for
// everything else. Sleep additionally folds the stage into the identity:
// distinct stages at the same instant are distinct observations.
//
// The fingerprint drives the uniqueness constraint in the claims table, so a
// collision-resistant digest is required. It must be recomputed whenever the
// sample timestamp is rewritten.
func Fingerprint(s domain.Sample) string {
	canonical := canonicalSample{
		UID:    s.UID,
		Type:   string(s.Type),
		Unit:   s.Unit,
		Device: s.Device,
		TS:     s.TS.UTC().Truncate(fingerprintGranularity(s.Type)).Format(time.RFC3339),
		Value:  s.Value,
	}
	if s.Type == domain.MetricSleep {
		if stage, ok := s.Payload["stage"].(string); ok {
			canonical.Stage = stage
		}
	}

	encoded, err := json.Marshal(canonical)
	if err != nil {
		// canonicalSample contains only marshalable fields
		panic(err)
	}

	digest := sha256.Sum256(encoded)
	return hex.EncodeToString(digest[:])
}

func fingerprintGranularity(t domain.MetricType) time.Duration {
	if t == domain.MetricSteps || t == domain.MetricSleep {
		return time.Minute
	}
	return time.Second
}
