// Package domain defines the canonical health-metric sample model.
package domain

import "time"

// MetricType enumerates the fixed set of metric kinds accepted by the
// ingestion pipeline. Free-form types never reach the store.
type MetricType string

const (
	MetricHeartRate            MetricType = "heart_rate"
	MetricSteps                MetricType = "steps"
	MetricSleep                MetricType = "sleep"
	MetricWalkingSpeed         MetricType = "walking_speed"
	MetricWalkingAsymmetry     MetricType = "walking_asymmetry"
	MetricWalkingSteadiness    MetricType = "walking_steadiness"
	MetricDoubleSupportTime    MetricType = "double_support_time"
	MetricWalkingStepLength    MetricType = "walking_step_length"
	MetricHeartRateVariability MetricType = "heart_rate_variability"
	MetricRestingHeartRate     MetricType = "resting_heart_rate"
	MetricWalkingHeartRateAvg  MetricType = "walking_heart_rate_average"
	MetricActiveEnergy         MetricType = "active_energy"
	MetricRestingEnergy        MetricType = "resting_energy"
	MetricStandMinutes         MetricType = "stand_minutes"
)

// Unit returns the fixed unit string persisted with samples of this type.
func (t MetricType) Unit() string {
	switch t {
	case MetricHeartRate, MetricRestingHeartRate, MetricWalkingHeartRateAvg:
		return "bpm"
	case MetricSteps:
		return "count"
	case MetricSleep, MetricStandMinutes:
		return "min"
	case MetricWalkingSpeed:
		return "km/h"
	case MetricWalkingAsymmetry, MetricWalkingSteadiness:
		return "%"
	case MetricDoubleSupportTime:
		return "%"
	case MetricWalkingStepLength:
		return "cm"
	case MetricHeartRateVariability:
		return "ms"
	case MetricActiveEnergy, MetricRestingEnergy:
		return "kJ"
	default:
		return ""
	}
}

// SourceShortcut tags samples ingested through the shortcut upload path.
const SourceShortcut = "shortcut_sync"

// Sample is the persisted unit of observation. It lives transiently for the
// duration of one ingestion request; the claim protocol decides whether it
// becomes a store row or is dropped as a duplicate.
type Sample struct {
	TS          time.Time
	Type        MetricType
	Value       *float64
	Unit        string
	UID         string
	Source      string
	Device      string
	Payload     map[string]any
	Fingerprint string
}

// Float returns a pointer to v, for building optional sample values.
func Float(v float64) *float64 { return &v }
