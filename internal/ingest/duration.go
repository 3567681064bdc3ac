package ingest

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	colonPattern   = regexp.MustCompile(`^(\d+):(\d{1,2})(?::(\d{1,2}))?$`)
	hoursPattern   = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(?:h|hr|hrs|hour|hours)\b`)
	minutesPattern = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(?:m|min|mins|minute|minutes)\b`)
	isoPattern     = regexp.MustCompile(`^T?(?:(\d+)H)?(?:(\d+)M)?$`)
)

// NormalizeDuration converts a free-form duration string into integer
// minutes. Accepted encodings, tried in order: a plain number (already
// minutes), H:MM[:SS], ISO-8601-like residuals missing the leading P
// ("T1H30M"), and unit-word strings such as "2h 15m" or "45 min". Rounding is to
// the nearest minute throughout. The second return value is false when no
// encoding matches.
func NormalizeDuration(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	if v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64); err == nil {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int(math.Round(v)), true
	}

	if m := colonPattern.FindStringSubmatch(s); m != nil {
		hours, _ := strconv.Atoi(m[1])
		minutes, _ := strconv.Atoi(m[2])
		total := float64(hours*60 + minutes)
		if m[3] != "" {
			seconds, _ := strconv.Atoi(m[3])
			total += float64(seconds) / 60
		}
		return int(math.Round(total)), true
	}

	// the ISO-like form is strictly anchored, so it must run before the loose
	// unit-word extraction: "T1H30M" has no word boundary after the H and the
	// unit-word pass would only pick up its minutes component
	if m := isoPattern.FindStringSubmatch(strings.TrimPrefix(strings.ToUpper(s), "P")); m != nil && (m[1] != "" || m[2] != "") {
		hours, _ := strconv.Atoi(m[1])
		minutes, _ := strconv.Atoi(m[2])
		return hours*60 + minutes, true
	}

	if minutes, ok := unitWordMinutes(s); ok {
		return minutes, true
	}

	return 0, false
}

func unitWordMinutes(s string) (int, bool) {
	total := 0.0
	matched := false

	if m := hoursPattern.FindStringSubmatch(s); m != nil {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
		if err == nil {
			total += v * 60
			matched = true
		}
	}
	if m := minutesPattern.FindStringSubmatch(s); m != nil {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
		if err == nil {
			total += v
			matched = true
		}
	}

	if !matched {
		return 0, false
	}
	return int(math.Round(total)), true
}
