package ingest

import (
	"strings"
	"time"
)

// sourceZone is the fixed zone client timestamps are interpreted in when the
// string itself carries no offset. Brisbane does not observe daylight saving,
// so the offset is a constant +10:00 year round.
var sourceZone = time.FixedZone("Australia/Brisbane", 10*60*60)

// literalLayouts cover the shortcut export format: day, abbreviated month,
// year, hour:minute and an am/pm marker, with either a comma or a plain
// space between date and time.
var literalLayouts = []string{
	"2 Jan 2006, 3:04 pm",
	"2 Jan 2006 3:04 pm",
	"2 Jan 2006, 3:04 PM",
	"2 Jan 2006 3:04 PM",
}

// fallbackLayouts are tried when none of the literal layouts match.
var fallbackLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

var spaceNormalizer = strings.NewReplacer(
	" ", " ", // no-break space
	" ", " ", // narrow no-break space
	" ", " ", // thin space
)

// NormalizeTimestamp parses a free-form client date string and returns the
// corresponding UTC instant. Bad input never errors; the second return value
// is false when the string cannot be interpreted.
func NormalizeTimestamp(raw string) (time.Time, bool) {
	s := strings.TrimSpace(spaceNormalizer.Replace(raw))
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range literalLayouts {
		if ts, err := time.ParseInLocation(layout, s, sourceZone); err == nil {
			return ts.UTC(), true
		}
	}

	for _, layout := range fallbackLayouts {
		if ts, err := time.ParseInLocation(layout, s, sourceZone); err == nil {
			return ts.UTC(), true
		}
	}

	return time.Time{}, false
}
