package ingest

import (
	"sort"
	"time"

	"example.com/healthsync/internal/domain"
)

// DefaultBucketMinutes is the steps coalescing window applied when no
// override is configured.
const DefaultBucketMinutes = 60

// sourceOffsetSeconds mirrors sourceZone: bucket boundaries are aligned to
// local Brisbane time, which has no daylight-saving transitions.
const sourceOffsetSeconds = 10 * 60 * 60

type bucketKey struct {
	uid    string
	bucket int64
	unit   string
}

// CoalesceSteps reduces overlapping steps samples into fixed local-time
// buckets, keeping the maximum observed value per bucket. Multiple devices
// report the same physical walking activity with slightly different counts
// and timestamps; summing them overcounts, so the largest single report is
// taken as the best approximation of the true count. Non-steps samples pass
// through untouched. The retained sample's timestamp is rewritten to the
// bucket start and its fingerprint recomputed under the new timestamp; the
// result is sorted ascending by timestamp.
func CoalesceSteps(samples []domain.Sample, bucketMinutes int) []domain.Sample {
	if bucketMinutes <= 0 {
		bucketMinutes = DefaultBucketMinutes
	}
	width := int64(bucketMinutes) * 60

	out := make([]domain.Sample, 0, len(samples))
	buckets := make(map[bucketKey]domain.Sample)
	order := make([]bucketKey, 0)

	for _, s := range samples {
		if s.Type != domain.MetricSteps || s.Value == nil {
			out = append(out, s)
			continue
		}

		key := bucketKey{uid: s.UID, bucket: bucketStart(s.TS, width), unit: s.Unit}
		current, seen := buckets[key]
		if !seen {
			order = append(order, key)
			buckets[key] = s
			continue
		}
		if *s.Value > *current.Value {
			buckets[key] = s
		}
	}

	for _, key := range order {
		winner := buckets[key]
		winner.TS = time.Unix(key.bucket, 0).UTC()
		winner.Fingerprint = Fingerprint(winner)
		out = append(out, winner)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].TS.Before(out[j].TS) })
	return out
}

// bucketStart floors ts to the enclosing local-time bucket and returns the
// bucket start as a UTC unix timestamp.
func bucketStart(ts time.Time, widthSeconds int64) int64 {
	local := ts.Unix() + sourceOffsetSeconds
	floored := local - mod(local, widthSeconds)
	return floored - sourceOffsetSeconds
}

func mod(a, b int64) int64 {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
