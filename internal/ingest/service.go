// Package ingest implements the metric ingestion pipeline: payload parsing,
// sample building, steps coalescing and the idempotent write orchestration.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"example.com/healthsync/internal/audit"
	"example.com/healthsync/internal/domain"
)

// ErrPayloadTooLarge is returned when a payload expands past the sample
// ceiling. The store is not touched in that case.
var ErrPayloadTooLarge = errors.New("payload exceeds sample ceiling")

// DefaultMaxSamples bounds how many samples a single sync request may
// produce.
const DefaultMaxSamples = 500_000

// Writer persists samples at most once per fingerprint. Implementations rely
// on a store-level uniqueness constraint, not application locks, so sync
// requests stay safe across processes.
type Writer interface {
	WriteSamples(ctx context.Context, samples []domain.Sample) (int, error)
}

// Auditor records terminal ingestion outcomes.
type Auditor interface {
	Record(ctx context.Context, entry audit.Entry) error
}

// Result reports what a sync request accomplished.
type Result struct {
	Attempted int
	Inserted  int
	ByType    map[domain.MetricType]int
}

// Options carries the orchestrator's tunables; zero values select defaults.
type Options struct {
	MaxSamples    int
	BucketMinutes int
}

// Service sequences the ingestion pipeline for one sync request at a time.
// It holds no mutable state, so concurrent requests need no coordination
// beyond the writer's claim protocol.
type Service struct {
	writer        Writer
	auditor       Auditor
	maxSamples    int
	bucketMinutes int
	logger        *log.Logger
}

// NewService constructs a Service. auditor may be nil.
func NewService(writer Writer, auditor Auditor, opts Options) *Service {
	maxSamples := opts.MaxSamples
	if maxSamples <= 0 {
		maxSamples = DefaultMaxSamples
	}
	bucketMinutes := opts.BucketMinutes
	if bucketMinutes <= 0 {
		bucketMinutes = DefaultBucketMinutes
	}
	return &Service{
		writer:        writer,
		auditor:       auditor,
		maxSamples:    maxSamples,
		bucketMinutes: bucketMinutes,
		logger:        log.New(log.Writer(), "[ingest] ", log.LstdFlags),
	}
}

// Sync runs the full pipeline for one payload: parse, build, coalesce,
// guard, write. Individual unparseable entries are dropped along the way; an
// empty sample list is a normal no-data outcome. Every terminal outcome is
// reported once to the auditor, best-effort.
func (s *Service) Sync(ctx context.Context, uid string, raw RawPayload, device string) (Result, error) {
	start := time.Now()

	parsed := ParsePayload(raw)
	samples := BuildSamples(uid, device, parsed)
	samples = CoalesceSteps(samples, s.bucketMinutes)

	result := Result{
		Attempted: len(samples),
		ByType:    tallyByType(samples),
	}

	if result.Attempted > s.maxSamples {
		err := fmt.Errorf("%w: %d samples, ceiling %d", ErrPayloadTooLarge, result.Attempted, s.maxSamples)
		s.reportOutcome(uid, audit.StatusTooLarge, result, start, err)
		return Result{}, err
	}

	if result.Attempted == 0 {
		s.reportOutcome(uid, audit.StatusEmpty, result, start, nil)
		return result, nil
	}

	inserted, err := s.writer.WriteSamples(ctx, samples)
	if err != nil {
		s.reportOutcome(uid, audit.StatusFailed, result, start, err)
		return Result{}, fmt.Errorf("writing samples: %w", err)
	}
	result.Inserted = inserted

	syncDuration.Observe(time.Since(start).Seconds())
	samplesAttemptedCounter.Add(float64(result.Attempted))
	samplesInsertedCounter.Add(float64(result.Inserted))

	s.reportOutcome(uid, audit.StatusOK, result, start, nil)
	return result, nil
}

// reportOutcome hands the outcome to the auditor on its own goroutine with
// its own deadline. Audit failures are logged and discarded; the response
// path never depends on them.
func (s *Service) reportOutcome(uid string, status audit.Status, result Result, start time.Time, cause error) {
	if s.auditor == nil {
		return
	}

	entry := audit.Entry{
		UID:       uid,
		Status:    status,
		Attempted: result.Attempted,
		Inserted:  result.Inserted,
		ByType:    result.ByType,
		ElapsedMS: time.Since(start).Milliseconds(),
	}
	if cause != nil {
		entry.Detail = cause.Error()
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.auditor.Record(ctx, entry); err != nil {
			s.logger.Printf("audit record failed: %v", err)
		}
	}()
}

func tallyByType(samples []domain.Sample) map[domain.MetricType]int {
	byType := make(map[domain.MetricType]int)
	for _, sample := range samples {
		byType[sample.Type]++
	}
	return byType
}
