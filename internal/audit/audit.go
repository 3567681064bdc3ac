// Package audit records ingestion outcomes for operational review. Recording
// is best-effort: callers discard its errors so a broken audit path never
// fails a sync request.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/healthsync/internal/domain"
)

// Status classifies the terminal outcome of one sync request.
type Status string

const (
	StatusOK       Status = "ok"
	StatusEmpty    Status = "empty"
	StatusTooLarge Status = "too_large"
	StatusFailed   Status = "failed"
)

// Entry is one ingestion outcome record.
type Entry struct {
	ID        string                    `json:"id"`
	UID       string                    `json:"uid"`
	Status    Status                    `json:"status"`
	Attempted int                       `json:"attempted"`
	Inserted  int                       `json:"inserted"`
	ByType    map[domain.MetricType]int `json:"by_type,omitempty"`
	ElapsedMS int64                     `json:"elapsed_ms"`
	Detail    string                    `json:"detail,omitempty"`
	CreatedAt time.Time                 `json:"created_at"`
}

// Recorder persists audit entries to Postgres and, when a publisher is
// configured, mirrors them onto the event stream for dashboards.
type Recorder struct {
	pool      *pgxpool.Pool
	publisher *Publisher
}

// NewRecorder constructs a Recorder. publisher may be nil.
func NewRecorder(pool *pgxpool.Pool, publisher *Publisher) *Recorder {
	return &Recorder{pool: pool, publisher: publisher}
}

// Record writes the entry to the audit table and publishes it downstream.
// Publish failures are absorbed here; only the table write is reported back.
func (r *Recorder) Record(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	byType, err := json.Marshal(entry.ByType)
	if err != nil {
		return err
	}

	const stmt = `INSERT INTO ingest_audit (audit_id, user_id, status, attempted, inserted, by_type, elapsed_ms, detail, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`

	_, err = r.pool.Exec(ctx, stmt,
		entry.ID,
		entry.UID,
		string(entry.Status),
		entry.Attempted,
		entry.Inserted,
		byType,
		entry.ElapsedMS,
		nullIfEmpty(entry.Detail),
		entry.CreatedAt,
	)
	if err != nil {
		return err
	}

	if r.publisher != nil {
		// fire-and-forget mirror; the table row is the source of truth
		_ = r.publisher.Publish(ctx, entry)
	}
	return nil
}

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
