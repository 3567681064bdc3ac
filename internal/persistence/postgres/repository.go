// Package postgres implements the claim-based idempotent sample store.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/healthsync/internal/domain"
	"example.com/healthsync/internal/observability"
)

// DefaultChunkSize bounds how many samples one claim-and-write transaction
// covers.
const DefaultChunkSize = 800

// Repository persists samples exactly once per fingerprint. Idempotency
// rests entirely on the unique constraint over sample_claims.fingerprint:
// concurrent requests racing on the same fingerprint resolve at the store,
// with exactly one winner and no application-level locking.
type Repository struct {
	pool      *pgxpool.Pool
	chunkSize int
}

// NewRepository constructs a Repository. chunkSize <= 0 selects the default.
func NewRepository(pool *pgxpool.Pool, chunkSize int) *Repository {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Repository{pool: pool, chunkSize: chunkSize}
}

// WriteSamples claims and persists the samples in bounded chunks, processed
// in order. It returns how many samples were newly written; samples whose
// fingerprint was already claimed are skipped silently. Any store failure
// other than a claim conflict aborts the request.
func (r *Repository) WriteSamples(ctx context.Context, samples []domain.Sample) (int, error) {
	total := 0
	for start := 0; start < len(samples); start += r.chunkSize {
		end := start + r.chunkSize
		if end > len(samples) {
			end = len(samples)
		}

		written, err := r.writeChunk(ctx, samples[start:end])
		if err != nil {
			return total, fmt.Errorf("chunk starting at %d: %w", start, err)
		}
		total += written
	}

	if total > 0 {
		observability.RecordSamplesPersisted(time.Now().UTC())
	}
	return total, nil
}

func (r *Repository) writeChunk(ctx context.Context, chunk []domain.Sample) (written int, err error) {
	start := time.Now()

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	claimed, err := claimFingerprints(ctx, tx, chunk)
	if err != nil {
		return 0, err
	}

	const insertSample = `INSERT INTO samples (ts, metric_type, value, unit, user_id, source, device, payload, fingerprint)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`

	for _, sample := range chunk {
		if _, ok := claimed[sample.Fingerprint]; !ok {
			duplicatesCounter.Inc()
			continue
		}
		// a payload repeating the same observation claims it once
		delete(claimed, sample.Fingerprint)

		var payload []byte
		if sample.Payload != nil {
			payload, err = json.Marshal(sample.Payload)
			if err != nil {
				return 0, err
			}
		}

		_, err = tx.Exec(ctx, insertSample,
			sample.TS,
			string(sample.Type),
			sample.Value,
			sample.Unit,
			sample.UID,
			sample.Source,
			nullIfEmpty(sample.Device),
			payload,
			sample.Fingerprint,
		)
		if err != nil {
			return 0, err
		}
		written++
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, err
	}

	writtenCounter.Add(float64(written))
	chunkDuration.Observe(time.Since(start).Seconds())
	return written, nil
}

// claimFingerprints bulk-inserts one claim per sample and returns the set of
// fingerprints this transaction won. ON CONFLICT DO NOTHING keeps the insert
// unordered: a fingerprint already claimed by an earlier request skips that
// row without aborting the rest of the chunk.
func claimFingerprints(ctx context.Context, tx pgx.Tx, chunk []domain.Sample) (map[string]struct{}, error) {
	fingerprints := make([]string, len(chunk))
	owners := make([]string, len(chunk))
	for i, sample := range chunk {
		fingerprints[i] = sample.Fingerprint
		owners[i] = sample.UID
	}

	const stmt = `INSERT INTO sample_claims (fingerprint, user_id)
        SELECT fp, owner FROM unnest($1::text[], $2::text[]) AS claims(fp, owner)
        ON CONFLICT (fingerprint) DO NOTHING
        RETURNING fingerprint`

	rows, err := tx.Query(ctx, stmt, fingerprints, owners)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	claimed := make(map[string]struct{}, len(chunk))
	for rows.Next() {
		var fingerprint string
		if err := rows.Scan(&fingerprint); err != nil {
			return nil, err
		}
		claimed[fingerprint] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return claimed, nil
}

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
