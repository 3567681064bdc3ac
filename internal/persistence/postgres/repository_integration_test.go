//go:build integration

package postgres

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"example.com/healthsync/internal/domain"
	"example.com/healthsync/internal/ingest"
)

func startPostgres(t *testing.T, ctx context.Context) *pgxpool.Pool {
	t.Helper()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("health"),
		postgrescontainer.WithUsername("healthsync"),
		postgrescontainer.WithPassword("healthsync"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, waitForDatabase(ctx, connStr))
	runMigrations(t, ctx, connStr)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	var lastErr error
	for time.Now().Before(deadline) {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		lastErr = err
		time.Sleep(500 * time.Millisecond)
	}
	return lastErr
}

func runMigrations(t *testing.T, ctx context.Context, connStr string) {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	require.True(t, ok)

	migration := filepath.Join(filepath.Dir(thisFile), "../../../db/postgres/migrations/0001_init.up.sql")
	sql, err := os.ReadFile(migration)
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	defer pool.Close()

	_, err = pool.Exec(ctx, string(sql))
	require.NoError(t, err)
}

func testSample(uid string, ts time.Time, value float64) domain.Sample {
	s := domain.Sample{
		TS:     ts,
		Type:   domain.MetricHeartRate,
		Unit:   "bpm",
		UID:    uid,
		Source: domain.SourceShortcut,
		Device: "watch-7",
		Value:  domain.Float(value),
	}
	s.Fingerprint = ingest.Fingerprint(s)
	return s
}

func TestWriteSamplesIsIdempotent(t *testing.T) {
	ctx := context.Background()
	pool := startPostgres(t, ctx)
	repo := NewRepository(pool, 0)

	base := time.Date(2025, time.March, 4, 10, 30, 0, 0, time.UTC)
	samples := []domain.Sample{
		testSample("user-1", base, 62),
		testSample("user-1", base.Add(time.Minute), 64),
		testSample("user-1", base.Add(2*time.Minute), 66),
	}

	written, err := repo.WriteSamples(ctx, samples)
	require.NoError(t, err)
	require.Equal(t, 3, written)

	// identical resubmission inserts nothing
	written, err = repo.WriteSamples(ctx, samples)
	require.NoError(t, err)
	require.Equal(t, 0, written)

	var count int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM samples`).Scan(&count))
	require.Equal(t, 3, count)
}

func TestWriteSamplesPartialDuplicateChunk(t *testing.T) {
	ctx := context.Background()
	pool := startPostgres(t, ctx)
	repo := NewRepository(pool, 0)

	base := time.Date(2025, time.March, 4, 10, 30, 0, 0, time.UTC)
	first := []domain.Sample{
		testSample("user-1", base, 62),
		testSample("user-1", base.Add(time.Minute), 64),
	}

	written, err := repo.WriteSamples(ctx, first)
	require.NoError(t, err)
	require.Equal(t, 2, written)

	// one overlapping sample plus two new ones
	second := []domain.Sample{
		first[1],
		testSample("user-1", base.Add(2*time.Minute), 66),
		testSample("user-1", base.Add(3*time.Minute), 68),
	}

	written, err = repo.WriteSamples(ctx, second)
	require.NoError(t, err)
	require.Equal(t, 2, written)

	var count int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM samples`).Scan(&count))
	require.Equal(t, 4, count)
}

func TestWriteSamplesChunking(t *testing.T) {
	ctx := context.Background()
	pool := startPostgres(t, ctx)
	repo := NewRepository(pool, 2)

	base := time.Date(2025, time.March, 4, 10, 30, 0, 0, time.UTC)
	samples := make([]domain.Sample, 5)
	for i := range samples {
		samples[i] = testSample("user-1", base.Add(time.Duration(i)*time.Minute), float64(60+i))
	}

	written, err := repo.WriteSamples(ctx, samples)
	require.NoError(t, err)
	require.Equal(t, 5, written)
}

func TestJanitorSweepsExpiredClaims(t *testing.T) {
	ctx := context.Background()
	pool := startPostgres(t, ctx)
	repo := NewRepository(pool, 0)

	sample := testSample("user-1", time.Date(2025, time.March, 4, 10, 30, 0, 0, time.UTC), 62)
	_, err := repo.WriteSamples(ctx, []domain.Sample{sample})
	require.NoError(t, err)

	// age the claim past the retention window
	_, err = pool.Exec(ctx, `UPDATE sample_claims SET created_at = now() - interval '400 days'`)
	require.NoError(t, err)

	janitor := NewJanitor(pool, 365*24*time.Hour, time.Hour)
	require.NoError(t, janitor.sweep(ctx))

	var count int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM sample_claims`).Scan(&count))
	require.Equal(t, 0, count)
}
