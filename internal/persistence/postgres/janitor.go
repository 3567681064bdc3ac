package postgres

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Janitor expires old claim records on a fixed interval. Postgres has no
// row-level TTL, so retention is enforced here: claims older than the
// retention window are deleted, trading an arbitrarily long idempotency
// guarantee for bounded storage. Resubmission windows in practice are far
// shorter than the retention window.
type Janitor struct {
	pool             *pgxpool.Pool
	retention        time.Duration
	sweepInterval    time.Duration
	shutdownComplete chan struct{}
}

// NewJanitor constructs a Janitor.
func NewJanitor(pool *pgxpool.Pool, retention, sweepInterval time.Duration) *Janitor {
	return &Janitor{
		pool:             pool,
		retention:        retention,
		sweepInterval:    sweepInterval,
		shutdownComplete: make(chan struct{}),
	}
}

// Start launches the sweep loop. It should be called in a goroutine.
func (j *Janitor) Start(ctx context.Context) {
	ticker := time.NewTicker(j.sweepInterval)
	defer func() {
		ticker.Stop()
		close(j.shutdownComplete)
	}()

	for {
		if err := j.sweep(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("claims janitor error: %v", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Wait blocks until the janitor stops.
func (j *Janitor) Wait() {
	<-j.shutdownComplete
}

func (j *Janitor) sweep(ctx context.Context) error {
	tag, err := j.pool.Exec(ctx,
		`DELETE FROM sample_claims WHERE created_at < now() - make_interval(secs => $1)`,
		j.retention.Seconds(),
	)
	if err != nil {
		return err
	}
	if swept := tag.RowsAffected(); swept > 0 {
		claimsSweptCounter.Add(float64(swept))
		log.Printf("claims janitor: expired %d claims", swept)
	}
	return nil
}
