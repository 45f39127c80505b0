package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mediaPipeline/worker/models"
)

type PostgresQueue struct {
	db *pgxpool.Pool
}

func NewPostgresQueue(db *pgxpool.Pool) *PostgresQueue {
	return &PostgresQueue{db: db}
}

// Claim takes the oldest pending job, marks it processing and returns it.
// FOR UPDATE SKIP LOCKED keeps a row locked by a concurrent claim invisible
// instead of blocking, so no two callers ever see the same row. Returns
// (nil, nil) when the queue is empty.
func (q *PostgresQueue) Claim(ctx context.Context) (*models.Job, error) {
	query := `
		WITH next AS (
			SELECT id
			FROM jobs
			WHERE status = 'pending'
			ORDER BY created_at
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		UPDATE jobs
		SET status = 'processing', processing_started_at = NOW()
		WHERE id IN (SELECT id FROM next)
		RETURNING id, media_id, created_at, processing_started_at
	`

	var job models.Job
	err := q.db.QueryRow(ctx, query).Scan(
		&job.ID,
		&job.MediaID,
		&job.CreatedAt,
		&job.ProcessingStartedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	job.Status = models.StatusProcessing
	return &job, nil
}

func (q *PostgresQueue) MarkCompleted(ctx context.Context, jobID string) error {
	query := `
		UPDATE jobs
		SET status = 'completed', error_message = NULL
		WHERE id = $1 AND status = 'processing'
	`

	result, err := q.db.Exec(ctx, query, jobID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrJobNotProcessing
	}
	return nil
}

func (q *PostgresQueue) MarkFailed(ctx context.Context, jobID string, message string) error {
	query := `
		UPDATE jobs
		SET status = 'failed', error_message = $2
		WHERE id = $1 AND status = 'processing'
	`

	result, err := q.db.Exec(ctx, query, jobID, message)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrJobNotProcessing
	}
	return nil
}

// ReclaimStale returns every job stuck in processing past the timeout to
// pending, making it claimable again. A worker legitimately working past
// the timeout loses ownership; its terminal update is then refused by the
// status guard above.
func (q *PostgresQueue) ReclaimStale(ctx context.Context, timeout time.Duration) (int64, error) {
	query := `
		UPDATE jobs
		SET status = 'pending', processing_started_at = NULL, error_message = NULL
		WHERE status = 'processing' AND processing_started_at < $1
	`

	result, err := q.db.Exec(ctx, query, time.Now().Add(-timeout))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
