package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mediaPipeline/worker/models"
)

type PostgresMediaRepo struct {
	db *pgxpool.Pool
}

func NewPostgresMediaRepo(db *pgxpool.Pool) *PostgresMediaRepo {
	return &PostgresMediaRepo{db: db}
}

func (r *PostgresMediaRepo) GetMedia(ctx context.Context, mediaID string) (*models.Media, error) {
	query := `
		SELECT id, title, category_id, created_at
		FROM media_files
		WHERE id = $1
	`

	var media models.Media
	err := r.db.QueryRow(ctx, query, mediaID).Scan(
		&media.ID,
		&media.Title,
		&media.CategoryID,
		&media.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMediaNotFound
		}
		return nil, err
	}

	return &media, nil
}

func (r *PostgresMediaRepo) SetDuration(ctx context.Context, mediaID string, seconds float64) error {
	result, err := r.db.Exec(ctx,
		`UPDATE media_files SET duration_seconds = $2 WHERE id = $1`,
		mediaID, seconds,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrMediaNotFound
	}
	return nil
}

// ReplaceSubtitles drops any prior transcript for the media and inserts the
// new one in a single transaction, so a reclaimed-and-retried job never
// leaves duplicate rows behind.
func (r *PostgresMediaRepo) ReplaceSubtitles(ctx context.Context, mediaID string, subtitles []models.Subtitle) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM subtitles WHERE media_id = $1`, mediaID); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for _, sub := range subtitles {
		batch.Queue(
			`INSERT INTO subtitles (media_id, start_time_ms, end_time_ms, text) VALUES ($1, $2, $3, $4)`,
			mediaID, sub.StartTimeMS, sub.EndTimeMS, sub.Text,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
