package repository

import (
	"context"
	"errors"
	"time"

	"mediaPipeline/worker/models"
)

var (
	ErrMediaNotFound = errors.New("media not found")

	// ErrJobNotProcessing means a terminal transition was attempted on a job
	// this worker no longer owns (already finalized or reclaimed).
	ErrJobNotProcessing = errors.New("job is not in processing state")
)

// Queue is the shared job table. Claim is the only synchronization point
// between worker processes.
type Queue interface {
	Claim(ctx context.Context) (*models.Job, error)
	MarkCompleted(ctx context.Context, jobID string) error
	MarkFailed(ctx context.Context, jobID string, message string) error
	ReclaimStale(ctx context.Context, timeout time.Duration) (int64, error)
}

// MediaRepository reads media metadata and persists pipeline outputs.
type MediaRepository interface {
	GetMedia(ctx context.Context, mediaID string) (*models.Media, error)
	SetDuration(ctx context.Context, mediaID string, seconds float64) error
	ReplaceSubtitles(ctx context.Context, mediaID string, subtitles []models.Subtitle) error
}
