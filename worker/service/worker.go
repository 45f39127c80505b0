package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"mediaPipeline/worker/kafka"
	"mediaPipeline/worker/models"
)

// JobRunner processes one claimed job to a terminal status.
type JobRunner interface {
	Run(ctx context.Context, job *models.Job) error
}

// StatusMirror is the best-effort status side channel (Redis).
type StatusMirror interface {
	Set(ctx context.Context, jobID string, status models.JobStatus) error
}

// Worker is the claim loop: claim the oldest pending job, hand it to the
// pipeline, then go back to claiming. An empty queue or a database error
// both back off for the poll interval. The loop only stops when its
// context is cancelled.
type Worker struct {
	id           string
	queue        Queue
	pipeline     JobRunner
	cache        StatusMirror
	events       kafka.Producer
	pollInterval time.Duration
	logger       *zap.Logger
}

// Queue is the claim-side slice of the job table the loop needs.
type Queue interface {
	Claim(ctx context.Context) (*models.Job, error)
}

func NewWorker(
	id string,
	queue Queue,
	pipeline JobRunner,
	cache StatusMirror,
	events kafka.Producer,
	pollInterval time.Duration,
	logger *zap.Logger,
) *Worker {
	return &Worker{
		id:           id,
		queue:        queue,
		pipeline:     pipeline,
		cache:        cache,
		events:       events,
		pollInterval: pollInterval,
		logger:       logger,
	}
}

func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("Worker started",
		zap.String("worker_id", w.id),
		zap.Duration("poll_interval", w.pollInterval),
	)

	for {
		job, err := w.queue.Claim(ctx)
		if err != nil {
			// A claim error means ownership was never established, so no
			// job status is touched. Back off and try again.
			w.logger.Error("Claim failed",
				zap.String("worker_id", w.id),
				zap.Error(err),
			)
			if !w.sleep(ctx) {
				return
			}
			continue
		}
		if job == nil {
			if !w.sleep(ctx) {
				return
			}
			continue
		}

		w.handle(ctx, job)

		select {
		case <-ctx.Done():
			w.logger.Info("Worker stopping", zap.String("worker_id", w.id))
			return
		default:
		}
	}
}

func (w *Worker) handle(ctx context.Context, job *models.Job) {
	w.logger.Info("Claimed job",
		zap.String("worker_id", w.id),
		zap.String("job_id", job.ID),
		zap.String("media_id", job.MediaID),
	)
	w.mirror(ctx, job, models.StatusProcessing, "")

	err := w.pipeline.Run(ctx, job)
	if err != nil {
		w.mirror(ctx, job, models.StatusFailed, err.Error())
		return
	}
	w.mirror(ctx, job, models.StatusCompleted, "")
}

// mirror pushes the transition into Redis and Kafka. Both are best-effort:
// the job table stays the source of truth.
func (w *Worker) mirror(ctx context.Context, job *models.Job, status models.JobStatus, errMsg string) {
	if w.cache != nil {
		if err := w.cache.Set(ctx, job.ID, status); err != nil {
			w.logger.Warn("Status cache update failed",
				zap.String("job_id", job.ID),
				zap.Error(err),
			)
		}
	}
	if w.events != nil {
		event := &kafka.JobEvent{
			JobID:    job.ID,
			MediaID:  job.MediaID,
			WorkerID: w.id,
			Status:   string(status),
			Error:    errMsg,
		}
		if err := w.events.SendJobEvent(event); err != nil {
			w.logger.Warn("Job event publish failed",
				zap.String("job_id", job.ID),
				zap.Error(err),
			)
		}
	}
}

func (w *Worker) sleep(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		w.logger.Info("Worker stopping", zap.String("worker_id", w.id))
		return false
	case <-time.After(w.pollInterval):
		return true
	}
}
