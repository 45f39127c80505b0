package pipeline

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"mediaPipeline/worker/models"
	"mediaPipeline/worker/paths"
	"mediaPipeline/worker/repository"
)

// StepError attributes a pipeline failure to the step that produced it. Its
// message becomes the job's error_message.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Transcoder produces the standard artifact set from a source file.
type Transcoder interface {
	Normalize(ctx context.Context, sourcePath, stagingDir string) (videoPath, audioPath string, err error)
	Segment(ctx context.Context, videoPath, stagingDir string, bitrateKbps, segmentSeconds int) (string, error)
	Thumbnail(ctx context.Context, videoPath, stagingDir string, coverWidth int) (string, error)
	Probe(ctx context.Context, videoPath string) (float64, error)
}

// Transcriber turns an audio file into timed transcript segments.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) ([]models.Subtitle, error)
}

// ArtifactStore moves files between staging and the remote tier.
type ArtifactStore interface {
	Upload(localPath, remotePath string) error
	UploadDir(localDir, remoteDir string) error
	Download(remotePath, localPath string) error
}

type Options struct {
	WorkDir           string
	HLSBitrateKbps    int
	HLSSegmentSeconds int
	CoverWidth        int
}

// Pipeline executes the fixed processing sequence for one claimed job:
// download, normalize, segment, cover, transcribe, persist, upload,
// duration, finalize. The first failing step aborts the rest; the staging
// directory is removed on every exit path.
type Pipeline struct {
	queue       repository.Queue
	media       repository.MediaRepository
	store       ArtifactStore
	transcoder  Transcoder
	transcriber Transcriber
	opts        Options
	logger      *zap.Logger
}

func New(
	queue repository.Queue,
	media repository.MediaRepository,
	store ArtifactStore,
	transcoder Transcoder,
	transcriber Transcriber,
	opts Options,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		queue:       queue,
		media:       media,
		store:       store,
		transcoder:  transcoder,
		transcriber: transcriber,
		opts:        opts,
		logger:      logger,
	}
}

// Run processes a claimed job to a terminal status. The returned error is
// the failure already recorded on the job, or a database error from the
// terminal update itself.
func (p *Pipeline) Run(ctx context.Context, job *models.Job) error {
	staging := paths.StagingDir(p.opts.WorkDir, job.ID)
	if err := os.MkdirAll(staging, 0o755); err != nil {
		stepErr := &StepError{Step: "create staging directory", Err: err}
		p.fail(ctx, job, stepErr)
		return stepErr
	}
	defer func() {
		if err := os.RemoveAll(staging); err != nil {
			p.logger.Warn("Failed to remove staging directory",
				zap.String("job_id", job.ID),
				zap.String("dir", staging),
				zap.Error(err),
			)
		}
	}()

	if err := p.process(ctx, job, staging); err != nil {
		p.fail(ctx, job, err)
		return err
	}

	if err := p.queue.MarkCompleted(ctx, job.ID); err != nil {
		p.logger.Error("Failed to mark job completed",
			zap.String("job_id", job.ID),
			zap.Error(err),
		)
		return err
	}

	p.logger.Info("Job completed",
		zap.String("job_id", job.ID),
		zap.String("media_id", job.MediaID),
	)
	return nil
}

func (p *Pipeline) process(ctx context.Context, job *models.Job, staging string) *StepError {
	media, err := p.media.GetMedia(ctx, job.MediaID)
	if err != nil {
		return &StepError{Step: "fetch metadata", Err: err}
	}
	pathSet := paths.For(media.CategoryID, media.CreatedAt, media.ID)

	sourcePath := paths.LocalSource(staging)
	if err := p.store.Download(pathSet.SourceRemote, sourcePath); err != nil {
		return &StepError{Step: "download source", Err: err}
	}

	videoPath, audioPath, err := p.transcoder.Normalize(ctx, sourcePath, staging)
	if err != nil {
		return &StepError{Step: "normalize", Err: err}
	}

	hlsDir, err := p.transcoder.Segment(ctx, videoPath, staging, p.opts.HLSBitrateKbps, p.opts.HLSSegmentSeconds)
	if err != nil {
		return &StepError{Step: "segment", Err: err}
	}

	coverPath, err := p.transcoder.Thumbnail(ctx, videoPath, staging, p.opts.CoverWidth)
	if err != nil {
		return &StepError{Step: "cover", Err: err}
	}

	subtitles, err := p.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return &StepError{Step: "transcribe", Err: err}
	}
	for i := range subtitles {
		subtitles[i].MediaID = media.ID
	}

	if err := p.media.ReplaceSubtitles(ctx, media.ID, subtitles); err != nil {
		return &StepError{Step: "store subtitles", Err: err}
	}

	if err := p.store.Upload(videoPath, pathSet.RemoteVideo); err != nil {
		return &StepError{Step: "upload video", Err: err}
	}
	if err := p.store.Upload(audioPath, pathSet.RemoteAudio); err != nil {
		return &StepError{Step: "upload audio", Err: err}
	}
	if err := p.store.Upload(coverPath, pathSet.RemoteCover); err != nil {
		return &StepError{Step: "upload cover", Err: err}
	}
	if err := p.store.UploadDir(hlsDir, pathSet.RemoteHLSDir); err != nil {
		return &StepError{Step: "upload segments", Err: err}
	}

	seconds, err := p.transcoder.Probe(ctx, videoPath)
	if err != nil {
		return &StepError{Step: "probe duration", Err: err}
	}
	if err := p.media.SetDuration(ctx, media.ID, seconds); err != nil {
		return &StepError{Step: "store duration", Err: err}
	}

	return nil
}

func (p *Pipeline) fail(ctx context.Context, job *models.Job, stepErr *StepError) {
	p.logger.Error("Pipeline step failed",
		zap.String("job_id", job.ID),
		zap.String("media_id", job.MediaID),
		zap.String("step", stepErr.Step),
		zap.Error(stepErr.Err),
	)

	if err := p.queue.MarkFailed(ctx, job.ID, stepErr.Error()); err != nil {
		// Ownership may have been reclaimed while we were working; the
		// guard refuses the update and the failure is only logged.
		p.logger.Error("Failed to mark job failed",
			zap.String("job_id", job.ID),
			zap.Error(err),
		)
	}
}
