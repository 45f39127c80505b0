package transcode

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"mediaPipeline/worker/paths"
	"mediaPipeline/worker/runner"
)

// Transcoder wraps the ffmpeg family of tools to produce the standard
// artifact set for one media item.
type Transcoder struct {
	ffmpegBin  string
	ffprobeBin string
	runner     runner.Runner
	logger     *zap.Logger
}

func NewTranscoder(ffmpegBin, ffprobeBin string, r runner.Runner, logger *zap.Logger) *Transcoder {
	return &Transcoder{
		ffmpegBin:  ffmpegBin,
		ffprobeBin: ffprobeBin,
		runner:     r,
		logger:     logger,
	}
}

// Normalize re-encodes the source into the standard H.264/AAC mp4 and then
// extracts the audio track from the result without re-encoding it.
func (t *Transcoder) Normalize(ctx context.Context, sourcePath, stagingDir string) (videoPath, audioPath string, err error) {
	videoPath = paths.LocalVideo(stagingDir)
	audioPath = paths.LocalAudio(stagingDir)

	t.logger.Info("Normalizing source",
		zap.String("source", sourcePath),
		zap.String("video", videoPath),
	)

	args := []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-i", sourcePath,
		"-c:v", "libx264",
		"-preset", "medium",
		"-c:a", "aac",
		"-movflags", "+faststart",
		videoPath,
	}
	if _, err := t.runner.Run(ctx, t.ffmpegBin, args...); err != nil {
		return "", "", fmt.Errorf("normalize video: %w", err)
	}

	args = []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-i", videoPath,
		"-vn",
		"-c:a", "copy",
		audioPath,
	}
	if _, err := t.runner.Run(ctx, t.ffmpegBin, args...); err != nil {
		return "", "", fmt.Errorf("extract audio: %w", err)
	}

	return videoPath, audioPath, nil
}

// Segment produces an HLS playlist with fixed-length, zero-padded numbered
// segments at the target bitrate.
func (t *Transcoder) Segment(ctx context.Context, videoPath, stagingDir string, bitrateKbps, segmentSeconds int) (string, error) {
	hlsDir := paths.LocalHLSDir(stagingDir)
	if err := os.MkdirAll(hlsDir, 0o755); err != nil {
		return "", fmt.Errorf("creating hls directory: %w", err)
	}

	t.logger.Info("Segmenting video",
		zap.String("video", videoPath),
		zap.Int("bitrate_kbps", bitrateKbps),
		zap.Int("segment_seconds", segmentSeconds),
	)

	bitrate := strconv.Itoa(bitrateKbps) + "k"
	args := []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-i", videoPath,
		"-c:v", "libx264",
		"-b:v", bitrate,
		"-c:a", "aac",
		"-hls_time", strconv.Itoa(segmentSeconds),
		"-hls_list_size", "0",
		"-hls_segment_filename", hlsDir + "/segment_%03d.ts",
		paths.Playlist(hlsDir),
	}
	if _, err := t.runner.Run(ctx, t.ffmpegBin, args...); err != nil {
		return "", fmt.Errorf("segment video: %w", err)
	}

	return hlsDir, nil
}

// Thumbnail grabs one frame from the normalized video and scales it down to
// the cover width, preserving aspect ratio.
func (t *Transcoder) Thumbnail(ctx context.Context, videoPath, stagingDir string, coverWidth int) (string, error) {
	coverPath := paths.LocalCover(stagingDir)
	framePath := coverPath + ".frame.jpg"

	args := []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-ss", "1",
		"-i", videoPath,
		"-frames:v", "1",
		framePath,
	}
	if _, err := t.runner.Run(ctx, t.ffmpegBin, args...); err != nil {
		return "", fmt.Errorf("grab cover frame: %w", err)
	}
	defer os.Remove(framePath)

	frame, err := imaging.Open(framePath)
	if err != nil {
		return "", fmt.Errorf("open cover frame: %w", err)
	}
	cover := imaging.Resize(frame, coverWidth, 0, imaging.Lanczos)
	if err := imaging.Save(cover, coverPath, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("save cover: %w", err)
	}

	return coverPath, nil
}

// Probe returns the media duration in seconds as reported by ffprobe.
func (t *Transcoder) Probe(ctx context.Context, videoPath string) (float64, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		videoPath,
	}
	out, err := t.runner.Run(ctx, t.ffprobeBin, args...)
	if err != nil {
		return 0, fmt.Errorf("probe duration: %w", err)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(out.Stdout), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing ffprobe duration %q: %w", strings.TrimSpace(out.Stdout), err)
	}
	return seconds, nil
}
