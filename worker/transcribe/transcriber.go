package transcribe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"mediaPipeline/worker/models"
	"mediaPipeline/worker/runner"
)

// ErrMalformedTranscript reports whisper output that could not be parsed
// into the expected segment structure.
var ErrMalformedTranscript = errors.New("malformed transcript")

// Transcriber wraps whisper.cpp to produce timed transcript segments for an
// audio file.
type Transcriber struct {
	whisperBin string
	modelPath  string
	language   string
	runner     runner.Runner
	logger     *zap.Logger
}

func NewTranscriber(whisperBin, modelPath, language string, r runner.Runner, logger *zap.Logger) *Transcriber {
	if strings.EqualFold(strings.TrimSpace(language), "auto") {
		language = ""
	}
	return &Transcriber{
		whisperBin: whisperBin,
		modelPath:  modelPath,
		language:   language,
		runner:     r,
		logger:     logger,
	}
}

// whisperOutput mirrors the JSON whisper.cpp writes with -oj. Offsets are
// already milliseconds.
type whisperOutput struct {
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// Transcribe runs speech recognition over audioPath and returns the parsed
// segments in order. Empty-text segments are retained: the correction
// workflow may still want the timing slot.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string) ([]models.Subtitle, error) {
	outBase := strings.TrimSuffix(audioPath, ".m4a")

	t.logger.Info("Transcribing audio",
		zap.String("audio", audioPath),
		zap.String("language", t.language),
	)

	args := []string{
		"-m", t.modelPath,
		"-f", audioPath,
		"-of", outBase,
		"-oj",
	}
	if t.language != "" {
		args = append(args, "-l", t.language)
	}

	if _, err := t.runner.Run(ctx, t.whisperBin, args...); err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}

	jsonPath := outBase + ".json"
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("%w: transcript file missing: %v", ErrMalformedTranscript, err)
	}

	return parseSegments(data)
}

func parseSegments(data []byte) ([]models.Subtitle, error) {
	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTranscript, err)
	}
	if out.Transcription == nil {
		return nil, fmt.Errorf("%w: no transcription array", ErrMalformedTranscript)
	}

	subs := make([]models.Subtitle, 0, len(out.Transcription))
	for i, seg := range out.Transcription {
		if seg.Offsets.From < 0 || seg.Offsets.To < seg.Offsets.From {
			return nil, fmt.Errorf("%w: segment %d has offsets %d..%d",
				ErrMalformedTranscript, i, seg.Offsets.From, seg.Offsets.To)
		}
		subs = append(subs, models.Subtitle{
			StartTimeMS: seg.Offsets.From,
			EndTimeMS:   seg.Offsets.To,
			Text:        strings.TrimSpace(seg.Text),
		})
	}
	return subs, nil
}
