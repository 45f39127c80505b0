package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.PollInterval != 5*time.Second {
		t.Errorf("Expected default poll interval 5s, got %v", cfg.PollInterval)
	}
	if cfg.StaleTimeout != 30*time.Minute {
		t.Errorf("Expected default stale timeout 30m, got %v", cfg.StaleTimeout)
	}
	if cfg.HLSBitrateKbps != 2500 {
		t.Errorf("Expected default bitrate 2500, got %d", cfg.HLSBitrateKbps)
	}
	if cfg.FFmpegBin != "ffmpeg" {
		t.Errorf("Expected default ffmpeg binary, got %s", cfg.FFmpegBin)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "250ms")
	t.Setenv("STALE_TIMEOUT", "1h")
	t.Setenv("HLS_SEGMENT_SECONDS", "6")
	t.Setenv("WHISPER_LANGUAGE", "zh")

	cfg := Load()

	if cfg.PollInterval != 250*time.Millisecond {
		t.Errorf("Expected poll interval 250ms, got %v", cfg.PollInterval)
	}
	if cfg.StaleTimeout != time.Hour {
		t.Errorf("Expected stale timeout 1h, got %v", cfg.StaleTimeout)
	}
	if cfg.HLSSegmentSeconds != 6 {
		t.Errorf("Expected segment seconds 6, got %d", cfg.HLSSegmentSeconds)
	}
	if cfg.WhisperLanguage != "zh" {
		t.Errorf("Expected language zh, got %s", cfg.WhisperLanguage)
	}
}

func TestLoad_BadIntFallsBack(t *testing.T) {
	t.Setenv("HLS_BITRATE_KBPS", "not-a-number")

	cfg := Load()

	if cfg.HLSBitrateKbps != 2500 {
		t.Errorf("Expected fallback to 2500, got %d", cfg.HLSBitrateKbps)
	}
}
