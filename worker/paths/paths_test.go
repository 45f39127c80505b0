package paths

import (
	"path/filepath"
	"testing"
	"time"
)

func TestFor_Deterministic(t *testing.T) {
	createdAt := time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)

	set := For(7, createdAt, "abc")

	if set.RemoteVideo != "/7/2503/abc/video.mp4" {
		t.Errorf("Expected /7/2503/abc/video.mp4, got %s", set.RemoteVideo)
	}
	if set.RemoteAudio != "/7/2503/abc/audio.m4a" {
		t.Errorf("Expected /7/2503/abc/audio.m4a, got %s", set.RemoteAudio)
	}
	if set.RemoteHLSDir != "/7/2503/abc/hls/" {
		t.Errorf("Expected /7/2503/abc/hls/, got %s", set.RemoteHLSDir)
	}
	if set.SourceRemote != "/uploads/abc" {
		t.Errorf("Expected /uploads/abc, got %s", set.SourceRemote)
	}

	again := For(7, createdAt, "abc")
	if again != set {
		t.Errorf("Path set is not deterministic: %+v vs %+v", set, again)
	}
}

func TestFor_YearMonthFromCreation(t *testing.T) {
	createdAt := time.Date(2024, time.December, 31, 23, 59, 0, 0, time.UTC)

	set := For(12, createdAt, "m1")

	if set.RemoteBase != "/12/2412/m1" {
		t.Errorf("Expected base /12/2412/m1, got %s", set.RemoteBase)
	}
}

func TestStagingDir(t *testing.T) {
	dir := StagingDir("/tmp/work", "job123")
	if dir != filepath.Join("/tmp/work", "job-job123") {
		t.Errorf("Unexpected staging dir: %s", dir)
	}
}
