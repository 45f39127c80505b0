package paths

import (
	"fmt"
	"path"
	"path/filepath"
	"time"
)

// Set is the full path layout for one media item: the remote locations every
// artifact ends up at, plus the local staging names used while producing them.
// Everything is derived from metadata; nothing in here is ever persisted.
type Set struct {
	RemoteBase   string
	RemoteVideo  string
	RemoteAudio  string
	RemoteCover  string
	RemoteHLSDir string
	SourceRemote string
}

const (
	videoName    = "video.mp4"
	audioName    = "audio.m4a"
	coverName    = "cover.jpg"
	hlsDirName   = "hls"
	playlistName = "playlist.m3u8"
	uploadPrefix = "/uploads"
)

// For computes the remote path set for a media item. The year-month segment
// comes from the media's creation timestamp, not the processing time, so the
// mapping stays stable across retries.
func For(categoryID int, createdAt time.Time, mediaID string) Set {
	base := fmt.Sprintf("/%d/%s/%s", categoryID, createdAt.Format("0601"), mediaID)
	return Set{
		RemoteBase:   base,
		RemoteVideo:  path.Join(base, videoName),
		RemoteAudio:  path.Join(base, audioName),
		RemoteCover:  path.Join(base, coverName),
		RemoteHLSDir: base + "/" + hlsDirName + "/",
		SourceRemote: path.Join(uploadPrefix, mediaID),
	}
}

// StagingDir is the local working directory for one job attempt, owned
// exclusively by that attempt and removed on the way out.
func StagingDir(workDir, jobID string) string {
	return filepath.Join(workDir, "job-"+jobID)
}

// LocalVideo, LocalAudio, LocalCover and LocalHLSDir name the staging
// counterparts of the remote artifacts.
func LocalVideo(stagingDir string) string { return filepath.Join(stagingDir, videoName) }
func LocalAudio(stagingDir string) string { return filepath.Join(stagingDir, audioName) }
func LocalCover(stagingDir string) string { return filepath.Join(stagingDir, coverName) }
func LocalHLSDir(stagingDir string) string {
	return filepath.Join(stagingDir, hlsDirName)
}

// LocalSource is where the uploaded original lands before transcoding.
func LocalSource(stagingDir string) string { return filepath.Join(stagingDir, "source") }

// Playlist returns the playlist file inside an HLS directory.
func Playlist(hlsDir string) string { return filepath.Join(hlsDir, playlistName) }
