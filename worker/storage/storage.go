package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"go.uber.org/zap"
)

// remoteFS is the slice of the SFTP client the store actually uses, kept
// narrow so tests can fake the remote side.
type remoteFS interface {
	MkdirAll(path string) error
	Create(path string) (io.WriteCloser, error)
	Open(path string) (io.ReadCloser, error)
}

// Store moves artifacts between the local staging area and the remote
// storage tier. All remote paths are rooted at the configured storage root.
type Store struct {
	fs     remoteFS
	root   string
	logger *zap.Logger
}

func NewStore(fs remoteFS, root string, logger *zap.Logger) *Store {
	return &Store{fs: fs, root: root, logger: logger}
}

// Upload copies one local file to remotePath, creating parent directories.
func (s *Store) Upload(localPath, remotePath string) error {
	target := s.rooted(remotePath)
	if err := s.fs.MkdirAll(path.Dir(target)); err != nil {
		return fmt.Errorf("mkdir %s: %w", path.Dir(target), err)
	}

	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer src.Close()

	dst, err := s.fs.Create(target)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("upload %s: %w", target, err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("close %s: %w", target, err)
	}

	s.logger.Debug("Uploaded file",
		zap.String("local", localPath),
		zap.String("remote", target),
	)
	return nil
}

// UploadDir recursively uploads every regular file under localDir into
// remoteDir, preserving the relative layout.
func (s *Store) UploadDir(localDir, remoteDir string) error {
	return filepath.Walk(localDir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("walk %s: %w", p, err)
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(localDir, p)
		if err != nil {
			return err
		}
		return s.Upload(p, path.Join(remoteDir, filepath.ToSlash(rel)))
	})
}

// Download copies one remote file to localPath.
func (s *Store) Download(remotePath, localPath string) error {
	src, err := s.fs.Open(s.rooted(remotePath))
	if err != nil {
		return fmt.Errorf("open remote %s: %w", remotePath, err)
	}
	defer src.Close()

	dst, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", localPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("download %s: %w", remotePath, err)
	}
	return nil
}

func (s *Store) rooted(remotePath string) string {
	return path.Join(s.root, remotePath)
}
