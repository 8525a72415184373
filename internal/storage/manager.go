package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/course-import/backend/internal/models"
	"github.com/google/uuid"
)

// Store defines the interface for upload storage.
type Store interface {
	Save(name string, r io.Reader) (*models.FileInfo, error)
	GetFilePath(name string) string
}

// LocalStore implements Store using a directory on the local filesystem.
// Files are kept under their client-supplied names; a second upload with the
// same name replaces the first. Writes are not atomic and not serialized.
type LocalStore struct {
	uploadDir string
}

// NewLocalStore creates a new LocalStore, creating uploadDir if absent.
func NewLocalStore(uploadDir string) (*LocalStore, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}

	return &LocalStore{
		uploadDir: uploadDir,
	}, nil
}

// Dir returns the upload directory.
func (s *LocalStore) Dir() string {
	return s.uploadDir
}

// Save writes r, unmodified, to the upload directory under name.
func (s *LocalStore) Save(name string, r io.Reader) (*models.FileInfo, error) {
	path := s.GetFilePath(name)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}

	size, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("writing file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("closing file: %w", err)
	}

	return &models.FileInfo{
		ID:         uuid.New().String(),
		Name:       name,
		Size:       size,
		UploadedAt: time.Now(),
		Path:       path,
	}, nil
}

// GetFilePath returns the path a file named name is stored at.
func (s *LocalStore) GetFilePath(name string) string {
	return filepath.Join(s.uploadDir, name)
}
