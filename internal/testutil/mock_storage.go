// mock_storage.go - Mock storage implementation for testing
package testutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/course-import/backend/internal/models"
	"github.com/course-import/backend/internal/storage"
)

// ErrMockSave is returned by Save when the mock is set to fail.
var ErrMockSave = errors.New("mock: save failed")

// MockStorage implements storage.Store for testing. Saved files are written
// to a temp directory so they can be opened by path, and every save is
// recorded.
type MockStorage struct {
	mu       sync.Mutex
	tempDir  string
	fileData map[string][]byte
	saves    []string
	FailSave bool
}

// NewMockStorage creates a mock storage that writes files under tempDir.
func NewMockStorage(tempDir string) *MockStorage {
	return &MockStorage{
		tempDir:  tempDir,
		fileData: make(map[string][]byte),
	}
}

func (m *MockStorage) Save(name string, r io.Reader) (*models.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.saves = append(m.saves, name)
	if m.FailSave {
		return nil, ErrMockSave
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(m.tempDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("mock: writing %s: %w", name, err)
	}

	m.fileData[name] = data
	return &models.FileInfo{
		ID:         generateTestID(),
		Name:       name,
		Size:       int64(len(data)),
		UploadedAt: time.Now(),
		Path:       path,
	}, nil
}

func (m *MockStorage) GetFilePath(name string) string {
	return filepath.Join(m.tempDir, name)
}

// Ensure MockStorage implements storage.Store
var _ storage.Store = (*MockStorage)(nil)

// Test Helper Methods

// GetFileData returns the stored content for name.
func (m *MockStorage) GetFileData(name string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.fileData[name]
	return data, ok
}

// Saves returns the names passed to Save, in call order.
func (m *MockStorage) Saves() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.saves...)
}

var testIDCounter int
var testIDMutex sync.Mutex

func generateTestID() string {
	testIDMutex.Lock()
	defer testIDMutex.Unlock()
	testIDCounter++
	return fmt.Sprintf("test-id-%d", testIDCounter)
}
