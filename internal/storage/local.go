package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// LocalStorage keeps report exports as flat files in a directory
type LocalStorage struct {
	dir string
}

// Ensure LocalStorage implements StorageInterface
var _ StorageInterface = (*LocalStorage)(nil)

// NewLocalStorage creates a file-backed store rooted at dir ("" means the working directory)
func NewLocalStorage(dir string) *LocalStorage {
	if dir == "" {
		dir = "."
	}
	return &LocalStorage{dir: dir}
}

// Store writes data to dir/filename, replacing any previous file
func (s *LocalStorage) Store(filename string, data []byte) error {
	path := filepath.Join(s.dir, filename)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", filename, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	logrus.Debugf("Stored %d bytes in %s", len(data), path)
	return nil
}
