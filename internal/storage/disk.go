package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DiskStorage stores files under a local base directory
type DiskStorage struct {
	basePath  string
	publicURL string
}

// NewDiskStorage creates a disk-backed storage rooted at basePath
func NewDiskStorage(basePath, publicURL string) (*DiskStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &DiskStorage{basePath: basePath, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

// Save writes the content under a uuid-based name, keeping the original extension
func (s *DiskStorage) Save(content io.Reader, originalName string) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	fileName := uuid.New().String() + ext
	fullPath := filepath.Join(s.basePath, fileName)

	out, err := os.Create(fullPath)
	if err != nil {
		return "", "", fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, content); err != nil {
		os.Remove(fullPath)
		return "", "", fmt.Errorf("failed to write file: %w", err)
	}

	return fileName, fileName, nil
}

// Delete removes a stored file; a missing file is not an error
func (s *DiskStorage) Delete(filePath string) error {
	err := os.Remove(filepath.Join(s.basePath, filePath))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// PublicURL resolves the relative path to a client-facing URL
func (s *DiskStorage) PublicURL(filePath string) string {
	return s.publicURL + "/" + filePath
}
