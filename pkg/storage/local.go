package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalBackend stores documents on the local filesystem. Used when no
// object store is configured (development, single-node deployments).
type LocalBackend struct {
	rootDir string
	baseURL string
}

// NewLocalBackend creates a disk-backed storage backend rooted at rootDir.
// Served URLs are baseURL + "/" + key.
func NewLocalBackend(rootDir, baseURL string) (*LocalBackend, error) {
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &LocalBackend{
		rootDir: rootDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Upload writes a document under the storage root
func (l *LocalBackend) Upload(_ context.Context, key string, body io.Reader, contentType string, size int64) (*UploadResult, error) {
	fullPath := filepath.Join(l.rootDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	f, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, body)
	if err != nil {
		return nil, fmt.Errorf("write file: %w", err)
	}
	if size <= 0 {
		size = written
	}

	return &UploadResult{
		Key:         key,
		URL:         l.URL(key),
		ContentType: contentType,
		Size:        size,
	}, nil
}

// Delete removes a document from disk. A missing file is not an error.
func (l *LocalBackend) Delete(_ context.Context, key string) error {
	err := os.Remove(filepath.Join(l.rootDir, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// URL returns the served URL for a key
func (l *LocalBackend) URL(key string) string {
	return l.baseURL + "/" + key
}
