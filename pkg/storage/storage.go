package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// UploadResult contains the result of a document upload
type UploadResult struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Backend abstracts document storage so handlers work the same against
// S3-compatible object stores and the local-disk fallback.
type Backend interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string, size int64) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// GenerateKey creates a unique storage key with a date prefix
func GenerateKey(prefix, filename string) string {
	now := time.Now()
	ext := path.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	return fmt.Sprintf("%s/%d/%02d/%02d/%s_%d%s",
		prefix, now.Year(), now.Month(), now.Day(),
		base, now.UnixMilli(), ext)
}
