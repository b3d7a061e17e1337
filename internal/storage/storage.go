package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrObjectNotFound = errors.New("object not found")

// Storage keeps uploaded item images.
type Storage interface {
	// Save stores the content under a fresh key derived from filename.
	Save(ctx context.Context, filename, contentType string, r io.Reader, size int64) (string, error)
	Delete(ctx context.Context, key string) error
	// URL returns the public URL of key.
	URL(key string) string
}

// NewKey builds "items/<uuid>/<filename>". The original base name is kept so
// that public URLs end with the uploaded file name.
func NewKey(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "image"
	}
	return path.Join("items", uuid.New().String(), base)
}

func validateKey(key string) error {
	clean := path.Clean(key)
	if key == "" || clean != key || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, "..") {
		return fmt.Errorf("invalid storage key %q", key)
	}
	return nil
}

// escapeKey percent-encodes every segment of key for use in a URL path.
func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}
