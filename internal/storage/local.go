package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fleamarket/internal/logger"
)

// LocalStorage writes images below a directory served as static files.
type LocalStorage struct {
	root      string
	urlPrefix string
	logger    logger.Logger
}

func NewLocalStorage(root, urlPrefix string, log logger.Logger) (*LocalStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", root, err)
	}
	log.Infof("Local storage initialized at %s", root)
	return &LocalStorage{
		root:      root,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
		logger:    log,
	}, nil
}

func (s *LocalStorage) Root() string { return s.root }

func (s *LocalStorage) Save(ctx context.Context, filename, contentType string, r io.Reader, size int64) (string, error) {
	key := NewKey(filename)
	dest := filepath.Join(s.root, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("create dir for %s: %w", key, err)
	}
	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", key, err)
	}

	written, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dest)
		_ = os.Remove(filepath.Dir(dest))
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	s.logger.Debugf("LocalStorage.Save: stored %s (%d bytes)", key, written)
	return key, nil
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	target := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.Remove(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrObjectNotFound
		}
		return fmt.Errorf("remove %s: %w", key, err)
	}
	// drop the per-upload directory once empty
	_ = os.Remove(filepath.Dir(target))
	return nil
}

func (s *LocalStorage) URL(key string) string {
	return s.urlPrefix + "/" + escapeKey(key)
}
