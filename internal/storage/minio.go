package storage

import (
	"context"
	"fmt"
	"io"

	"fleamarket/internal/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStorage keeps images in an S3 compatible bucket.
type MinioStorage struct {
	client *minio.Client
	bucket string
	logger logger.Logger
}

func NewMinioStorage(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool, log logger.Logger) (*MinioStorage, error) {
	log.Infof("Initializing MinIO storage endpoint=%s bucket=%s ssl=%t", endpoint, bucket, useSSL)

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client for %s: %w", endpoint, err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("make bucket %s: %w", bucket, err)
		}
		log.Infof("Bucket %s created", bucket)
	}

	return &MinioStorage{client: client, bucket: bucket, logger: log}, nil
}

func (s *MinioStorage) Save(ctx context.Context, filename, contentType string, r io.Reader, size int64) (string, error) {
	key := NewKey(filename)
	info, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		s.logger.Errorf("MinioStorage.Save: PutObject %s failed: %v", key, err)
		return "", fmt.Errorf("upload %s to bucket %s: %w", key, s.bucket, err)
	}
	s.logger.Debugf("MinioStorage.Save: stored %s etag=%s size=%d", info.Key, info.ETag, info.Size)
	return key, nil
}

func (s *MinioStorage) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove %s from bucket %s: %w", key, s.bucket, err)
	}
	return nil
}

func (s *MinioStorage) URL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, escapeKey(key))
}
