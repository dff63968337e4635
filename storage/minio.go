package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"trackstash/config"
	"trackstash/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioProvider stores blobs as objects in a MinIO bucket. Locations are
// object keys within the configured bucket.
type MinioProvider struct {
	client *minio.Client
	bucket string
}

// NewMinioProvider connects to the configured MinIO endpoint and ensures
// the bucket exists, creating it if necessary.
func NewMinioProvider(cfg *config.Config) (*MinioProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.MinioBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{Region: cfg.MinioRegion}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.MinioBucket, err)
		}
		logger.Info("created MinIO bucket", logger.String("bucket", cfg.MinioBucket))
	}

	return &MinioProvider{client: client, bucket: cfg.MinioBucket}, nil
}

// Save uploads the blob under a unique object key and returns the key.
func (p *MinioProvider) Save(ctx context.Context, r io.Reader, size int64) (string, error) {
	key := objectName()
	_, err := p.client.PutObject(ctx, p.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: "audio/mpeg",
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object %s: %w", key, err)
	}
	return key, nil
}

// Open fetches the object at location. GetObject is lazy, so a Stat
// confirms the object exists before the reader is handed out.
func (p *MinioProvider) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	obj, err := p.client.GetObject(ctx, p.bucket, location, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", location, err)
	}
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, fmt.Errorf("failed to stat object %s: %w", location, err)
	}
	return obj, nil
}

// Remove deletes the object at location.
func (p *MinioProvider) Remove(ctx context.Context, location string) error {
	if err := p.client.RemoveObject(ctx, p.bucket, location, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %s: %w", location, err)
	}
	return nil
}
