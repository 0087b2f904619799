package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/repositories"
	"github.com/johnquangdev/meeting-intelligence/pkg/config"
)

// MinIOStore keeps objects in a MinIO deployment
type MinIOStore struct {
	client *minio.Client
}

// NewMinIOStore creates a new MinIO backed store
func NewMinIOStore(cfg *config.StorageConfig, region string) (*MinIOStore, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &MinIOStore{client: minioClient}, nil
}

// EnsureBucket creates the bucket when it does not exist yet
func (m *MinIOStore) EnsureBucket(ctx context.Context, bucket string) error {
	exists, err := m.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// GetObject downloads an object. A missing key is repositories.ErrObjectNotFound.
func (m *MinIOStore) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, m.translate(err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, m.translate(err)
	}
	return data, nil
}

// PutObject uploads body as the object key
func (m *MinIOStore) PutObject(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	_, err := m.client.PutObject(ctx, bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	return nil
}

// Scheme implements repositories.ObjectStore
func (m *MinIOStore) Scheme() string {
	return "s3"
}

func (m *MinIOStore) translate(err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return repositories.ErrObjectNotFound
	}
	return fmt.Errorf("failed to get object: %w", err)
}
