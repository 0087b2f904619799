package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/repositories"
)

// S3API is the subset of the S3 client used by S3Store
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store keeps objects in Amazon S3 or an S3-compatible service
type S3Store struct {
	client S3API
}

// NewS3Store builds a store from an AWS config. If usePathStyle is set,
// path-style addressing is enabled (for LocalStack and similar).
func NewS3Store(awsCfg aws.Config, usePathStyle bool) *S3Store {
	var s3opts []func(*s3.Options)
	if usePathStyle {
		s3opts = append(s3opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}
	return &S3Store{client: s3.NewFromConfig(awsCfg, s3opts...)}
}

// NewS3StoreWithClient wraps an existing client
func NewS3StoreWithClient(client S3API) *S3Store {
	return &S3Store{client: client}
}

// GetObject downloads an object. A missing key is repositories.ErrObjectNotFound.
func (s *S3Store) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, repositories.ErrObjectNotFound
		}
		return nil, fmt.Errorf("s3 get object: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read object: %w", err)
	}
	return data, nil
}

// PutObject uploads body as the object key
func (s *S3Store) PutObject(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3 put object: %w", err)
	}
	return nil
}

// Scheme implements repositories.ObjectStore
func (s *S3Store) Scheme() string {
	return "s3"
}

// isNotFound also accepts untyped API errors, which some S3-compatible
// endpoints return for a missing key.
func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
