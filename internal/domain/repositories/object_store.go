package repositories

import (
	"context"
	"errors"
)

// ErrObjectNotFound is returned by ObjectStore.GetObject for a missing key
var ErrObjectNotFound = errors.New("object not found")

// ObjectStore is the blob storage backing transcripts and summaries
type ObjectStore interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
	PutObject(ctx context.Context, bucket, key string, body []byte, contentType string) error
	// Scheme is the location prefix of objects in this store, e.g. "s3"
	Scheme() string
}
