package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/repositories"
)

// LocalStore keeps objects as files under root/bucket/key
type LocalStore struct {
	root string
}

// NewLocalStore creates a filesystem backed store
func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

// Root is the directory holding the buckets
func (l *LocalStore) Root() string {
	return l.root
}

func (l *LocalStore) path(bucket, key string) (string, error) {
	p := filepath.Join(l.root, bucket, filepath.FromSlash(key))
	base := filepath.Join(l.root, bucket) + string(filepath.Separator)
	if bucket == "" || !strings.HasPrefix(p, base) {
		return "", fmt.Errorf("invalid object location %q/%q", bucket, key)
	}
	return p, nil
}

// GetObject reads an object. A missing file is repositories.ErrObjectNotFound.
func (l *LocalStore) GetObject(_ context.Context, bucket, key string) ([]byte, error) {
	p, err := l.path(bucket, key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, repositories.ErrObjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read object: %w", err)
	}
	return data, nil
}

// PutObject writes body atomically. Content type is not recorded.
func (l *LocalStore) PutObject(_ context.Context, bucket, key string, body []byte, _ string) error {
	p, err := l.path(bucket, key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create object directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp object: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return fmt.Errorf("write object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close object: %w", err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("commit object: %w", err)
	}
	return nil
}

// Scheme implements repositories.ObjectStore
func (l *LocalStore) Scheme() string {
	return "file"
}
