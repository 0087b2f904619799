package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/repositories"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(t.TempDir())

	require.NoError(t, store.PutObject(ctx, "b", "summaries/m1-summary.json", []byte(`{"a":1}`), "application/json"))

	data, err := store.GetObject(ctx, "b", "summaries/m1-summary.json")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))

	entries, err := os.ReadDir(filepath.Join(store.Root(), "b", "summaries"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "file", store.Scheme())
}

func TestLocalStoreMissingObject(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	_, err := store.GetObject(context.Background(), "b", "transcripts/none.json")
	assert.True(t, errors.Is(err, repositories.ErrObjectNotFound))
}

func TestLocalStoreRejectsEscapingKeys(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	_, err := store.GetObject(context.Background(), "b", "../../etc/passwd")
	require.Error(t, err)
	assert.False(t, errors.Is(err, repositories.ErrObjectNotFound))

	err = store.PutObject(context.Background(), "", "x.json", nil, "")
	assert.Error(t, err)
}
