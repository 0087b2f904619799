package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/repositories"
)

const summaryContentType = "application/json"

// ObjectTranscriptStore reads transcripts and writes summaries through an
// ObjectStore backend.
type ObjectTranscriptStore struct {
	store repositories.ObjectStore
}

// NewObjectTranscriptStore creates a new transcript/summary store
func NewObjectTranscriptStore(store repositories.ObjectStore) *ObjectTranscriptStore {
	return &ObjectTranscriptStore{store: store}
}

// FetchTranscript implements repositories.TranscriptStore
func (s *ObjectTranscriptStore) FetchTranscript(ctx context.Context, bucket, jobName string) (string, error) {
	key := entities.TranscriptKey(jobName)

	data, err := s.store.GetObject(ctx, bucket, key)
	if err != nil {
		if errors.Is(err, repositories.ErrObjectNotFound) {
			return "", apperrors.ErrTranscriptNotFound(bucket, key)
		}
		return "", apperrors.ErrStorageFailed("get transcript", err)
	}

	var doc entities.TranscriptDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", apperrors.ErrStorageFailed("decode transcript", fmt.Errorf("%s: %w", key, err))
	}

	text, err := doc.Text()
	if err != nil {
		return "", apperrors.ErrStorageFailed("decode transcript", fmt.Errorf("%s: %w", key, err))
	}
	return text, nil
}

// PutSummary implements repositories.SummaryStore
func (s *ObjectTranscriptStore) PutSummary(ctx context.Context, bucket, meetingID string, body []byte) (string, error) {
	key := entities.SummaryKey(meetingID)

	if err := s.store.PutObject(ctx, bucket, key, body, summaryContentType); err != nil {
		return "", apperrors.ErrStorageFailed("put summary", err)
	}
	return fmt.Sprintf("%s://%s/%s", s.store.Scheme(), bucket, key), nil
}
