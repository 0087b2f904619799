package meeting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

type mockReader struct {
	mock.Mock
}

func (m *mockReader) FindByID(ctx context.Context, meetingID string) (*entities.MeetingRecord, error) {
	args := m.Called(ctx, meetingID)
	if rec := args.Get(0); rec != nil {
		return rec.(*entities.MeetingRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReader) List(ctx context.Context, limit int) ([]*entities.MeetingRecord, error) {
	args := m.Called(ctx, limit)
	if recs := args.Get(0); recs != nil {
		return recs.([]*entities.MeetingRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReader) CompleteActionItem(ctx context.Context, meetingID string, taskIndex int) error {
	args := m.Called(ctx, meetingID, taskIndex)
	return args.Error(0)
}

func storedRecords() []*entities.MeetingRecord {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return []*entities.MeetingRecord{
		{MeetingID: "m1", CreatedAt: created, Analysis: FallbackAnalysis(), SentimentLabel: entities.SentimentLabelPositive},
		{MeetingID: "m2", CreatedAt: created.Add(time.Hour), Analysis: entities.AnalysisResult{
			ExecutiveSummary: "Short.",
			ActionItems:      []entities.ActionItem{{Task: "Call vendor", Owner: "Dana", Priority: entities.PriorityLow, Completed: true}},
		}},
	}
}

func TestListMeetingsDefaultsLimit(t *testing.T) {
	reader := new(mockReader)
	reader.On("List", mock.Anything, DefaultListLimit).Return(storedRecords(), nil)

	svc := NewService(reader, zap.NewNop())
	summaries, err := svc.ListMeetings(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, FallbackSummary, summaries[0].Summary)
	assert.Equal(t, 2, summaries[0].ActionItemsCount)
	assert.Equal(t, entities.SentimentLabelPositive, summaries[0].Sentiment)
	assert.Equal(t, entities.SentimentLabelNeutral, summaries[1].Sentiment)
	reader.AssertExpectations(t)
}

func TestListActionItemsFlattens(t *testing.T) {
	reader := new(mockReader)
	reader.On("List", mock.Anything, 0).Return(storedRecords(), nil)

	svc := NewService(reader, zap.NewNop())
	items, err := svc.ListActionItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "m1", items[0].MeetingID)
	assert.Equal(t, 0, items[0].TaskIndex)
	assert.Equal(t, 1, items[1].TaskIndex)
	assert.Equal(t, "Review budget proposal", items[1].Task)
	assert.Equal(t, "m2", items[2].MeetingID)
	assert.Equal(t, 0, items[2].TaskIndex)
	assert.True(t, items[2].Completed)
}

func TestGetMeetingPassesNotFoundThrough(t *testing.T) {
	reader := new(mockReader)
	reader.On("FindByID", mock.Anything, "missing").Return(nil, apperrors.ErrMeetingNotFound("missing"))

	svc := NewService(reader, zap.NewNop())
	_, err := svc.GetMeeting(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrorCode_MEETING_NOT_FOUND))
}

func TestGetMeetingWrapsBackendErrors(t *testing.T) {
	reader := new(mockReader)
	reader.On("FindByID", mock.Anything, "m1").Return(nil, errors.New("timeout"))

	svc := NewService(reader, zap.NewNop())
	_, err := svc.GetMeeting(context.Background(), "m1")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrorCode_INTEGRATION_RECORDS_FAILED))
}

func TestCompleteActionItem(t *testing.T) {
	reader := new(mockReader)
	reader.On("CompleteActionItem", mock.Anything, "m1", 1).Return(nil)
	reader.On("CompleteActionItem", mock.Anything, "m1", 7).Return(apperrors.ErrActionItemNotFound("m1", 7))

	svc := NewService(reader, zap.NewNop())
	require.NoError(t, svc.CompleteActionItem(context.Background(), "m1", 1))

	err := svc.CompleteActionItem(context.Background(), "m1", 7)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrorCode_ACTION_ITEM_NOT_FOUND))

	err = svc.CompleteActionItem(context.Background(), "m1", -1)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrorCode_ACTION_ITEM_NOT_FOUND))
	reader.AssertNumberOfCalls(t, "CompleteActionItem", 2)
}
