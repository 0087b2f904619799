package meeting

import (
	"context"
	stdErrors "errors"

	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/repositories"
)

// DefaultListLimit is the page size of ListMeetings when none is given
const DefaultListLimit = 50

// Service defines the read side over persisted meeting records
type Service interface {
	ListMeetings(ctx context.Context, limit int) ([]entities.MeetingSummary, error)
	GetMeeting(ctx context.Context, meetingID string) (*entities.MeetingRecord, error)
	ListActionItems(ctx context.Context) ([]entities.ActionItemView, error)
	CompleteActionItem(ctx context.Context, meetingID string, taskIndex int) error
}

type meetingService struct {
	reader repositories.MeetingReader
	logger *zap.Logger
}

// NewService constructs the meeting read service
func NewService(reader repositories.MeetingReader, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &meetingService{reader: reader, logger: logger}
}

func (s *meetingService) ListMeetings(ctx context.Context, limit int) ([]entities.MeetingSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	records, err := s.reader.List(ctx, limit)
	if err != nil {
		return nil, wrapRecordsErr("list meetings", err)
	}

	summaries := make([]entities.MeetingSummary, 0, len(records))
	for _, r := range records {
		summaries = append(summaries, r.Summarize())
	}
	return summaries, nil
}

func (s *meetingService) GetMeeting(ctx context.Context, meetingID string) (*entities.MeetingRecord, error) {
	if meetingID == "" {
		return nil, apperrors.ErrInvalidArgument("meeting id is required")
	}

	record, err := s.reader.FindByID(ctx, meetingID)
	if err != nil {
		return nil, wrapRecordsErr("find meeting", err)
	}
	return record, nil
}

func (s *meetingService) ListActionItems(ctx context.Context) ([]entities.ActionItemView, error) {
	records, err := s.reader.List(ctx, 0)
	if err != nil {
		return nil, wrapRecordsErr("list action items", err)
	}

	items := make([]entities.ActionItemView, 0)
	for _, r := range records {
		items = append(items, r.ActionItemViews()...)
	}
	return items, nil
}

func (s *meetingService) CompleteActionItem(ctx context.Context, meetingID string, taskIndex int) error {
	if meetingID == "" {
		return apperrors.ErrInvalidArgument("meeting id is required")
	}
	if taskIndex < 0 {
		return apperrors.ErrActionItemNotFound(meetingID, taskIndex)
	}

	if err := s.reader.CompleteActionItem(ctx, meetingID, taskIndex); err != nil {
		return wrapRecordsErr("complete action item", err)
	}

	s.logger.Info("✅ Action item completed",
		zap.String("meeting_id", meetingID),
		zap.Int("task_index", taskIndex),
	)
	return nil
}

// wrapRecordsErr keeps AppErrors raised by the record store as they are
func wrapRecordsErr(op string, err error) error {
	var appErr apperrors.AppError
	if stdErrors.As(err, &appErr) {
		return appErr
	}
	return apperrors.ErrRecordsFailed(op, err)
}
