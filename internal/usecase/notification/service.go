package notification

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/repositories"
)

// Service delivers the summary email of an analyzed meeting
type Service struct {
	mailer repositories.Mailer
	from   string
	to     []string
	now    func() time.Time
	logger *zap.Logger
}

// NewService creates the notification service. to must name at least one
// recipient.
func NewService(mailer repositories.Mailer, from string, to []string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		mailer: mailer,
		from:   from,
		to:     to,
		now:    time.Now,
		logger: logger,
	}
}

// Render builds the summary email of a record. The subject carries the send
// date.
func (s *Service) Render(record *entities.MeetingRecord) (repositories.Message, error) {
	var body bytes.Buffer
	if err := summaryTemplate.Execute(&body, record); err != nil {
		return repositories.Message{}, fmt.Errorf("render summary email: %w", err)
	}

	return repositories.Message{
		From:     s.from,
		To:       s.to,
		Subject:  fmt.Sprintf("📋 Meeting Summary - %s", s.now().Format("2006-01-02")),
		HTMLBody: body.String(),
	}, nil
}

// HandleMeetingAnalyzed renders and sends the summary email for an event
func (s *Service) HandleMeetingAnalyzed(ctx context.Context, event entities.MeetingAnalyzedEvent) error {
	if event.Record == nil {
		return apperrors.ErrInvalidPayload().WithDetail("event_id", event.EventID)
	}

	msg, err := s.Render(event.Record)
	if err != nil {
		return apperrors.ErrNotificationFailed(err)
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Error("❌ Failed to send meeting summary email",
			zap.String("meeting_id", event.Record.MeetingID),
			zap.String("event_id", event.EventID),
			zap.Error(err),
		)
		return apperrors.ErrNotificationFailed(err)
	}

	s.logger.Info("📧 Meeting summary email sent",
		zap.String("meeting_id", event.Record.MeetingID),
		zap.Strings("to", s.to),
	)
	return nil
}
