package notification

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/repositories"
)

type recordingMailer struct {
	sent []repositories.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg repositories.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func testRecord() *entities.MeetingRecord {
	return &entities.MeetingRecord{
		MeetingID: "meeting-0123456789abcdef",
		Analysis: entities.AnalysisResult{
			ExecutiveSummary: "Budget <approved> & timeline set.",
			KeyTopics:        []string{"Budget"},
			ActionItems: []entities.ActionItem{
				{Task: "Finalize timeline", Owner: "PM", Priority: entities.PriorityHigh, DueDate: "Friday"},
				{Task: "Review budget", Owner: "Finance", Priority: entities.PriorityMedium, DueDate: "next week"},
				{Task: "Tidy wiki", Owner: "Ops", Priority: entities.PriorityLow, DueDate: ""},
				{Task: "Unknown", Owner: "Ops", Priority: "someday", DueDate: ""},
			},
			DecisionsMade: []string{"Approve budget"},
			NextSteps:     []string{"Schedule follow-up"},
			Sentiment:     entities.SentimentPositive,
		},
	}
}

func newTestService(m repositories.Mailer) *Service {
	svc := NewService(m, "from@example.com", []string{"to@example.com"}, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC) }
	return svc
}

func TestRenderSummaryEmail(t *testing.T) {
	svc := newTestService(&recordingMailer{})

	msg, err := svc.Render(testRecord())
	require.NoError(t, err)

	assert.Equal(t, "📋 Meeting Summary - 2026-10-18", msg.Subject)
	assert.Equal(t, "from@example.com", msg.From)
	assert.Equal(t, []string{"to@example.com"}, msg.To)

	body := msg.HTMLBody
	assert.Contains(t, body, "Budget &lt;approved&gt; &amp; timeline set.")
	assert.Contains(t, body, "color: #ff4444; font-weight: bold;\">HIGH</td>")
	assert.Contains(t, body, "color: #ffaa00; font-weight: bold;\">MEDIUM</td>")
	assert.Contains(t, body, "color: #44ff44; font-weight: bold;\">LOW</td>")
	assert.Contains(t, body, "color: #888; font-weight: bold;\">SOMEDAY</td>")
	assert.Contains(t, body, "<li>Approve budget</li>")
	assert.Contains(t, body, "Meeting ID: meeting-")
	assert.NotContains(t, body, "meeting-0")

	assert.Less(t, strings.Index(body, "Finalize timeline"), strings.Index(body, "Review budget"))
}

func TestHandleMeetingAnalyzedSends(t *testing.T) {
	mailer := &recordingMailer{}
	svc := newTestService(mailer)

	err := svc.HandleMeetingAnalyzed(context.Background(), entities.MeetingAnalyzedEvent{EventID: "e1", Record: testRecord()})
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
}

func TestHandleMeetingAnalyzedErrors(t *testing.T) {
	svc := newTestService(&recordingMailer{err: errors.New("MessageRejected")})

	err := svc.HandleMeetingAnalyzed(context.Background(), entities.MeetingAnalyzedEvent{Record: testRecord()})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrorCode_NOTIFICATION_FAILED))

	err = svc.HandleMeetingAnalyzed(context.Background(), entities.MeetingAnalyzedEvent{EventID: "e2"})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrorCode_INVALID_PAYLOAD))
}
