package repositories

import (
	"context"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// Notifier hands a persisted record off to the notification side
type Notifier interface {
	NotifyMeetingAnalyzed(ctx context.Context, event entities.MeetingAnalyzedEvent) error
}

// Message is a rendered email
type Message struct {
	From     string
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// Mailer delivers rendered emails
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
