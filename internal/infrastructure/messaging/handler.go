package messaging

import (
	"context"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// MeetingAnalyzedHandler consumes MeetingAnalyzed events
type MeetingAnalyzedHandler func(ctx context.Context, event entities.MeetingAnalyzedEvent) error

// NoopPublisher drops every event
type NoopPublisher struct{}

// NotifyMeetingAnalyzed implements repositories.Notifier
func (NoopPublisher) NotifyMeetingAnalyzed(context.Context, entities.MeetingAnalyzedEvent) error {
	return nil
}
