package entities

import (
	"time"

	"github.com/google/uuid"
)

// EventTypeMeetingAnalyzed is emitted once a meeting record is persisted
const EventTypeMeetingAnalyzed = "MeetingAnalyzed"

// MeetingAnalyzedEvent hands a persisted record to the notification side.
// The record travels without its transcript.
type MeetingAnalyzedEvent struct {
	EventID         string         `json:"event_id"`
	EventType       string         `json:"event_type"`
	OccurredAt      time.Time      `json:"occurred_at"`
	SummaryLocation string         `json:"summary_location"`
	Record          *MeetingRecord `json:"record"`
}

// NewMeetingAnalyzedEvent builds the event for a persisted record
func NewMeetingAnalyzedEvent(record *MeetingRecord, summaryLocation string) MeetingAnalyzedEvent {
	return MeetingAnalyzedEvent{
		EventID:         uuid.NewString(),
		EventType:       EventTypeMeetingAnalyzed,
		OccurredAt:      time.Now().UTC(),
		SummaryLocation: summaryLocation,
		Record:          record.WithoutTranscript(),
	}
}
