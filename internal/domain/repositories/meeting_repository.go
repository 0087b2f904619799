package repositories

import (
	"context"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// RecordStore persists meeting records keyed by meeting id
type RecordStore interface {
	// SaveMeeting upserts the record by MeetingID
	SaveMeeting(ctx context.Context, record *entities.MeetingRecord) error
}

// MeetingReader serves the read side of the record store
type MeetingReader interface {
	FindByID(ctx context.Context, meetingID string) (*entities.MeetingRecord, error)
	// List returns at most limit records, most recent first when the backend
	// supports ordering. A limit <= 0 returns every record.
	List(ctx context.Context, limit int) ([]*entities.MeetingRecord, error)
	// CompleteActionItem marks the action item at taskIndex completed in place
	CompleteActionItem(ctx context.Context, meetingID string, taskIndex int) error
}

// MeetingRepository is implemented by each record store backend
type MeetingRepository interface {
	RecordStore
	MeetingReader
}

// MeetingLocker serializes aggregation of the same meeting id
type MeetingLocker interface {
	// Lock blocks until the meeting lock is held or the wait budget runs out.
	// The returned func releases the lock.
	Lock(ctx context.Context, meetingID string) (func(), error)
}
