package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// meetingModel is the row layout of the meetings table
type meetingModel struct {
	MeetingID      string                                      `gorm:"column:meeting_id;primaryKey"`
	CreatedAt      time.Time                                   `gorm:"column:created_at"`
	Transcript     string                                      `gorm:"column:transcript"`
	Analysis       datatypes.JSONType[entities.AnalysisResult] `gorm:"column:analysis"`
	SentimentLabel string                                      `gorm:"column:sentiment_label"`
	KeyPhrases     datatypes.JSONSlice[string]                 `gorm:"column:key_phrases"`
	Status         string                                      `gorm:"column:status"`
}

func (meetingModel) TableName() string {
	return "meetings"
}

func toModel(r *entities.MeetingRecord) *meetingModel {
	return &meetingModel{
		MeetingID:      r.MeetingID,
		CreatedAt:      r.CreatedAt,
		Transcript:     r.Transcript,
		Analysis:       datatypes.NewJSONType(r.Analysis),
		SentimentLabel: string(r.SentimentLabel),
		KeyPhrases:     datatypes.NewJSONSlice(r.KeyPhrases),
		Status:         string(r.Status),
	}
}

func (m *meetingModel) toEntity() *entities.MeetingRecord {
	return &entities.MeetingRecord{
		MeetingID:      m.MeetingID,
		CreatedAt:      m.CreatedAt.UTC(),
		Transcript:     m.Transcript,
		Analysis:       m.Analysis.Data(),
		SentimentLabel: entities.SentimentLabel(m.SentimentLabel),
		KeyPhrases:     []string(m.KeyPhrases),
		Status:         entities.MeetingStatus(m.Status),
	}
}

// PostgresMeetingRepository stores meeting records in PostgreSQL
type PostgresMeetingRepository struct {
	db *gorm.DB
}

// NewPostgresMeetingRepository creates a new meeting repository
func NewPostgresMeetingRepository(db *gorm.DB) *PostgresMeetingRepository {
	return &PostgresMeetingRepository{db: db}
}

// SaveMeeting upserts a meeting record by meeting id
func (r *PostgresMeetingRepository) SaveMeeting(ctx context.Context, record *entities.MeetingRecord) error {
	if record == nil {
		return errors.New("meeting record cannot be nil")
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "meeting_id"}},
			UpdateAll: true,
		}).
		Create(toModel(record)).Error
}

// FindByID retrieves a meeting record
func (r *PostgresMeetingRepository) FindByID(ctx context.Context, meetingID string) (*entities.MeetingRecord, error) {
	var m meetingModel
	if err := r.db.WithContext(ctx).Where("meeting_id = ?", meetingID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMeetingNotFound(meetingID)
		}
		return nil, err
	}
	return m.toEntity(), nil
}

// List returns the most recent meeting records
func (r *PostgresMeetingRepository) List(ctx context.Context, limit int) ([]*entities.MeetingRecord, error) {
	var models []meetingModel
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}

	records := make([]*entities.MeetingRecord, 0, len(models))
	for i := range models {
		records = append(records, models[i].toEntity())
	}
	return records, nil
}

// CompleteActionItem marks one action item completed under a row lock
func (r *PostgresMeetingRepository) CompleteActionItem(ctx context.Context, meetingID string, taskIndex int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m meetingModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("meeting_id = ?", meetingID).
			First(&m).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrMeetingNotFound(meetingID)
		}
		if err != nil {
			return err
		}

		analysis := m.Analysis.Data()
		if taskIndex < 0 || taskIndex >= len(analysis.ActionItems) {
			return apperrors.ErrActionItemNotFound(meetingID, taskIndex)
		}
		analysis.ActionItems[taskIndex].Completed = true

		return tx.Model(&meetingModel{}).
			Where("meeting_id = ?", meetingID).
			Update("analysis", datatypes.NewJSONType(analysis)).Error
	})
}
