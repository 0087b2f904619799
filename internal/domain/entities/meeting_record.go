package entities

import (
	"time"
)

// MeetingStatus is the lifecycle state of a MeetingRecord
type MeetingStatus string

// MeetingStatusCompleted is the only state produced by aggregation
const MeetingStatusCompleted MeetingStatus = "completed"

// SentimentLabel is the coarse sentiment reported by the statistical annotator
type SentimentLabel string

const (
	SentimentLabelPositive SentimentLabel = "POSITIVE"
	SentimentLabelNeutral  SentimentLabel = "NEUTRAL"
	SentimentLabelNegative SentimentLabel = "NEGATIVE"
	SentimentLabelMixed    SentimentLabel = "MIXED"
)

// Valid reports whether the label is one of the four known values
func (l SentimentLabel) Valid() bool {
	switch l {
	case SentimentLabelPositive, SentimentLabelNeutral, SentimentLabelNegative, SentimentLabelMixed:
		return true
	}
	return false
}

// MaxKeyPhrases bounds MeetingRecord.KeyPhrases
const MaxKeyPhrases = 10

// MeetingRecord is the canonical aggregate produced once per meeting
type MeetingRecord struct {
	MeetingID      string         `json:"meetingId" dynamodbav:"meetingId"`
	CreatedAt      time.Time      `json:"createdAt" dynamodbav:"createdAt"`
	Transcript     string         `json:"transcript" dynamodbav:"transcript"`
	Analysis       AnalysisResult `json:"analysis" dynamodbav:"analysis"`
	SentimentLabel SentimentLabel `json:"sentimentLabel" dynamodbav:"sentimentLabel"`
	KeyPhrases     []string       `json:"keyPhrases" dynamodbav:"keyPhrases"`
	Status         MeetingStatus  `json:"status" dynamodbav:"status"`
}

// NewMeetingRecord assembles a completed record. Key phrases beyond
// MaxKeyPhrases are dropped, keeping the annotator's ranking order.
func NewMeetingRecord(meetingID, transcript string, analysis AnalysisResult, annotation Annotation, createdAt time.Time) *MeetingRecord {
	phrases := annotation.TopPhrases(MaxKeyPhrases)

	return &MeetingRecord{
		MeetingID:      meetingID,
		CreatedAt:      createdAt,
		Transcript:     transcript,
		Analysis:       analysis,
		SentimentLabel: annotation.Sentiment,
		KeyPhrases:     phrases,
		Status:         MeetingStatusCompleted,
	}
}

// ActionItemsCount returns the number of action items in the analysis
func (r *MeetingRecord) ActionItemsCount() int {
	return len(r.Analysis.ActionItems)
}

// WithoutTranscript returns a shallow copy with the transcript cleared, for
// payloads that only need the analysis.
func (r *MeetingRecord) WithoutTranscript() *MeetingRecord {
	clone := *r
	clone.Transcript = ""
	return &clone
}

// MeetingSummary is the list view of a meeting record
type MeetingSummary struct {
	MeetingID        string         `json:"meetingId"`
	CreatedAt        time.Time      `json:"createdAt"`
	Summary          string         `json:"summary"`
	ActionItemsCount int            `json:"actionItemsCount"`
	Sentiment        SentimentLabel `json:"sentiment"`
}

// Summarize builds the list view. An empty sentiment label reads as NEUTRAL.
func (r *MeetingRecord) Summarize() MeetingSummary {
	sentiment := r.SentimentLabel
	if sentiment == "" {
		sentiment = SentimentLabelNeutral
	}
	return MeetingSummary{
		MeetingID:        r.MeetingID,
		CreatedAt:        r.CreatedAt,
		Summary:          r.Analysis.ExecutiveSummary,
		ActionItemsCount: r.ActionItemsCount(),
		Sentiment:        sentiment,
	}
}

// ActionItemViews flattens the record's action items, keeping their positions
func (r *MeetingRecord) ActionItemViews() []ActionItemView {
	views := make([]ActionItemView, 0, len(r.Analysis.ActionItems))
	for idx, item := range r.Analysis.ActionItems {
		views = append(views, ActionItemView{
			MeetingID:   r.MeetingID,
			MeetingDate: r.CreatedAt,
			TaskIndex:   idx,
			Task:        item.Task,
			Owner:       item.Owner,
			Priority:    item.Priority,
			DueDate:     item.DueDate,
			Completed:   item.Completed,
		})
	}
	return views
}
