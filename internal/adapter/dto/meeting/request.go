package meeting

// AnalyzeRequest triggers aggregation of one transcription job
type AnalyzeRequest struct {
	MeetingID string `json:"meetingId" validate:"required"`
	JobName   string `json:"jobName" validate:"required"`
	Bucket    string `json:"bucket" validate:"required"`
}

// ListMeetingsRequest holds the query of GET /meetings
type ListMeetingsRequest struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=500"`
}

// GetMeetingRequest holds the path of GET /meetings/:id
type GetMeetingRequest struct {
	MeetingID string `param:"id" validate:"required"`
}

// CompleteActionItemRequest marks one action item as done. TaskIndex is the
// position of the item inside the meeting's action items.
type CompleteActionItemRequest struct {
	MeetingID string `json:"meetingId" validate:"required"`
	TaskIndex *int   `json:"taskIndex" validate:"required,min=0"`
}
