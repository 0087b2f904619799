package meeting

import "github.com/johnquangdev/meeting-intelligence/internal/domain/entities"

// ListMeetingsResponse is returned by GET /meetings
type ListMeetingsResponse struct {
	Meetings []entities.MeetingSummary `json:"meetings"`
	Count    int                       `json:"count"`
}

// ListActionItemsResponse is returned by GET /action-items
type ListActionItemsResponse struct {
	ActionItems []entities.ActionItemView `json:"actionItems"`
	Count       int                       `json:"count"`
}

// CompleteActionItemResponse acknowledges a completed action item
type CompleteActionItemResponse struct {
	MeetingID string `json:"meetingId"`
	TaskIndex int    `json:"taskIndex"`
	Completed bool   `json:"completed"`
}

// NewListMeetingsResponse wraps summaries, never returning a null list
func NewListMeetingsResponse(meetings []entities.MeetingSummary) ListMeetingsResponse {
	if meetings == nil {
		meetings = []entities.MeetingSummary{}
	}
	return ListMeetingsResponse{Meetings: meetings, Count: len(meetings)}
}

// NewListActionItemsResponse wraps action items, never returning a null list
func NewListActionItemsResponse(items []entities.ActionItemView) ListActionItemsResponse {
	if items == nil {
		items = []entities.ActionItemView{}
	}
	return ListActionItemsResponse{ActionItems: items, Count: len(items)}
}
