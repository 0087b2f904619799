package entities

import "time"

// Priority of an action item
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ActionItem is a task derived from the meeting discussion. DueDate is free
// text ("end of week"), never a parsed date.
type ActionItem struct {
	Task      string   `json:"task" dynamodbav:"task" validate:"required"`
	Owner     string   `json:"owner" dynamodbav:"owner" validate:"required"`
	Priority  Priority `json:"priority" dynamodbav:"priority" validate:"required,oneof=high medium low"`
	DueDate   string   `json:"due_date" dynamodbav:"due_date"`
	Completed bool     `json:"completed" dynamodbav:"completed"`
}

// ActionItemView is an action item flattened with its meeting for listing.
// TaskIndex is the item's position in the meeting's action_items.
type ActionItemView struct {
	MeetingID   string    `json:"meetingId"`
	MeetingDate time.Time `json:"meetingDate"`
	TaskIndex   int       `json:"taskIndex"`
	Task        string    `json:"task"`
	Owner       string    `json:"owner"`
	Priority    Priority  `json:"priority"`
	DueDate     string    `json:"dueDate"`
	Completed   bool      `json:"completed"`
}
