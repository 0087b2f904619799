package entities

import "strings"

// Sentiment is the generative model's judgment of the meeting tone
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
	SentimentMixed    Sentiment = "mixed"
)

// AnalysisResult is the structured payload produced by generative analysis or
// by the static fallback. Field names match the JSON requested in the prompt.
type AnalysisResult struct {
	ExecutiveSummary string       `json:"executive_summary" dynamodbav:"executive_summary" validate:"required"`
	KeyTopics        []string     `json:"key_topics" dynamodbav:"key_topics" validate:"required"`
	ActionItems      []ActionItem `json:"action_items" dynamodbav:"action_items" validate:"required,dive"`
	DecisionsMade    []string     `json:"decisions_made" dynamodbav:"decisions_made" validate:"required"`
	NextSteps        []string     `json:"next_steps" dynamodbav:"next_steps" validate:"required"`
	Sentiment        Sentiment    `json:"sentiment" dynamodbav:"sentiment" validate:"required,oneof=positive neutral negative mixed"`
}

// Normalize lower-cases the enumerated fields so that "High" or "Positive"
// from a model validate the same as their canonical forms.
func (a *AnalysisResult) Normalize() {
	a.Sentiment = Sentiment(strings.ToLower(strings.TrimSpace(string(a.Sentiment))))
	for i := range a.ActionItems {
		a.ActionItems[i].Priority = Priority(strings.ToLower(strings.TrimSpace(string(a.ActionItems[i].Priority))))
	}
}

// Clone returns a deep copy so callers can hand out the value without sharing
// slices.
func (a AnalysisResult) Clone() AnalysisResult {
	out := a
	out.KeyTopics = append([]string(nil), a.KeyTopics...)
	out.ActionItems = append([]ActionItem(nil), a.ActionItems...)
	out.DecisionsMade = append([]string(nil), a.DecisionsMade...)
	out.NextSteps = append([]string(nil), a.NextSteps...)
	return out
}
