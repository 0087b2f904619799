package meeting

import "github.com/johnquangdev/meeting-intelligence/internal/domain/entities"

// FallbackSummary is the executive summary of the static fallback analysis
const FallbackSummary = "Meeting covered project updates and next steps. Team discussed timeline and resource allocation."

// FallbackAnalysis returns the static analysis used when generative analysis
// is unavailable or unparsable. Each call returns a fresh copy.
func FallbackAnalysis() entities.AnalysisResult {
	return entities.AnalysisResult{
		ExecutiveSummary: FallbackSummary,
		KeyTopics:        []string{"Project Timeline", "Resource Allocation", "Budget Review"},
		ActionItems: []entities.ActionItem{
			{Task: "Finalize project timeline", Owner: "Project Manager", Priority: entities.PriorityHigh, DueDate: "end of week"},
			{Task: "Review budget proposal", Owner: "Finance Team", Priority: entities.PriorityMedium, DueDate: "next week"},
		},
		DecisionsMade: []string{"Approved budget increase", "Extended deadline by 2 weeks"},
		NextSteps:     []string{"Schedule follow-up meeting", "Distribute updated timeline"},
		Sentiment:     entities.SentimentPositive,
	}
}
