package meeting

import "fmt"

const analysisPromptTemplate = `Analyze this meeting transcript and provide a structured analysis.

Transcript:
%s

Provide your analysis in the following JSON format:
{
  "executive_summary": "2-3 sentence summary of the meeting",
  "key_topics": ["topic1", "topic2", "topic3"],
  "action_items": [
    {"task": "description", "owner": "person name", "priority": "high|medium|low", "due_date": "estimated timeframe"}
  ],
  "decisions_made": ["decision1", "decision2"],
  "next_steps": ["step1", "step2"],
  "sentiment": "positive|neutral|negative|mixed"
}

Focus on extracting clear, actionable items with specific owners when mentioned.`

// BuildPrompt embeds a transcript excerpt in the analysis prompt
func BuildPrompt(excerpt string) string {
	return fmt.Sprintf(analysisPromptTemplate, excerpt)
}

// Excerpt returns the first limit characters (Unicode code points) of text.
// The result is always an exact prefix of text.
func Excerpt(text string, limit int) string {
	if limit < 0 {
		return text
	}
	count := 0
	for i := range text {
		if count == limit {
			return text[:i]
		}
		count++
	}
	return text
}
