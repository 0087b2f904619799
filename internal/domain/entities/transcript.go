package entities

import "fmt"

// TranscriptDocument is the speech-to-text output stored per job
type TranscriptDocument struct {
	JobName string `json:"jobName,omitempty"`
	Results struct {
		Transcripts []struct {
			Transcript string `json:"transcript"`
		} `json:"transcripts"`
	} `json:"results"`
}

// Text returns the first transcript alternative
func (d *TranscriptDocument) Text() (string, error) {
	if len(d.Results.Transcripts) == 0 {
		return "", fmt.Errorf("transcript document has no transcripts")
	}
	return d.Results.Transcripts[0].Transcript, nil
}

// TranscriptKey is the object key of a job's transcript
func TranscriptKey(jobName string) string {
	return fmt.Sprintf("transcripts/%s.json", jobName)
}

// SummaryKey is the object key of a meeting's persisted summary
func SummaryKey(meetingID string) string {
	return fmt.Sprintf("summaries/%s-summary.json", meetingID)
}
