package repositories

import (
	"context"
)

// TranscriptStore reads the speech-to-text output of a transcription job
type TranscriptStore interface {
	// FetchTranscript returns transcripts[0].transcript of the job's document.
	// A missing object is reported as errors.ErrTranscriptNotFound.
	FetchTranscript(ctx context.Context, bucket, jobName string) (string, error)
}

// SummaryStore keeps the object copy of a persisted meeting record
type SummaryStore interface {
	// PutSummary writes body under summaries/{meetingID}-summary.json and
	// returns the location of the written object.
	PutSummary(ctx context.Context, bucket, meetingID string, body []byte) (string, error)
}
