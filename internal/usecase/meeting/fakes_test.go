package meeting

import (
	"context"
	"sync"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

type fakeTranscripts struct {
	text  string
	err   error
	calls int
}

func (f *fakeTranscripts) FetchTranscript(_ context.Context, _, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type fakeAnnotator struct {
	annotation entities.Annotation
	err        error
	got        string
}

func (f *fakeAnnotator) Annotate(_ context.Context, text string) (entities.Annotation, error) {
	f.got = text
	if f.err != nil {
		return entities.Annotation{}, f.err
	}
	return f.annotation, nil
}

type fakeGenerator struct {
	raw    string
	err    error
	prompt string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.raw, f.err
}

type fakeRecords struct {
	saved []*entities.MeetingRecord
	err   error
}

func (f *fakeRecords) SaveMeeting(_ context.Context, record *entities.MeetingRecord) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, record)
	return nil
}

type fakeSummaries struct {
	bodies map[string][]byte
	err    error
}

func (f *fakeSummaries) PutSummary(_ context.Context, bucket, meetingID string, body []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.bodies == nil {
		f.bodies = map[string][]byte{}
	}
	key := entities.SummaryKey(meetingID)
	f.bodies[key] = body
	return "s3://" + bucket + "/" + key, nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []entities.MeetingAnalyzedEvent
	err    error
}

func (f *fakeNotifier) NotifyMeetingAnalyzed(_ context.Context, event entities.MeetingAnalyzedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return f.err
}

type fakeLocker struct {
	err      error
	locked   int
	unlocked int
}

func (f *fakeLocker) Lock(_ context.Context, _ string) (func(), error) {
	if f.err != nil {
		return nil, f.err
	}
	f.locked++
	return func() { f.unlocked++ }, nil
}
