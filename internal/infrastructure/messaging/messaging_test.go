package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

func sampleEvent() entities.MeetingAnalyzedEvent {
	record := entities.NewMeetingRecord("m1", "hello world", entities.AnalysisResult{
		ExecutiveSummary: "Short sync.",
		Sentiment:        entities.SentimentPositive,
		ActionItems: []entities.ActionItem{
			{Task: "Ship it", Owner: "Dana", Priority: entities.PriorityHigh, DueDate: "2026-10-20"},
		},
	}, entities.Annotation{Sentiment: entities.SentimentLabelPositive}, time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC))
	return entities.NewMeetingAnalyzedEvent(record, "s3://b/summaries/m1-summary.json")
}

type fakeEventBridge struct {
	input  *eventbridge.PutEventsInput
	output *eventbridge.PutEventsOutput
	err    error
}

func (f *fakeEventBridge) PutEvents(_ context.Context, params *eventbridge.PutEventsInput, _ ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	if f.output != nil {
		return f.output, nil
	}
	return &eventbridge.PutEventsOutput{}, nil
}

func TestEventBridgePublisher_PutsEntry(t *testing.T) {
	client := &fakeEventBridge{}
	pub := NewEventBridgePublisher(client, "default", "meeting-intelligence.aggregator", zap.NewNop())
	event := sampleEvent()

	require.NoError(t, pub.NotifyMeetingAnalyzed(context.Background(), event))

	require.Len(t, client.input.Entries, 1)
	entry := client.input.Entries[0]
	assert.Equal(t, "default", aws.ToString(entry.EventBusName))
	assert.Equal(t, "meeting-intelligence.aggregator", aws.ToString(entry.Source))
	assert.Equal(t, entities.EventTypeMeetingAnalyzed, aws.ToString(entry.DetailType))

	decoded, err := DecodeEventBridgeDetail(json.RawMessage(aws.ToString(entry.Detail)))
	require.NoError(t, err)
	assert.Equal(t, event.EventID, decoded.EventID)
	assert.Equal(t, "m1", decoded.Record.MeetingID)
	assert.Empty(t, decoded.Record.Transcript)
}

func TestEventBridgePublisher_FailedEntry(t *testing.T) {
	client := &fakeEventBridge{output: &eventbridge.PutEventsOutput{
		FailedEntryCount: 1,
		Entries: []types.PutEventsResultEntry{
			{ErrorCode: aws.String("InternalFailure"), ErrorMessage: aws.String("boom")},
		},
	}}
	pub := NewEventBridgePublisher(client, "default", "src", nil)

	err := pub.NotifyMeetingAnalyzed(context.Background(), sampleEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "InternalFailure")
}

func TestEventBridgePublisher_CallError(t *testing.T) {
	pub := NewEventBridgePublisher(&fakeEventBridge{err: errors.New("throttled")}, "default", "src", nil)
	assert.Error(t, pub.NotifyMeetingAnalyzed(context.Background(), sampleEvent()))
}

func startTestNATS(t *testing.T) string {
	t.Helper()
	srv, err := natsserver.NewServer(&natsserver.Options{Host: "127.0.0.1", Port: -1})
	require.NoError(t, err)
	srv.Start()
	t.Cleanup(srv.Shutdown)
	if !srv.ReadyForConnections(5 * time.Second) {
		t.Fatal("nats server not ready")
	}
	return srv.ClientURL()
}

func TestNATS_PublishSubscribe(t *testing.T) {
	url := startTestNATS(t)

	sub, err := NewNATSSubscriber(url, zap.NewNop())
	require.NoError(t, err)
	defer sub.Close()

	received := make(chan entities.MeetingAnalyzedEvent, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- sub.Run(ctx, "meetings.analyzed", "notifier", func(_ context.Context, e entities.MeetingAnalyzedEvent) error {
			received <- e
			return nil
		})
	}()

	pub, err := NewNATSPublisher(url, "meetings.analyzed")
	require.NoError(t, err)
	defer pub.Close()

	event := sampleEvent()
	// The subscription registers asynchronously; republish until it lands.
	deadline := time.After(5 * time.Second)
	for {
		require.NoError(t, pub.NotifyMeetingAnalyzed(context.Background(), event))
		select {
		case got := <-received:
			assert.Equal(t, event.EventID, got.EventID)
			assert.Equal(t, "m1", got.Record.MeetingID)
			require.Len(t, got.Record.Analysis.ActionItems, 1)
			cancel()
			assert.NoError(t, <-done)
			return
		case <-time.After(100 * time.Millisecond):
		case <-deadline:
			t.Fatal("event not delivered")
		}
	}
}

func TestNATSPublisher_ConnectFailure(t *testing.T) {
	_, err := NewNATSPublisher("nats://127.0.0.1:1", "x")
	assert.Error(t, err)
}

func TestLocalPublisher_DispatchesAsync(t *testing.T) {
	var mu sync.Mutex
	var got []string
	pub := NewLocalPublisher(func(ctx context.Context, e entities.MeetingAnalyzedEvent) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e.Record.MeetingID)
		return errors.New("mail down")
	}, time.Second, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, pub.NotifyMeetingAnalyzed(ctx, sampleEvent()))
	cancel()
	pub.Wait()

	assert.Equal(t, []string{"m1"}, got)
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NoopPublisher{}.NotifyMeetingAnalyzed(context.Background(), sampleEvent()))
}
