package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// EventBridgeAPI is the subset of the EventBridge client used by the publisher
type EventBridgeAPI interface {
	PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

// EventBridgePublisher puts MeetingAnalyzed events on an EventBridge bus
type EventBridgePublisher struct {
	client       EventBridgeAPI
	eventBusName string
	source       string
	logger       *zap.Logger
}

// NewEventBridgePublisher creates a new EventBridge publisher
func NewEventBridgePublisher(client EventBridgeAPI, eventBusName, source string, logger *zap.Logger) *EventBridgePublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventBridgePublisher{
		client:       client,
		eventBusName: eventBusName,
		source:       source,
		logger:       logger,
	}
}

// NewEventBridgePublisherFromConfig builds the client from an AWS config
func NewEventBridgePublisherFromConfig(awsCfg aws.Config, eventBusName, source string, logger *zap.Logger) *EventBridgePublisher {
	return NewEventBridgePublisher(eventbridge.NewFromConfig(awsCfg), eventBusName, source, logger)
}

// NotifyMeetingAnalyzed implements repositories.Notifier
func (p *EventBridgePublisher) NotifyMeetingAnalyzed(ctx context.Context, event entities.MeetingAnalyzedEvent) error {
	detail, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	result, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{{
			EventBusName: aws.String(p.eventBusName),
			Source:       aws.String(p.source),
			DetailType:   aws.String(event.EventType),
			Detail:       aws.String(string(detail)),
			Time:         aws.Time(event.OccurredAt),
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to publish event to EventBridge: %w", err)
	}

	if result.FailedEntryCount > 0 {
		for _, entry := range result.Entries {
			if entry.ErrorCode != nil {
				return fmt.Errorf("EventBridge rejected event %s: %s: %s",
					event.EventID, aws.ToString(entry.ErrorCode), aws.ToString(entry.ErrorMessage))
			}
		}
		return fmt.Errorf("EventBridge rejected event %s", event.EventID)
	}

	p.logger.Debug("Event published to EventBridge", zap.String("event_id", event.EventID))
	return nil
}

// DecodeEventBridgeDetail decodes the detail of a delivered MeetingAnalyzed
// event.
func DecodeEventBridgeDetail(detail json.RawMessage) (entities.MeetingAnalyzedEvent, error) {
	var event entities.MeetingAnalyzedEvent
	if err := json.Unmarshal(detail, &event); err != nil {
		return event, fmt.Errorf("failed to decode event detail: %w", err)
	}
	return event, nil
}
