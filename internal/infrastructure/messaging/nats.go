package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// NATSPublisher publishes MeetingAnalyzed events to a NATS subject
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSPublisher connects to url
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return &NATSPublisher{conn: nc, subject: subject}, nil
}

// NotifyMeetingAnalyzed implements repositories.Notifier. The publish is
// flushed so connection failures surface to the caller.
func (p *NATSPublisher) NotifyMeetingAnalyzed(ctx context.Context, event entities.MeetingAnalyzedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publishing to %s: %w", p.subject, err)
	}
	if _, ok := ctx.Deadline(); ok {
		return p.conn.FlushWithContext(ctx)
	}
	return p.conn.FlushTimeout(5 * time.Second)
}

func (p *NATSPublisher) Close() error {
	p.conn.Close()
	return nil
}

// NATSSubscriber consumes MeetingAnalyzed events from a NATS queue group
type NATSSubscriber struct {
	conn   *nats.Conn
	logger *zap.Logger
}

// NewNATSSubscriber connects to NATS with automatic reconnection support.
func NewNATSSubscriber(url string, logger *zap.Logger, opts ...nats.Option) (*NATSSubscriber, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := []nats.Option{
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	}
	nc, err := nats.Connect(url, append(defaults, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return &NATSSubscriber{conn: nc, logger: logger}, nil
}

// Run delivers events from subject to handler until ctx is done. Members of
// the same queue group share the stream, so each event is handled once.
func (s *NATSSubscriber) Run(ctx context.Context, subject, queue string, handler MeetingAnalyzedHandler) error {
	sub, err := s.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		var event entities.MeetingAnalyzedEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			s.logger.Error("❌ Dropping undecodable event",
				zap.String("subject", msg.Subject),
				zap.Error(err),
			)
			return
		}
		if err := handler(ctx, event); err != nil {
			s.logger.Error("❌ Event handler failed",
				zap.String("event_id", event.EventID),
				zap.Error(err),
			)
		}
	})
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", subject, err)
	}
	// Flush ensures the subscription is registered on the server before
	// publishers on other connections send.
	if err := s.conn.Flush(); err != nil {
		_ = sub.Unsubscribe()
		return fmt.Errorf("flushing subscription: %w", err)
	}

	s.logger.Info("📡 Listening for meeting events",
		zap.String("subject", subject),
		zap.String("queue", queue),
	)

	<-ctx.Done()
	return sub.Drain()
}

func (s *NATSSubscriber) Close() error {
	s.conn.Close()
	return nil
}
