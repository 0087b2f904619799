package messaging

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// LocalPublisher hands events to an in-process handler on a separate
// goroutine, so delivery never blocks or fails the publisher.
type LocalPublisher struct {
	handler MeetingAnalyzedHandler
	timeout time.Duration
	logger  *zap.Logger
	wg      sync.WaitGroup
}

// NewLocalPublisher creates an in-process publisher
func NewLocalPublisher(handler MeetingAnalyzedHandler, timeout time.Duration, logger *zap.Logger) *LocalPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &LocalPublisher{handler: handler, timeout: timeout, logger: logger}
}

// NotifyMeetingAnalyzed implements repositories.Notifier
func (p *LocalPublisher) NotifyMeetingAnalyzed(ctx context.Context, event entities.MeetingAnalyzedEvent) error {
	hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer cancel()

		if err := p.handler(hctx, event); err != nil {
			p.logger.Error("❌ Local event handler failed",
				zap.String("event_id", event.EventID),
				zap.Error(err),
			)
		}
	}()
	return nil
}

// Wait blocks until every dispatched event has been handled
func (p *LocalPublisher) Wait() {
	p.wg.Wait()
}
