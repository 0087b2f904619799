package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/internal/bootstrap"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/messaging"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/notification"
	"github.com/johnquangdev/meeting-intelligence/pkg/config"
	"github.com/johnquangdev/meeting-intelligence/pkg/jobcontext"
	pkglogger "github.com/johnquangdev/meeting-intelligence/pkg/logger"
)

// Consumes MeetingAnalyzed events and sends the summary email. With
// EVENTS_BACKEND=eventbridge it runs as a Lambda target of the bus rule,
// with EVENTS_BACKEND=nats as a long-running queue worker.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := pkglogger.New(cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	app, err := bootstrap.NewNotifierApp(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize notifier", zap.Error(err))
	}
	defer app.Close()

	switch cfg.Events.Backend {
	case config.EventsEventBridge:
		lambda.Start(eventBridgeHandler(app.Notification, logger))

	case config.EventsNATS:
		if err := runNATSWorker(cfg, app.Notification, logger); err != nil {
			logger.Fatal("NATS worker stopped", zap.Error(err))
		}

	default:
		logger.Fatal("cmd/notifier needs EVENTS_BACKEND=eventbridge or nats",
			zap.String("backend", cfg.Events.Backend))
	}
}

// eventBridgeHandler returns an error only for failures worth a redelivery,
// so a malformed event is not retried forever.
func eventBridgeHandler(svc *notification.Service, logger *zap.Logger) func(context.Context, events.CloudWatchEvent) error {
	return func(ctx context.Context, ev events.CloudWatchEvent) error {
		if ev.DetailType != entities.EventTypeMeetingAnalyzed {
			logger.Warn("⚠️ Ignoring unexpected event", zap.String("detail_type", ev.DetailType))
			return nil
		}

		event, err := messaging.DecodeEventBridgeDetail(ev.Detail)
		if err != nil {
			logger.Error("❌ Dropping undecodable event", zap.String("id", ev.ID), zap.Error(err))
			return nil
		}

		if err := svc.HandleMeetingAnalyzed(ctx, event); err != nil {
			if jobcontext.IsRetryableError(err) {
				return fmt.Errorf("notify meeting %s: %w", meetingIDOf(event), err)
			}
			logger.Error("❌ Notification failed permanently",
				zap.String("event_id", event.EventID),
				zap.Error(err),
			)
		}
		return nil
	}
}

func runNATSWorker(cfg *config.Config, svc *notification.Service, logger *zap.Logger) error {
	sub, err := messaging.NewNATSSubscriber(cfg.Events.NatsURL, logger)
	if err != nil {
		return err
	}
	defer sub.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return sub.Run(ctx, cfg.Events.Subject, cfg.Events.QueueGroup, svc.HandleMeetingAnalyzed)
}

func meetingIDOf(event entities.MeetingAnalyzedEvent) string {
	if event.Record == nil {
		return ""
	}
	return event.Record.MeetingID
}
