package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/internal/bootstrap"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/watcher"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/meeting"
	"github.com/johnquangdev/meeting-intelligence/pkg/config"
	"github.com/johnquangdev/meeting-intelligence/pkg/jobcontext"
	pkglogger "github.com/johnquangdev/meeting-intelligence/pkg/logger"
)

// Aggregates every transcript dropped into {WATCHER_ROOT}/{WATCHER_BUCKET}/transcripts.
// The job name doubles as the meeting id.
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

	if cfg.Storage.Backend == config.StorageLocal && cfg.Storage.LocalRoot != cfg.Watcher.Root {
		logger.Warn("⚠️ STORAGE_LOCAL_ROOT differs from WATCHER_ROOT; transcripts may not be found",
			zap.String("storage_root", cfg.Storage.LocalRoot),
			zap.String("watcher_root", cfg.Watcher.Root),
		)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize dependencies", zap.Error(err))
	}
	defer app.Close()

	bucket := cfg.Watcher.Bucket
	w, err := watcher.New(cfg.Watcher.Root, bucket, func(ctx context.Context, jobName string) error {
		jctx, cancel := jobcontext.Begin(ctx, "watcher", jobName, jobName, bucket, cfg.Server.RequestTimeout)
		defer cancel()

		result, err := app.Aggregator.Aggregate(jctx, meeting.AggregateRequest{
			MeetingID: jobName,
			JobName:   jobName,
			Bucket:    bucket,
		})
		if err != nil {
			return err
		}
		logger.Info("✅ Meeting aggregated",
			zap.String("meeting_id", result.MeetingID),
			zap.String("summary_location", result.SummaryLocation),
			zap.Int("action_items", result.ActionItemsCount),
		)
		return nil
	}, logger, cfg.Watcher.Concurrency)
	if err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}
	defer w.Stop()

	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("❌ Watcher stopped", zap.Error(err))
	}
}
