package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/internal/adapter/handler"
	"github.com/johnquangdev/meeting-intelligence/internal/bootstrap"
	"github.com/johnquangdev/meeting-intelligence/pkg/config"
	pkglogger "github.com/johnquangdev/meeting-intelligence/pkg/logger"
)

// Direct invocation entrypoint. The event is {meetingId, jobName, bucket};
// the result is the {statusCode, body} envelope.
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

	app, err := bootstrap.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize dependencies", zap.Error(err))
	}
	defer app.Close()

	invocation := handler.NewInvocation(app.Aggregator, cfg.Server.RequestTimeout, app.Flush, logger)
	lambda.Start(invocation.Handle)
}
