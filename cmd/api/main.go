package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/internal/adapter/handler"
	"github.com/johnquangdev/meeting-intelligence/internal/bootstrap"
	"github.com/johnquangdev/meeting-intelligence/pkg/config"
	pkglogger "github.com/johnquangdev/meeting-intelligence/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := pkglogger.New(cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize dependencies
	logger.Info("🔧 Initializing dependencies...")
	app, err := bootstrap.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize dependencies", zap.Error(err))
	}
	defer app.Close()

	// Initialize Echo instance
	e := echo.New()
	e.Validator = app.Validator
	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.RequestID())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, handler.SignatureHeader},
	}))

	// Setup router with handlers
	logger.Info("🛣️  Setting up routes...")
	meetingHandler := handler.NewMeetingHandler(app.Aggregator, app.Service, logger)

	var webhookHandler *handler.TranscriptionWebhook
	if cfg.Webhook.Secret != "" {
		webhookHandler = handler.NewTranscriptionWebhook(app.Aggregator, cfg.Webhook.Secret, logger)
	} else {
		logger.Warn("⚠️ WEBHOOK_SECRET not set, transcription webhook disabled")
	}

	handler.NewRouter(cfg, meetingHandler, webhookHandler, app.Metrics.Handler()).Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		logger.Info("🚀 Starting server",
			zap.String("addr", addr),
			zap.String("environment", cfg.Server.Environment),
		)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("❌ Server forced to shutdown", zap.Error(err))
		return
	}

	logger.Info("✅ Server stopped gracefully")
}
