// Package bootstrap builds the adapters selected by configuration and wires
// them into the aggregator and the notification service. Every command shares
// it so the backends behave the same whichever surface triggers the work.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/internal/adapter/repository"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/repositories"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/awsconf"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/email"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/external/bedrock"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/external/breaker"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/external/comprehend"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/external/groq"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/messaging"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/observability"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/storage"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/meeting"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/notification"
	"github.com/johnquangdev/meeting-intelligence/pkg/config"
	"github.com/johnquangdev/meeting-intelligence/pkg/validator"
)

// MetricsNamespace prefixes every exported metric
const MetricsNamespace = "meeting"

// App holds the wired components. Close releases every connection opened
// while building it, in reverse order.
type App struct {
	Config       *config.Config
	Logger       *zap.Logger
	AWS          aws.Config
	Metrics      *observability.Metrics
	Validator    *validator.CustomValidator
	Objects      repositories.ObjectStore
	Meetings     repositories.MeetingRepository
	Aggregator   *meeting.Aggregator
	Service      meeting.Service
	Notification *notification.Service

	closers []func()
	pending []func()
}

// Flush blocks until in-process notifications dispatched so far have been
// delivered. Runtimes that freeze between invocations call it before
// returning.
func (a *App) Flush() {
	for _, wait := range a.pending {
		wait()
	}
}

// Close releases resources in reverse acquisition order
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *App) onClose(fn func()) {
	a.closers = append(a.closers, fn)
}

// New builds the full aggregation stack
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	awsCfg, err := awsconf.Load(ctx, cfg.AWS)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:    cfg,
		Logger:    logger,
		AWS:       awsCfg,
		Metrics:   observability.NewMetrics(MetricsNamespace),
		Validator: validator.New(),
	}

	if err := app.build(ctx); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

func (a *App) build(ctx context.Context) error {
	var err error

	logger := a.Logger
	cfg := a.Config

	logger.Info("📦 Initializing object storage...", zap.String("backend", cfg.Storage.Backend))
	if a.Objects, err = a.objectStore(); err != nil {
		return err
	}

	logger.Info("📦 Initializing record store...", zap.String("backend", cfg.Records.Backend))
	if a.Meetings, err = a.meetingRepository(ctx); err != nil {
		return err
	}

	locker, err := a.locker(ctx)
	if err != nil {
		return err
	}

	a.Notification, err = a.notificationService()
	if err != nil {
		return err
	}

	notifier, err := a.notifier()
	if err != nil {
		return err
	}

	logger.Info("🤖 Initializing analyzers...", zap.String("generator", cfg.Analysis.Generator))
	objects := repository.NewObjectTranscriptStore(a.Objects)
	a.Aggregator = meeting.NewAggregator(meeting.Dependencies{
		Transcripts: objects,
		Annotator:   comprehend.NewAnnotator(a.AWS, cfg.Analysis.LanguageCode),
		Generator:   a.generator(),
		Records:     a.Meetings,
		Summaries:   objects,
		Notifier:    notifier,
		Locker:      locker,
		Metrics:     a.Metrics,
	}, meeting.Options{
		AnnotationChars: cfg.Analysis.AnnotationChars,
		GenerationChars: cfg.Analysis.GenerationChars,
	}, a.Validator, logger)

	a.Service = meeting.NewService(a.Meetings, logger)

	logger.Info("✅ Aggregation stack initialized")
	return nil
}

func (a *App) objectStore() (repositories.ObjectStore, error) {
	cfg := a.Config
	switch cfg.Storage.Backend {
	case config.StorageS3:
		return storage.NewS3Store(a.AWS, cfg.Storage.UsePathStyle), nil
	case config.StorageMinIO:
		store, err := storage.NewMinIOStore(&cfg.Storage, cfg.AWS.Region)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StorageLocal:
		return storage.NewLocalStore(cfg.Storage.LocalRoot), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func (a *App) meetingRepository(ctx context.Context) (repositories.MeetingRepository, error) {
	cfg := a.Config
	switch cfg.Records.Backend {
	case config.RecordsDynamoDB:
		return repository.NewDynamoMeetingRepository(dynamodb.NewFromConfig(a.AWS), cfg.Records.Table, a.Logger), nil

	case config.RecordsPostgres:
		db, err := database.NewPostgresDB(ctx, cfg, a.Logger)
		if err != nil {
			return nil, err
		}
		a.onClose(func() {
			if err := database.CloseDB(db, a.Logger); err != nil {
				a.Logger.Warn("⚠️ Failed to close database", zap.Error(err))
			}
		})

		if cfg.Database.AutoMigrate {
			if cfg.IsProduction() {
				return nil, fmt.Errorf("DB_AUTO_MIGRATE is enabled in production; apply migrations with cmd/migrate")
			}
			if _, err := database.AutoMigrate(db, cfg.Database.MigrationsDir, a.Logger); err != nil {
				return nil, err
			}
		}
		return repository.NewPostgresMeetingRepository(db), nil

	default:
		return nil, fmt.Errorf("unknown records backend %q", cfg.Records.Backend)
	}
}

func (a *App) locker(ctx context.Context) (repositories.MeetingLocker, error) {
	cfg := a.Config
	switch cfg.Lock.Backend {
	case config.LockRedis:
		a.Logger.Info("📦 Connecting to Redis...", zap.String("addr", cfg.GetRedisAddr()))
		client, err := cache.NewRedisClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a.onClose(func() { _ = client.Close() })
		return cache.NewRedisLocker(client, cfg.Lock.TTL, cfg.Lock.Wait, a.Logger), nil
	case config.LockMemory:
		return cache.NewMemoryLocker(cfg.Lock.TTL, cfg.Lock.Wait), nil
	case config.LockNone:
		return cache.NoopLocker{}, nil
	default:
		return nil, fmt.Errorf("unknown lock backend %q", cfg.Lock.Backend)
	}
}

func (a *App) generator() repositories.GenerativeAnalyzer {
	cfg := a.Config

	var next repositories.GenerativeAnalyzer
	switch cfg.Analysis.Generator {
	case config.GeneratorGroq:
		next = groq.NewAnalyzer(cfg.Groq, cfg.Analysis.MaxTokens, cfg.Analysis.Temperature)
	default:
		next = bedrock.NewAnalyzer(a.AWS, bedrock.Options{
			ModelID:     cfg.Analysis.ModelID,
			MaxTokens:   cfg.Analysis.MaxTokens,
			Temperature: cfg.Analysis.Temperature,
		})
	}

	return breaker.NewAnalyzer(next, breaker.Settings{
		Name:        cfg.Analysis.Generator,
		MaxFailures: cfg.Analysis.BreakerMaxFailures,
		Timeout:     cfg.Analysis.BreakerTimeout,
	}, a.Logger)
}

// Mailer returns the SES mailer, or a log-only mailer outside production
// when no sender is configured.
func (a *App) Mailer() (repositories.Mailer, error) {
	if err := a.Config.ValidateEmail(); err != nil {
		if a.Config.IsProduction() {
			return nil, err
		}
		a.Logger.Warn("⚠️ Email not configured, summaries will only be logged", zap.Error(err))
		return email.NewLogMailer(a.Logger), nil
	}
	return email.NewSESMailer(a.AWS, a.Logger), nil
}

func (a *App) notificationService() (*notification.Service, error) {
	mailer, err := a.Mailer()
	if err != nil {
		return nil, err
	}
	return notification.NewService(mailer, a.Config.Email.From, a.Config.Email.To, a.Logger), nil
}

func (a *App) notifier() (repositories.Notifier, error) {
	cfg := a.Config
	switch cfg.Events.Backend {
	case config.EventsEventBridge:
		return messaging.NewEventBridgePublisherFromConfig(a.AWS, cfg.Events.BusName, cfg.Events.Source, a.Logger), nil

	case config.EventsNATS:
		pub, err := messaging.NewNATSPublisher(cfg.Events.NatsURL, cfg.Events.Subject)
		if err != nil {
			return nil, err
		}
		a.onClose(func() { _ = pub.Close() })
		return pub, nil

	case config.EventsLocal:
		pub := messaging.NewLocalPublisher(a.Notification.HandleMeetingAnalyzed, cfg.Server.RequestTimeout, a.Logger)
		a.pending = append(a.pending, pub.Wait)
		// Let in-flight emails finish before connections close.
		a.onClose(pub.Wait)
		return pub, nil

	case config.EventsNone:
		a.Logger.Warn("⚠️ Event publishing disabled, summary emails will not be sent")
		return messaging.NoopPublisher{}, nil

	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Events.Backend)
	}
}

// NewNotifierApp builds only what the notification consumer needs
func NewNotifierApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	awsCfg, err := awsconf.Load(ctx, cfg.AWS)
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Logger: logger, AWS: awsCfg}
	if app.Notification, err = app.notificationService(); err != nil {
		return nil, err
	}
	return app, nil
}
