package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Backends
const (
	StorageS3    = "s3"
	StorageMinIO = "minio"
	StorageLocal = "local"

	RecordsPostgres = "postgres"
	RecordsDynamoDB = "dynamodb"

	GeneratorBedrock = "bedrock"
	GeneratorGroq    = "groq"

	EventsEventBridge = "eventbridge"
	EventsNATS        = "nats"
	EventsLocal       = "local"
	EventsNone        = "none"

	LockRedis  = "redis"
	LockMemory = "memory"
	LockNone   = "none"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig   `envconfig:"SERVER"`
	Database DatabaseConfig `envconfig:"DB"`
	Redis    RedisConfig    `envconfig:"REDIS"`
	Storage  StorageConfig  `envconfig:"STORAGE"`
	AWS      AWSConfig      `envconfig:"AWS"`
	Records  RecordsConfig  `envconfig:"RECORDS"`
	Analysis AnalysisConfig `envconfig:"ANALYSIS"`
	Groq     GroqConfig     `envconfig:"GROQ"`
	Events   EventsConfig   `envconfig:"EVENTS"`
	Email    EmailConfig    `envconfig:"EMAIL"`
	Lock     LockConfig     `envconfig:"LOCK"`
	Webhook  WebhookConfig  `envconfig:"WEBHOOK"`
	Watcher  WatcherConfig  `envconfig:"WATCHER"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	Host            string        `split_words:"true" default:"0.0.0.0"`
	Environment     string        `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string      `split_words:"true" default:"*"`
	ShutdownTimeout time.Duration `split_words:"true" default:"10s"`
	RequestTimeout  time.Duration `split_words:"true" default:"5m"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host          string `split_words:"true" default:"localhost"`
	Port          string `split_words:"true" default:"5432"`
	User          string `split_words:"true" default:"postgres"`
	Password      string `split_words:"true" default:"postgres"`
	Name          string `split_words:"true" default:"meeting_intelligence"`
	SSLMode       string `split_words:"true" default:"disable"`
	MaxConns      int    `split_words:"true" default:"25"`
	MinConns      int    `split_words:"true" default:"5"`
	MigrationsDir string `split_words:"true" default:"migrations"`
	AutoMigrate   bool   `split_words:"true" default:"false"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `split_words:"true" default:"localhost"`
	Port     string `split_words:"true" default:"6379"`
	Password string `split_words:"true"`
	DB       int    `split_words:"true" default:"0"`
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Backend         string `split_words:"true" default:"s3"`
	Endpoint        string `split_words:"true"`
	AccessKeyID     string `split_words:"true"`
	SecretAccessKey string `split_words:"true"`
	UseSSL          bool   `split_words:"true" default:"true"`
	UsePathStyle    bool   `split_words:"true" default:"false"`
	LocalRoot       string `split_words:"true" default:"./data"`
}

// AWSConfig holds shared AWS SDK settings. Endpoint overrides every service
// endpoint, for LocalStack and similar.
type AWSConfig struct {
	Region   string `split_words:"true" default:"us-west-2"`
	Endpoint string `split_words:"true"`
}

// RecordsConfig selects the meeting record store
type RecordsConfig struct {
	Backend string `split_words:"true" default:"dynamodb"`
	Table   string `split_words:"true" default:"MeetingIntelligence"`
}

// AnalysisConfig holds annotator and generative analyzer settings
type AnalysisConfig struct {
	Generator          string        `split_words:"true" default:"bedrock"`
	ModelID            string        `split_words:"true" default:"anthropic.claude-3-haiku-20240307-v1:0"`
	MaxTokens          int           `split_words:"true" default:"2000"`
	Temperature        float64       `split_words:"true" default:"0.3"`
	LanguageCode       string        `split_words:"true" default:"en"`
	AnnotationChars    int           `split_words:"true" default:"5000"`
	GenerationChars    int           `split_words:"true" default:"4000"`
	BreakerMaxFailures uint32        `split_words:"true" default:"5"`
	BreakerTimeout     time.Duration `split_words:"true" default:"60s"`
}

// GroqConfig holds Groq API configuration
type GroqConfig struct {
	APIKey  string        `split_words:"true"`
	BaseURL string        `split_words:"true" default:"https://api.groq.com"`
	Model   string        `split_words:"true" default:"llama-3.1-70b-versatile"`
	Timeout time.Duration `split_words:"true" default:"30s"`
}

// EventsConfig selects how MeetingAnalyzed events are published
type EventsConfig struct {
	Backend    string `split_words:"true" default:"local"`
	BusName    string `split_words:"true" default:"default"`
	Source     string `split_words:"true" default:"meeting-intelligence.aggregator"`
	NatsURL    string `split_words:"true" default:"nats://127.0.0.1:4222"`
	Subject    string `split_words:"true" default:"meetings.analyzed"`
	QueueGroup string `split_words:"true" default:"notifier"`
}

// EmailConfig holds summary email settings
type EmailConfig struct {
	From string   `split_words:"true"`
	To   []string `split_words:"true"`
}

// LockConfig selects the per-meeting lock
type LockConfig struct {
	Backend string        `split_words:"true" default:"memory"`
	TTL     time.Duration `split_words:"true" default:"10m"`
	Wait    time.Duration `split_words:"true" default:"30s"`
}

// WebhookConfig holds the shared secret of the transcription webhook
type WebhookConfig struct {
	Secret string `split_words:"true"`
}

// WatcherConfig holds the local transcript watcher settings
type WatcherConfig struct {
	Root        string `split_words:"true" default:"./data"`
	Bucket      string `split_words:"true" default:"meetings"`
	Concurrency int    `split_words:"true" default:"2"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := oneOf("STORAGE_BACKEND", c.Storage.Backend, StorageS3, StorageMinIO, StorageLocal); err != nil {
		return err
	}
	if err := oneOf("RECORDS_BACKEND", c.Records.Backend, RecordsPostgres, RecordsDynamoDB); err != nil {
		return err
	}
	if err := oneOf("ANALYSIS_GENERATOR", c.Analysis.Generator, GeneratorBedrock, GeneratorGroq); err != nil {
		return err
	}
	if err := oneOf("EVENTS_BACKEND", c.Events.Backend, EventsEventBridge, EventsNATS, EventsLocal, EventsNone); err != nil {
		return err
	}
	if err := oneOf("LOCK_BACKEND", c.Lock.Backend, LockRedis, LockMemory, LockNone); err != nil {
		return err
	}

	if c.Storage.Backend == StorageMinIO && c.Storage.Endpoint == "" {
		return fmt.Errorf("STORAGE_ENDPOINT is required for the minio backend")
	}
	if c.Analysis.Generator == GeneratorGroq && c.Groq.APIKey == "" {
		return fmt.Errorf("GROQ_API_KEY is required for the groq generator")
	}
	if c.Records.Table == "" {
		return fmt.Errorf("RECORDS_TABLE is required")
	}
	if c.Analysis.AnnotationChars <= 0 || c.Analysis.GenerationChars <= 0 {
		return fmt.Errorf("ANALYSIS_ANNOTATION_CHARS and ANALYSIS_GENERATION_CHARS must be positive")
	}
	if c.Watcher.Concurrency <= 0 {
		return fmt.Errorf("WATCHER_CONCURRENCY must be positive")
	}
	return nil
}

// ValidateEmail checks the settings needed to send summary emails
func (c *Config) ValidateEmail() error {
	if c.Email.From == "" {
		return fmt.Errorf("EMAIL_FROM is required")
	}
	if len(c.Email.To) == 0 {
		return fmt.Errorf("EMAIL_TO is required")
	}
	return nil
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

func oneOf(name, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %v, got %q", name, allowed, value)
}
