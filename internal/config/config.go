package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration for the masterclass server.
type Config struct {
	ServiceName        string        `env:"SERVICE_NAME" envDefault:"masterclass-server"`
	Environment        string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort           int           `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"info"`
	LogPIILevel        string        `env:"LOG_PII_LEVEL" envDefault:"hashed"`
	LogPIISalt         string        `env:"LOG_PII_SALT"`
	EnableTracing      bool          `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint       string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173,http://localhost:8080"`
	RateLimitPerMinute float64       `env:"RATE_LIMIT_PER_MINUTE" envDefault:"60"`

	// Database is optional at startup; operations that need it report a configuration error.
	DatabaseURL    string        `env:"DATABASE_URL"`
	DBMaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBMaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"15"`
	DBConnLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
	DBAutoMigrate  bool          `env:"DB_AUTO_MIGRATE" envDefault:"true"`

	SessionStore     string        `env:"SESSION_STORE" envDefault:"memory"`
	RedisURL         string        `env:"REDIS_URL"`
	SessionTTL       time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	SessionCacheSize int           `env:"SESSION_CACHE_SIZE" envDefault:"10000"`
	SessionLockTTL   time.Duration `env:"SESSION_LOCK_TTL" envDefault:"30s"`

	CompletionAPIKey      string        `env:"OPENROUTER_API_KEY"`
	CompletionBaseURL     string        `env:"OPENROUTER_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
	CompletionModel       string        `env:"COMPLETION_MODEL" envDefault:"openai/gpt-4o-mini"`
	CompletionTemperature float32       `env:"COMPLETION_TEMPERATURE" envDefault:"0.7"`
	CompletionMaxTokens   int           `env:"COMPLETION_MAX_TOKENS" envDefault:"500"`
	CompletionTimeout     time.Duration `env:"COMPLETION_TIMEOUT" envDefault:"60s"`
	CompletionReferer     string        `env:"COMPLETION_REFERER" envDefault:""`
	CompletionTitle       string        `env:"COMPLETION_TITLE" envDefault:"AI-First Masterclass Chat"`
	KnowledgeContextLimit int           `env:"KNOWLEDGE_CONTEXT_LIMIT" envDefault:"5"`

	TrafficSourceMarkers []string `env:"TRAFFIC_SOURCE_MARKERS" envSeparator:"," envDefault:"fb"`
	IntakeTriggerTurns   int      `env:"INTAKE_TRIGGER_TURNS" envDefault:"3"`
	IntakeNotifyTurn     int      `env:"INTAKE_NOTIFY_TURN" envDefault:"5"`
	ChatContentFile      string   `env:"CHAT_CONTENT_FILE"`

	LeadWebhookURL         string        `env:"LEAD_WEBHOOK_URL"`
	RegistrationWebhookURL string        `env:"REGISTRATION_WEBHOOK_URL"`
	AccessWebhookURL       string        `env:"ACCESS_WEBHOOK_URL"`
	WebhookMaxRetries      int           `env:"WEBHOOK_MAX_RETRIES" envDefault:"1"`
	WebhookRetryDelay      time.Duration `env:"WEBHOOK_RETRY_DELAY" envDefault:"2s"`
	WebhookTimeout         time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"10s"`

	AdminUsername    string        `env:"ADMIN_USERNAME"`
	AdminPassword    string        `env:"ADMIN_PASSWORD"`
	AdminTokenSecret string        `env:"ADMIN_TOKEN_SECRET"`
	AdminTokenTTL    time.Duration `env:"ADMIN_TOKEN_TTL" envDefault:"24h"`
	AuthIssuer       string        `env:"AUTH_ISSUER" envDefault:"masterclass-server"`
	AuthJWKSURL      string        `env:"AUTH_JWKS_URL"`
	AuthJWKSIssuer   string        `env:"AUTH_JWKS_ISSUER"`
	AuthJWKSAudience string        `env:"AUTH_JWKS_AUDIENCE"`

	AccessTokenTTL      time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"48h"`
	AccessTokenSecret   string        `env:"ACCESS_TOKEN_SECRET"`
	BlockedEmailDomains []string      `env:"BLOCKED_EMAIL_DOMAINS" envSeparator:"," envDefault:"gmail.com,yahoo.com,hotmail.com,outlook.com,aol.com"`

	KnowledgeMaxFileBytes   int64  `env:"KNOWLEDGE_MAX_FILE_BYTES" envDefault:"5242880"`
	KnowledgeS3Bucket       string `env:"KNOWLEDGE_S3_BUCKET"`
	KnowledgeS3Region       string `env:"KNOWLEDGE_S3_REGION" envDefault:"us-east-1"`
	KnowledgeS3Endpoint     string `env:"KNOWLEDGE_S3_ENDPOINT"`
	KnowledgeS3AccessKeyID  string `env:"KNOWLEDGE_S3_ACCESS_KEY_ID"`
	KnowledgeS3SecretKey    string `env:"KNOWLEDGE_S3_SECRET_ACCESS_KEY"`
	KnowledgeS3UsePathStyle bool   `env:"KNOWLEDGE_S3_USE_PATH_STYLE" envDefault:"false"`

	WorkerCount          int           `env:"WORKER_COUNT" envDefault:"4"`
	WorkerQueueSize      int           `env:"WORKER_QUEUE_SIZE" envDefault:"256"`
	SideEffectTimeout    time.Duration `env:"SIDE_EFFECT_TIMEOUT" envDefault:"15s"`
	ChatLogRetentionDays int           `env:"CHAT_LOG_RETENTION_DAYS" envDefault:"0"`
	MaintenanceCron      string        `env:"MAINTENANCE_CRON" envDefault:"0 * * * *"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.SessionStore = strings.ToLower(strings.TrimSpace(cfg.SessionStore))
	switch cfg.SessionStore {
	case "", "memory":
		cfg.SessionStore = "memory"
	case "redis":
		if strings.TrimSpace(cfg.RedisURL) == "" {
			return nil, fmt.Errorf("REDIS_URL is required when SESSION_STORE is redis")
		}
		// The lock is extended every third of its TTL; shorter values cannot survive a Redis round trip.
		if cfg.SessionLockTTL < time.Second {
			return nil, fmt.Errorf("SESSION_LOCK_TTL must be at least 1s, got %s", cfg.SessionLockTTL)
		}
	default:
		return nil, fmt.Errorf("unsupported SESSION_STORE %q", cfg.SessionStore)
	}

	if cfg.IntakeTriggerTurns <= 0 {
		cfg.IntakeTriggerTurns = 3
	}
	if cfg.IntakeNotifyTurn <= 0 {
		cfg.IntakeNotifyTurn = 5
	}
	if cfg.KnowledgeContextLimit <= 0 {
		cfg.KnowledgeContextLimit = 5
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 1
	}
	if cfg.WorkerQueueSize <= 0 {
		cfg.WorkerQueueSize = 64
	}
	if cfg.SessionCacheSize <= 0 {
		cfg.SessionCacheSize = 1000
	}

	if cfg.AccessTokenSecret == "" {
		cfg.AccessTokenSecret = cfg.AdminTokenSecret
	}

	cfg.TrafficSourceMarkers = normalizeList(cfg.TrafficSourceMarkers)
	cfg.BlockedEmailDomains = normalizeList(cfg.BlockedEmailDomains)

	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// DatabaseConfigured reports whether a database DSN was provided.
func (c *Config) DatabaseConfigured() bool {
	return strings.TrimSpace(c.DatabaseURL) != ""
}

// AdminCredentialsConfigured reports whether the admin login can be served.
func (c *Config) AdminCredentialsConfigured() bool {
	return c.AdminUsername != "" && c.AdminPassword != "" && c.AdminTokenSecret != ""
}

func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
