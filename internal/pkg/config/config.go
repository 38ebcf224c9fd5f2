package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port        string        `env:"PORT,         default=8080"`
	Env         string        `env:"ENV,          default=development"`
	LogLevel    string        `env:"LOG_LEVEL,    default=info"`
	JWTSecret   string        `env:"JWT_SECRET,   required"`
	TokenTTL    time.Duration `env:"TOKEN_TTL,    default=24h"`
	CORSOrigins []string      `env:"CORS_ORIGINS, default=*"`

	Mongo       MongoConfig
	Redis       RedisConfig
	Stripe      StripeConfig
	LLM         LLMConfig
	Mail        MailConfig
	Seed        SeedConfig
	Certificate CertificateConfig
	Reconcile   ReconcileConfig
}

type MongoConfig struct {
	URI          string `env:"MONGO_URI,          default=mongodb://localhost:27017"`
	Database     string `env:"MONGO_DB,           default=lms"`
	Transactions bool   `env:"MONGO_TRANSACTIONS, default=false"`
}

// RedisConfig points at the webhook dedup store. An empty address disables it.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type StripeConfig struct {
	APIKey        string        `env:"STRIPE_API_KEY"`
	WebhookSecret string        `env:"STRIPE_WEBHOOK_SECRET"`
	BaseURL       string        `env:"STRIPE_BASE_URL, default=https://api.stripe.com"`
	Currency      string        `env:"PAYMENT_CURRENCY, default=usd"`
	Timeout       time.Duration `env:"PAYMENT_TIMEOUT, default=15s"`
}

type LLMConfig struct {
	APIKey  string        `env:"LLM_API_KEY"`
	BaseURL string        `env:"LLM_BASE_URL, default=https://api.openai.com/v1"`
	Model   string        `env:"LLM_MODEL,    default=gpt-4o-mini"`
	Timeout time.Duration `env:"LLM_TIMEOUT,  default=60s"`
}

type MailConfig struct {
	SendGridAPIKey string `env:"SENDGRID_API_KEY"`
	From           string `env:"MAIL_FROM, default=certificates@righttechcentre.com"`
	FromName       string `env:"MAIL_FROM_NAME, default=Right Tech Centre"`
}

type SeedConfig struct {
	AdminEmail    string `env:"ADMIN_EMAIL,    default=admin@righttechcentre.com"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
	OnStart       bool   `env:"SEED_ON_START,  default=true"`
}

type CertificateConfig struct {
	Prefix string `env:"CERTIFICATE_PREFIX, default=RTC"`
}

// ReconcileConfig drives the background job that settles stale pending
// payments and recounts enrolled_count. An empty schedule disables it.
type ReconcileConfig struct {
	Schedule   string        `env:"RECONCILE_SCHEDULE,  default=@every 5m"`
	PendingAge time.Duration `env:"RECONCILE_PENDING_AGE, default=10m"`
}

// IsProduction reports whether ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Load reads an optional .env file, then the process environment.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
