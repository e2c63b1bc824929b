package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Stripe       StripeConfig
	GCP          GCPConfig
	GCS          GCSConfig
	Mail         MailConfig
	Checkout     CheckoutConfig
	Cron         CronConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TRNDFY_APP_ENV" required:"true"`
	Port         string `envconfig:"TRNDFY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TRNDFY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TRNDFY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TRNDFY_DB_DSN" required:"true"`
	Driver string `envconfig:"TRNDFY_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"TRNDFY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TRNDFY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TRNDFY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TRNDFY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TRNDFY_REDIS_URL" required:"true"`
	Password     string        `envconfig:"TRNDFY_REDIS_PASSWORD"`
	DB           int           `envconfig:"TRNDFY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TRNDFY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TRNDFY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TRNDFY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TRNDFY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TRNDFY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type StripeConfig struct {
	SecretKey          string `envconfig:"TRNDFY_STRIPE_SECRET_KEY"`
	ClientID           string `envconfig:"TRNDFY_STRIPE_CLIENT_ID"`
	WebhookSecret      string `envconfig:"TRNDFY_STRIPE_WEBHOOK_SECRET"`
	Env                string `envconfig:"TRNDFY_STRIPE_ENV" default:"test"`
	ConnectRedirectURI string `envconfig:"TRNDFY_STRIPE_CONNECT_REDIRECT_URI"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type GCPConfig struct {
	CredentialsJSON        string `envconfig:"TRNDFY_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"TRNDFY_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	FullBucket        string        `envconfig:"TRNDFY_GCS_FULL_BUCKET" required:"true"`
	PreviewBucket     string        `envconfig:"TRNDFY_GCS_PREVIEW_BUCKET"`
	DownloadURLExpiry time.Duration `envconfig:"TRNDFY_GCS_DOWNLOAD_URL_EXPIRY" default:"15m"`
}

type MailConfig struct {
	ResendAPIKey string `envconfig:"TRNDFY_RESEND_API_KEY"`
	From         string `envconfig:"TRNDFY_EMAIL_FROM"`
}

type CheckoutConfig struct {
	SuccessURL     string        `envconfig:"TRNDFY_CHECKOUT_SUCCESS_URL" required:"true"`
	CancelURL      string        `envconfig:"TRNDFY_CHECKOUT_CANCEL_URL" required:"true"`
	VaultURL       string        `envconfig:"TRNDFY_CHECKOUT_VAULT_URL" required:"true"`
	SessionlessTTL time.Duration `envconfig:"TRNDFY_CHECKOUT_SESSIONLESS_TTL" default:"1h"`
	PendingTTL     time.Duration `envconfig:"TRNDFY_CHECKOUT_PENDING_TTL" default:"48h"`
}

type CronConfig struct {
	Interval    time.Duration `envconfig:"TRNDFY_CRON_INTERVAL" default:"10m"`
	MetricsAddr string        `envconfig:"TRNDFY_CRON_METRICS_ADDR" default:":9090"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"TRNDFY_AUTO_MIGRATE" default:"false"`
}
