// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// AccessTokenTTL is the access token lifetime (e.g. "15m").
	AccessTokenTTL string `mapstructure:"ACCESS_TOKEN_TTL"`
	// RefreshTokenTTL is the refresh token lifetime (e.g. "168h").
	RefreshTokenTTL string `mapstructure:"REFRESH_TOKEN_TTL"`
	// BcryptCost is the bcrypt cost factor (4–31); default 10.
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// HashWorkers bounds how many bcrypt operations may run concurrently; default 4.
	HashWorkers int `mapstructure:"HASH_WORKERS"`
	// EmailTokenSecret signs email-verification tokens (HS256). When empty,
	// verification links are not issued.
	EmailTokenSecret string `mapstructure:"EMAIL_TOKEN_SECRET"`
	// EmailTokenTTL is the email-verification token lifetime (e.g. "24h").
	EmailTokenTTL string `mapstructure:"EMAIL_TOKEN_TTL"`
	// SweepInterval is how often expired sessions are deleted (e.g. "1h").
	SweepInterval string `mapstructure:"SESSION_SWEEP_INTERVAL"`
	// AuthRatePerMinute is the per-IP request budget for auth endpoints; default 60.
	AuthRatePerMinute int `mapstructure:"AUTH_RATE_PER_MINUTE"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`

	// Mail dispatch (optional). When Kafka brokers are set, signup emits
	// verification-email events to Kafka; cmd/mailworker consumes them.
	// MailKafkaBrokers is a comma-separated list of broker addresses.
	MailKafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// MailKafkaTopic is the Kafka topic for mail events (default identity-mail).
	MailKafkaTopic string `mapstructure:"MAIL_KAFKA_TOPIC"`
	// MailKafkaGroupID is the consumer group ID for cmd/mailworker.
	MailKafkaGroupID string `mapstructure:"MAIL_KAFKA_GROUP_ID"`

	// Worker-only: Mailgun credentials for sending verification email.
	MailgunDomain string `mapstructure:"MAILGUN_DOMAIN"`
	MailgunAPIKey string `mapstructure:"MAILGUN_API_KEY"`
	// MailFrom is the From address on verification email (e.g. no-reply@example.com).
	MailFrom string `mapstructure:"MAIL_FROM"`
	// VerifyBaseURL is the public base URL embedded in verification links.
	VerifyBaseURL string `mapstructure:"VERIFY_BASE_URL"`

	// OTLPEndpoint enables OpenTelemetry export when set (e.g. localhost:4317).
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext OTLP even for https endpoints.
	OTLPInsecure bool `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("ACCESS_TOKEN_TTL", "15m")
	v.SetDefault("REFRESH_TOKEN_TTL", "168h") // 7d
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("HASH_WORKERS", 4)
	v.SetDefault("EMAIL_TOKEN_SECRET", "")
	v.SetDefault("EMAIL_TOKEN_TTL", "24h")
	v.SetDefault("SESSION_SWEEP_INTERVAL", "1h")
	v.SetDefault("AUTH_RATE_PER_MINUTE", 60)
	v.SetDefault("APP_ENV", "")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("MAIL_KAFKA_TOPIC", "identity-mail")
	v.SetDefault("MAIL_KAFKA_GROUP_ID", "identity-mailworker")
	v.SetDefault("MAILGUN_DOMAIN", "")
	v.SetDefault("MAILGUN_API_KEY", "")
	v.SetDefault("MAIL_FROM", "")
	v.SetDefault("VERIFY_BASE_URL", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 10
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}

	if cfg.HashWorkers <= 0 {
		cfg.HashWorkers = 4
	}
	if cfg.AuthRatePerMinute <= 0 {
		cfg.AuthRatePerMinute = 60
	}

	return &cfg, nil
}

// AccessTTL parses AccessTokenTTL as a time.Duration. Returns 15m if unset or invalid.
func (c *Config) AccessTTL() time.Duration {
	d, err := time.ParseDuration(c.AccessTokenTTL)
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}

// RefreshTTL parses RefreshTokenTTL as a time.Duration. Returns 168h if unset or invalid.
func (c *Config) RefreshTTL() time.Duration {
	d, err := time.ParseDuration(c.RefreshTokenTTL)
	if err != nil || d <= 0 {
		return 168 * time.Hour
	}
	return d
}

// EmailTTL parses EmailTokenTTL as a time.Duration. Returns 24h if unset or invalid.
func (c *Config) EmailTTL() time.Duration {
	d, err := time.ParseDuration(c.EmailTokenTTL)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// SweepEvery parses SweepInterval as a time.Duration. Returns 1h if unset or invalid.
func (c *Config) SweepEvery() time.Duration {
	d, err := time.ParseDuration(c.SweepInterval)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

// MailKafkaBrokersList returns Kafka broker addresses from the comma-separated config.
// Used to decide if mail dispatch is enabled (non-empty list) and to create the producer.
func (c *Config) MailKafkaBrokersList() []string {
	if c == nil || c.MailKafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.MailKafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
