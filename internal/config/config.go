package config

import (
	"fmt"
	"time"

	"github.com/yoman-app/yoman-api/internal/hebcal"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig   `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth      AuthConfig     `mapstructure:"auth" validate:"required"`
	Redis     RedisConfig    `mapstructure:"redis"`
	Push      PushConfig     `mapstructure:"push" validate:"required"`
	Storage   StorageConfig  `mapstructure:"storage"`
	Reminders ReminderConfig `mapstructure:"reminders" validate:"required"`
	LLM       LLMConfig      `mapstructure:"llm"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int      `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string   `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	Timezone               string   `mapstructure:"timezone" validate:"required"`
	CORSOrigins            []string `mapstructure:"cors_origins"`
	ShutdownTimeoutSeconds int      `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// Location loads the configured time zone. Days, month keys and reminder
// times are all evaluated in it.
func (s ServerConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid server timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL                    string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns           int    `mapstructure:"max_open_conns" validate:"gt=0"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gt=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gtfield=TokenLifetimeMinutes"`
	BCryptCost                  int    `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}

// RedisConfig configures the catalog cache and reminder deduplication. An
// empty URL disables both.
type RedisConfig struct {
	URL               string `mapstructure:"url" validate:"omitempty,url"`
	CatalogTTLSeconds int    `mapstructure:"catalog_ttl_seconds" validate:"gte=0"`
}

// Enabled reports whether a Redis server is configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != ""
}

// PushConfig selects where push messages are handed off for delivery.
type PushConfig struct {
	Driver      string `mapstructure:"driver" validate:"required,oneof=log redis rabbitmq"`
	RabbitMQURL string `mapstructure:"rabbitmq_url" validate:"omitempty,url"` // required for rabbitmq
	Queue       string `mapstructure:"queue" validate:"required"`
}

// StorageConfig configures the S3-compatible bucket for entry and set images.
// An empty bucket disables uploads.
type StorageConfig struct {
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region" validate:"required_with=Bucket"`
	Endpoint        string `mapstructure:"endpoint" validate:"omitempty,url"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	PublicBaseURL   string `mapstructure:"public_base_url" validate:"omitempty,url"`
	PresignMinutes  int    `mapstructure:"presign_minutes" validate:"gt=0,lte=10080"`
}

// Enabled reports whether uploads are configured.
func (s StorageConfig) Enabled() bool {
	return s.Bucket != ""
}

// ReminderConfig configures the reminder scheduler.
type ReminderConfig struct {
	Enabled     bool              `mapstructure:"enabled"`
	MonthlyHour int               `mapstructure:"monthly_hour" validate:"gte=0,lte=23"`
	Workers     int               `mapstructure:"workers" validate:"gt=0"`
	QueueSize   int               `mapstructure:"queue_size" validate:"gt=0"`
	Vacations   []hebcal.Vacation `mapstructure:"vacations" validate:"dive"`
}

// LLMConfig contains all LLM integration related settings. Without an API
// key the built-in inspiration prompts are used.
type LLMConfig struct {
	GeminiAPIKey      string `mapstructure:"gemini_api_key"`
	Model             string `mapstructure:"model" validate:"required_with=GeminiAPIKey"`
	MaxRetries        int    `mapstructure:"max_retries" validate:"gte=0,lte=5"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"gte=0,lte=60"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds" validate:"gte=0"`
}
