package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/yoman-app/yoman-api/internal/hebcal"
)

// EnvPrefix prefixes every environment variable, e.g. YOMAN_DATABASE_URL.
const EnvPrefix = "YOMAN"

// Load configuration from environment variables and optionally a config.yaml
// in the working directory. Environment variables take precedence over values
// from the file. Outside production a .env file is loaded first.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	if os.Getenv(EnvPrefix+"_ENV") != "production" {
		// Missing .env is normal.
		_ = godotenv.Load()
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keys without defaults are invisible to Unmarshal unless bound.
	for _, key := range []string{
		"database.url",
		"auth.jwt_secret",
		"redis.url",
		"push.rabbitmq_url",
		"storage.bucket",
		"storage.region",
		"storage.endpoint",
		"storage.access_key_id",
		"storage.secret_access_key",
		"storage.public_base_url",
		"llm.gemini_api_key",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Comma-separated lists arrive from the environment as one string.
	cfg.Server.CORSOrigins = splitList(cfg.Server.CORSOrigins)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the struct tags and the time zone.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if _, err := cfg.Server.Location(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if cfg.Push.Driver == "rabbitmq" && cfg.Push.RabbitMQURL == "" {
		return errors.New("config validation failed: push.rabbitmq_url is required for the rabbitmq driver")
	}
	if cfg.Push.Driver == "redis" && !cfg.Redis.Enabled() {
		return errors.New("config validation failed: redis.url is required for the redis push driver")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.timezone", "Asia/Jerusalem")
	v.SetDefault("server.cors_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.shutdown_timeout_seconds", 15)

	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 25)
	v.SetDefault("database.conn_max_lifetime_minutes", 5)

	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.refresh_token_lifetime_minutes", 60*24*30)
	v.SetDefault("auth.bcrypt_cost", 10)

	v.SetDefault("redis.catalog_ttl_seconds", 300)

	v.SetDefault("push.driver", "log")
	v.SetDefault("push.queue", "yoman.push")

	v.SetDefault("storage.presign_minutes", 15)

	v.SetDefault("reminders.enabled", true)
	v.SetDefault("reminders.monthly_hour", 8)
	v.SetDefault("reminders.workers", 4)
	v.SetDefault("reminders.queue_size", 256)
	v.SetDefault("reminders.vacations", hebcal.DefaultVacations)

	v.SetDefault("llm.model", "gemini-2.0-flash")
	v.SetDefault("llm.max_retries", 2)
	v.SetDefault("llm.retry_delay_seconds", 1)
	v.SetDefault("llm.timeout_seconds", 10)
}

func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
