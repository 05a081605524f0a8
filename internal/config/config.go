package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

const (
	LockModeLocal = "local"
	LockModeRedis = "redis"
	LockModeNone  = "none"
)

type Config struct {
	Environment string `mapstructure:"ENV"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	HTTPAddr    string `mapstructure:"HTTP_ADDR"`
	DBDSN       string `mapstructure:"DB_DSN"`

	JWTSecret string        `mapstructure:"JWT_SECRET"`
	TokenName string        `mapstructure:"TOKEN_NAME"`
	TokenTTL  time.Duration `mapstructure:"TOKEN_TTL"`

	LockMode      string        `mapstructure:"LOCK_MODE"`
	LockTTL       time.Duration `mapstructure:"LOCK_TTL"`
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`

	// Empty disables Telegram; notifications are only logged
	TelegramToken string `mapstructure:"TELEGRAM_TOKEN"`

	ReminderSchedule    string        `mapstructure:"REMINDER_SCHEDULE"`
	ReminderLead        time.Duration `mapstructure:"REMINDER_LEAD"`
	RecurringSchedule   string        `mapstructure:"RECURRING_SCHEDULE"`
	RecurringWeeksAhead int           `mapstructure:"RECURRING_WEEKS_AHEAD"`
}

var defaults = map[string]any{
	"ENV":                   "development",
	"LOG_LEVEL":             "info",
	"HTTP_ADDR":             ":8000",
	"DB_DSN":                "",
	"JWT_SECRET":            "",
	"TOKEN_NAME":            "",
	"TOKEN_TTL":             "24h",
	"LOCK_MODE":             LockModeLocal,
	"LOCK_TTL":              "10s",
	"REDIS_ADDR":            "localhost:6379",
	"REDIS_PASSWORD":        "",
	"REDIS_DB":              0,
	"TELEGRAM_TOKEN":        "",
	"REMINDER_SCHEDULE":     "@every 5m",
	"REMINDER_LEAD":         "1h",
	"RECURRING_SCHEDULE":    "@daily",
	"RECURRING_WEEKS_AHEAD": 4,
}

// Load reads .env when present, then the process environment. Environment
// variables win over .env entries.
func Load() (*Config, error) {
	// A missing .env is normal in containers
	_ = godotenv.Load(".env")

	return FromEnv()
}

// FromEnv builds the config from environment variables and defaults only.
func FromEnv() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate reports every missing or inconsistent setting at once.
func (c *Config) Validate() error {
	var err error

	if c.DBDSN == "" {
		err = multierr.Append(err, errors.New("DB_DSN is required but not set"))
	}
	if c.JWTSecret == "" {
		err = multierr.Append(err, errors.New("JWT_SECRET is required but not set"))
	}
	if c.TokenName == "" {
		err = multierr.Append(err, errors.New("TOKEN_NAME is required but not set"))
	}
	if c.TokenTTL <= 0 {
		err = multierr.Append(err, errors.New("TOKEN_TTL must be positive"))
	}

	switch c.LockMode {
	case LockModeLocal, LockModeNone:
	case LockModeRedis:
		if c.RedisAddr == "" {
			err = multierr.Append(err, errors.New("REDIS_ADDR is required when LOCK_MODE=redis"))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("LOCK_MODE %q is not one of local, redis, none", c.LockMode))
	}

	if c.ReminderLead <= 0 {
		err = multierr.Append(err, errors.New("REMINDER_LEAD must be positive"))
	}
	if c.RecurringWeeksAhead <= 0 {
		err = multierr.Append(err, errors.New("RECURRING_WEEKS_AHEAD must be positive"))
	}

	return err
}
