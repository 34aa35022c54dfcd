package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	devJWTSecret = "dev-secret-change-in-production"
)

// Config keeps runtime settings for the tracker.
type Config struct {
	Env           string        `yaml:"env"`
	HTTPAddr      string        `yaml:"http_addr"`
	DatabaseURL   string        `yaml:"database_url"`
	JWTSecret     string        `yaml:"jwt_secret"`
	TokenTTL      time.Duration `yaml:"-"`
	TokenTTLHours int           `yaml:"token_ttl_hours"`
	Timezone      string        `yaml:"timezone"`
	TelegramToken string        `yaml:"telegram_token"`
	ReminderTime  string        `yaml:"reminder_time"`

	Location *time.Location `yaml:"-"`
}

// Load reads configuration from an optional YAML file named by
// STUDYTRACKER_CONFIG, then environment variables, then sane defaults.
func Load() (Config, error) {
	var cfg Config

	if path := strings.TrimSpace(os.Getenv("STUDYTRACKER_CONFIG")); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	overrideString(&cfg.Env, "ENV")
	overrideString(&cfg.HTTPAddr, "HTTP_ADDR")
	overrideString(&cfg.DatabaseURL, "DATABASE_URL")
	overrideString(&cfg.JWTSecret, "JWT_SECRET")
	overrideString(&cfg.Timezone, "TIMEZONE")
	overrideString(&cfg.TelegramToken, "TELEGRAM_TOKEN")
	overrideString(&cfg.ReminderTime, "REMINDER_TIME")
	if raw := strings.TrimSpace(os.Getenv("TOKEN_TTL_HOURS")); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			return cfg, fmt.Errorf("TOKEN_TTL_HOURS must be a positive integer, got %q", raw)
		}
		cfg.TokenTTLHours = hours
	}

	applyDefaults(&cfg)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return cfg, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	if cfg.JWTSecret == "" {
		if cfg.Env != EnvDevelopment {
			return cfg, fmt.Errorf("JWT_SECRET is required")
		}
		cfg.JWTSecret = devJWTSecret
	}

	return cfg, nil
}

// BotEnabled reports whether the Telegram companion should start.
func (c Config) BotEnabled() bool {
	return c.TelegramToken != ""
}

func loadFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config %q: %w", path, err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Env == "" {
		cfg.Env = EnvDevelopment
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":3000"
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "study_tracker.db"
	}
	if cfg.TokenTTLHours <= 0 {
		cfg.TokenTTLHours = 7 * 24
	}
	cfg.TokenTTL = time.Duration(cfg.TokenTTLHours) * time.Hour
	if cfg.Timezone == "" {
		cfg.Timezone = "UTC"
	}
	if cfg.ReminderTime == "" {
		cfg.ReminderTime = "08:00"
	}
}

func overrideString(dst *string, key string) {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		*dst = value
	}
}
