// Package config loads the votebot example's settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN"`
	BlistToken   string `env:"BLIST_TOKEN"`
	BlistBaseURL string `env:"BLIST_BASE_URL" default:"https://blist.xyz"`

	AutopostMinutes int `env:"AUTOPOST_MINUTES" default:"30"`

	WebhookEnabled bool   `env:"WEBHOOK_ENABLED" default:"false"`
	WebhookPort    int    `env:"WEBHOOK_PORT" default:"8000"`
	WebhookPath    string `env:"WEBHOOK_PATH"`
	WebhookEvent   string `env:"WEBHOOK_EVENT" default:"botVote"`
	VoteChannelID  string `env:"VOTE_CHANNEL_ID"`

	MetricsPort string `env:"METRICS_PORT" default:"9090"`
	LogLevel    string `env:"LOG_LEVEL" default:"info"`
	LogFormat   string `env:"LOG_FORMAT" default:"text"`

	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" default:"10s"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	required := map[string]string{
		"DISCORD_TOKEN": cfg.DiscordToken,
		"BLIST_TOKEN":   cfg.BlistToken,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("%s is required", name)
		}
	}

	if u, err := url.Parse(cfg.BlistBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("BLIST_BASE_URL must be an absolute URL, got %q", cfg.BlistBaseURL)
	}
	if cfg.AutopostMinutes < 0 {
		return errors.New("AUTOPOST_MINUTES must not be negative (0 disables autopost)")
	}
	if cfg.WebhookEnabled && (cfg.WebhookPort < 1 || cfg.WebhookPort > 65535) {
		return fmt.Errorf("WEBHOOK_PORT must be between 1 and 65535, got %d", cfg.WebhookPort)
	}
	if cfg.HTTPTimeout <= 0 {
		return errors.New("HTTP_TIMEOUT must be positive")
	}

	return nil
}
