package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DISCORD_TOKEN", "discord-test-token")
	t.Setenv("BLIST_TOKEN", "blist-test-token")
}

func TestLoad_AllRequiredVarsSet(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "discord-test-token", cfg.DiscordToken)
	assert.Equal(t, "blist-test-token", cfg.BlistToken)
}

func TestLoad_MissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		skipEnv string
		wantErr string
	}{
		{"missing DISCORD_TOKEN", "DISCORD_TOKEN", "DISCORD_TOKEN is required"},
		{"missing BLIST_TOKEN", "BLIST_TOKEN", "BLIST_TOKEN is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.skipEnv, "")

			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://blist.xyz", cfg.BlistBaseURL)
	assert.Equal(t, 30, cfg.AutopostMinutes)
	assert.False(t, cfg.WebhookEnabled)
	assert.Equal(t, 8000, cfg.WebhookPort)
	assert.Empty(t, cfg.WebhookPath)
	assert.Equal(t, "botVote", cfg.WebhookEvent)
	assert.Equal(t, "9090", cfg.MetricsPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
}

func TestLoad_CustomWebhook(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("WEBHOOK_ENABLED", "true")
	t.Setenv("WEBHOOK_PORT", "8123")
	t.Setenv("WEBHOOK_PATH", "hooks/blist")
	t.Setenv("WEBHOOK_EVENT", "vote")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.WebhookEnabled)
	assert.Equal(t, 8123, cfg.WebhookPort)
	assert.Equal(t, "hooks/blist", cfg.WebhookPath)
	assert.Equal(t, "vote", cfg.WebhookEvent)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"relative base url", "BLIST_BASE_URL", "blist.xyz", "BLIST_BASE_URL must be an absolute URL"},
		{"negative autopost", "AUTOPOST_MINUTES", "-5", "AUTOPOST_MINUTES must not be negative"},
		{"zero timeout", "HTTP_TIMEOUT", "0s", "HTTP_TIMEOUT must be positive"},
		{"unparsable timeout", "HTTP_TIMEOUT", "soon", "failed to load environment variables"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_WebhookPortCheckedOnlyWhenEnabled(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("WEBHOOK_PORT", "70000")

	_, err := Load()
	require.NoError(t, err)

	t.Setenv("WEBHOOK_ENABLED", "true")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WEBHOOK_PORT must be between 1 and 65535")
}

func TestLoad_AutopostCanBeDisabled(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AUTOPOST_MINUTES", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Zero(t, cfg.AutopostMinutes)
}
