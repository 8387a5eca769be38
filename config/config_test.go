package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	config, err := NewConfig("nonexistent.yaml")
	require.NoError(t, err)
	assert.NotNil(t, config)

	assert.Equal(t, "weather-bot", config.AppName)
	assert.Equal(t, "1.0.0", config.AppVersion)
	assert.Equal(t, "ru", config.Locale)
	assert.Equal(t, "8080", config.Server.Port)
	assert.Equal(t, "https://wttr.in", config.Weather.BaseURL)
	assert.Equal(t, 10*time.Second, config.Weather.Timeout)
	assert.Equal(t, "memory", config.Sessions.Backend)
	assert.Equal(t, 25.0, config.Render.FontSize)
	assert.Equal(t, "#0e1621", config.Render.Background)
}

func TestNewConfig_FileThenEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlData := `
app_name: file-bot
locale: en
weather:
  timeout: 3s
  cache_ttl: 1m
sessions:
  backend: sqlite
  path: /tmp/file.db
`
	require.NoError(t, os.WriteFile(path, []byte(yamlData), 0o600))

	t.Setenv("APP_NAME", "env-bot")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("WEATHER_RPS", "0.5")
	t.Setenv("TELEGRAM_TOKEN", "secret")

	config, err := NewConfig(path)
	require.NoError(t, err)

	// environment wins over the file
	assert.Equal(t, "env-bot", config.AppName)
	assert.Equal(t, "9090", config.Server.Port)
	assert.Equal(t, 0.5, config.Weather.RPS)
	assert.Equal(t, "secret", config.Telegram.Token)

	// the file wins over defaults
	assert.Equal(t, "en", config.Locale)
	assert.Equal(t, 3*time.Second, config.Weather.Timeout)
	assert.Equal(t, time.Minute, config.Weather.CacheTTL)
	assert.Equal(t, "sqlite", config.Sessions.Backend)
	assert.Equal(t, "/tmp/file.db", config.Sessions.Path)

	// untouched defaults survive
	assert.Equal(t, 5, config.Weather.Burst)
}

func TestNewConfig_IgnoresUnprefixedVariables(t *testing.T) {
	t.Setenv("TIMEOUT", "1ns")
	t.Setenv("DEBUG", "true")
	t.Setenv("PORT", "1")
	t.Setenv("TOKEN", "leaked")
	t.Setenv("LEVEL", "fatal")
	t.Setenv("BACKEND", "redis")

	config, err := NewConfig("nonexistent.yaml")
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, config.Weather.Timeout)
	assert.False(t, config.Telegram.Debug)
	assert.Equal(t, "8080", config.Server.Port)
	assert.Empty(t, config.Telegram.Token)
	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "memory", config.Sessions.Backend)
	assert.Equal(t, "states.db", config.Sessions.Path)
}

func TestNewConfig_PrefixedNestedVariables(t *testing.T) {
	t.Setenv("WEATHER_TIMEOUT", "2s")
	t.Setenv("WEATHER_BASE_URL", "http://localhost:9999")
	t.Setenv("WEATHER_CACHE_TTL", "30s")
	t.Setenv("TELEGRAM_POLL_TIMEOUT", "5")
	t.Setenv("LOG_SENTRY_DSN", "https://key@sentry.example/1")
	t.Setenv("SESSIONS_BACKEND", "sqlite")
	t.Setenv("SESSIONS_PATH", "/var/lib/bot/states.db")

	config, err := NewConfig("nonexistent.yaml")
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, config.Weather.Timeout)
	assert.Equal(t, "http://localhost:9999", config.Weather.BaseURL)
	assert.Equal(t, 30*time.Second, config.Weather.CacheTTL)
	assert.Equal(t, 5, config.Telegram.PollTimeout)
	assert.Equal(t, "https://key@sentry.example/1", config.Log.SentryDSN)
	assert.Equal(t, "sqlite", config.Sessions.Backend)
	assert.Equal(t, "/var/lib/bot/states.db", config.Sessions.Path)
}

func TestNewConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app_name: [unterminated"), 0o600))

	_, err := NewConfig(path)
	assert.Error(t, err)
}

func TestConfigValidation(t *testing.T) {
	config := Default()
	assert.NoError(t, config.Validate())

	invalid := Default()
	invalid.AppName = ""
	invalid.Locale = "de"
	invalid.Sessions.Backend = "redis"
	invalid.Render.FontSize = 0

	err := invalid.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "app_name is required")
	assert.Contains(t, err.Error(), "locale must be ru or en")
	assert.Contains(t, err.Error(), "sessions.backend must be memory or sqlite")
	assert.Contains(t, err.Error(), "render.font_size must be positive")
}

func TestConfigValidateTelegram(t *testing.T) {
	config := Default()
	assert.Error(t, config.ValidateTelegram())

	config.Telegram.Token = "123:abc"
	assert.NoError(t, config.ValidateTelegram())
}

func TestConfigFileLoading(t *testing.T) {
	// config.yaml shipped next to this package
	config, err := NewConfig("config.yaml")
	require.NoError(t, err)

	assert.Equal(t, "sqlite", config.Sessions.Backend)
	assert.Equal(t, "states.db", config.Sessions.Path)
	assert.Equal(t, 30*time.Second, config.Weather.BreakerTimeout)
	assert.False(t, config.IsProduction())
}
