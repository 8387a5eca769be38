package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "config/config.yaml"

type Config struct {
	AppName    string `envconfig:"APP_NAME" yaml:"app_name"`
	AppVersion string `envconfig:"APP_VERSION" yaml:"app_version"`
	AppEnv     string `envconfig:"APP_ENV" yaml:"app_env"`
	Locale     string `envconfig:"LOCALE" yaml:"locale"`

	// Nested fields carry no envconfig names: an explicit name would also be
	// looked up unprefixed, so a stray TIMEOUT or DEBUG would leak in.
	Server   ServerConfig   `envconfig:"SERVER" yaml:"server"`
	Log      LogConfig      `envconfig:"LOG" yaml:"log"`
	Telegram TelegramConfig `envconfig:"TELEGRAM" yaml:"telegram"`
	Weather  WeatherConfig  `envconfig:"WEATHER" yaml:"weather"`
	Sessions SessionsConfig `envconfig:"SESSIONS" yaml:"sessions"`
	Render   RenderConfig   `envconfig:"RENDER" yaml:"render"`
}

type ServerConfig struct {
	Port         string        `split_words:"true" yaml:"port"`
	ReadTimeout  time.Duration `split_words:"true" yaml:"read_timeout"`
	WriteTimeout time.Duration `split_words:"true" yaml:"write_timeout"`
}

type LogConfig struct {
	Level     string `split_words:"true" yaml:"level"`
	SentryDSN string `split_words:"true" yaml:"sentry_dsn,omitempty"`
}

type TelegramConfig struct {
	Token       string `split_words:"true" yaml:"token,omitempty"`
	PollTimeout int    `split_words:"true" yaml:"poll_timeout"`
	Debug       bool   `split_words:"true" yaml:"debug"`
}

type WeatherConfig struct {
	BaseURL   string        `split_words:"true" yaml:"base_url"`
	Timeout   time.Duration `split_words:"true" yaml:"timeout"`
	RPS       float64       `split_words:"true" yaml:"rps"`
	Burst     int           `split_words:"true" yaml:"burst"`
	CacheSize int           `split_words:"true" yaml:"cache_size"`
	CacheTTL  time.Duration `split_words:"true" yaml:"cache_ttl"`
	// BreakerFailures is the number of consecutive provider failures that opens the circuit.
	BreakerFailures uint32        `split_words:"true" yaml:"breaker_failures"`
	BreakerTimeout  time.Duration `split_words:"true" yaml:"breaker_timeout"`
}

type SessionsConfig struct {
	Backend string `split_words:"true" yaml:"backend"`
	Path    string `split_words:"true" yaml:"path"`
}

type RenderConfig struct {
	FontPath   string  `split_words:"true" yaml:"font_path,omitempty"`
	FontSize   float64 `split_words:"true" yaml:"font_size"`
	Background string  `split_words:"true" yaml:"background"`
}

func Default() *Config {
	return &Config{
		AppName:    "weather-bot",
		AppVersion: "1.0.0",
		AppEnv:     "local",
		Locale:     "ru",
		Server: ServerConfig{
			Port:         "8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
		Telegram: TelegramConfig{
			PollTimeout: 60,
		},
		Weather: WeatherConfig{
			BaseURL:         "https://wttr.in",
			Timeout:         10 * time.Second,
			RPS:             2,
			Burst:           5,
			CacheSize:       256,
			CacheTTL:        10 * time.Minute,
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
		},
		Sessions: SessionsConfig{
			Backend: "memory",
			Path:    "states.db",
		},
		Render: RenderConfig{
			FontSize:   25,
			Background: "#0e1621",
		},
	}
}

// NewConfig builds the configuration from defaults, an optional .env file,
// the YAML file at path and the environment, in that order of precedence.
func NewConfig(path string) (*Config, error) {
	cnf := Default()

	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	if err := loadFromFile(path, cnf); err != nil {
		return nil, err
	}

	if err := envconfig.Process("", cnf); err != nil {
		return nil, fmt.Errorf("error environment variable parsing: %w", err)
	}

	if err := cnf.Validate(); err != nil {
		return nil, err
	}

	return cnf, nil
}

func loadFromFile(path string, cnf *Config) error {
	yamlData, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(yamlData, cnf); err != nil {
		return fmt.Errorf("failed to parse YAML config %s: %w", path, err)
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.AppName) == "" {
		errs = append(errs, errors.New("app_name is required"))
	}
	if c.Locale != "ru" && c.Locale != "en" {
		errs = append(errs, fmt.Errorf("locale must be ru or en, got %q", c.Locale))
	}
	if c.Sessions.Backend != "memory" && c.Sessions.Backend != "sqlite" {
		errs = append(errs, fmt.Errorf("sessions.backend must be memory or sqlite, got %q", c.Sessions.Backend))
	}
	if c.Sessions.Backend == "sqlite" && c.Sessions.Path == "" {
		errs = append(errs, errors.New("sessions.path is required for the sqlite backend"))
	}
	if c.Weather.BaseURL == "" {
		errs = append(errs, errors.New("weather.base_url is required"))
	}
	if c.Weather.Timeout <= 0 {
		errs = append(errs, errors.New("weather.timeout must be positive"))
	}
	if c.Weather.RPS <= 0 || c.Weather.Burst <= 0 {
		errs = append(errs, errors.New("weather.rps and weather.burst must be positive"))
	}
	if c.Render.FontSize <= 0 {
		errs = append(errs, errors.New("render.font_size must be positive"))
	}
	return errors.Join(errs...)
}

// ValidateTelegram checks the settings only the Telegram transport needs.
func (c *Config) ValidateTelegram() error {
	if strings.TrimSpace(c.Telegram.Token) == "" {
		return errors.New("telegram.token is required")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "prod"
}
