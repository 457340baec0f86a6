package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// Values are read by viper from a config file or environment variables.
type Config struct {
	TelegramBotToken string `mapstructure:"TELEGRAM_BOT_TOKEN"`
	BadgerDBPath     string `mapstructure:"BADGERDB_PATH"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// Ceilings checked before and after extraction.
	MaxContentLength int `mapstructure:"MAX_CONTENT_LENGTH"`
	MaxURLCount      int `mapstructure:"MAX_URL_COUNT"`

	// Per-user extraction rate (requests per second) and burst.
	RateLimit float64 `mapstructure:"RATE_LIMIT"`
	RateBurst int     `mapstructure:"RATE_BURST"`

	ScrapeEnabled bool          `mapstructure:"SCRAPE_ENABLED"`
	ScrapeTimeout time.Duration `mapstructure:"SCRAPE_TIMEOUT"`
}

var defaults = map[string]any{
	"TELEGRAM_BOT_TOKEN": "",
	"BADGERDB_PATH":      "./badger_data",
	"LOG_LEVEL":          "info",
	"LOG_FORMAT":         "json",
	"MAX_CONTENT_LENGTH": 1000000,
	"MAX_URL_COUNT":      10000,
	"RATE_LIMIT":         1.0,
	"RATE_BURST":         3,
	"SCRAPE_ENABLED":     false,
	"SCRAPE_TIMEOUT":     30 * time.Second,
}

// LoadConfig reads configuration from config.yaml in path, overridden by
// environment variables.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Defaults also register every key, so Unmarshal sees env-only values.
	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine, environment variables may carry everything.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks limits and rates.
func (c Config) Validate() error {
	if c.MaxContentLength <= 0 {
		return errors.New("MAX_CONTENT_LENGTH must be greater than 0")
	}
	if c.MaxURLCount <= 0 {
		return errors.New("MAX_URL_COUNT must be greater than 0")
	}
	if c.RateLimit <= 0 {
		return errors.New("RATE_LIMIT must be greater than 0")
	}
	if c.RateBurst <= 0 {
		return errors.New("RATE_BURST must be greater than 0")
	}
	if c.ScrapeTimeout <= 0 {
		return errors.New("SCRAPE_TIMEOUT must be greater than 0")
	}
	return nil
}

// RequireBotToken fails when the Telegram token is missing.
func (c Config) RequireBotToken() error {
	if c.TelegramBotToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is not set")
	}
	return nil
}
