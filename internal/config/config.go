// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"avatarquest/internal/coach"
)

// Config holds every setting the aq binary reads at startup.
type Config struct {
	DBPath   string `env:"AQ_DB_PATH"`
	HTTPAddr string `env:"AQ_HTTP_ADDR" envDefault:":8001"`
	LogLevel string `env:"AQ_LOG_LEVEL" envDefault:"info"`

	Coach CoachConfig
}

// CoachConfig configures the coaching message provider. An empty API key is
// a supported setup that yields fallback messages.
type CoachConfig struct {
	Provider string        `env:"AQ_COACH_PROVIDER" envDefault:"openai"`
	Model    string        `env:"AQ_COACH_MODEL"`
	APIKey   string        `env:"AQ_COACH_API_KEY"`
	Timeout  time.Duration `env:"AQ_COACH_TIMEOUT" envDefault:"5s"`
	BaseURL  string        `env:"AQ_COACH_BASE_URL"`

	// LegacyAPIKey is honoured when AQ_COACH_API_KEY is unset.
	LegacyAPIKey string `env:"EMERGENT_LLM_KEY"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates a Config from the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.HTTPAddr) == "" {
		return fmt.Errorf("config: AQ_HTTP_ADDR is empty")
	}
	if !coach.Provider(c.Coach.Provider).IsValid() {
		return fmt.Errorf("config: AQ_COACH_PROVIDER %q is not one of openai, gemini", c.Coach.Provider)
	}
	if c.Coach.Timeout <= 0 {
		return fmt.Errorf("config: AQ_COACH_TIMEOUT must be positive, got %s", c.Coach.Timeout)
	}
	return nil
}

// CoachClientConfig converts the settings into a coach.Config.
func (c CoachConfig) CoachClientConfig() coach.Config {
	key := strings.TrimSpace(c.APIKey)
	if key == "" {
		key = strings.TrimSpace(c.LegacyAPIKey)
	}
	return coach.Config{
		Provider: coach.Provider(c.Provider),
		Model:    strings.TrimSpace(c.Model),
		APIKey:   key,
		Timeout:  c.Timeout,
		BaseURL:  strings.TrimSpace(c.BaseURL),
	}
}
