package coach

import (
	"fmt"
	"net/http"
	"time"
)

// Config selects and tunes the provider.
type Config struct {
	Provider Provider
	Model    string
	APIKey   string
	Timeout  time.Duration
	// BaseURL overrides the provider endpoint (proxies, tests).
	BaseURL    string
	HTTPClient *http.Client
}

func (c Config) withDefaults() Config {
	if c.Provider == "" {
		c.Provider = ProviderOpenAI
	}
	if c.Model == "" {
		switch c.Provider {
		case ProviderGemini:
			c.Model = "gemini-2.0-flash"
		default:
			c.Model = "gpt-4o-mini"
		}
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{}
	}
	return c
}

func (c Config) Validate() error {
	if !c.Provider.IsValid() {
		return fmt.Errorf("coach: unknown provider %q", c.Provider)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("coach: timeout must be positive, got %s", c.Timeout)
	}
	return nil
}
