// Package coach produces the short motivational message that accompanies a
// task completion. Messages come from an external text-generation provider
// when one is configured; every failure degrades to a deterministic fallback,
// so callers always receive usable text and never an error.
package coach

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Provider identifies a text-generation backend.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

func (p Provider) IsValid() bool {
	switch p {
	case ProviderOpenAI, ProviderGemini:
		return true
	default:
		return false
	}
}

// DefaultTimeout bounds a single generation call.
const DefaultTimeout = 5 * time.Second

// Prompt is the completion context handed to the provider.
type Prompt struct {
	UserName  string
	TaskTitle string
	Level     int
	XPGained  int
}

// Fallback is the templated message used when generation fails.
func Fallback(p Prompt) string {
	return fmt.Sprintf("Amazing work on '%s'! You're crushing it at level %d! 🎉", p.TaskTitle, p.Level)
}

func systemMessage(p Prompt) string {
	return fmt.Sprintf("You are %s's personal AI avatar companion and productivity coach. "+
		"You live in their virtual world and your happiness depends on their productivity. "+
		"Respond as their encouraging avatar friend, not as an AI assistant. "+
		"Be enthusiastic, personal, and motivating. Keep responses under 50 words.", p.UserName)
}

func userMessage(p Prompt) string {
	return fmt.Sprintf("I just completed the task '%s'! I gained %d XP and I'm now level %d. "+
		"Celebrate with me as my avatar companion!", p.TaskTitle, p.XPGained, p.Level)
}

// generator performs one outbound generation attempt.
type generator interface {
	generate(ctx context.Context, system, user string) (string, error)
}

var errEmptyReply = errors.New("empty reply")

// Client generates coaching messages with a bounded latency.
type Client struct {
	gen      generator
	provider Provider
	timeout  time.Duration
	logger   *zap.Logger
}

// New builds a Client. A missing API key is not an error: the client then
// answers every request with Fallback and makes no outbound calls.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		provider: cfg.Provider,
		timeout:  cfg.Timeout,
		logger:   logger.Named("coach"),
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		c.logger.Info("no coach api key configured; using fallback messages")
		return c, nil
	}

	switch cfg.Provider {
	case ProviderGemini:
		gen, err := newGeminiGenerator(cfg)
		if err != nil {
			return nil, err
		}
		c.gen = gen
	default:
		c.gen = newOpenAIGenerator(cfg)
	}
	return c, nil
}

// Enabled reports whether the client calls an external provider.
func (c *Client) Enabled() bool {
	return c.gen != nil
}

// Message returns a coaching message for p. It makes at most one provider
// call, bounded by the configured timeout, and absorbs every failure into
// Fallback(p).
func (c *Client) Message(ctx context.Context, p Prompt) (msg string) {
	if c.gen == nil {
		return Fallback(p)
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("coach provider panicked", zap.Any("panic", r))
			msg = Fallback(p)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	text, err := c.gen.generate(ctx, systemMessage(p), userMessage(p))
	if err == nil && strings.TrimSpace(text) == "" {
		err = errEmptyReply
	}
	if err != nil {
		c.logger.Warn("coach message failed; using fallback",
			zap.String("provider", string(c.provider)),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return Fallback(p)
	}
	c.logger.Debug("coach message generated",
		zap.String("provider", string(c.provider)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return text
}
