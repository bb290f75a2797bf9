package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avatarquest/internal/coach"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AQ_COACH_API_KEY", "")
	t.Setenv("EMERGENT_LLM_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8001", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "openai", cfg.Coach.Provider)
	assert.Equal(t, 5*time.Second, cfg.Coach.Timeout)
	assert.Empty(t, cfg.Coach.CoachClientConfig().APIKey)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AQ_DB_PATH", "/tmp/aq.db")
	t.Setenv("AQ_HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("AQ_COACH_PROVIDER", "gemini")
	t.Setenv("AQ_COACH_MODEL", "gemini-2.5-flash")
	t.Setenv("AQ_COACH_TIMEOUT", "750ms")
	t.Setenv("AQ_COACH_API_KEY", "")
	t.Setenv("EMERGENT_LLM_KEY", "legacy-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/aq.db", cfg.DBPath)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTPAddr)

	cc := cfg.Coach.CoachClientConfig()
	assert.Equal(t, coach.ProviderGemini, cc.Provider)
	assert.Equal(t, "gemini-2.5-flash", cc.Model)
	assert.Equal(t, 750*time.Millisecond, cc.Timeout)
	assert.Equal(t, "legacy-key", cc.APIKey)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	t.Setenv("AQ_COACH_PROVIDER", "carrier-pigeon")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("AQ_COACH_PROVIDER", "openai")
	t.Setenv("AQ_COACH_TIMEOUT", "0s")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("AQ_COACH_TIMEOUT", "soon")
	_, err = Load()
	require.Error(t, err)
}
