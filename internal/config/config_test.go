package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.Anthropic.Model)
	assert.Equal(t, int64(1024), cfg.Anthropic.MaxTokens)
	assert.Equal(t, 587, cfg.SMTP.Port)
}

func TestLoadSeedsDefaultAssignees(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Len(t, cfg.Assignees, 3)
	assert.Equal(t, "7294", cfg.Assignees[0].ID)
	assert.Equal(t, "Kundan", cfg.Assignees[0].Name)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("LEADPILOT_SERVER_PORT", "9090")
	t.Setenv("LEADPILOT_ANTHROPIC_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sk-test", cfg.Anthropic.Key)
}
