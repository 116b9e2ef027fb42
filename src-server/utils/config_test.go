package utils

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	cfg, err := NewConfigFrom(map[string]string{"DISCORD_TOKEN": "abcdef"})
	require.NoError(t, err)

	assert.Equal(t, "abcdef", cfg.GetDiscordToken())
	assert.Equal(t, "!", cfg.GetCommandPrefix())
	assert.Equal(t, "5000", cfg.GetPort())
	assert.Equal(t, "", cfg.GetDiscordGuildID())
	assert.Equal(t, 15*time.Second, cfg.GetMetricCollectionInterval())
	assert.Equal(t, slog.LevelInfo, cfg.GetLogLevel())
}

func TestConfigOverrides(t *testing.T) {
	cfg, err := NewConfigFrom(map[string]string{
		"DISCORD_TOKEN":              "abcdef",
		"DISCORD_GUILD_ID":           "123",
		"COMMAND_PREFIX":             "?",
		"PORT":                       "8080",
		"METRIC_COLLECTION_INTERVAL": "1m",
		"LOG_LEVEL":                  "DEBUG",
	})
	require.NoError(t, err)

	assert.Equal(t, "123", cfg.GetDiscordGuildID())
	assert.Equal(t, "?", cfg.GetCommandPrefix())
	assert.Equal(t, "8080", cfg.GetPort())
	assert.Equal(t, time.Minute, cfg.GetMetricCollectionInterval())
	assert.Equal(t, slog.LevelDebug, cfg.GetLogLevel())
}

func TestConfigMissingToken(t *testing.T) {
	_, err := NewConfigFrom(map[string]string{"PORT": "8080"})
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestConfigInvalid(t *testing.T) {
	_, err := NewConfigFrom(map[string]string{
		"DISCORD_TOKEN":              "abcdef",
		"METRIC_COLLECTION_INTERVAL": "soon",
	})
	assert.Error(t, err)

	_, err = NewConfigFrom(map[string]string{
		"DISCORD_TOKEN":              "abcdef",
		"METRIC_COLLECTION_INTERVAL": "0s",
	})
	assert.Error(t, err)
}

func TestMask(t *testing.T) {
	assert.Equal(t, "abc...", mask("abcdef"))
	assert.Equal(t, "...", mask("ab"))
}

func TestConfigLog(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	cfg, err := NewConfigFrom(map[string]string{"DISCORD_TOKEN": "abcdef", "LOG_LEVEL": "DEBUG"})
	require.NoError(t, err)
	assert.Empty(t, buf.String(), "values are logged only once the level is applied")

	cfg.Log()
	out := buf.String()
	assert.Contains(t, out, "DISCORD_TOKEN=abc...")
	assert.NotContains(t, out, "abcdef")
	assert.Contains(t, out, "PORT=5000")
	assert.Contains(t, out, "LOG_LEVEL=DEBUG")
}
