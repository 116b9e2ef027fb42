package utils

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

var ErrMissingToken = errors.New("DISCORD_TOKEN is not set")

type Config struct {
	discordToken   string
	discordGuildID string
	commandPrefix  string
	statusText     string

	port                     string
	metricCollectionInterval time.Duration
	logLevel                 slog.Level
}

type rawConfig struct {
	DiscordToken   string `env:"DISCORD_TOKEN"`
	DiscordGuildID string `env:"DISCORD_GUILD_ID"`
	CommandPrefix  string `env:"COMMAND_PREFIX" envDefault:"!"`
	StatusText     string `env:"STATUS_TEXT" envDefault:"for !help"`

	Port                     string        `env:"PORT" envDefault:"5000"`
	MetricCollectionInterval time.Duration `env:"METRIC_COLLECTION_INTERVAL" envDefault:"15s"`
	LogLevel                 slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
}

// NewConfig reads the process environment.
func NewConfig() (*Config, error) {
	return newConfig(env.Options{})
}

// NewConfigFrom reads environ instead of the process environment.
func NewConfigFrom(environ map[string]string) (*Config, error) {
	return newConfig(env.Options{Environment: environ})
}

func newConfig(opts env.Options) (*Config, error) {
	raw, err := env.ParseAsWithOptions[rawConfig](opts)
	if err != nil {
		return nil, fmt.Errorf("NewConfig: can't parse env: %w", err)
	}
	if raw.DiscordToken == "" {
		return nil, ErrMissingToken
	}
	if raw.CommandPrefix == "" {
		raw.CommandPrefix = "!"
	}
	if raw.MetricCollectionInterval <= 0 {
		return nil, fmt.Errorf("NewConfig: METRIC_COLLECTION_INTERVAL must be positive, got %s", raw.MetricCollectionInterval)
	}

	return &Config{
		discordToken:             raw.DiscordToken,
		discordGuildID:           raw.DiscordGuildID,
		commandPrefix:            raw.CommandPrefix,
		statusText:               raw.StatusText,
		port:                     raw.Port,
		metricCollectionInterval: raw.MetricCollectionInterval,
		logLevel:                 raw.LogLevel,
	}, nil
}

// Log writes every value at debug level, the token masked. Call it once
// the log level from the config is in effect.
func (c *Config) Log() {
	slog.Debug("env", "DISCORD_TOKEN", mask(c.discordToken))
	slog.Debug("env", "DISCORD_GUILD_ID", c.discordGuildID)
	slog.Debug("env", "COMMAND_PREFIX", c.commandPrefix)
	slog.Debug("env", "STATUS_TEXT", c.statusText)
	slog.Debug("env", "PORT", c.port)
	slog.Debug("env", "METRIC_COLLECTION_INTERVAL", c.metricCollectionInterval)
	slog.Debug("env", "LOG_LEVEL", c.logLevel)
}

func mask(secret string) string {
	if len(secret) <= 3 {
		return "..."
	}
	return secret[0:3] + "..."
}

// Get DISCORD_TOKEN env
func (c *Config) GetDiscordToken() string {
	return c.discordToken
}

// Get DISCORD_GUILD_ID env, empty means slash commands are synced globally
func (c *Config) GetDiscordGuildID() string {
	return c.discordGuildID
}

// Get COMMAND_PREFIX env, default to !
func (c *Config) GetCommandPrefix() string {
	return c.commandPrefix
}

// Get STATUS_TEXT env
func (c *Config) GetStatusText() string {
	return c.statusText
}

// Get PORT env, default to 5000
func (c *Config) GetPort() string {
	return c.port
}

// Get METRIC_COLLECTION_INTERVAL env, default to 15s
func (c *Config) GetMetricCollectionInterval() time.Duration {
	return c.metricCollectionInterval
}

// Get LOG_LEVEL env, default to INFO
func (c *Config) GetLogLevel() slog.Level {
	return c.logLevel
}
