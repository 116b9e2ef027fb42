package utils

import (
	"context"
	"log/slog"
	"os"
	"time"
	"warden/src-server/command"
	"warden/src-server/metric"

	"github.com/bwmarrin/discordgo"
)

type AppState struct {
	Config    *Config
	DgSession *discordgo.Session

	// every command group is registered here before the gateway connects
	Registry *command.Registry
	Metrics  *metric.Collector

	StartedAt time.Time

	// anything that wants the app to stop sends to this channel
	AppCloseSignalChan chan os.Signal

	ctx    context.Context
	cancel context.CancelFunc
}

func NewAppState(cfg *Config) (*AppState, error) {
	as := &AppState{
		Config:             cfg,
		Registry:           command.NewRegistry(),
		Metrics:            metric.New(),
		StartedAt:          time.Now(),
		AppCloseSignalChan: make(chan os.Signal, 1),
	}
	as.ctx, as.cancel = context.WithCancel(context.Background())

	var err error
	as.DgSession, err = discordgo.New("Bot " + cfg.GetDiscordToken())
	if err != nil {
		return nil, err
	}
	as.DgSession.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsMessageContent

	return as, nil
}

// Context is canceled by GracefulShutdown.
func (as *AppState) Context() context.Context {
	return as.ctx
}

func (as *AppState) GetUptime() time.Duration {
	return time.Since(as.StartedAt)
}

// GetHeartbeatLatency is zero until the first heartbeat is acked.
func (as *AppState) GetHeartbeatLatency() time.Duration {
	if as.DgSession == nil {
		return 0
	}
	return as.DgSession.HeartbeatLatency()
}

func (as *AppState) GracefulShutdown() {
	as.cancel()
	if as.DgSession != nil {
		if err := as.DgSession.Close(); err != nil {
			slog.Warn("can't close discord session", "error", err)
		}
	}
}
