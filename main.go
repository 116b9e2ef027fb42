package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"warden/src-server/command"
	"warden/src-server/handler"
	"warden/src-server/route"
	"warden/src-server/router"
	"warden/src-server/utils"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// raised once the config is read
var logLevel = new(slog.LevelVar)

func init() {
	if err := godotenv.Load(); err != nil {
		slog.Info(err.Error())
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC1123Z,
		}),
	))
}

func main() {
	cfg, err := utils.NewConfig()
	if errors.Is(err, utils.ErrMissingToken) {
		slog.Error("DISCORD_TOKEN is not set, please add it to the environment or .env")
		return
	}
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logLevel.Set(cfg.GetLogLevel())
	cfg.Log()

	as, err := utils.NewAppState(cfg)
	if err != nil {
		slog.Error("can't create discord session", "error", err)
		os.Exit(1)
	}

	// every group must be in the registry before the gateway connects
	groups := []command.Group{
		&handler.General{
			Prefix:  cfg.GetCommandPrefix(),
			Uptime:  as.GetUptime,
			Latency: as.GetHeartbeatLatency,
		},
		handler.Moderation{},
		handler.Utility{},
		handler.Admin{},
		handler.Fun{},
	}
	for _, g := range groups {
		if err := as.Registry.Register(g); err != nil {
			slog.Error("can't register command group", "group", g.Name(), "error", err)
			os.Exit(1)
		}
	}

	r := router.New(as.DgSession, as.Registry, as.Metrics, router.Options{
		Prefix:      cfg.GetCommandPrefix(),
		StatusText:  cfg.GetStatusText(),
		SyncGuildID: cfg.GetDiscordGuildID(),
	})
	r.Attach(as.DgSession)

	go as.Metrics.WatchHeartbeat(as.Context(), cfg.GetMetricCollectionInterval(), as.GetHeartbeatLatency)

	// liveness http server
	go func() {
		muxer := http.NewServeMux()
		muxer.Handle("GET /metrics", promhttp.HandlerFor(as.Metrics.Registry(), promhttp.HandlerOpts{}))
		route.Liveness(muxer, as)
		slog.Info("liveness server listening", "port", cfg.GetPort())
		if err := http.ListenAndServe(":"+cfg.GetPort(), route.LogMiddleware(muxer)); err != nil {
			slog.Error("cannot start HTTP server", "error", err)
			as.AppCloseSignalChan <- syscall.SIGTERM
		}
	}()

	// open a connection to Discord
	if err := as.DgSession.Open(); err != nil {
		slog.Error("can't open discord connection", "error", err)
		as.GracefulShutdown()
		os.Exit(1)
	}

	slog.Info("app is now running, press Ctrl+C to exit")

	signal.Notify(as.AppCloseSignalChan, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-as.AppCloseSignalChan
	slog.Info("gracefully shutting down...")
	as.GracefulShutdown()
}
