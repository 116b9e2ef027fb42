package metric

import (
	"context"
	"log/slog"
	"time"
)

// WatchHeartbeat samples latency every interval into the heartbeat gauge
// until ctx is done.
func (c *Collector) WatchHeartbeat(ctx context.Context, interval time.Duration, latency func() time.Duration) {
	if c == nil {
		return
	}
	if interval <= 0 {
		slog.Warn("heartbeat metric disabled", "interval", interval)
		return
	}
	c.heartbeat.Set(0)
	slog.Debug("warden_discord_heartbeat_latency_microsec metric registered")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.Debug("heartbeat metric stopped")
			return
		case <-ticker.C:
			c.heartbeat.Set(float64(latency().Microseconds()))
		}
	}
}
