package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector owns the bot's prometheus metrics. A nil *Collector is valid and
// records nothing.
type Collector struct {
	registry      *prometheus.Registry
	dispatched    *prometheus.CounterVec
	failures      *prometheus.CounterVec
	notifications *prometheus.CounterVec
	heartbeat     prometheus.Gauge
}

func New() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		dispatched: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "warden_commands_dispatched_total",
			Help: "Commands resolved and invoked, by channel",
		}, []string{"channel"}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "warden_command_failures_total",
			Help: "Command failures, by channel and classified kind",
		}, []string{"channel", "kind"}),
		notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "warden_notifications_total",
			Help: "Failure notifications, by delivery result",
		}, []string{"result"}),
		heartbeat: factory.NewGauge(prometheus.GaugeOpts{
			Name: "warden_discord_heartbeat_latency_microsec",
			Help: "The latency of a discord heartbeat in microseconds",
		}),
	}
}

// Registry is what /metrics serves.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

func (c *Collector) CommandDispatched(channel string) {
	if c == nil {
		return
	}
	c.dispatched.WithLabelValues(channel).Inc()
}

func (c *Collector) CommandFailed(channel, kind string) {
	if c == nil {
		return
	}
	c.failures.WithLabelValues(channel, kind).Inc()
}

func (c *Collector) NotificationDelivered(result string) {
	if c == nil {
		return
	}
	c.notifications.WithLabelValues(result).Inc()
}
