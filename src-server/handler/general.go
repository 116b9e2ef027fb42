package handler

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
	"warden/src-server/command"
	"warden/src-server/platform"

	"github.com/bwmarrin/discordgo"
)

const embedColor = 0x5865f2

// General holds help and ping.
type General struct {
	// Prefix of legacy commands, shown by help.
	Prefix  string
	Uptime  func() time.Duration
	Latency func() time.Duration

	// set by every Ready, read by help from other event goroutines
	registry atomic.Pointer[command.Registry]
}

func (*General) Name() string { return "general" }

// OnReady keeps the sealed registry around for help.
func (g *General) OnReady(_ context.Context, r *command.Registry) error {
	g.registry.Store(r)
	return nil
}

func (g *General) Commands() []*command.Command {
	return []*command.Command{
		{
			Name:        "help",
			Description: "List the available commands.",
			Aliases:     []string{"commands"},
			Run:         g.help,
		},
		{
			Name:        "ping",
			Description: "A ping command.",
			Run:         g.ping,
		},
	}
}

func (g *General) help(c *command.Context) error {
	registry := g.registry.Load()
	if registry == nil {
		return c.ReplyEphemeral(&discordgo.MessageEmbed{
			Title:       "Help",
			Description: "Still starting up, try again in a moment.",
			Color:       embedColor,
		})
	}

	prefix := "/"
	if c.Kind == platform.ChannelLegacy && g.Prefix != "" {
		prefix = g.Prefix
	}
	byGroup := make(map[string][]string)
	var order []string
	for _, e := range registry.Entries(c.Kind) {
		name := e.Group.Name()
		if _, ok := byGroup[name]; !ok {
			order = append(order, name)
		}
		byGroup[name] = append(byGroup[name], fmt.Sprintf("`%s%s` %s", prefix, e.Command.Name, e.Command.Description))
	}

	embed := &discordgo.MessageEmbed{
		Title: "Help",
		Color: embedColor,
	}
	for _, name := range order {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  name,
			Value: strings.Join(byGroup[name], "\n"),
		})
	}
	return c.ReplyEphemeral(embed)
}

func (g *General) ping(c *command.Context) error {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	memUsage := float64(m.Sys) / 1024 / 1024

	fields := []*discordgo.MessageEmbedField{
		{
			Name:   "Latency",
			Value:  fmt.Sprintf("%dms", g.latency().Milliseconds()),
			Inline: true,
		},
		{
			Name:   "Go version",
			Value:  runtime.Version(),
			Inline: true,
		},
		{
			Name:   "Memory",
			Value:  fmt.Sprintf("%.2fMB", memUsage),
			Inline: true,
		},
	}
	if g.Uptime != nil {
		fields = append([]*discordgo.MessageEmbedField{{
			Name:  "Uptime",
			Value: g.Uptime().Truncate(time.Second).String(),
		}}, fields...)
	}

	return c.ReplyEphemeral(&discordgo.MessageEmbed{
		Title:  "Pong!",
		Color:  embedColor,
		Fields: fields,
		Footer: &discordgo.MessageEmbedFooter{Text: c.GuildID},
	})
}

func (g *General) latency() time.Duration {
	if g.Latency == nil {
		return 0
	}
	return g.Latency()
}
