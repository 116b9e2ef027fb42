// Package notify delivers rendered failure notifications back to where the
// failing command came from.
package notify

import (
	"log/slog"
	"warden/src-server/failure"
	"warden/src-server/metric"
	"warden/src-server/platform"

	"github.com/bwmarrin/discordgo"
)

type Result int

const (
	ResultDropped Result = iota
	ResultDelivered
	ResultFollowup
)

func (r Result) String() string {
	switch r {
	case ResultDelivered:
		return "delivered"
	case ResultFollowup:
		return "followup"
	default:
		return "dropped"
	}
}

// Delivery says where a notification goes.
type Delivery struct {
	Kind      platform.ChannelKind
	ChannelID string
	// legacy: the invoking message, replied to
	Reference *discordgo.MessageReference
	// structured
	Interaction *discordgo.Interaction
	// Responded is set once the initial interaction response is used up.
	Responded bool
}

type Presenter struct {
	session platform.Session
	metrics *metric.Collector
}

func NewPresenter(s platform.Session, m *metric.Collector) *Presenter {
	return &Presenter{session: s, metrics: m}
}

// VisibleOnlyToInvoker reports whether a structured notification of the
// given severity must be ephemeral.
func VisibleOnlyToInvoker(s failure.Severity) bool {
	return s == failure.SeverityError || s == failure.SeverityWarning
}

// Embed renders p as a rich message.
func Embed(p failure.Payload) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       p.Title,
		Description: p.Description,
		Color:       p.Severity.Color(),
	}
}

// Present sends p. It never retries past one follow-up and never returns an
// error; an undeliverable notification is logged and dropped.
func (p *Presenter) Present(payload failure.Payload, d *Delivery) Result {
	var res Result
	switch d.Kind {
	case platform.ChannelLegacy:
		res = p.presentLegacy(payload, d)
	case platform.ChannelStructured:
		res = p.presentStructured(payload, d)
	default:
		slog.Error("can't present notification, unknown channel kind", "kind", d.Kind)
	}
	p.metrics.NotificationDelivered(res.String())
	return res
}

func (p *Presenter) presentLegacy(payload failure.Payload, d *Delivery) Result {
	if _, err := p.session.ChannelMessageSendComplex(d.ChannelID, &discordgo.MessageSend{
		Embeds:    []*discordgo.MessageEmbed{Embed(payload)},
		Reference: d.Reference,
	}); err != nil {
		slog.Warn("can't send notification", "channel_id", d.ChannelID, "error", err)
		return ResultDropped
	}
	return ResultDelivered
}

func (p *Presenter) presentStructured(payload failure.Payload, d *Delivery) Result {
	if d.Interaction == nil {
		slog.Error("can't present notification without an interaction", "channel_id", d.ChannelID)
		return ResultDropped
	}
	var flags discordgo.MessageFlags
	if VisibleOnlyToInvoker(payload.Severity) {
		flags = discordgo.MessageFlagsEphemeral
	}
	embeds := []*discordgo.MessageEmbed{Embed(payload)}

	if !d.Responded {
		err := p.session.InteractionRespond(d.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Embeds: embeds,
				Flags:  flags,
			},
		})
		if err == nil {
			d.Responded = true
			return ResultDelivered
		}
		slog.Debug("initial response failed, falling back to followup", "interaction_id", d.Interaction.ID, "error", err)
	}

	if _, err := p.session.FollowupMessageCreate(d.Interaction, true, &discordgo.WebhookParams{
		Embeds: embeds,
		Flags:  flags,
	}); err != nil {
		slog.Warn("can't send notification", "interaction_id", d.Interaction.ID, "error", err)
		return ResultDropped
	}
	return ResultFollowup
}
