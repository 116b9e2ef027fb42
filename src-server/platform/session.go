// Package platform describes the slice of the Discord client the bot relies
// on, so the router, presenter and handler groups can run against a fake in
// tests. *discordgo.Session satisfies Session as-is.
package platform

import (
	"time"

	"github.com/bwmarrin/discordgo"
)

// ChannelKind tells apart the two transports a command can arrive on.
type ChannelKind int

const (
	// ChannelLegacy is a prefixed text message, e.g. "!kick @user".
	ChannelLegacy ChannelKind = iota + 1
	// ChannelStructured is a platform-native slash command interaction.
	ChannelStructured
)

func (k ChannelKind) String() string {
	switch k {
	case ChannelLegacy:
		return "legacy"
	case ChannelStructured:
		return "structured"
	default:
		return "unknown"
	}
}

type Session interface {
	// messaging
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)

	// lifecycle
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
	UpdateWatchStatus(idle int, name string) error

	// guild management, used by the handler groups
	User(userID string, options ...discordgo.RequestOption) (*discordgo.User, error)
	Guild(guildID string, options ...discordgo.RequestOption) (*discordgo.Guild, error)
	GuildMemberDeleteWithReason(guildID, userID, reason string, options ...discordgo.RequestOption) error
	GuildBanCreateWithReason(guildID, userID, reason string, days int, options ...discordgo.RequestOption) error
	GuildMemberTimeout(guildID string, userID string, until *time.Time, options ...discordgo.RequestOption) error
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
	ChannelMessagesBulkDelete(channel string, messages []string, options ...discordgo.RequestOption) error
}

var _ Session = (*discordgo.Session)(nil)
