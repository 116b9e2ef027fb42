package router

import "github.com/bwmarrin/discordgo"

type EventKind int

const (
	EventReady EventKind = iota + 1
	EventGuildJoined
	EventGuildLeft
	EventLegacyCommand
	EventStructuredCommand
)

func (k EventKind) String() string {
	switch k {
	case EventReady:
		return "ready"
	case EventGuildJoined:
		return "guild_joined"
	case EventGuildLeft:
		return "guild_left"
	case EventLegacyCommand:
		return "legacy_command"
	case EventStructuredCommand:
		return "structured_command"
	default:
		return "unknown"
	}
}

// Event is one of Ready, GuildJoined, GuildLeft, LegacyCommandInvoked or
// StructuredCommandInvoked.
type Event interface {
	Kind() EventKind
}

type Ready struct {
	ApplicationID string
	Username      string
	GuildIDs      []string
}

type GuildJoined struct {
	GuildID string
	Name    string
}

type GuildLeft struct {
	GuildID string
	Name    string
}

// LegacyCommandInvoked is a prefixed text message already split into a
// command name and argument tokens.
type LegacyCommandInvoked struct {
	Message *discordgo.Message
	Name    string
	Args    []string
	// author's permissions in the message's channel
	Permissions int64
}

type StructuredCommandInvoked struct {
	Interaction *discordgo.Interaction
}

func (Ready) Kind() EventKind                    { return EventReady }
func (GuildJoined) Kind() EventKind              { return EventGuildJoined }
func (GuildLeft) Kind() EventKind                { return EventGuildLeft }
func (LegacyCommandInvoked) Kind() EventKind     { return EventLegacyCommand }
func (StructuredCommandInvoked) Kind() EventKind { return EventStructuredCommand }
