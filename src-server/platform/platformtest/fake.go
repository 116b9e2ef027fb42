// Package platformtest provides an in-memory platform.Session that records
// every outbound call.
package platformtest

import (
	"fmt"
	"sync"
	"time"
	"warden/src-server/platform"

	"github.com/bwmarrin/discordgo"
)

// Sent is one recorded outbound message.
type Sent struct {
	Via       string // "channel", "respond" or "followup"
	ChannelID string
	Embeds    []*discordgo.MessageEmbed
	Content   string
	Ephemeral bool
	Reference *discordgo.MessageReference
}

// Session is a fake platform.Session. Set the *Err fields to make the
// matching call fail.
type Session struct {
	mu sync.Mutex

	SendErr     error
	RespondErr  error
	FollowupErr error
	SyncErr     error
	StatusErr   error
	ModerateErr error

	Sent       []Sent
	Synced     []*discordgo.ApplicationCommand
	SyncAppID  string
	SyncGuild  string
	Status     string
	Kicked     []string
	Banned     []string
	TimedOut   map[string]time.Time
	Deleted    []string
	Messages   []*discordgo.Message
	Guilds     map[string]*discordgo.Guild
	Users      map[string]*discordgo.User
	respondIDs map[string]bool
}

func New() *Session {
	return &Session{
		TimedOut:   make(map[string]time.Time),
		Guilds:     make(map[string]*discordgo.Guild),
		Users:      make(map[string]*discordgo.User),
		respondIDs: make(map[string]bool),
	}
}

// Outbox returns a copy of everything sent so far.
func (s *Session) Outbox() []Sent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Sent(nil), s.Sent...)
}

func (s *Session) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SendErr != nil {
		return nil, s.SendErr
	}
	s.Sent = append(s.Sent, Sent{
		Via:       "channel",
		ChannelID: channelID,
		Embeds:    data.Embeds,
		Content:   data.Content,
		Reference: data.Reference,
	})
	return &discordgo.Message{ChannelID: channelID, Content: data.Content, Embeds: data.Embeds}, nil
}

// InteractionRespond fails like the real API when the same interaction is
// answered twice.
func (s *Session) InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.RespondErr != nil {
		return s.RespondErr
	}
	if s.respondIDs[interaction.ID] {
		return fmt.Errorf("interaction %s has already been acknowledged", interaction.ID)
	}
	s.respondIDs[interaction.ID] = true
	sent := Sent{Via: "respond", ChannelID: interaction.ChannelID}
	if resp.Data != nil {
		sent.Embeds = resp.Data.Embeds
		sent.Content = resp.Data.Content
		sent.Ephemeral = resp.Data.Flags&discordgo.MessageFlagsEphemeral != 0
	}
	s.Sent = append(s.Sent, sent)
	return nil
}

func (s *Session) FollowupMessageCreate(interaction *discordgo.Interaction, _ bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FollowupErr != nil {
		return nil, s.FollowupErr
	}
	s.Sent = append(s.Sent, Sent{
		Via:       "followup",
		ChannelID: interaction.ChannelID,
		Embeds:    data.Embeds,
		Content:   data.Content,
		Ephemeral: data.Flags&discordgo.MessageFlagsEphemeral != 0,
	})
	return &discordgo.Message{ChannelID: interaction.ChannelID}, nil
}

func (s *Session) ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, _ ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SyncErr != nil {
		return nil, s.SyncErr
	}
	s.SyncAppID, s.SyncGuild, s.Synced = appID, guildID, commands
	return commands, nil
}

func (s *Session) UpdateWatchStatus(_ int, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.StatusErr != nil {
		return s.StatusErr
	}
	s.Status = name
	return nil
}

func (s *Session) User(userID string, _ ...discordgo.RequestOption) (*discordgo.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.Users[userID]
	if !ok {
		return nil, fmt.Errorf("unknown user %s", userID)
	}
	return u, nil
}

func (s *Session) Guild(guildID string, _ ...discordgo.RequestOption) (*discordgo.Guild, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.Guilds[guildID]
	if !ok {
		return nil, fmt.Errorf("unknown guild %s", guildID)
	}
	return g, nil
}

func (s *Session) GuildMemberDeleteWithReason(_, userID, _ string, _ ...discordgo.RequestOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ModerateErr != nil {
		return s.ModerateErr
	}
	s.Kicked = append(s.Kicked, userID)
	return nil
}

func (s *Session) GuildBanCreateWithReason(_, userID, _ string, _ int, _ ...discordgo.RequestOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ModerateErr != nil {
		return s.ModerateErr
	}
	s.Banned = append(s.Banned, userID)
	return nil
}

func (s *Session) GuildMemberTimeout(_ string, userID string, until *time.Time, _ ...discordgo.RequestOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ModerateErr != nil {
		return s.ModerateErr
	}
	if until == nil {
		delete(s.TimedOut, userID)
		return nil
	}
	s.TimedOut[userID] = *until
	return nil
}

func (s *Session) ChannelMessages(_ string, limit int, _, _, _ string, _ ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit > len(s.Messages) {
		limit = len(s.Messages)
	}
	return append([]*discordgo.Message(nil), s.Messages[:limit]...), nil
}

func (s *Session) ChannelMessagesBulkDelete(_ string, messages []string, _ ...discordgo.RequestOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ModerateErr != nil {
		return s.ModerateErr
	}
	s.Deleted = append(s.Deleted, messages...)
	return nil
}

var _ platform.Session = (*Session)(nil)
