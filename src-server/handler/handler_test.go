package handler_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
	"warden/src-server/command"
	"warden/src-server/failure"
	"warden/src-server/handler"
	"warden/src-server/platform"
	"warden/src-server/platform/platformtest"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	authorID = "100000000000000001"
	targetID = "200000000000000002"
)

type bot struct {
	t   *testing.T
	s   *platformtest.Session
	reg *command.Registry
}

func newBot(t *testing.T) *bot {
	t.Helper()
	reg := command.NewRegistry()
	groups := []command.Group{
		&handler.General{Prefix: "!", Uptime: func() time.Duration { return time.Minute }},
		handler.Moderation{},
		handler.Utility{},
		handler.Admin{},
		handler.Fun{Intn: func(n int) int { return n - 1 }},
	}
	for _, g := range groups {
		require.NoError(t, reg.Register(g))
	}
	return &bot{t: t, s: platformtest.New(), reg: reg}
}

// legacy runs "!name args..." as authorID with perms.
func (b *bot) legacy(perms int64, name string, args ...string) error {
	b.t.Helper()
	e, ok := b.reg.Lookup(name, platform.ChannelLegacy)
	require.True(b.t, ok, "command %s", name)
	msg := &discordgo.Message{
		ID:        "m1",
		ChannelID: "c1",
		GuildID:   "g1",
		Author:    &discordgo.User{ID: authorID, Username: "alice"},
	}
	return e.Invoke(command.NewLegacyContext(context.Background(), b.s, msg, args, perms))
}

func (b *bot) lastEmbed() *discordgo.MessageEmbed {
	b.t.Helper()
	out := b.s.Outbox()
	require.NotEmpty(b.t, out)
	last := out[len(out)-1]
	require.Len(b.t, last.Embeds, 1)
	return last.Embeds[0]
}

func TestGroupsRegisterWithoutCollisions(t *testing.T) {
	b := newBot(t)
	defs := b.reg.Definitions()
	names := make([]string, 0, len(defs))
	for _, d := range defs {
		names = append(names, d.Name)
	}
	assert.ElementsMatch(t, []string{
		"help", "ping",
		"kick", "ban", "timeout", "clear",
		"userinfo", "serverinfo", "avatar",
		"say",
		"roll", "coinflip", "8ball",
	}, names)

	_, ok := b.reg.Lookup("mute", platform.ChannelLegacy)
	assert.True(t, ok)
	_, ok = b.reg.Lookup("mute", platform.ChannelStructured)
	assert.False(t, ok)
}

func TestHelp(t *testing.T) {
	b := newBot(t)
	require.NoError(t, b.legacy(0, "help"))
	assert.Contains(t, b.lastEmbed().Description, "starting up")

	b.reg.Seal()
	for _, g := range b.reg.Groups() {
		if l, ok := g.(command.ReadyListener); ok {
			require.NoError(t, l.OnReady(context.Background(), b.reg))
		}
	}
	require.NoError(t, b.legacy(0, "commands"))
	embed := b.lastEmbed()
	require.NotEmpty(t, embed.Fields)
	var all strings.Builder
	for _, f := range embed.Fields {
		all.WriteString(f.Value)
	}
	assert.Contains(t, all.String(), "`!kick`")
	assert.Contains(t, all.String(), "`!8ball`")
}

// Ready fires again on every reconnect, possibly while help is running.
func TestHelpDuringReconnect(t *testing.T) {
	b := newBot(t)
	b.reg.Seal()
	var general command.ReadyListener
	for _, g := range b.reg.Groups() {
		if l, ok := g.(command.ReadyListener); ok {
			general = l
		}
	}
	require.NotNil(t, general)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			assert.NoError(t, general.OnReady(context.Background(), b.reg))
		}
	}()
	go func() {
		defer wg.Done()
		e, _ := b.reg.Lookup("help", platform.ChannelLegacy)
		for i := 0; i < 50; i++ {
			msg := &discordgo.Message{ID: "m1", ChannelID: "c1", Author: &discordgo.User{ID: authorID}}
			assert.NoError(t, e.Invoke(command.NewLegacyContext(context.Background(), b.s, msg, nil, 0)))
		}
	}()
	wg.Wait()
	assert.Len(t, b.s.Outbox(), 50)
}

func TestPing(t *testing.T) {
	b := newBot(t)
	require.NoError(t, b.legacy(0, "ping"))
	embed := b.lastEmbed()
	assert.Equal(t, "Pong!", embed.Title)
	assert.Equal(t, "Uptime", embed.Fields[0].Name)
	assert.Equal(t, "1m0s", embed.Fields[0].Value)
}

func TestKick(t *testing.T) {
	b := newBot(t)

	var perms *failure.MissingPermissionsError
	require.ErrorAs(t, b.legacy(0, "kick", "<@"+targetID+">"), &perms)
	assert.Equal(t, int64(discordgo.PermissionKickMembers), perms.Missing)
	assert.Empty(t, b.s.Kicked)

	require.NoError(t, b.legacy(discordgo.PermissionKickMembers, "kick", "<@"+targetID+">", "spamming", "links"))
	assert.Equal(t, []string{targetID}, b.s.Kicked)
	embed := b.lastEmbed()
	assert.Equal(t, "spamming links", embed.Fields[1].Value)
}

func TestKickSelfIsBadArgument(t *testing.T) {
	b := newBot(t)
	var bad *failure.BadArgumentError
	require.ErrorAs(t, b.legacy(discordgo.PermissionAdministrator, "kick", authorID), &bad)
	assert.Empty(t, b.s.Kicked)
}

func TestBan(t *testing.T) {
	b := newBot(t)
	require.NoError(t, b.legacy(discordgo.PermissionAdministrator, "ban", targetID))
	assert.Equal(t, []string{targetID}, b.s.Banned)
	assert.Equal(t, "No reason given", b.lastEmbed().Fields[1].Value)
}

func TestTimeout(t *testing.T) {
	b := newBot(t)
	perms := int64(discordgo.PermissionModerateMembers)

	var missing *failure.MissingArgumentError
	require.ErrorAs(t, b.legacy(perms, "timeout", targetID), &missing)
	assert.Equal(t, "duration", missing.Param)

	var bad *failure.BadArgumentError
	require.ErrorAs(t, b.legacy(perms, "timeout", targetID, "forever"), &bad)
	require.ErrorAs(t, b.legacy(perms, "timeout", targetID, "700h"), &bad)
	assert.Equal(t, "duration", bad.Param)

	before := time.Now()
	require.NoError(t, b.legacy(perms, "mute", targetID, "10m"))
	until, ok := b.s.TimedOut[targetID]
	require.True(t, ok)
	assert.WithinDuration(t, before.Add(10*time.Minute), until, 5*time.Second)
}

func TestClear(t *testing.T) {
	b := newBot(t)
	for _, id := range []string{"a", "b", "c"} {
		b.s.Messages = append(b.s.Messages, &discordgo.Message{ID: id})
	}
	perms := int64(discordgo.PermissionManageMessages)

	var bad *failure.BadArgumentError
	require.ErrorAs(t, b.legacy(perms, "clear", "0"), &bad)
	require.ErrorAs(t, b.legacy(perms, "clear", "101"), &bad)

	require.NoError(t, b.legacy(perms, "purge", "2"))
	assert.Equal(t, []string{"a", "b"}, b.s.Deleted)
	assert.Contains(t, b.lastEmbed().Description, "2 messages")
}

func TestModerationPlatformFailure(t *testing.T) {
	b := newBot(t)
	b.s.ModerateErr = errors.New("missing access")
	err := b.legacy(discordgo.PermissionAdministrator, "ban", targetID)
	require.Error(t, err)
	assert.Equal(t, failure.KindUnexpected, failure.Classify(err, platform.ChannelLegacy).Kind)
}

func TestUserinfo(t *testing.T) {
	b := newBot(t)
	b.s.Users[targetID] = &discordgo.User{ID: targetID, Username: "bob"}

	require.NoError(t, b.legacy(0, "userinfo"))
	assert.Equal(t, "alice", b.lastEmbed().Title)

	require.NoError(t, b.legacy(0, "userinfo", "<@!"+targetID+">"))
	embed := b.lastEmbed()
	assert.Equal(t, "bob", embed.Title)
	assert.Equal(t, targetID, embed.Fields[0].Value)
}

func TestAvatarUnknownUser(t *testing.T) {
	b := newBot(t)
	assert.Error(t, b.legacy(0, "avatar", targetID))
}

func TestServerinfo(t *testing.T) {
	b := newBot(t)
	b.s.Guilds["g1"] = &discordgo.Guild{ID: "g1", Name: "Warden HQ", OwnerID: targetID, MemberCount: 42}
	require.NoError(t, b.legacy(0, "serverinfo"))
	embed := b.lastEmbed()
	assert.Equal(t, "Warden HQ", embed.Title)
	assert.Equal(t, "42", embed.Fields[1].Value)
}

func TestSay(t *testing.T) {
	b := newBot(t)
	var perms *failure.MissingPermissionsError
	require.ErrorAs(t, b.legacy(discordgo.PermissionSendMessages, "say", "hi"), &perms)

	require.NoError(t, b.legacy(discordgo.PermissionAdministrator, "say", "hello", "there"))
	out := b.s.Outbox()
	require.Len(t, out, 1)
	assert.Equal(t, "hello there", out[0].Content)
	assert.Nil(t, out[0].Reference)
}

func TestFun(t *testing.T) {
	b := newBot(t)

	require.NoError(t, b.legacy(0, "roll"))
	assert.Contains(t, b.lastEmbed().Description, "**6** (d6)")

	require.NoError(t, b.legacy(0, "dice", "20"))
	assert.Contains(t, b.lastEmbed().Description, "**20** (d20)")

	var bad *failure.BadArgumentError
	require.ErrorAs(t, b.legacy(0, "roll", "1"), &bad)
	require.ErrorAs(t, b.legacy(0, "roll", "0"), &bad)
	assert.Equal(t, "sides", bad.Param)

	require.NoError(t, b.legacy(0, "flip"))
	assert.Equal(t, "**Tails**", b.lastEmbed().Description)

	var missing *failure.MissingArgumentError
	require.ErrorAs(t, b.legacy(0, "8ball"), &missing)
	require.NoError(t, b.legacy(0, "8ball", "will", "it", "build?"))
	embed := b.lastEmbed()
	assert.Equal(t, "will it build?", embed.Fields[0].Value)
	assert.Equal(t, "Very doubtful.", embed.Fields[1].Value)
}

func TestFunCooldownOnSlashCommands(t *testing.T) {
	b := newBot(t)
	e, ok := b.reg.Lookup("coinflip", platform.ChannelStructured)
	require.True(t, ok)

	invoke := func(id string) error {
		i := &discordgo.Interaction{
			ID:        id,
			Type:      discordgo.InteractionApplicationCommand,
			ChannelID: "c1",
			GuildID:   "g1",
			Member:    &discordgo.Member{User: &discordgo.User{ID: authorID}},
			Data:      discordgo.ApplicationCommandInteractionData{Name: "coinflip"},
		}
		return e.Invoke(command.NewStructuredContext(context.Background(), b.s, i))
	}
	require.NoError(t, invoke("i1"))
	var cd *failure.CooldownError
	require.ErrorAs(t, invoke("i2"), &cd)
	assert.Greater(t, cd.RetryAfter, time.Duration(0))
}
