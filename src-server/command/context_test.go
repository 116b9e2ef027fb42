package command_test

import (
	"context"
	"testing"
	"time"
	"warden/src-server/command"
	"warden/src-server/failure"
	"warden/src-server/platform/platformtest"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var timeoutCmd = &command.Command{
	Name: "timeout",
	Params: []command.Param{
		{Name: "user", Type: command.ParamUser, Required: true},
		{Name: "duration", Type: command.ParamDuration, Required: true},
		{Name: "reason", Type: command.ParamString, Rest: true},
	},
	Run: noop,
}

func legacy(args ...string) *command.Context {
	msg := &discordgo.Message{ID: "10", ChannelID: "c", GuildID: "g", Author: &discordgo.User{ID: "u"}}
	c := command.NewLegacyContext(context.Background(), platformtest.New(), msg, args, 0)
	c.Command = timeoutCmd
	return c
}

func structured(s *platformtest.Session, opts ...*discordgo.ApplicationCommandInteractionDataOption) *command.Context {
	i := &discordgo.Interaction{
		ID:        "i1",
		Type:      discordgo.InteractionApplicationCommand,
		ChannelID: "c",
		GuildID:   "g",
		Member:    &discordgo.Member{User: &discordgo.User{ID: "u"}, Permissions: discordgo.PermissionModerateMembers},
		Data:      discordgo.ApplicationCommandInteractionData{Name: "timeout", Options: opts},
	}
	c := command.NewStructuredContext(context.Background(), s, i)
	c.Command = timeoutCmd
	return c
}

func TestLegacyArguments(t *testing.T) {
	c := legacy("<@!123456789012345678>", "10m", "spamming", "links")

	user, err := c.User("user")
	require.NoError(t, err)
	assert.Equal(t, "123456789012345678", user)

	d, err := c.Duration("duration")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, d)

	reason, err := c.String("reason")
	require.NoError(t, err)
	assert.Equal(t, "spamming links", reason)
	assert.True(t, c.Has("reason"))
}

func TestLegacyMissingArgument(t *testing.T) {
	c := legacy("<@123456789012345678>")
	_, err := c.Duration("duration")
	var missing *failure.MissingArgumentError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "duration", missing.Param)

	reason, err := c.String("reason")
	require.NoError(t, err, "optional params may be absent")
	assert.Empty(t, reason)
}

func TestBadArguments(t *testing.T) {
	c := legacy("someone", "soon")
	var bad *failure.BadArgumentError

	_, err := c.User("user")
	require.ErrorAs(t, err, &bad)
	assert.Equal(t, "user", bad.Param)

	_, err = c.Duration("duration")
	require.ErrorAs(t, err, &bad)
	assert.Equal(t, "duration", bad.Param)
}

func TestStructuredArguments(t *testing.T) {
	c := structured(platformtest.New(),
		&discordgo.ApplicationCommandInteractionDataOption{Name: "user", Type: discordgo.ApplicationCommandOptionUser, Value: "123456789012345678"},
	)
	assert.Equal(t, int64(discordgo.PermissionModerateMembers), c.Permissions)
	assert.Equal(t, "u", c.AuthorID())

	user, err := c.User("user")
	require.NoError(t, err)
	assert.Equal(t, "123456789012345678", user)

	_, err = c.Duration("duration")
	var missing *failure.MissingArgumentError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "duration", missing.Param)
}

func TestStructuredReplyThenFollowup(t *testing.T) {
	s := platformtest.New()
	c := structured(s)
	assert.False(t, c.Responded())

	require.NoError(t, c.ReplyText("first"))
	assert.True(t, c.Responded())
	require.NoError(t, c.ReplyEphemeral(&discordgo.MessageEmbed{Title: "second"}))

	out := s.Outbox()
	require.Len(t, out, 2)
	assert.Equal(t, "respond", out[0].Via)
	assert.Equal(t, "followup", out[1].Via)
	assert.True(t, out[1].Ephemeral)
}

func TestLegacyReplyReferencesMessage(t *testing.T) {
	s := platformtest.New()
	msg := &discordgo.Message{ID: "10", ChannelID: "c", GuildID: "g", Author: &discordgo.User{ID: "u"}}
	c := command.NewLegacyContext(context.Background(), s, msg, nil, 0)

	require.NoError(t, c.ReplyText("hi"))
	out := s.Outbox()
	require.Len(t, out, 1)
	assert.Equal(t, "c", out[0].ChannelID)
	require.NotNil(t, out[0].Reference)
	assert.Equal(t, "10", out[0].Reference.MessageID)
}
