package handler

import (
	"fmt"
	"strconv"
	"time"
	"warden/src-server/command"
	"warden/src-server/failure"

	"github.com/bwmarrin/discordgo"
)

const (
	moderationColor = 0xe67e22
	// Discord rejects timeouts longer than 28 days
	maxTimeout = 28 * 24 * time.Hour
	// bulk delete accepts 2 to 100 messages
	maxClear = 100
)

type Moderation struct{}

func (Moderation) Name() string { return "moderation" }

func (m Moderation) Commands() []*command.Command {
	userParam := command.Param{Name: "user", Description: "The member.", Type: command.ParamUser, Required: true}
	reasonParam := command.Param{Name: "reason", Description: "Shown in the audit log.", Type: command.ParamString, Rest: true}

	return []*command.Command{
		{
			Name:        "kick",
			Description: "Kick a member from the server.",
			Params:      []command.Param{userParam, reasonParam},
			Permissions: discordgo.PermissionKickMembers,
			Run:         m.kick,
		},
		{
			Name:        "ban",
			Description: "Ban a member from the server.",
			Params:      []command.Param{userParam, reasonParam},
			Permissions: discordgo.PermissionBanMembers,
			Run:         m.ban,
		},
		{
			Name:        "timeout",
			Description: "Time out a member, e.g. 10m or 1h30m.",
			Aliases:     []string{"mute"},
			Params: []command.Param{
				userParam,
				{Name: "duration", Description: "How long, e.g. 10m.", Type: command.ParamDuration, Required: true},
				reasonParam,
			},
			Permissions: discordgo.PermissionModerateMembers,
			Run:         m.timeout,
		},
		{
			Name:        "clear",
			Description: "Delete the latest messages of this channel.",
			Aliases:     []string{"purge"},
			Params: []command.Param{
				{Name: "amount", Description: "How many, 1 to 100.", Type: command.ParamInteger, Required: true},
			},
			Permissions: discordgo.PermissionManageMessages,
			Run:         m.clear,
		},
	}
}

func (Moderation) target(c *command.Context) (userID, reason string, err error) {
	if userID, err = c.User("user"); err != nil {
		return "", "", err
	}
	if reason, err = c.String("reason"); err != nil {
		return "", "", err
	}
	if reason == "" {
		reason = "No reason given"
	}
	if userID == c.AuthorID() {
		return "", "", &failure.BadArgumentError{Param: "user", Value: userID}
	}
	return userID, reason, nil
}

func (m Moderation) kick(c *command.Context) error {
	userID, reason, err := m.target(c)
	if err != nil {
		return err
	}
	if err := c.Session.GuildMemberDeleteWithReason(c.GuildID, userID, reason); err != nil {
		return fmt.Errorf("kick: can't remove member: %w", err)
	}
	return c.Reply(moderationEmbed("👢 Member kicked", userID, reason))
}

func (m Moderation) ban(c *command.Context) error {
	userID, reason, err := m.target(c)
	if err != nil {
		return err
	}
	if err := c.Session.GuildBanCreateWithReason(c.GuildID, userID, reason, 0); err != nil {
		return fmt.Errorf("ban: can't ban member: %w", err)
	}
	return c.Reply(moderationEmbed("🔨 Member banned", userID, reason))
}

func (m Moderation) timeout(c *command.Context) error {
	userID, err := c.User("user")
	if err != nil {
		return err
	}
	d, err := c.Duration("duration")
	if err != nil {
		return err
	}
	if d > maxTimeout {
		return &failure.BadArgumentError{Param: "duration", Value: d.String()}
	}
	reason, err := c.String("reason")
	if err != nil {
		return err
	}
	if reason == "" {
		reason = "No reason given"
	}

	until := time.Now().Add(d)
	if err := c.Session.GuildMemberTimeout(c.GuildID, userID, &until); err != nil {
		return fmt.Errorf("timeout: can't time out member: %w", err)
	}
	embed := moderationEmbed("🔇 Member timed out", userID, reason)
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "Until",
		Value:  fmt.Sprintf("<t:%d:R>", until.Unix()),
		Inline: true,
	})
	return c.Reply(embed)
}

func (Moderation) clear(c *command.Context) error {
	amount, err := c.Int("amount")
	if err != nil {
		return err
	}
	if amount < 1 || amount > maxClear {
		return &failure.BadArgumentError{Param: "amount", Value: strconv.FormatInt(amount, 10)}
	}

	msgs, err := c.Session.ChannelMessages(c.ChannelID, int(amount), "", "", "")
	if err != nil {
		return fmt.Errorf("clear: can't list messages: %w", err)
	}
	ids := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		ids = append(ids, msg.ID)
	}
	if len(ids) > 0 {
		if err := c.Session.ChannelMessagesBulkDelete(c.ChannelID, ids); err != nil {
			return fmt.Errorf("clear: can't delete messages: %w", err)
		}
	}
	return c.ReplyEphemeral(&discordgo.MessageEmbed{
		Title:       "🧹 Messages deleted",
		Description: fmt.Sprintf("%d messages deleted.", len(ids)),
		Color:       moderationColor,
	})
}

func moderationEmbed(title, userID, reason string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: title,
		Color: moderationColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Member", Value: "<@" + userID + ">", Inline: true},
			{Name: "Reason", Value: reason, Inline: true},
		},
	}
}
