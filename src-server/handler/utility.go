package handler

import (
	"fmt"
	"warden/src-server/command"

	"github.com/bwmarrin/discordgo"
)

type Utility struct{}

func (Utility) Name() string { return "utility" }

func (u Utility) Commands() []*command.Command {
	userParam := command.Param{Name: "user", Description: "Defaults to you.", Type: command.ParamUser}
	return []*command.Command{
		{
			Name:        "userinfo",
			Description: "Show information about a user.",
			Params:      []command.Param{userParam},
			Run:         u.userinfo,
		},
		{
			Name:        "serverinfo",
			Description: "Show information about this server.",
			Run:         u.serverinfo,
		},
		{
			Name:        "avatar",
			Description: "Show a user's avatar.",
			Params:      []command.Param{userParam},
			Run:         u.avatar,
		},
	}
}

// user resolves the optional user param, falling back to the invoker.
func (Utility) user(c *command.Context) (*discordgo.User, error) {
	userID, err := c.User("user")
	if err != nil {
		return nil, err
	}
	if userID == "" || userID == c.AuthorID() {
		if c.Author != nil {
			return c.Author, nil
		}
	}
	user, err := c.Session.User(userID)
	if err != nil {
		return nil, fmt.Errorf("can't fetch user %s: %w", userID, err)
	}
	return user, nil
}

func (u Utility) userinfo(c *command.Context) error {
	user, err := u.user(c)
	if err != nil {
		return err
	}
	fields := []*discordgo.MessageEmbedField{
		{Name: "ID", Value: user.ID, Inline: true},
		{Name: "Bot", Value: fmt.Sprintf("%t", user.Bot), Inline: true},
	}
	if created, err := discordgo.SnowflakeTimestamp(user.ID); err == nil {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "Account created",
			Value: fmt.Sprintf("<t:%d:D>", created.Unix()),
		})
	}
	return c.Reply(&discordgo.MessageEmbed{
		Title:     user.Username,
		Color:     embedColor,
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: user.AvatarURL("256")},
		Fields:    fields,
	})
}

func (Utility) serverinfo(c *command.Context) error {
	if c.GuildID == "" {
		return c.ReplyEphemeral(&discordgo.MessageEmbed{
			Title:       "Server info",
			Description: "This command only works in a server.",
			Color:       embedColor,
		})
	}
	guild, err := c.Session.Guild(c.GuildID)
	if err != nil {
		return fmt.Errorf("serverinfo: can't fetch guild: %w", err)
	}
	fields := []*discordgo.MessageEmbedField{
		{Name: "Owner", Value: "<@" + guild.OwnerID + ">", Inline: true},
		{Name: "Members", Value: fmt.Sprintf("%d", guild.MemberCount), Inline: true},
	}
	if created, err := discordgo.SnowflakeTimestamp(guild.ID); err == nil {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "Created",
			Value: fmt.Sprintf("<t:%d:D>", created.Unix()),
		})
	}
	return c.Reply(&discordgo.MessageEmbed{
		Title:     guild.Name,
		Color:     embedColor,
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: guild.IconURL("256")},
		Fields:    fields,
	})
}

func (u Utility) avatar(c *command.Context) error {
	user, err := u.user(c)
	if err != nil {
		return err
	}
	return c.Reply(&discordgo.MessageEmbed{
		Title: user.Username,
		Color: embedColor,
		Image: &discordgo.MessageEmbedImage{URL: user.AvatarURL("1024")},
	})
}
