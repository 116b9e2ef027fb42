package handler

import (
	"fmt"
	"warden/src-server/command"
	"warden/src-server/platform"

	"github.com/bwmarrin/discordgo"
)

type Admin struct{}

func (Admin) Name() string { return "admin" }

func (a Admin) Commands() []*command.Command {
	return []*command.Command{
		{
			Name:        "say",
			Description: "Make the bot say something in this channel.",
			Params: []command.Param{
				{Name: "text", Description: "What to say.", Type: command.ParamString, Required: true, Rest: true},
			},
			Permissions: discordgo.PermissionAdministrator,
			Run:         a.say,
		},
	}
}

func (Admin) say(c *command.Context) error {
	text, err := c.String("text")
	if err != nil {
		return err
	}
	if c.Kind == platform.ChannelLegacy {
		if _, err := c.Session.ChannelMessageSendComplex(c.ChannelID, &discordgo.MessageSend{
			Content:         text,
			AllowedMentions: &discordgo.MessageAllowedMentions{},
		}); err != nil {
			return fmt.Errorf("say: can't send message: %w", err)
		}
		return nil
	}
	return c.ReplyText(text)
}
