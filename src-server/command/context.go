package command

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"warden/src-server/failure"
	"warden/src-server/platform"

	"github.com/bwmarrin/discordgo"
)

// Context is what a command sees of the invocation that triggered it.
type Context struct {
	Ctx         context.Context
	Session     platform.Session
	Kind        platform.ChannelKind
	Command     *Command
	GuildID     string
	ChannelID   string
	Author      *discordgo.User
	Permissions int64

	// legacy only
	Message *discordgo.Message
	Args    []string

	// structured only
	Interaction *discordgo.Interaction
	options     map[string]*discordgo.ApplicationCommandInteractionDataOption

	responded bool
}

// NewLegacyContext builds the context of a prefixed text command. perms are
// the author's resolved permissions in the message's channel.
func NewLegacyContext(ctx context.Context, s platform.Session, m *discordgo.Message, args []string, perms int64) *Context {
	return &Context{
		Ctx:         ctx,
		Session:     s,
		Kind:        platform.ChannelLegacy,
		GuildID:     m.GuildID,
		ChannelID:   m.ChannelID,
		Author:      m.Author,
		Permissions: perms,
		Message:     m,
		Args:        args,
	}
}

// NewStructuredContext builds the context of a slash command interaction.
func NewStructuredContext(ctx context.Context, s platform.Session, i *discordgo.Interaction) *Context {
	c := &Context{
		Ctx:         ctx,
		Session:     s,
		Kind:        platform.ChannelStructured,
		GuildID:     i.GuildID,
		ChannelID:   i.ChannelID,
		Interaction: i,
		options:     make(map[string]*discordgo.ApplicationCommandInteractionDataOption),
	}
	switch {
	case i.Member != nil:
		c.Author = i.Member.User
		c.Permissions = i.Member.Permissions
	case i.User != nil:
		c.Author = i.User
	}
	if i.Type == discordgo.InteractionApplicationCommand {
		for _, opt := range i.ApplicationCommandData().Options {
			c.options[opt.Name] = opt
		}
	}
	return c
}

func (c *Context) AuthorID() string {
	if c.Author == nil {
		return ""
	}
	return c.Author.ID
}

// Responded reports whether something was already sent for this invocation.
// For structured commands it means the initial interaction response is used
// up and further messages must be follow-ups.
func (c *Context) Responded() bool { return c.responded }

// Reply sends embed to where the command came from.
func (c *Context) Reply(embed *discordgo.MessageEmbed) error {
	return c.send("", embed, false)
}

// ReplyEphemeral is Reply, visible only to the invoker on structured
// commands. Legacy commands have no such thing and reply normally.
func (c *Context) ReplyEphemeral(embed *discordgo.MessageEmbed) error {
	return c.send("", embed, true)
}

func (c *Context) ReplyText(content string) error {
	return c.send(content, nil, false)
}

func (c *Context) send(content string, embed *discordgo.MessageEmbed, ephemeral bool) error {
	var embeds []*discordgo.MessageEmbed
	if embed != nil {
		embeds = []*discordgo.MessageEmbed{embed}
	}

	switch c.Kind {
	case platform.ChannelLegacy:
		data := &discordgo.MessageSend{Content: content, Embeds: embeds}
		if c.Message != nil {
			data.Reference = c.Message.Reference()
		}
		if _, err := c.Session.ChannelMessageSendComplex(c.ChannelID, data); err != nil {
			return fmt.Errorf("Reply: can't send message: %w", err)
		}
	case platform.ChannelStructured:
		var flags discordgo.MessageFlags
		if ephemeral {
			flags = discordgo.MessageFlagsEphemeral
		}
		if !c.responded {
			if err := c.Session.InteractionRespond(c.Interaction, &discordgo.InteractionResponse{
				Type: discordgo.InteractionResponseChannelMessageWithSource,
				Data: &discordgo.InteractionResponseData{
					Content: content,
					Embeds:  embeds,
					Flags:   flags,
				},
			}); err != nil {
				return fmt.Errorf("Reply: can't respond: %w", err)
			}
		} else if _, err := c.Session.FollowupMessageCreate(c.Interaction, true, &discordgo.WebhookParams{
			Content: content,
			Embeds:  embeds,
			Flags:   flags,
		}); err != nil {
			return fmt.Errorf("Reply: can't send followup: %w", err)
		}
	default:
		return fmt.Errorf("Reply: unknown channel kind %d", c.Kind)
	}
	c.responded = true
	return nil
}

// lookup returns the raw value of a declared param, if given.
func (c *Context) lookup(name string) (string, bool) {
	if c.Command == nil {
		return "", false
	}
	idx, p := c.Command.param(name)
	if p == nil {
		return "", false
	}

	if c.Kind == platform.ChannelStructured {
		opt, ok := c.options[name]
		if !ok || opt.Value == nil {
			return "", false
		}
		switch v := opt.Value.(type) {
		case string:
			return v, true
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), true
		default:
			return fmt.Sprint(v), true
		}
	}

	if idx >= len(c.Args) {
		return "", false
	}
	if p.Rest {
		return strings.Join(c.Args[idx:], " "), true
	}
	return c.Args[idx], true
}

func (c *Context) required(name string) (string, bool, error) {
	v, ok := c.lookup(name)
	if ok {
		return v, true, nil
	}
	if c.Command != nil {
		if _, p := c.Command.param(name); p != nil && p.Required {
			return "", false, &failure.MissingArgumentError{Param: name}
		}
	}
	return "", false, nil
}

// Has reports whether the invoker gave a value for name.
func (c *Context) Has(name string) bool {
	_, ok := c.lookup(name)
	return ok
}

// String returns the param value. An absent optional param is "".
func (c *Context) String(name string) (string, error) {
	v, _, err := c.required(name)
	return v, err
}

// Int returns the param as an integer. An absent optional param is 0.
func (c *Context) Int(name string) (int64, error) {
	v, ok, err := c.required(name)
	if err != nil || !ok {
		return 0, err
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, &failure.BadArgumentError{Param: name, Value: v, Err: err}
	}
	return n, nil
}

var mentionRe = regexp.MustCompile(`^<@!?(\d+)>$`)
var snowflakeRe = regexp.MustCompile(`^\d{15,21}$`)

// User returns the ID of the user given as a mention or a raw ID. An absent
// optional param is "".
func (c *Context) User(name string) (string, error) {
	v, ok, err := c.required(name)
	if err != nil || !ok {
		return "", err
	}
	if m := mentionRe.FindStringSubmatch(v); m != nil {
		return m[1], nil
	}
	if snowflakeRe.MatchString(v) {
		return v, nil
	}
	return "", &failure.BadArgumentError{Param: name, Value: v}
}

// Duration parses values like "90s", "10m" or "1h30m". An absent optional
// param is 0.
func (c *Context) Duration(name string) (time.Duration, error) {
	v, ok, err := c.required(name)
	if err != nil || !ok {
		return 0, err
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, &failure.BadArgumentError{Param: name, Value: v, Err: err}
	}
	if d <= 0 {
		return 0, &failure.BadArgumentError{Param: name, Value: v}
	}
	return d, nil
}
