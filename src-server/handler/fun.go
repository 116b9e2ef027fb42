package handler

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"
	"warden/src-server/command"
	"warden/src-server/failure"

	"github.com/bwmarrin/discordgo"
)

const funColor = 0x9b59b6

var eightBallAnswers = []string{
	"It is certain.",
	"Without a doubt.",
	"Yes, definitely.",
	"Most likely.",
	"Ask again later.",
	"Cannot predict now.",
	"Don't count on it.",
	"My sources say no.",
	"Very doubtful.",
}

type Fun struct {
	// Intn returns a number in [0, n); math/rand when nil.
	Intn func(n int) int
}

func (Fun) Name() string { return "fun" }

func (f Fun) Commands() []*command.Command {
	cooldown := &command.Cooldown{Rate: 1, Per: 3 * time.Second}
	return []*command.Command{
		{
			Name:        "roll",
			Description: "Roll a die.",
			Aliases:     []string{"dice"},
			Params: []command.Param{
				{Name: "sides", Description: "Number of sides, default 6.", Type: command.ParamInteger},
			},
			Cooldown: cooldown,
			Run:      f.roll,
		},
		{
			Name:        "coinflip",
			Description: "Flip a coin.",
			Aliases:     []string{"flip"},
			Cooldown:    cooldown,
			Run:         f.coinflip,
		},
		{
			Name:        "8ball",
			Description: "Ask the magic 8-ball.",
			Params: []command.Param{
				{Name: "question", Description: "Your question.", Type: command.ParamString, Required: true, Rest: true},
			},
			Cooldown: cooldown,
			Run:      f.eightBall,
		},
	}
}

func (f Fun) intn(n int) int {
	if f.Intn != nil {
		return f.Intn(n)
	}
	return rand.IntN(n)
}

func (f Fun) roll(c *command.Context) error {
	sides, err := c.Int("sides")
	if err != nil {
		return err
	}
	if !c.Has("sides") {
		sides = 6
	}
	if sides < 2 || sides > 1000 {
		return &failure.BadArgumentError{Param: "sides", Value: strconv.FormatInt(sides, 10)}
	}
	return c.Reply(&discordgo.MessageEmbed{
		Title:       "🎲 Roll",
		Description: fmt.Sprintf("You rolled **%d** (d%d).", f.intn(int(sides))+1, sides),
		Color:       funColor,
	})
}

func (f Fun) coinflip(c *command.Context) error {
	side := "Heads"
	if f.intn(2) == 1 {
		side = "Tails"
	}
	return c.Reply(&discordgo.MessageEmbed{
		Title:       "🪙 Coin flip",
		Description: "**" + side + "**",
		Color:       funColor,
	})
}

func (f Fun) eightBall(c *command.Context) error {
	question, err := c.String("question")
	if err != nil {
		return err
	}
	return c.Reply(&discordgo.MessageEmbed{
		Title: "🎱 Magic 8-ball",
		Color: funColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Question", Value: question},
			{Name: "Answer", Value: eightBallAnswers[f.intn(len(eightBallAnswers))]},
		},
	})
}
