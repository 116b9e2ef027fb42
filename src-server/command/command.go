// Package command holds the handler registry: groups of commands, the
// per-invocation Context handed to them and the guards that run first.
//
// Groups are registered once during bootstrap. After the gateway reports
// ready the registry is sealed and only read from, so lookups need no lock.
package command

import (
	"context"
	"time"
	"warden/src-server/platform"
)

type HandlerFunc func(c *Context) error

type ParamType int

const (
	ParamString ParamType = iota + 1
	ParamInteger
	ParamUser
	ParamDuration
)

// Param is a declared command argument. For legacy commands params are
// positional in declaration order; a trailing string param with Rest set
// swallows the remaining tokens.
type Param struct {
	Name        string
	Description string
	Type        ParamType
	Required    bool
	Rest        bool
}

// Cooldown allows Rate invocations per user every Per.
type Cooldown struct {
	Rate int
	Per  time.Duration
}

type Command struct {
	Name        string
	Description string
	// legacy only
	Aliases []string
	Params  []Param
	// Permissions is a discordgo permission bitset the invoker must hold.
	Permissions int64
	// Cooldown is enforced on structured invocations only.
	Cooldown *Cooldown
	// Transports limits the channels a command serves; empty means both.
	Transports []platform.ChannelKind
	Run        HandlerFunc
}

// Serves reports whether the command can be invoked through kind.
func (c *Command) Serves(kind platform.ChannelKind) bool {
	if len(c.Transports) == 0 {
		return true
	}
	for _, t := range c.Transports {
		if t == kind {
			return true
		}
	}
	return false
}

func (c *Command) param(name string) (int, *Param) {
	for i := range c.Params {
		if c.Params[i].Name == name {
			return i, &c.Params[i]
		}
	}
	return -1, nil
}

// Group owns a namespace of commands.
type Group interface {
	Name() string
	Commands() []*Command
}

// ReadyListener is implemented by groups that want a callback once the
// gateway session is ready and the registry is sealed.
type ReadyListener interface {
	OnReady(ctx context.Context, r *Registry) error
}
