package command

import (
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"
	"warden/src-server/platform"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/text/cases"
)

var ErrSealed = errors.New("registry is sealed")

// DuplicateCommandError is returned when two groups claim the same name on
// the same channel kind.
type DuplicateCommandError struct {
	Name    string
	Channel platform.ChannelKind
	Owner   string
	Claimer string
}

func (e *DuplicateCommandError) Error() string {
	return fmt.Sprintf("%s command %q of group %q is already owned by group %q", e.Channel, e.Name, e.Claimer, e.Owner)
}

// Entry is a resolved command together with the group owning it.
type Entry struct {
	Group   Group
	Command *Command
	run     HandlerFunc
}

// Invoke runs the command behind its guards.
func (e *Entry) Invoke(c *Context) error {
	c.Command = e.Command
	return e.run(c)
}

type Registry struct {
	groups   []Group
	commands map[platform.ChannelKind]map[string]*Entry
	sealed   atomic.Bool
	now      func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		commands: map[platform.ChannelKind]map[string]*Entry{
			platform.ChannelLegacy:     make(map[string]*Entry),
			platform.ChannelStructured: make(map[string]*Entry),
		},
		now: time.Now,
	}
}

// Fold normalizes a command name for case-insensitive lookup.
func Fold(name string) string {
	// a Caser is stateful, don't share it
	return cases.Fold().String(name)
}

// Register adds every command of g. Nothing is added if any name collides.
func (r *Registry) Register(g Group) error {
	if r.sealed.Load() {
		return ErrSealed
	}

	type claim struct {
		kind platform.ChannelKind
		key  string
		cmd  *Command
	}
	var claims []claim
	seen := make(map[platform.ChannelKind]map[string]bool)
	for _, cmd := range g.Commands() {
		if cmd.Name == "" || cmd.Run == nil {
			return fmt.Errorf("Register: group %q has a command without name or handler", g.Name())
		}
		for _, kind := range []platform.ChannelKind{platform.ChannelLegacy, platform.ChannelStructured} {
			if !cmd.Serves(kind) {
				continue
			}
			names := []string{cmd.Name}
			if kind == platform.ChannelLegacy {
				names = append(names, cmd.Aliases...)
			}
			for _, name := range names {
				key := Fold(name)
				if owner, ok := r.commands[kind][key]; ok {
					return &DuplicateCommandError{Name: name, Channel: kind, Owner: owner.Group.Name(), Claimer: g.Name()}
				}
				if seen[kind] == nil {
					seen[kind] = make(map[string]bool)
				}
				if seen[kind][key] {
					return &DuplicateCommandError{Name: name, Channel: kind, Owner: g.Name(), Claimer: g.Name()}
				}
				seen[kind][key] = true
				claims = append(claims, claim{kind: kind, key: key, cmd: cmd})
			}
		}
	}

	entries := make(map[*Command]*Entry)
	for _, c := range claims {
		e, ok := entries[c.cmd]
		if !ok {
			e = &Entry{
				Group:   g,
				Command: c.cmd,
				run: Apply(c.cmd.Run,
					RequirePermissions(c.cmd.Permissions),
					WithCooldown(c.cmd.Cooldown, r.now),
				),
			}
			entries[c.cmd] = e
		}
		r.commands[c.kind][c.key] = e
	}
	r.groups = append(r.groups, g)
	return nil
}

// Lookup resolves name on the given channel kind.
func (r *Registry) Lookup(name string, kind platform.ChannelKind) (*Entry, bool) {
	byName, ok := r.commands[kind]
	if !ok {
		return nil, false
	}
	e, ok := byName[Fold(name)]
	return e, ok
}

// Seal makes the registry read-only.
func (r *Registry) Seal() { r.sealed.Store(true) }

func (r *Registry) Sealed() bool { return r.sealed.Load() }

func (r *Registry) Groups() []Group {
	return append([]Group(nil), r.groups...)
}

// Entries returns the distinct commands serving kind, sorted by name.
func (r *Registry) Entries(kind platform.ChannelKind) []*Entry {
	seen := make(map[*Entry]bool)
	list := make([]*Entry, 0, len(r.commands[kind]))
	for _, e := range r.commands[kind] {
		if seen[e] {
			continue
		}
		seen[e] = true
		list = append(list, e)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Command.Name < list[j].Command.Name
	})
	return list
}

// Definitions is the structured command schema sent to Discord.
func (r *Registry) Definitions() []*discordgo.ApplicationCommand {
	var defs []*discordgo.ApplicationCommand
	for _, e := range r.Entries(platform.ChannelStructured) {
		defs = append(defs, definition(e.Command))
	}
	return defs
}

func definition(cmd *Command) *discordgo.ApplicationCommand {
	def := &discordgo.ApplicationCommand{
		Name:        cmd.Name,
		Description: cmd.Description,
	}
	if cmd.Permissions != 0 {
		perms := cmd.Permissions
		def.DefaultMemberPermissions = &perms
	}
	for _, p := range cmd.Params {
		opt := &discordgo.ApplicationCommandOption{
			Name:        p.Name,
			Description: p.Description,
			Required:    p.Required,
		}
		switch p.Type {
		case ParamInteger:
			opt.Type = discordgo.ApplicationCommandOptionInteger
		case ParamUser:
			opt.Type = discordgo.ApplicationCommandOptionUser
		default:
			opt.Type = discordgo.ApplicationCommandOptionString
		}
		def.Options = append(def.Options, opt)
	}
	return def
}
