package router

import (
	"context"
	"log/slog"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Attach subscribes the router to the gateway events of s.
func (r *Router) Attach(s *discordgo.Session) {
	s.AddHandler(func(s *discordgo.Session, e *discordgo.Ready) {
		r.handleReady(e)
	})

	s.AddHandler(func(s *discordgo.Session, e *discordgo.GuildCreate) {
		r.handleGuildCreate(e.Guild)
	})

	s.AddHandler(func(s *discordgo.Session, e *discordgo.GuildDelete) {
		r.handleGuildDelete(e)
	})

	s.AddHandler(func(s *discordgo.Session, e *discordgo.MessageCreate) {
		var selfID string
		if s.State != nil && s.State.User != nil {
			selfID = s.State.User.ID
		}
		if !shouldHandleMessage(selfID, e.Message) {
			return
		}
		r.handleMessage(e.Message, channelPermissions(s.State, e.Message))
	})

	s.AddHandler(func(s *discordgo.Session, e *discordgo.InteractionCreate) {
		if e.Type != discordgo.InteractionApplicationCommand {
			slog.Debug("ignoring interaction", "type", int(e.Type))
			return
		}
		r.Dispatch(context.Background(), StructuredCommandInvoked{Interaction: e.Interaction})
	})
}

func (r *Router) handleReady(e *discordgo.Ready) {
	ev := Ready{}
	if e.User != nil {
		ev.ApplicationID, ev.Username = e.User.ID, e.User.Username
	}
	if e.Application != nil && e.Application.ID != "" {
		ev.ApplicationID = e.Application.ID
	}
	for _, g := range e.Guilds {
		ev.GuildIDs = append(ev.GuildIDs, g.ID)
	}
	// guilds listed here show up again as GUILD_CREATE while lazy loading
	r.guilds.reset(ev.GuildIDs)
	r.Dispatch(context.Background(), ev)
}

func (r *Router) handleGuildCreate(g *discordgo.Guild) {
	if g == nil || !r.guilds.add(g.ID) {
		return
	}
	r.Dispatch(context.Background(), GuildJoined{GuildID: g.ID, Name: g.Name})
}

func (r *Router) handleGuildDelete(e *discordgo.GuildDelete) {
	ev, ok := guildLeft(e)
	if !ok {
		slog.Warn("guild became unavailable", "guild_id", e.ID)
		return
	}
	r.guilds.remove(ev.GuildID)
	r.Dispatch(context.Background(), ev)
}

func (r *Router) handleMessage(m *discordgo.Message, perms int64) {
	name, args, ok := ParseLegacy(m.Content, r.opts.Prefix)
	if !ok {
		return
	}
	r.Dispatch(context.Background(), LegacyCommandInvoked{
		Message:     m,
		Name:        name,
		Args:        args,
		Permissions: perms,
	})
}

// guildLeft reports false for outages, where the guild is only unavailable.
func guildLeft(e *discordgo.GuildDelete) (GuildLeft, bool) {
	if e == nil || e.Guild == nil || e.Unavailable {
		return GuildLeft{}, false
	}
	ev := GuildLeft{GuildID: e.ID, Name: e.Name}
	if ev.Name == "" && e.BeforeDelete != nil {
		ev.Name = e.BeforeDelete.Name
	}
	return ev, true
}

// shouldHandleMessage drops messages of bots, including our own.
func shouldHandleMessage(selfID string, m *discordgo.Message) bool {
	if m == nil || m.Author == nil || m.Author.Bot {
		return false
	}
	return selfID == "" || m.Author.ID != selfID
}

// channelPermissions resolves the author's permissions from the state
// cache. DMs and cache misses resolve to no permissions.
func channelPermissions(st *discordgo.State, m *discordgo.Message) int64 {
	if m.GuildID == "" || st == nil || m.Author == nil {
		return 0
	}
	perms, err := st.UserChannelPermissions(m.Author.ID, m.ChannelID)
	if err != nil {
		slog.Debug("can't resolve permissions from state", "user_id", m.Author.ID, "channel_id", m.ChannelID, "error", err)
		return 0
	}
	return perms
}

// guildSet tracks the guilds we are in. discordgo runs handlers in their own
// goroutines, so GUILD_CREATEs of the guilds listed in Ready may be handled
// before Ready itself; until the first reset no guild counts as joined.
type guildSet struct {
	mu     sync.Mutex
	ids    map[string]bool
	primed bool
}

func newGuildSet() *guildSet {
	return &guildSet{ids: make(map[string]bool)}
}

func (g *guildSet) reset(ids []string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ids = make(map[string]bool, len(ids))
	for _, id := range ids {
		g.ids[id] = true
	}
	g.primed = true
}

// add reports whether id is a newly joined guild.
func (g *guildSet) add(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ids[id] {
		return false
	}
	g.ids[id] = true
	return g.primed
}

func (g *guildSet) remove(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.ids, id)
}
