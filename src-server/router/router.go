// Package router turns platform events into handler invocations.
//
// Every event kind maps to an ordered list of callbacks. The built-in
// command callbacks resolve the command, run it and, if anything goes
// wrong (including a panic), classify the failure and present exactly one
// notification. Nothing raised by a handler escapes Dispatch.
package router

import (
	"context"
	"fmt"
	"log/slog"
	"warden/src-server/command"
	"warden/src-server/failure"
	"warden/src-server/metric"
	"warden/src-server/notify"
	"warden/src-server/platform"

	"github.com/google/uuid"
)

type Callback func(ctx context.Context, ev Event) error

type Options struct {
	// Prefix starts a legacy command, e.g. "!".
	Prefix string
	// StatusText is shown as "Watching <StatusText>".
	StatusText string
	// SyncGuildID limits slash command sync to one guild; empty syncs
	// globally.
	SyncGuildID string
}

type Router struct {
	session   platform.Session
	registry  *command.Registry
	presenter *notify.Presenter
	metrics   *metric.Collector
	opts      Options
	callbacks map[EventKind][]Callback
	guilds    *guildSet
}

func New(s platform.Session, reg *command.Registry, m *metric.Collector, opts Options) *Router {
	if opts.Prefix == "" {
		opts.Prefix = "!"
	}
	r := &Router{
		session:   s,
		registry:  reg,
		presenter: notify.NewPresenter(s, m),
		metrics:   m,
		opts:      opts,
		callbacks: make(map[EventKind][]Callback),
		guilds:    newGuildSet(),
	}
	r.On(EventReady, r.onReady)
	r.On(EventGuildJoined, r.onGuildJoined)
	r.On(EventGuildLeft, r.onGuildLeft)
	r.On(EventLegacyCommand, r.onLegacyCommand)
	r.On(EventStructuredCommand, r.onStructuredCommand)
	return r
}

// On appends cb to the callbacks of kind. Call it before the session opens.
func (r *Router) On(kind EventKind, cb Callback) {
	r.callbacks[kind] = append(r.callbacks[kind], cb)
}

type dispatchIDKey struct{}

// Dispatch runs the callbacks of ev in registration order. Callback errors
// are logged, never returned.
func (r *Router) Dispatch(ctx context.Context, ev Event) {
	id := uuid.NewString()
	ctx = context.WithValue(ctx, dispatchIDKey{}, id)
	log := logger(ctx).With("event", ev.Kind().String())

	for _, cb := range r.callbacks[ev.Kind()] {
		if err := safeCall(func() error { return cb(ctx, ev) }); err != nil {
			log.Error("event callback failed", "error", err)
		}
	}
}

func logger(ctx context.Context) *slog.Logger {
	if id, ok := ctx.Value(dispatchIDKey{}).(string); ok {
		return slog.Default().With("dispatch_id", id)
	}
	return slog.Default()
}

// safeCall turns a panic in fn into an error.
func safeCall(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return fn()
}

func (r *Router) onReady(ctx context.Context, ev Event) error {
	e := ev.(Ready)
	log := logger(ctx)
	log.Info("logged in", "username", e.Username, "application_id", e.ApplicationID, "guilds", len(e.GuildIDs))

	if err := r.session.UpdateWatchStatus(0, r.opts.StatusText); err != nil {
		log.Warn("can't set presence", "error", err)
	}

	r.registry.Seal()
	for _, g := range r.registry.Groups() {
		l, ok := g.(command.ReadyListener)
		if !ok {
			continue
		}
		if err := safeCall(func() error { return l.OnReady(ctx, r.registry) }); err != nil {
			log.Error("group ready hook failed", "group", g.Name(), "error", err)
		}
	}

	synced, err := r.session.ApplicationCommandBulkOverwrite(e.ApplicationID, r.opts.SyncGuildID, r.registry.Definitions())
	if err != nil {
		log.Error("can't sync slash commands, only legacy commands will work", "error", err)
		return nil
	}
	log.Info("slash commands synced", "count", len(synced), "guild_id", r.opts.SyncGuildID)
	return nil
}

func (r *Router) onGuildJoined(ctx context.Context, ev Event) error {
	e := ev.(GuildJoined)
	logger(ctx).Info("joined guild", "guild_id", e.GuildID, "name", e.Name)
	return nil
}

func (r *Router) onGuildLeft(ctx context.Context, ev Event) error {
	e := ev.(GuildLeft)
	logger(ctx).Info("left guild", "guild_id", e.GuildID, "name", e.Name)
	return nil
}

func (r *Router) onLegacyCommand(ctx context.Context, ev Event) error {
	e := ev.(LegacyCommandInvoked)
	c := command.NewLegacyContext(ctx, r.session, e.Message, e.Args, e.Permissions)
	d := &notify.Delivery{
		Kind:      platform.ChannelLegacy,
		ChannelID: e.Message.ChannelID,
		Reference: e.Message.Reference(),
	}
	r.run(ctx, e.Name, c, d)
	return nil
}

func (r *Router) onStructuredCommand(ctx context.Context, ev Event) error {
	e := ev.(StructuredCommandInvoked)
	c := command.NewStructuredContext(ctx, r.session, e.Interaction)
	d := &notify.Delivery{
		Kind:        platform.ChannelStructured,
		ChannelID:   e.Interaction.ChannelID,
		Interaction: e.Interaction,
	}
	r.run(ctx, e.Interaction.ApplicationCommandData().Name, c, d)
	return nil
}

// run resolves and invokes name. A failure is reported once through d.
func (r *Router) run(ctx context.Context, name string, c *command.Context, d *notify.Delivery) {
	log := logger(ctx).With("command", name, "channel", c.Kind.String(), "user_id", c.AuthorID())

	var err error
	if entry, ok := r.registry.Lookup(name, c.Kind); !ok {
		err = &failure.CommandNotFoundError{Name: name}
	} else {
		r.metrics.CommandDispatched(c.Kind.String())
		err = safeCall(func() error { return entry.Invoke(c) })
	}
	if err == nil {
		log.Debug("command done")
		return
	}

	kind, payload := failure.Normalize(err, c.Kind)
	r.metrics.CommandFailed(c.Kind.String(), kind.Kind.String())
	log.Info("command failed", "kind", kind.Kind.String(), "error", err)

	d.Responded = c.Responded()
	if res := r.presenter.Present(payload, d); res == notify.ResultDropped {
		log.Warn("failure notification dropped", "kind", kind.Kind.String())
	}
}
