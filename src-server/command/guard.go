package command

import (
	"sync"
	"time"
	"warden/src-server/failure"
	"warden/src-server/platform"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"
)

// Middleware wraps a handler, e.g. with a permission check.
type Middleware func(HandlerFunc) HandlerFunc

// Apply wraps run with mws; the first middleware is the outermost.
func Apply(run HandlerFunc, mws ...Middleware) HandlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			run = mws[i](run)
		}
	}
	return run
}

// RequirePermissions rejects invokers lacking any bit of required.
// Administrator implies every permission.
func RequirePermissions(required int64) Middleware {
	if required == 0 {
		return nil
	}
	return func(next HandlerFunc) HandlerFunc {
		return func(c *Context) error {
			if c.Permissions&discordgo.PermissionAdministrator != 0 {
				return next(c)
			}
			if missing := required &^ c.Permissions; missing != 0 {
				return &failure.MissingPermissionsError{Missing: missing}
			}
			return next(c)
		}
	}
}

// WithCooldown limits structured invocations per user. Legacy invocations
// pass through untouched.
func WithCooldown(cd *Cooldown, now func() time.Time) Middleware {
	if cd == nil || cd.Rate <= 0 || cd.Per <= 0 {
		return nil
	}
	b := &buckets{
		limit: rate.Every(cd.Per / time.Duration(cd.Rate)),
		burst: cd.Rate,
		users: make(map[string]*rate.Limiter),
		now:   now,
	}
	return func(next HandlerFunc) HandlerFunc {
		return func(c *Context) error {
			if c.Kind != platform.ChannelStructured {
				return next(c)
			}
			if wait := b.take(c.AuthorID()); wait > 0 {
				return &failure.CooldownError{RetryAfter: wait}
			}
			return next(c)
		}
	}
}

type buckets struct {
	mu    sync.Mutex
	limit rate.Limit
	burst int
	users map[string]*rate.Limiter
	now   func() time.Time
}

// take consumes one token for userID, or returns how long until one is
// available without consuming anything.
func (b *buckets) take(userID string) time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	lim, ok := b.users[userID]
	if !ok {
		lim = rate.NewLimiter(b.limit, b.burst)
		b.users[userID] = lim
	}
	now := b.now()
	r := lim.ReserveN(now, 1)
	delay := r.DelayFrom(now)
	if delay > 0 {
		r.CancelAt(now)
	}
	return delay
}
