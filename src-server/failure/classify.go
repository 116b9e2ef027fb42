// Package failure turns anything a command can fail with into one of a
// closed set of error kinds, and each kind into the notification shown to
// the invoker.
package failure

import (
	"errors"
	"warden/src-server/platform"
)

type Kind int

const (
	KindCommandNotFound Kind = iota + 1
	KindMissingPermissions
	KindMissingRequiredArgument
	KindBadArgument
	KindOnCooldown
	KindUnexpected
)

func (k Kind) String() string {
	switch k {
	case KindCommandNotFound:
		return "command_not_found"
	case KindMissingPermissions:
		return "missing_permissions"
	case KindMissingRequiredArgument:
		return "missing_required_argument"
	case KindBadArgument:
		return "bad_argument"
	case KindOnCooldown:
		return "on_cooldown"
	case KindUnexpected:
		return "unexpected"
	default:
		return "unknown"
	}
}

// ErrorKind is the classified form of a failure. Only the field belonging to
// Kind is set: Param for KindMissingRequiredArgument, RetryAfter (seconds)
// for KindOnCooldown, Detail for KindUnexpected.
type ErrorKind struct {
	Kind       Kind
	Param      string
	RetryAfter float64
	Detail     string
}

func CommandNotFound() ErrorKind { return ErrorKind{Kind: KindCommandNotFound} }

func MissingPermissions() ErrorKind { return ErrorKind{Kind: KindMissingPermissions} }

func MissingRequiredArgument(param string) ErrorKind {
	return ErrorKind{Kind: KindMissingRequiredArgument, Param: param}
}

func BadArgument() ErrorKind { return ErrorKind{Kind: KindBadArgument} }

func OnCooldown(retryAfterSeconds float64) ErrorKind {
	return ErrorKind{Kind: KindOnCooldown, RetryAfter: retryAfterSeconds}
}

func Unexpected(detail string) ErrorKind {
	return ErrorKind{Kind: KindUnexpected, Detail: detail}
}

// Classify maps err to exactly one ErrorKind. Rules are tried in order and
// the first match wins; cooldowns are only recognized on the structured
// channel, a legacy cooldown is unexpected.
func Classify(err error, channel platform.ChannelKind) ErrorKind {
	var (
		notFound   *CommandNotFoundError
		permission *MissingPermissionsError
		missing    *MissingArgumentError
		bad        *BadArgumentError
		cooldown   *CooldownError
	)
	switch {
	case err == nil:
		return Unexpected("nil error")
	case errors.As(err, &notFound):
		return CommandNotFound()
	case errors.As(err, &permission):
		return MissingPermissions()
	case errors.As(err, &missing):
		return MissingRequiredArgument(missing.Param)
	case errors.As(err, &bad):
		return BadArgument()
	case channel == platform.ChannelStructured && errors.As(err, &cooldown):
		return OnCooldown(cooldown.RetryAfter.Seconds())
	default:
		return Unexpected(err.Error())
	}
}
