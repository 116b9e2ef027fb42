package failure

import (
	"fmt"
	"log/slog"
	"warden/src-server/platform"
)

type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Color is the embed sidebar color for the severity.
func (s Severity) Color() int {
	switch s {
	case SeverityWarning:
		return 0xe67e22
	default:
		return 0xe74c3c
	}
}

// Payload is what the invoker gets to see.
type Payload struct {
	Title       string
	Description string
	Severity    Severity
}

type template struct {
	title    string
	format   string
	severity Severity
}

var templates = map[Kind]template{
	KindCommandNotFound: {
		title:    "❌ Error",
		format:   "This command was not found. Use `/help` to see the available commands.",
		severity: SeverityError,
	},
	KindMissingPermissions: {
		title:    "❌ Unauthorized",
		format:   "You don't have the permissions required to use this command.",
		severity: SeverityError,
	},
	KindMissingRequiredArgument: {
		title:    "❌ Missing Parameter",
		format:   "Required parameter is missing: `%s`",
		severity: SeverityError,
	},
	KindBadArgument: {
		title:    "❌ Invalid Parameter",
		format:   "You entered an invalid parameter.",
		severity: SeverityError,
	},
	KindOnCooldown: {
		title:    "⏰ Cooldown",
		format:   "Please wait %.1f seconds before using this command again.",
		severity: SeverityWarning,
	},
	KindUnexpected: {
		title:    "❌ Unexpected Error",
		format:   "Something went wrong. Please try again.",
		severity: SeverityError,
	},
}

// Render looks up the notification for k. Detail of an unexpected failure is
// never part of the output.
func Render(k ErrorKind) Payload {
	t, ok := templates[k.Kind]
	if !ok {
		t = templates[KindUnexpected]
	}
	description := t.format
	switch k.Kind {
	case KindMissingRequiredArgument:
		description = fmt.Sprintf(t.format, k.Param)
	case KindOnCooldown:
		description = fmt.Sprintf(t.format, k.RetryAfter)
	}
	return Payload{
		Title:       t.title,
		Description: description,
		Severity:    t.severity,
	}
}

// Normalize classifies err and renders it, logging the detail of
// unexpected failures.
func Normalize(err error, channel platform.ChannelKind) (ErrorKind, Payload) {
	kind := Classify(err, channel)
	if kind.Kind == KindUnexpected {
		slog.Error("unexpected command error", "channel", channel.String(), "detail", kind.Detail)
	}
	return kind, Render(kind)
}
