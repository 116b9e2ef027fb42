package failure

import (
	"fmt"
	"strings"
	"time"
)

// CommandNotFoundError is raised when no registered command matches the
// invoked name.
type CommandNotFoundError struct {
	Name string
}

func (e *CommandNotFoundError) Error() string {
	return fmt.Sprintf("command %q is not found", e.Name)
}

// MissingPermissionsError is raised when the invoker lacks at least one of
// the permission bits a command requires.
type MissingPermissionsError struct {
	Missing int64
}

func (e *MissingPermissionsError) Error() string {
	return fmt.Sprintf("missing permissions: %#x", e.Missing)
}

// MissingArgumentError is raised when a required parameter was not supplied.
type MissingArgumentError struct {
	Param string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("%s is a required argument that is missing", e.Param)
}

// BadArgumentError is raised when an argument can't be converted to the
// declared parameter type.
type BadArgumentError struct {
	Param string
	Value string
	Err   error
}

func (e *BadArgumentError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("converting %q for %s failed", e.Value, e.Param))
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *BadArgumentError) Unwrap() error {
	return e.Err
}

// CooldownError is raised when the invoker's cooldown bucket is empty.
type CooldownError struct {
	RetryAfter time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("command is on cooldown, retry in %.2fs", e.RetryAfter.Seconds())
}
