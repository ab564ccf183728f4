package subcmd

import (
	"errors"
	"fmt"
)

const (
	// ExitSuccess is returned by Run for help output and handlers that succeed.
	ExitSuccess = 0
	// ExitFailure is returned by Run for unknown subcommands, bad usage and
	// handler errors that carry no exit code of their own.
	ExitFailure = 1
)

var (
	// ErrUnknownSubcommand is matched by errors.Is for *UnknownSubcommandError.
	ErrUnknownSubcommand = errors.New("subcmd: no such subcommand")
	// ErrBadUsage is returned when the arguments cannot be routed at all,
	// e.g. an unknown option before the subcommand name.
	ErrBadUsage = errors.New("subcmd: invalid arguments")
)

// UnknownSubcommandError is returned by Dispatch when the token matches no
// registered subcommand. The dispatcher has already reported it on stderr.
type UnknownSubcommandError struct {
	Name       string
	Suggestion string
}

func (e *UnknownSubcommandError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("no such subcommand `%s` (did you mean `%s`?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("no such subcommand `%s`", e.Name)
}

func (e *UnknownSubcommandError) Is(target error) bool {
	return target == ErrUnknownSubcommand
}

// ExitError lets a handler pick the process exit status. Err may be nil when
// the handler has already reported the problem itself.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// Exit wraps err so that Dispatcher.Run exits with code.
func Exit(code int, err error) error {
	return &ExitError{Code: code, Err: err}
}

// ExitCode maps a Dispatch result to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exit *ExitError
	if errors.As(err, &exit) {
		return exit.Code
	}
	return ExitFailure
}
