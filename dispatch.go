package subcmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Outcome classifies a single dispatch.
type Outcome string

const (
	OutcomeHelp      Outcome = "help"
	OutcomeHelpFor   Outcome = "help-for"
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
	OutcomeUnknown   Outcome = "unknown"
	OutcomeBadUsage  Outcome = "bad-usage"
)

// Event describes a finished dispatch. It is handed to the Recorder.
type Event struct {
	Program    string
	Subcommand string // Subcommand is the token that was resolved, empty for help requests.
	Args       []string
	Outcome    Outcome
	ExitCode   int
	Err        error
}

// Recorder receives every dispatch outcome.
type Recorder interface {
	Record(Event) error
}

// Dispatcher routes command line arguments to the subcommands of a Registry.
type Dispatcher struct {
	Program     string
	Description string
	Registry    *Registry

	Stdout io.Writer
	Stderr io.Writer

	Display  Displayer
	Logger   logrus.FieldLogger
	Recorder Recorder
}

// Option configures a Dispatcher built by NewDispatcher.
type Option func(*Dispatcher)

// WithDescription sets the paragraph printed above the usage lines.
func WithDescription(description string) Option {
	return func(d *Dispatcher) { d.Description = description }
}

// WithOutput replaces the process standard streams.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(d *Dispatcher) {
		d.Stdout = stdout
		d.Stderr = stderr
	}
}

// WithDisplay sets how help and errors are written.
func WithDisplay(display Displayer) Option {
	return func(d *Dispatcher) { d.Display = display }
}

// WithLogger sets the logger receiving debug output about dispatch decisions.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(d *Dispatcher) { d.Logger = logger }
}

// WithRecorder reports every dispatch outcome to recorder.
func WithRecorder(recorder Recorder) Option {
	return func(d *Dispatcher) { d.Recorder = recorder }
}

// NewDispatcher creates a dispatcher for program over r. Output defaults to
// the process streams with errors colorized when stderr is a terminal.
func NewDispatcher(program string, r *Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		Program:  program,
		Registry: r,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Display:  ColorDisplay{Mode: ColorAuto},
		Logger:   discard,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// discard is used when a Dispatcher has no logger.
var discard logrus.FieldLogger = &logrus.Logger{
	Out:       io.Discard,
	Formatter: new(logrus.TextFormatter),
	Hooks:     make(logrus.LevelHooks),
	Level:     logrus.PanicLevel,
}

// Run dispatches args and returns the exit status for the process. Errors
// the dispatcher reported itself are not printed twice; handler errors are
// printed as "<program>: <error>".
func (d *Dispatcher) Run(args []string) int {
	err := d.Dispatch(args)
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, ErrUnknownSubcommand) || errors.Is(err, ErrBadUsage) {
		return ExitCode(err)
	}
	var exit *ExitError
	if errors.As(err, &exit) && exit.Err == nil {
		return exit.Code
	}
	d.displayError(fmt.Sprintf("%s: %v\n", d.Program, err))
	return ExitCode(err)
}

// Dispatch routes args, which exclude the program name. Help requests
// return nil. A matched handler's error is returned unchanged.
func (d *Dispatcher) Dispatch(args []string) error {
	ev := Event{Program: d.Program, Args: args}
	err := d.dispatch(args, &ev)
	ev.Err = err
	ev.ExitCode = ExitCode(err)
	d.record(ev)
	return err
}

func (d *Dispatcher) dispatch(args []string, ev *Event) error {
	if len(args) == 0 || args[0] == "" {
		return d.help(ev)
	}

	token, rest := args[0], args[1:]
	switch {
	case token == "-h" || token == "--help":
		return d.help(ev)
	case token == HelpCommand:
		if len(rest) == 0 {
			return d.help(ev)
		}
		return d.helpFor(rest[0], ev)
	case strings.HasPrefix(token, "-"):
		return d.badUsage(token, ev)
	}

	ev.Subcommand = token
	switch res := Resolve(d.Registry, token, rest).(type) {
	case Matched:
		d.logger().WithFields(logrus.Fields{"subcommand": token, "args": len(res.Args)}).Debug("dispatching")
		err := res.Subcommand.Handler(res.Args)
		if err != nil {
			ev.Outcome = OutcomeFailed
			d.logger().WithError(err).WithField("subcommand", token).Debug("subcommand failed")
			return err
		}
		ev.Outcome = OutcomeSucceeded
		return nil
	case NotFound:
		return d.notFound(res, ev)
	}
	panic("unreachable")
}

func (d *Dispatcher) help(ev *Event) error {
	ev.Outcome = OutcomeHelp
	return d.display().Display(d.Stdout, Render(d.Program, d.Description, d.Registry))
}

func (d *Dispatcher) helpFor(name string, ev *Event) error {
	ev.Subcommand = name
	cmd, ok := d.Registry.Lookup(name)
	if !ok {
		guess, _ := Suggest(d.Registry, name)
		return d.notFound(NotFound{Name: name, Suggestion: guess}, ev)
	}
	ev.Outcome = OutcomeHelpFor
	return d.display().DisplayHelp(d.Stdout, RenderSubcommand(d.Program, cmd))
}

func (d *Dispatcher) notFound(res NotFound, ev *Event) error {
	ev.Outcome = OutcomeUnknown
	d.logger().WithFields(logrus.Fields{"token": res.Name, "suggestion": res.Suggestion}).Debug("unknown subcommand")

	var msg strings.Builder
	fmt.Fprintf(&msg, "error: no such subcommand: `%s`\n", res.Name)
	if res.HasSuggestion() {
		fmt.Fprintf(&msg, "\n    Did you mean `%s`?\n", res.Suggestion)
	}
	d.displayError(msg.String())
	d.displayError("\n" + ShortUsage(d.Program))
	d.displayError(fmt.Sprintf("\nRun '%s --help' for the list of commands.\n", d.Program))

	return &UnknownSubcommandError{Name: res.Name, Suggestion: res.Suggestion}
}

func (d *Dispatcher) badUsage(token string, ev *Event) error {
	ev.Outcome = OutcomeBadUsage
	d.displayError(fmt.Sprintf("error: invalid arguments: unexpected option `%s`\n\n", token))
	d.displayError(ShortUsage(d.Program))
	return fmt.Errorf("%w: unexpected option %q", ErrBadUsage, token)
}

func (d *Dispatcher) displayError(text string) {
	if err := d.display().DisplayError(d.Stderr, text); err != nil {
		d.logger().WithError(err).Warn("writing to stderr failed")
	}
}

func (d *Dispatcher) record(ev Event) {
	if d.Recorder == nil {
		return
	}
	if err := d.Recorder.Record(ev); err != nil {
		d.logger().WithError(err).Warn("recording dispatch failed")
	}
}

func (d *Dispatcher) display() Displayer {
	if d.Display == nil {
		return RawDisplay{}
	}
	return d.Display
}

func (d *Dispatcher) logger() logrus.FieldLogger {
	if d.Logger == nil {
		return discard
	}
	return d.Logger
}
