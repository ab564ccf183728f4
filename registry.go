// Package subcmd routes a command line to the handler of its first word,
// Cargo and Git style. It renders --help output from the registered
// subcommands and suggests the closest name when a subcommand is unknown.
package subcmd

import (
	"errors"
	"fmt"
)

// HelpCommand is the name of the built-in help subcommand. It cannot be registered.
const HelpCommand = "help"

var (
	// ErrDuplicateSubcommand is matched by errors.Is when a name is registered twice.
	ErrDuplicateSubcommand = errors.New("subcmd: duplicate subcommand")
	// ErrInvalidName is returned for names that cannot be typed as a subcommand token.
	ErrInvalidName = errors.New("subcmd: invalid subcommand name")
	// ErrNilHandler is returned when a subcommand is registered without a handler.
	ErrNilHandler = errors.New("subcmd: nil handler")
)

// Handler executes a subcommand with the arguments that follow its name.
type Handler func(args []string) error

// Subcommand is a named verb of the command line.
type Subcommand struct {
	Name        string  // Name is the token typed by the user.
	Description string  // Description is the one line summary shown in the command listing.
	Usage       string  // Usage describes the arguments, e.g. "[-n] <file>...".
	Help        string  // Help is the long form text shown by "help <name>".
	Handler     Handler // Handler runs the subcommand.
}

// DuplicateSubcommandError reports a second registration of Name.
type DuplicateSubcommandError struct {
	Name string
}

func (e *DuplicateSubcommandError) Error() string {
	return fmt.Sprintf("subcmd: subcommand %q already registered", e.Name)
}

func (e *DuplicateSubcommandError) Is(target error) bool {
	return target == ErrDuplicateSubcommand
}

// Registry is an insertion-ordered set of subcommands. It is built once at
// startup and only read afterwards, so it carries no locking.
type Registry struct {
	names    []string
	commands map[string]Subcommand
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Subcommand)}
}

// Register adds cmd. A failed registration leaves the registry unchanged.
func (r *Registry) Register(cmd Subcommand) error {
	if err := validateName(cmd.Name); err != nil {
		return err
	}
	if cmd.Handler == nil {
		return fmt.Errorf("%w for %q", ErrNilHandler, cmd.Name)
	}
	if r.commands == nil {
		r.commands = make(map[string]Subcommand)
	}
	if _, exists := r.commands[cmd.Name]; exists {
		return &DuplicateSubcommandError{Name: cmd.Name}
	}
	r.names = append(r.names, cmd.Name)
	r.commands[cmd.Name] = cmd
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(cmd Subcommand) {
	if err := r.Register(cmd); err != nil {
		panic(err)
	}
}

// Lookup returns the subcommand registered under name.
func (r *Registry) Lookup(name string) (Subcommand, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// All returns the registered subcommands in registration order.
func (r *Registry) All() []Subcommand {
	all := make([]Subcommand, 0, len(r.names))
	for _, name := range r.names {
		all = append(all, r.commands[name])
	}
	return all
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Len returns the number of registered subcommands.
func (r *Registry) Len() int { return len(r.names) }

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	if name == HelpCommand {
		return fmt.Errorf("%w: %q is reserved", ErrInvalidName, name)
	}
	if name[0] == '-' {
		return fmt.Errorf("%w: %q starts with '-'", ErrInvalidName, name)
	}
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return fmt.Errorf("%w: %q contains %q", ErrInvalidName, name, c)
		}
	}
	return nil
}
