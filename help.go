package subcmd

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"
)

// ShortUsage returns the usage lines for program.
func ShortUsage(program string) string {
	var b strings.Builder
	b.WriteString("Usage:\n")
	fmt.Fprintf(&b, "    %s <command> [<args>...]\n", program)
	fmt.Fprintf(&b, "    %s [options]\n", program)
	return b.String()
}

// Render produces the full help text for program: usage, options and one
// aligned line per subcommand in registration order.
func Render(program, description string, r *Registry) string {
	var b bytes.Buffer
	if description != "" {
		b.WriteString(strings.TrimRight(description, "\n"))
		b.WriteString("\n\n")
	}
	b.WriteString(ShortUsage(program))
	b.WriteString("\nOptions:\n")
	b.WriteString("    -h, --help    print this help menu\n")

	if r.Len() > 0 {
		b.WriteString("\nCommands are:\n")
		tw := tabwriter.NewWriter(&b, 0, 4, 4, ' ', 0)
		for _, cmd := range r.All() {
			fmt.Fprintf(tw, "    %s\t%s\n", cmd.Name, cmd.Description)
		}
		tw.Flush()
	}

	fmt.Fprintf(&b, "\nSee '%s %s <command>' for more information on a specific command.\n", program, HelpCommand)
	return b.String()
}

// RenderSubcommand produces the help text shown by "help <name>".
func RenderSubcommand(program string, cmd Subcommand) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Usage: %s %s", program, cmd.Name)
	if cmd.Usage != "" {
		b.WriteString(" " + cmd.Usage)
	}
	b.WriteString("\n")
	if cmd.Description != "" {
		b.WriteString("\n" + cmd.Description + "\n")
	}
	if cmd.Help != "" {
		b.WriteString("\n" + strings.TrimRight(cmd.Help, "\n") + "\n")
	}
	return b.String()
}
