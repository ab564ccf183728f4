package main

import (
	"fmt"
	"strings"

	"github.com/dhamidi/subcmd"
)

func (a *app) echoCommand() subcmd.Subcommand {
	return subcmd.Subcommand{
		Name:        "echo",
		Description: "Print the arguments",
		Usage:       "[-n] [<word>...]",
		Help:        "Writes the words separated by single spaces. With `-n` the trailing newline is omitted.",
		Handler:     a.handleEcho,
	}
}

func (a *app) handleEcho(args []string) error {
	fs := newFlagSet("echo", a.program+" echo [-n] [<word>...]", a.stderr)
	noNewline := fs.Bool("n", false, "do not print the trailing newline")
	if done, err := parseFlags(fs, args); done {
		return err
	}

	out := strings.Join(fs.Args(), " ")
	if !*noNewline {
		out += "\n"
	}
	_, err := fmt.Fprint(a.stdout, out)
	return err
}

func (a *app) versionCommand() subcmd.Subcommand {
	return subcmd.Subcommand{
		Name:        "version",
		Description: "Print the version",
		Handler: func(args []string) error {
			_, err := fmt.Fprintf(a.stdout, "%s version %s\n", a.program, version)
			return err
		},
	}
}
