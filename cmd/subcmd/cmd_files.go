package main

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"

	"github.com/dhamidi/subcmd"
)

var errNoFiles = errors.New("cat: no files given")

func (a *app) lsCommand() subcmd.Subcommand {
	return subcmd.Subcommand{
		Name:        "ls",
		Description: "List the entries of a directory",
		Usage:       "[-a] [<dir>]",
		Help:        "Lists `<dir>`, or the current directory, one entry per line. Directories end in `/`. Entries starting with a dot are hidden unless `-a` is given.",
		Handler:     a.handleLs,
	}
}

func (a *app) handleLs(args []string) error {
	fs := newFlagSet("ls", a.program+" ls [-a] [<dir>]", a.stderr)
	all := fs.Bool("a", false, "include entries starting with a dot")
	if done, err := parseFlags(fs, args); done {
		return err
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return subcmd.Exit(2, nil)
	}

	dir := "."
	if fs.NArg() == 1 {
		dir = fs.Arg(0)
	}
	// afero.ReadDir returns the entries sorted by name.
	entries, err := afero.ReadDir(a.fs, dir)
	if err != nil {
		return fmt.Errorf("ls: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if !*all && len(name) > 0 && name[0] == '.' {
			continue
		}
		if entry.IsDir() {
			name += "/"
		}
		if _, err := fmt.Fprintln(a.stdout, name); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) catCommand() subcmd.Subcommand {
	return subcmd.Subcommand{
		Name:        "cat",
		Description: "Print the contents of files",
		Usage:       "<file>...",
		Help:        "Writes each file to standard output in order. Stops at the first file that cannot be read.",
		Handler:     a.handleCat,
	}
}

func (a *app) handleCat(args []string) error {
	if len(args) == 0 {
		return errNoFiles
	}
	for _, path := range args {
		data, err := afero.ReadFile(a.fs, path)
		if err != nil {
			return fmt.Errorf("cat: %w", err)
		}
		if _, err := a.stdout.Write(data); err != nil {
			return err
		}
	}
	return nil
}
