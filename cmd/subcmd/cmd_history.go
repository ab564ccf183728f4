package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dhamidi/subcmd"
	"github.com/dhamidi/subcmd/history"
)

func (a *app) historyCommand() subcmd.Subcommand {
	return subcmd.Subcommand{
		Name:        "history",
		Description: "Inspect recorded invocations",
		Usage:       "<list|show|latest> [<args>...]",
		Help: "Invocations are recorded when `record: true` is set in `.subcmd/config.yaml` " +
			"or `SUBCMD_RECORD=1` is exported.",
		Handler: func(args []string) error {
			return a.historyDispatcher().Dispatch(args)
		},
	}
}

// historyDispatcher routes "history <subcommand>". It does not record:
// the outer dispatcher already records the whole invocation.
func (a *app) historyDispatcher() *subcmd.Dispatcher {
	r := subcmd.NewRegistry()
	r.MustRegister(subcmd.Subcommand{
		Name:        "list",
		Description: "List recent invocations, newest first",
		Usage:       "[-n <count>]",
		Handler:     a.handleHistoryList,
	})
	r.MustRegister(subcmd.Subcommand{
		Name:        "show",
		Description: "Show a single invocation",
		Usage:       "<id>",
		Handler:     a.handleHistoryShow,
	})
	r.MustRegister(subcmd.Subcommand{
		Name:        "latest",
		Description: "Show the most recent invocation",
		Handler: func(args []string) error {
			id, err := history.LatestInvocationID(a.cfg.HistoryPath)
			if err != nil {
				return err
			}
			return a.showInvocation(id)
		},
	})

	return subcmd.NewDispatcher(a.program+" history", r,
		subcmd.WithOutput(a.stdout, a.stderr),
		subcmd.WithDisplay(a.display()),
		subcmd.WithLogger(a.logger.WithField("command", "history")))
}

func (a *app) handleHistoryList(args []string) error {
	fs := newFlagSet("list", a.program+" history list [-n <count>]", a.stderr)
	count := fs.Int("n", 20, "number of invocations to show, 0 for all")
	if done, err := parseFlags(fs, args); done {
		return err
	}

	invocations, err := history.ListInvocations(a.cfg.HistoryPath, *count)
	if err != nil {
		return fmt.Errorf("listing invocations: %w", err)
	}
	if len(invocations) == 0 {
		fmt.Fprintln(a.stdout, "No invocations recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIME\tSUBCOMMAND\tOUTCOME\tEXIT")
	for _, inv := range invocations {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n",
			inv.ID, inv.CreatedAt.Local().Format(time.RFC3339), inv.Subcommand, inv.Outcome, inv.ExitCode)
	}
	return tw.Flush()
}

func (a *app) handleHistoryShow(args []string) error {
	if len(args) != 1 {
		fmt.Fprintf(a.stderr, "Usage: %s history show <id>\n", a.program)
		return subcmd.Exit(2, nil)
	}
	return a.showInvocation(args[0])
}

func (a *app) showInvocation(id string) error {
	inv, err := history.LoadFrom(id, a.cfg.HistoryPath)
	if errors.Is(err, history.ErrInvocationNotFound) {
		return fmt.Errorf("no invocation with ID %s", id)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "ID:         %s\n", inv.ID)
	fmt.Fprintf(a.stdout, "Time:       %s\n", inv.CreatedAt.Local().Format(time.RFC3339))
	fmt.Fprintf(a.stdout, "Command:    %s %s\n", inv.Program, strings.Join(inv.Args, " "))
	fmt.Fprintf(a.stdout, "Subcommand: %s\n", inv.Subcommand)
	fmt.Fprintf(a.stdout, "Outcome:    %s (exit %d)\n", inv.Outcome, inv.ExitCode)
	if inv.Error != "" {
		fmt.Fprintf(a.stdout, "Error:      %s\n", inv.Error)
	}
	return nil
}
