package subcmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecorder struct {
	events []Event
	err    error
}

func (f *fakeRecorder) Record(ev Event) error {
	f.events = append(f.events, ev)
	return f.err
}

type testDispatcher struct {
	*Dispatcher
	stdout, stderr *bytes.Buffer
	calls          map[string][][]string
}

func newTestDispatcher(t *testing.T, opts ...Option) *testDispatcher {
	t.Helper()
	td := &testDispatcher{
		stdout: new(bytes.Buffer),
		stderr: new(bytes.Buffer),
		calls:  map[string][][]string{},
	}
	r := NewRegistry()
	for _, name := range []string{"build", "clean", "test"} {
		name := name
		r.MustRegister(Subcommand{
			Name:        name,
			Description: "runs " + name,
			Usage:       "[<args>...]",
			Handler: func(args []string) error {
				td.calls[name] = append(td.calls[name], args)
				return nil
			},
		})
	}
	r.MustRegister(Subcommand{Name: "fail", Description: "always fails", Handler: func([]string) error {
		return errBoom
	}})
	r.MustRegister(Subcommand{Name: "exit3", Description: "exits with 3", Handler: func([]string) error {
		return Exit(3, nil)
	}})

	opts = append([]Option{WithOutput(td.stdout, td.stderr), WithDisplay(RawDisplay{}), WithDescription("prog does things.")}, opts...)
	td.Dispatcher = NewDispatcher("prog", r, opts...)
	return td
}

func (td *testDispatcher) reset() {
	td.stdout.Reset()
	td.stderr.Reset()
}

var errBoom = errors.New("boom")

func TestDispatchHelpVariantsAreIdentical(t *testing.T) {
	td := newTestDispatcher(t)
	want := Render("prog", "prog does things.", td.Registry)

	for _, args := range [][]string{nil, {}, {"--help"}, {"-h"}, {"help"}, {""}} {
		td.reset()
		code := td.Run(args)
		assert.Equal(t, ExitSuccess, code, "Run(%q)", args)
		if diff := cmp.Diff(want, td.stdout.String()); diff != "" {
			t.Errorf("Run(%q) help mismatch (-want +got):\n%s", args, diff)
		}
		assert.Empty(t, td.stderr.String(), "Run(%q) wrote to stderr", args)
	}
	assert.Empty(t, td.calls)
}

func TestDispatchHelpFlagIgnoresTrailingArgs(t *testing.T) {
	td := newTestDispatcher(t)
	want := Render("prog", "prog does things.", td.Registry)

	for _, args := range [][]string{{"--help", "x"}, {"-h", "build"}, {"--help", "build", "--release"}} {
		td.reset()
		code := td.Run(args)
		assert.Equal(t, ExitSuccess, code, "Run(%q)", args)
		if diff := cmp.Diff(want, td.stdout.String()); diff != "" {
			t.Errorf("Run(%q) help mismatch (-want +got):\n%s", args, diff)
		}
		assert.Empty(t, td.stderr.String(), "Run(%q) wrote to stderr", args)
	}
	assert.Empty(t, td.calls)
}

func TestDispatchWithoutLogger(t *testing.T) {
	td := newTestDispatcher(t)
	td.Logger = nil

	require.NoError(t, td.Dispatch([]string{"build"}))
	assert.ErrorIs(t, td.Dispatch([]string{"buld"}), ErrUnknownSubcommand)
	assert.Same(t, errBoom, td.Dispatch([]string{"fail"}))
}

func TestDispatchForwardsRemainingArgs(t *testing.T) {
	td := newTestDispatcher(t)

	require.NoError(t, td.Dispatch([]string{"build", "--release", "help", "-h"}))
	require.NoError(t, td.Dispatch([]string{"test"}))

	want := map[string][][]string{
		"build": {{"--release", "help", "-h"}},
		"test":  {{}},
	}
	if diff := cmp.Diff(want, td.calls, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("handler calls mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, td.stdout.String())
	assert.Empty(t, td.stderr.String())
}

func TestDispatchHandlerFailureIsPropagated(t *testing.T) {
	td := newTestDispatcher(t)

	err := td.Dispatch([]string{"fail"})
	assert.Same(t, errBoom, err)
	assert.Empty(t, td.stderr.String())

	td.reset()
	assert.Equal(t, ExitFailure, td.Run([]string{"fail"}))
	assert.Equal(t, "prog: boom\n", td.stderr.String())
}

func TestDispatchExitError(t *testing.T) {
	td := newTestDispatcher(t)

	assert.Equal(t, 3, td.Run([]string{"exit3"}))
	assert.Empty(t, td.stderr.String())
	assert.Equal(t, 3, ExitCode(td.Dispatch([]string{"exit3"})))
}

func TestDispatchUnknownSubcommand(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		suggestion string
	}{
		{"with suggestion", []string{"buld", "x"}, "build"},
		{"without suggestion", []string{"xyzzyplugh"}, ""},
		{"help for unknown", []string{"help", "claen"}, "clean"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			td := newTestDispatcher(t)
			err := td.Dispatch(tt.args)

			var unknown *UnknownSubcommandError
			require.ErrorAs(t, err, &unknown)
			assert.ErrorIs(t, err, ErrUnknownSubcommand)
			assert.Equal(t, tt.suggestion, unknown.Suggestion)

			stderr := td.stderr.String()
			assert.Contains(t, stderr, "no such subcommand: `"+unknown.Name+"`")
			if tt.suggestion != "" {
				assert.Contains(t, stderr, "Did you mean `"+tt.suggestion+"`?")
			} else {
				assert.NotContains(t, stderr, "Did you mean")
			}
			assert.Contains(t, stderr, "Usage:")
			assert.Empty(t, td.stdout.String())
			assert.Empty(t, td.calls)

			td.reset()
			assert.Equal(t, ExitFailure, td.Run(tt.args))
			assert.Equal(t, stderr, td.stderr.String(), "Run must not report the error twice")
		})
	}
}

func TestDispatchHelpForSubcommand(t *testing.T) {
	td := newTestDispatcher(t)
	cmd, _ := td.Registry.Lookup("clean")

	assert.Equal(t, ExitSuccess, td.Run([]string{"help", "clean", "ignored"}))
	if diff := cmp.Diff(RenderSubcommand("prog", cmd), td.stdout.String()); diff != "" {
		t.Errorf("help clean mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, td.calls)
}

func TestDispatchBadUsage(t *testing.T) {
	td := newTestDispatcher(t)

	err := td.Dispatch([]string{"--verbose", "build"})
	assert.ErrorIs(t, err, ErrBadUsage)
	assert.Contains(t, td.stderr.String(), "invalid arguments")
	assert.Contains(t, td.stderr.String(), "prog <command> [<args>...]")
	assert.Empty(t, td.calls)

	td.reset()
	assert.Equal(t, ExitFailure, td.Run([]string{"-v"}))
}

func TestDispatchNeverCrossesHandlers(t *testing.T) {
	td := newTestDispatcher(t)
	for _, name := range []string{"build", "clean", "test"} {
		require.NoError(t, td.Dispatch([]string{name, name}))
	}
	for name, calls := range td.calls {
		require.Len(t, calls, 1)
		assert.Equal(t, []string{name}, calls[0])
	}
}

func TestDispatchRecordsEvents(t *testing.T) {
	rec := &fakeRecorder{}
	td := newTestDispatcher(t, WithRecorder(rec))

	td.Run([]string{"build", "a"})
	td.Run([]string{"fail"})
	td.Run([]string{"buld"})
	td.Run([]string{"--help"})
	td.Run([]string{"help", "test"})
	td.Run([]string{"-x"})

	want := []Event{
		{Program: "prog", Subcommand: "build", Args: []string{"build", "a"}, Outcome: OutcomeSucceeded},
		{Program: "prog", Subcommand: "fail", Args: []string{"fail"}, Outcome: OutcomeFailed, ExitCode: 1},
		{Program: "prog", Subcommand: "buld", Args: []string{"buld"}, Outcome: OutcomeUnknown, ExitCode: 1},
		{Program: "prog", Args: []string{"--help"}, Outcome: OutcomeHelp},
		{Program: "prog", Subcommand: "test", Args: []string{"help", "test"}, Outcome: OutcomeHelpFor},
		{Program: "prog", Args: []string{"-x"}, Outcome: OutcomeBadUsage, ExitCode: 1},
	}
	if diff := cmp.Diff(want, rec.events, cmpopts.IgnoreFields(Event{}, "Err")); diff != "" {
		t.Errorf("recorded events mismatch (-want +got):\n%s", diff)
	}
	assert.Same(t, errBoom, rec.events[1].Err)
}

func TestDispatchRecorderFailureDoesNotChangeResult(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("disk full")}
	td := newTestDispatcher(t, WithRecorder(rec))

	assert.Equal(t, ExitSuccess, td.Run([]string{"build"}))
	assert.Len(t, rec.events, 1)
	assert.Empty(t, td.stderr.String())
}

func TestDispatchColorizesErrors(t *testing.T) {
	td := newTestDispatcher(t, WithDisplay(ColorDisplay{Mode: ColorAlways}))
	td.Run([]string{"buld"})
	assert.Contains(t, td.stderr.String(), "\x1b[")
	assert.Contains(t, td.stderr.String(), "Did you mean `build`?")

	td = newTestDispatcher(t, WithDisplay(ColorDisplay{Mode: ColorAuto}))
	td.Run([]string{"buld"})
	assert.NotContains(t, td.stderr.String(), "\x1b[", "a bytes.Buffer is not a terminal")
}
