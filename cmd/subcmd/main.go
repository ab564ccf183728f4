package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/term"

	"github.com/dhamidi/subcmd"
	"github.com/dhamidi/subcmd/config"
	"github.com/dhamidi/subcmd/history"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

const description = `subcmd is a small file and history toolbox built on the subcmd dispatcher.`

// app holds what every handler needs: the streams, the filesystem and the
// loaded configuration.
type app struct {
	program string
	stdout  io.Writer
	stderr  io.Writer
	fs      afero.Fs
	cfg     *config.Config
	logger  *logrus.Logger
}

func newApp(program string, fs afero.Fs, stdout, stderr io.Writer) (*app, error) {
	cfg, err := config.Load(fs, config.DefaultPath)
	if err != nil {
		return nil, err
	}

	logger := logrus.New()
	logger.SetOutput(stderr)
	logger.SetLevel(cfg.Level())
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	return &app{
		program: program,
		stdout:  stdout,
		stderr:  stderr,
		fs:      fs,
		cfg:     cfg,
		logger:  logger,
	}, nil
}

func (a *app) registry() *subcmd.Registry {
	r := subcmd.NewRegistry()
	r.MustRegister(a.echoCommand())
	r.MustRegister(a.lsCommand())
	r.MustRegister(a.catCommand())
	r.MustRegister(a.historyCommand())
	r.MustRegister(a.versionCommand())
	return r
}

func (a *app) dispatcher() *subcmd.Dispatcher {
	opts := []subcmd.Option{
		subcmd.WithDescription(description),
		subcmd.WithOutput(a.stdout, a.stderr),
		subcmd.WithDisplay(a.display()),
		subcmd.WithLogger(a.logger),
	}
	if a.cfg.Record {
		a.logger.WithField("path", a.cfg.HistoryPath).Debug("recording invocations")
		opts = append(opts, subcmd.WithRecorder(history.NewRecorder(a.cfg.HistoryPath)))
	}
	return subcmd.NewDispatcher(a.program, a.registry(), opts...)
}

// display renders help as Markdown only when stdout is an interactive terminal.
func (a *app) display() subcmd.Displayer {
	color := subcmd.ColorDisplay{Mode: a.cfg.ColorMode()}
	if f, ok := a.stdout.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return subcmd.GlamourDisplay{ColorDisplay: color, Logger: a.logger}
	}
	return color
}

func main() {
	program := filepath.Base(os.Args[0])
	a, err := newApp(program, afero.NewOsFs(), os.Stdout, os.Stderr)
	if err != nil {
		die("%s: %v", program, err)
	}
	os.Exit(a.dispatcher().Run(os.Args[1:]))
}
