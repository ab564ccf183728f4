// Package config loads the settings of the subcmd binary from a YAML file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/dhamidi/subcmd"
	"github.com/dhamidi/subcmd/history"
)

// DefaultPath is where Load looks for the configuration file.
const DefaultPath = ".subcmd/config.yaml"

// Environment variables overriding the file.
const (
	EnvColor    = "SUBCMD_COLOR"
	EnvLogLevel = "SUBCMD_LOG_LEVEL"
	EnvHistory  = "SUBCMD_HISTORY"
	EnvRecord   = "SUBCMD_RECORD"
)

type Config struct {
	Color       string `yaml:"color"`        // auto, always or never
	LogLevel    string `yaml:"log_level"`    // any logrus level name
	HistoryPath string `yaml:"history_path"` // SQLite database recording invocations
	Record      bool   `yaml:"record"`       // record every invocation in HistoryPath
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Color:       "auto",
		LogLevel:    "warning",
		HistoryPath: history.DefaultDatabasePath,
		Record:      false,
	}
}

// Load reads path from fsys on top of the defaults, then applies the
// environment overrides. Empty variables are ignored. A missing file is not
// an error.
func Load(fsys afero.Fs, path string) (*Config, error) {
	cfg := Default()

	data, err := afero.ReadFile(fsys, path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvColor); ok && v != "" {
		c.Color = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvHistory); ok && v != "" {
		c.HistoryPath = v
	}
	if v, ok := lookup(EnvRecord); ok && v != "" {
		record, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRecord, err)
		}
		c.Record = record
	}
	return nil
}

// Validate checks the color mode and log level.
func (c *Config) Validate() error {
	if _, err := subcmd.ParseColorMode(c.Color); err != nil {
		return err
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Record && c.HistoryPath == "" {
		return errors.New("record is enabled but history_path is empty")
	}
	return nil
}

func (c *Config) ColorMode() subcmd.ColorMode {
	mode, _ := subcmd.ParseColorMode(c.Color)
	return mode
}

// Level returns the configured log level, falling back to warning.
func (c *Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.WarnLevel
	}
	return level
}
