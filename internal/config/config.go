// Package config loads settings for the lox command from a YAML file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up in the home directory.
const DefaultFile = ".loxrc.yaml"

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds the user-tunable settings of the CLI and REPL.
type Config struct {
	Prompt      string `yaml:"prompt"`
	HistoryFile string `yaml:"history_file"`
	Color       bool   `yaml:"color"`
	Verbose     bool   `yaml:"verbose"`
	LogFormat   string `yaml:"log_format"`
}

// Default returns the built-in settings.
func Default() Config {
	cfg := Config{
		Prompt:    "> ",
		Color:     true,
		LogFormat: LogFormatText,
	}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.HistoryFile = filepath.Join(home, ".lox_history")
	}
	return cfg
}

// DefaultPath returns $HOME/.loxrc.yaml, or "" if there is no home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, DefaultFile)
}

// Load builds a Config from defaults, the YAML file and the environment.
// An empty path means the default file, which may be absent; an explicit
// path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides settings from LOX_* variables and NO_COLOR. Empty
// variables are ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("LOX_PROMPT"); ok && v != "" {
		c.Prompt = v
	}
	if v, ok := lookup("LOX_HISTORY_FILE"); ok && v != "" {
		c.HistoryFile = v
	}
	if v, ok := lookup("LOX_VERBOSE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: LOX_VERBOSE: %w", err)
		}
		c.Verbose = b
	}
	if v, ok := lookup("LOX_LOG_FORMAT"); ok && v != "" {
		c.LogFormat = v
	}
	// https://no-color.org: any non-empty value disables color.
	if v, ok := lookup("NO_COLOR"); ok && v != "" {
		c.Color = false
	}
	return nil
}

// Validate reports settings that cannot be used.
func (c Config) Validate() error {
	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
		return nil
	default:
		return fmt.Errorf("config: unknown log format %q (want %q or %q)", c.LogFormat, LogFormatText, LogFormatJSON)
	}
}
