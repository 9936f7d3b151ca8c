// =============================================================================
// config.go - Config File and Settings Resolution
// =============================================================================
//
// Settings come from three layers, highest priority first:
//
//  1. command-line flags
//  2. the YAML config file (~/.x3270-go.yaml or --config <path>)
//  3. the library defaults (x3270protocol.DefaultTimeout, ...)
//
// Example config file:
//
//	host: mainframe.example.com:23
//	visible: false
//	timeout: 45s
//	executable: /opt/x3270/bin/s3270
//	args: ["-model", "3279-4"]
//	metrics_addr: ":9270"
//	verbose: true
//
// =============================================================================

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/tn3270/x3270-go/x3270protocol"
	"gopkg.in/yaml.v3"
)

// configFileName is the default config file, relative to the home directory.
const configFileName = ".x3270-go.yaml"

// fileConfig mirrors the YAML config file.
type fileConfig struct {
	Host         string        `yaml:"host"`
	Visible      bool          `yaml:"visible"`
	Timeout      configTimeout `yaml:"timeout"`
	Executable   string        `yaml:"executable"`
	Args         []string      `yaml:"args"`
	ScriptPort   int           `yaml:"script_port"`
	LegacyQuotes bool          `yaml:"legacy_quotes"`
	MetricsAddr  string        `yaml:"metrics_addr"`
	JSONLogs     bool          `yaml:"json_logs"`
	Verbose      bool          `yaml:"verbose"`
}

// configTimeout is a timeout written the same way as --timeout: a Go
// duration ("45s", "2m") or a bare number of seconds.
type configTimeout time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *configTimeout) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: timeout must be a duration or a number of seconds", node.Line)
	}
	d, err := parseTimeout(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*c = configTimeout(d)
	return nil
}

// settings is the resolved configuration the CLI runs with.
type settings struct {
	host        string
	transport   x3270protocol.TransportConfig
	timeout     time.Duration
	escaping    x3270protocol.QuoteEscaping
	metricsAddr string
	jsonLogs    bool
	verbose     bool
}

// defaultConfigPath returns ~/.x3270-go.yaml.
func defaultConfigPath() string {
	return filepath.Join(homeDir(), configFileName)
}

// loadConfig reads the config file at path. An empty path means the default
// file, which is allowed to be missing; an explicit path must exist.
// Unknown keys are rejected so typos don't silently fall back to defaults.
func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig

	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if cfg.ScriptPort < 0 || cfg.ScriptPort > 65535 {
		return cfg, fmt.Errorf("invalid config %s: script_port %d out of range", path, cfg.ScriptPort)
	}

	return cfg, nil
}

// resolveSettings layers flags over the config file.
func resolveSettings(args arguments, cfg fileConfig) settings {
	s := settings{
		host:        firstNonEmpty(args.host, cfg.Host),
		timeout:     x3270protocol.DefaultTimeout,
		metricsAddr: firstNonEmpty(args.metricsAddr, cfg.MetricsAddr),
		jsonLogs:    args.jsonLogs || cfg.JSONLogs,
		verbose:     args.verbose || cfg.Verbose,
		transport: x3270protocol.TransportConfig{
			Visible:    args.visible || cfg.Visible,
			Executable: firstNonEmpty(args.executable, cfg.Executable),
			Args:       cfg.Args,
			ScriptPort: cfg.ScriptPort,
		},
	}

	switch {
	case args.timeout > 0:
		s.timeout = args.timeout
	case cfg.Timeout > 0:
		s.timeout = time.Duration(cfg.Timeout)
	}

	if args.scriptPort > 0 {
		s.transport.ScriptPort = args.scriptPort
	}

	if args.legacyQuotes || cfg.LegacyQuotes {
		s.escaping = x3270protocol.QuoteEscapingLegacy
	}

	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// newLogger builds the CLI's structured logger. Logs go to w (stderr in
// production) so they never mix with REPL output on stdout.
func newLogger(w io.Writer, jsonOutput, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if jsonOutput {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}
