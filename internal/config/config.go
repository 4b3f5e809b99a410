package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	DefaultRequestTimeout = 2 * time.Second
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
)

// Config holds the application configuration.
type Config struct {
	// Display is tried before $DISPLAY; empty means the environment default.
	Display    string `yaml:"display,omitempty"`
	XAuthority string `yaml:"xauthority,omitempty"`
	// DisplayFallback enables loginctl and X socket discovery when the
	// configured and environment displays cannot be opened.
	DisplayFallback bool `yaml:"display_fallback"`
	// RequestTimeout bounds each query made on behalf of an MCP client.
	RequestTimeout Duration `yaml:"request_timeout"`
	LogLevel       string   `yaml:"log_level"`
	LogFormat      string   `yaml:"log_format"`
}

func DefaultConfig() *Config {
	return &Config{
		DisplayFallback: true,
		RequestTimeout:  Duration(DefaultRequestTimeout),
		LogLevel:        DefaultLogLevel,
		LogFormat:       DefaultLogFormat,
	}
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config is nil")
	}
	if c.RequestTimeout.Duration() <= 0 {
		return &ValidationError{Path: "request_timeout", Err: fmt.Errorf("must be positive, got %s", c.RequestTimeout)}
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return &ValidationError{Path: "log_level", Err: err}
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return &ValidationError{Path: "log_format", Err: fmt.Errorf("must be text or json, got %q", c.LogFormat)}
	}
	if strings.ContainsAny(c.Display, " \t\n") {
		return &ValidationError{Path: "display", Err: fmt.Errorf("must not contain whitespace, got %q", c.Display)}
	}
	return nil
}

// ParseLogLevel maps debug|info|warn|error to a slog level.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", level)
	}
}

// Duration is a time.Duration that reads and writes as a Go duration string
// such as "1500ms" or "2s".
type Duration time.Duration

func (d Duration) Duration() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}
