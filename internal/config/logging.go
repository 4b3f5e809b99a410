package config

import (
	"io"
	"log/slog"
	"strings"
)

// NewLogger builds the process logger described by cfg. Invalid settings
// fall back to info-level text output.
func NewLogger(cfg *Config, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	format := DefaultLogFormat
	if cfg != nil {
		if l, err := ParseLogLevel(cfg.LogLevel); err == nil {
			level = l
		}
		format = strings.ToLower(cfg.LogFormat)
	}

	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
