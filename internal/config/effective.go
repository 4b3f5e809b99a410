package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig applies raw over the defaults.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Display != nil {
		cfg.Display = strings.TrimSpace(*raw.Display)
	}
	if raw.XAuthority != nil {
		cfg.XAuthority = strings.TrimSpace(*raw.XAuthority)
	}
	if raw.DisplayFallback != nil {
		cfg.DisplayFallback = *raw.DisplayFallback
	}
	if raw.RequestTimeout != nil {
		cfg.RequestTimeout = Duration(*raw.RequestTimeout)
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(*raw.LogLevel))
	}
	if raw.LogFormat != nil {
		cfg.LogFormat = strings.ToLower(strings.TrimSpace(*raw.LogFormat))
	}

	return cfg, nil
}
