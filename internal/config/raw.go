package config

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// RawConfig mirrors Config with pointer fields so unset keys can be told
// apart from zero values.
type RawConfig struct {
	Display         *string      `yaml:"display"`
	XAuthority      *string      `yaml:"xauthority"`
	DisplayFallback *bool        `yaml:"display_fallback"`
	RequestTimeout  *RawDuration `yaml:"request_timeout"`
	LogLevel        *string      `yaml:"log_level"`
	LogFormat       *string      `yaml:"log_format"`
}

// RawDuration accepts either a Go duration string ("750ms") or a bare
// integer number of milliseconds.
type RawDuration time.Duration

func (d *RawDuration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration must be a scalar")
	}
	text := strings.TrimSpace(value.Value)
	if value.Tag == "!!int" {
		var ms int64
		if err := value.Decode(&ms); err != nil {
			return err
		}
		*d = RawDuration(time.Duration(ms) * time.Millisecond)
		return nil
	}
	parsed, err := time.ParseDuration(text)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = RawDuration(parsed)
	return nil
}

func (r RawConfig) merge(other RawConfig) RawConfig {
	out := r
	if other.Display != nil {
		out.Display = other.Display
	}
	if other.XAuthority != nil {
		out.XAuthority = other.XAuthority
	}
	if other.DisplayFallback != nil {
		out.DisplayFallback = other.DisplayFallback
	}
	if other.RequestTimeout != nil {
		out.RequestTimeout = other.RequestTimeout
	}
	if other.LogLevel != nil {
		out.LogLevel = other.LogLevel
	}
	if other.LogFormat != nil {
		out.LogFormat = other.LogFormat
	}
	return out
}
