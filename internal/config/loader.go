package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceFile    SourceKind = "file"
)

type Source struct {
	Kind   SourceKind
	File   string
	Line   int
	Column int
}

type LoadResult struct {
	Config  *Config
	Sources map[string]Source // YAML key -> file position
	Files   []string
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/xquery/config.yaml, falling back
// to ~/.config/xquery/config.yaml.
func DefaultConfigPath() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, "xquery", "config.yaml"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "xquery", "config.yaml"), nil
}

// Load reads the configuration from the standard location. A missing file
// yields the defaults.
func Load() (*Config, error) {
	res, err := LoadWithSources()
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadWithSources loads config and returns file-level sources for introspection.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

func LoadFromPath(path string) (*LoadResult, error) {
	raw := RawConfig{}
	sources := map[string]Source{}
	var files []string

	exists, err := pathExists(path)
	if err != nil {
		return nil, err
	}
	if exists {
		fileRaw, fileSources, canon, err := loadRaw(path)
		if err != nil {
			return nil, err
		}
		raw = raw.merge(fileRaw)
		for key, src := range fileSources {
			sources[key] = src
		}
		files = append(files, canon)
	}

	cfg, err := BuildEffectiveConfig(raw)
	if err != nil {
		return nil, attachSourceContext(err, sources)
	}
	if err := cfg.Validate(); err != nil {
		return nil, attachSourceContext(err, sources)
	}

	return &LoadResult{
		Config:  cfg,
		Sources: sources,
		Files:   files,
	}, nil
}

// Lookup returns where key was set, or a default source.
func (r *LoadResult) Lookup(key string) Source {
	if r != nil {
		if src, ok := r.Sources[key]; ok {
			return src
		}
	}
	return Source{Kind: SourceDefault}
}

func loadRaw(path string) (RawConfig, map[string]Source, string, error) {
	canon, err := canonicalPath(path)
	if err != nil {
		return RawConfig{}, nil, "", err
	}

	data, err := os.ReadFile(canon)
	if err != nil {
		return RawConfig{}, nil, "", fmt.Errorf("%s: failed to read: %w", canon, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return RawConfig{}, nil, "", fmt.Errorf("%s: failed to parse yaml: %w", canon, err)
	}

	var raw RawConfig
	if err := decodeStrictYAML(data, &raw); err != nil {
		return RawConfig{}, nil, "", fmt.Errorf("%s: %w", canon, err)
	}

	return raw, collectSources(&doc, canon), canon, nil
}

func decodeStrictYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	return nil
}

func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		// Best-effort; still use abs.
		return abs, nil
	}
	return real, nil
}

func pathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func collectSources(doc *yaml.Node, file string) map[string]Source {
	out := make(map[string]Source)
	if doc == nil {
		return out
	}
	node := doc
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return out
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		valNode := node.Content[i+1]
		out[node.Content[i].Value] = Source{
			Kind:   SourceFile,
			File:   file,
			Line:   valNode.Line,
			Column: valNode.Column,
		}
	}
	return out
}

func attachSourceContext(err error, sources map[string]Source) error {
	verr, ok := err.(*ValidationError)
	if !ok || verr == nil {
		return err
	}
	if verr.Path == "" {
		return err
	}
	if src, ok := sources[verr.Path]; ok {
		verr.Source = src
	}
	return verr
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
