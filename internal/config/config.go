// Package config loads the recforge.toml project file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the project file looked up from the working directory.
const FileName = "recforge.toml"

// Config is the decoded project file with defaults applied.
type Config struct {
	Derive DeriveConfig `toml:"derive"`
	Output OutputConfig `toml:"output"`
	Log    LogConfig    `toml:"log"`
	Inputs InputsConfig `toml:"inputs"`

	// Path is the file the config was read from; empty for defaults.
	Path string `toml:"-"`
	// Root is the directory holding Path. Input paths are relative to it.
	Root string `toml:"-"`
}

type DeriveConfig struct {
	Jobs   int  `toml:"jobs"`
	Verify bool `toml:"verify"`
}

type OutputConfig struct {
	Format string `toml:"format"`
	Color  string `toml:"color"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type InputsConfig struct {
	Records []string `toml:"records"`
}

// Default returns the configuration used when no project file exists.
func Default() *Config {
	return &Config{
		Derive: DeriveConfig{Jobs: runtime.GOMAXPROCS(0)},
		Output: OutputConfig{Format: "text", Color: "auto"},
		Log:    LogConfig{Level: "none"},
	}
}

// Find walks up from startDir looking for recforge.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the nearest project file, or the defaults when there is
// none.
func Discover(startDir string) (*Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load decodes path over the defaults and validates it.
func Load(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	cfg.Path = path
	cfg.Root = filepath.Dir(path)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if c.Derive.Jobs < 0 {
		return fmt.Errorf("[derive].jobs must not be negative, got %d", c.Derive.Jobs)
	}
	if c.Derive.Jobs == 0 {
		c.Derive.Jobs = runtime.GOMAXPROCS(0)
	}
	switch strings.ToLower(c.Output.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("[output].format must be text or json, got %q", c.Output.Format)
	}
	switch strings.ToLower(c.Output.Color) {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("[output].color must be auto, on or off, got %q", c.Output.Color)
	}
	switch strings.ToLower(c.Log.Level) {
	case "none", "normal", "debug":
	default:
		return fmt.Errorf("[log].level must be none, normal or debug, got %q", c.Log.Level)
	}
	for _, r := range c.Inputs.Records {
		if strings.TrimSpace(r) == "" {
			return errors.New("[inputs].records contains an empty path")
		}
	}
	return nil
}

// RecordPaths resolves the configured inputs against Root. Glob patterns
// are expanded; a pattern matching nothing is an error.
func (c *Config) RecordPaths() ([]string, error) {
	var out []string
	for _, r := range c.Inputs.Records {
		p := filepath.FromSlash(r)
		if !filepath.IsAbs(p) && c.Root != "" {
			p = filepath.Join(c.Root, p)
		}
		if !strings.ContainsAny(p, "*?[") {
			out = append(out, p)
			continue
		}
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("[inputs].records: %w", err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("[inputs].records: %q matches no files", r)
		}
		out = append(out, matches...)
	}
	return out, nil
}
