// Package config loads the cnc.toml trace options file. The file is
// discovered by walking up from the working directory, so commands can run
// from anywhere inside a project.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds trace options.
type Config struct {
	Trace TraceConfig `toml:"trace"`
	Dump  DumpConfig  `toml:"dump"`
	Graph GraphConfig `toml:"graph"`
}

// TraceConfig controls recording.
type TraceConfig struct {
	Enabled bool `toml:"enabled"`
}

// DumpConfig controls the textual dump output.
type DumpConfig struct {
	// Dir receives dump files; empty means stdout only.
	Dir string `toml:"dir"`
}

// GraphConfig controls diagram export.
type GraphConfig struct {
	// Path is the export file path; empty writes to stdout.
	Path string `toml:"path"`
	// Format is one of dot, json, msgpack, text.
	Format string `toml:"format"`
}

// Default returns the configuration used when no cnc.toml exists.
func Default() Config {
	return Config{
		Trace: TraceConfig{Enabled: true},
		Graph: GraphConfig{Format: "dot"},
	}
}

// Find walks up from startDir looking for cnc.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "cnc.toml")
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

// Load finds and parses cnc.toml starting from startDir, returning the
// defaults when no file exists.
func Load(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse %q: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Graph.Format {
	case "", "dot", "json", "msgpack", "text":
		return nil
	default:
		return fmt.Errorf("unknown graph format %q", c.Graph.Format)
	}
}
