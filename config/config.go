// Package config loads the .greentree.yaml file that tunes logging, tree
// diffing and formatting.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/greentree/format"
	"github.com/dhamidi/greentree/treediff"
)

// FileName is the name Find looks for.
const FileName = ".greentree.yaml"

// ErrInvalid is returned for configuration values out of range.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Log    LogConfig    `yaml:"log"`
	Diff   DiffConfig   `yaml:"diff"`
	Format FormatConfig `yaml:"format"`
}

type LogConfig struct {
	// Verbosity is passed to commonlog.Configure: 0 logs errors only,
	// every step up adds a level.
	Verbosity int `yaml:"verbosity"`
	// Path is a log file. Empty means stderr.
	Path string `yaml:"path,omitempty"`
}

type DiffConfig struct {
	// MaxLCSCells bounds the table of one child alignment before the
	// differ falls back to replacing the whole range.
	MaxLCSCells int `yaml:"max_lcs_cells"`
	// Context is the number of unchanged lines around unified diff hunks.
	Context int `yaml:"context"`
}

type FormatConfig struct {
	Indent        string `yaml:"indent"`
	MaxBlankLines int    `yaml:"max_blank_lines"`
}

func Default() Config {
	return Config{
		Log: LogConfig{
			Verbosity: 1,
		},
		Diff: DiffConfig{
			MaxLCSCells: treediff.DefaultMaxLCSCells,
			Context:     3,
		},
		Format: FormatConfig{
			Indent:        "    ",
			MaxBlankLines: 1,
		},
	}
}

// Parse reads YAML on top of the defaults. Unknown keys are errors.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.Log.Verbosity < 0:
		return fmt.Errorf("%w: log.verbosity %d", ErrInvalid, c.Log.Verbosity)
	case c.Diff.MaxLCSCells <= 0:
		return fmt.Errorf("%w: diff.max_lcs_cells %d", ErrInvalid, c.Diff.MaxLCSCells)
	case c.Diff.Context < 0:
		return fmt.Errorf("%w: diff.context %d", ErrInvalid, c.Diff.Context)
	case c.Format.MaxBlankLines < 0:
		return fmt.Errorf("%w: format.max_blank_lines %d", ErrInvalid, c.Format.MaxBlankLines)
	}
	return nil
}

// Load reads the configuration at path. With an empty path, Find looks
// for a file starting at the working directory; when there is none, the
// defaults are returned.
func Load(path string) (Config, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
		found, ok := Find(wd)
		if !ok {
			return Default(), nil
		}
		path = found
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Find walks from dir up to the filesystem root looking for FileName.
func Find(dir string) (string, bool) {
	for d := filepath.Clean(dir); ; d = filepath.Dir(d) {
		candidate := filepath.Join(d, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		if filepath.Dir(d) == d {
			return "", false
		}
	}
}

// Write stores c at path, creating parent directories as needed.
func (c Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func (c Config) DiffOptions() []treediff.Option {
	return []treediff.Option{treediff.WithMaxLCSCells(c.Diff.MaxLCSCells)}
}

func (c Config) FormatOptions() []format.Option {
	return []format.Option{
		format.WithIndent(c.Format.Indent),
		format.WithMaxBlankLines(c.Format.MaxBlankLines),
	}
}
