// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

// Package config loads settings for the jsyntax-test tool from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the name of the configuration file read from the working
// directory when no other file is specified.
const DefaultFile = ".jsyntax.yaml"

// maxFileSize bounds the size of a configuration file.
const maxFileSize = 1 << 20

// ColorMode selects when output is decorated with ANSI color.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // if the output is a terminal
	ColorAlways ColorMode = "always" // unconditionally
	ColorNever  ColorMode = "never"  // never
)

// Config holds the settings of the tool. Command-line flags take precedence
// over these values.
type Config struct {
	// File extensions processed in directory mode, including the dot.
	Extensions []string `yaml:"extensions"`

	// When to color visual and node-kind output.
	Color ColorMode `yaml:"color"`

	// Base log verbosity; each --verbose flag adds one.
	Verbosity int `yaml:"verbosity"`

	// Write logs to this file rather than stderr.
	LogFile string `yaml:"log-file"`

	// Cross-check each parse against the reference parser.
	VerifySyntaxTree bool `yaml:"verify-syntax-tree"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Extensions:       []string{".json", ".jwcc", ".hujson"},
		Color:            ColorAuto,
		VerifySyntaxTree: true,
	}
}

// Load reads the configuration file at path. Settings not mentioned in the
// file keep their default values. If allowMissing is true and the file does
// not exist, Load returns the defaults.
func Load(path string, allowMissing bool) (Config, error) {
	cfg := Default()
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && allowMissing {
			return cfg, nil
		}
		return cfg, err
	}
	if info.Size() > maxFileSize {
		return cfg, fmt.Errorf("%s exceeds maximum size (%d bytes > %d byte limit)", path, info.Size(), maxFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	return Parse(data)
}

// Parse parses a configuration from YAML text. Unknown fields are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate reports whether c is a usable configuration.
func (c Config) Validate() error {
	var errs []error
	if _, err := ParseColor(string(c.Color)); err != nil {
		errs = append(errs, err)
	}
	if len(c.Extensions) == 0 {
		errs = append(errs, errors.New("no file extensions configured"))
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			errs = append(errs, fmt.Errorf("invalid file extension %q", ext))
		}
	}
	if c.Verbosity < 0 {
		errs = append(errs, fmt.Errorf("invalid verbosity %d", c.Verbosity))
	}
	return errors.Join(errs...)
}

// HasExtension reports whether the name of a file has one of the configured
// extensions.
func (c Config) HasExtension(name string) bool {
	return slices.ContainsFunc(c.Extensions, func(ext string) bool {
		return strings.HasSuffix(name, ext) && len(name) > len(ext)
	})
}

// ParseColor parses the name of a color mode.
func ParseColor(s string) (ColorMode, error) {
	switch m := ColorMode(s); m {
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	}
	return "", fmt.Errorf("invalid color mode %q (want auto, always, or never)", s)
}
