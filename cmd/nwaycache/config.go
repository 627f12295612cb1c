// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"

	"github.com/luxfi/nwaycache/setassoc"
)

const (
	policySetAssoc = "setassoc"
	policyLRU      = "lru"
)

var (
	errConfigRead       = errors.New("cannot read config file")
	errConfigInvalid    = errors.New("invalid config file")
	errConfigFormat     = errors.New("unsupported config file extension")
	errUnknownPolicy    = errors.New("unknown eviction policy")
	errUnknownLogLevel  = errors.New("unknown log level")
	errMetricsNamespace = errors.New("metrics_namespace cannot be empty")
)

// Config holds all CLI configuration.
type Config struct {
	setassoc.Config `yaml:",inline"`

	Policy           string `json:"policy" yaml:"policy"`
	MetricsNamespace string `json:"metrics_namespace" yaml:"metrics_namespace"`
	LogLevel         string `json:"log_level" yaml:"log_level"`
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() Config {
	return Config{
		Config:           setassoc.DefaultConfig(),
		Policy:           policySetAssoc,
		MetricsNamespace: "nwaycache",
		LogLevel:         "info",
	}
}

// LoadConfig reads path on top of the defaults. JSON files may carry
// comments and trailing commas; YAML is picked by extension.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", errConfigRead, path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("%w %s: %w", errConfigInvalid, path, err)
		}
	case ".json", ".jsonc":
		standardized, err := hujson.Standardize(data)
		if err != nil {
			return Config{}, fmt.Errorf("%w %s: invalid JSONC: %w", errConfigInvalid, path, err)
		}
		decoder := json.NewDecoder(bytes.NewReader(standardized))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("%w %s: %w", errConfigInvalid, path, err)
		}
	default:
		return Config{}, fmt.Errorf("%w: %s", errConfigFormat, path)
	}

	return cfg, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if err := c.Config.Validate(); err != nil {
		return err
	}
	switch c.Policy {
	case policySetAssoc, policyLRU:
	default:
		return fmt.Errorf("%w: %q", errUnknownPolicy, c.Policy)
	}
	if c.MetricsNamespace == "" {
		return errMetricsNamespace
	}
	_, err := c.Level()
	return err
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: %q", errUnknownLogLevel, c.LogLevel)
	}
	return level, nil
}
