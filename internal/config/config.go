// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

// Package config loads runtime configuration with layered precedence:
// built-in defaults, then an optional YAML file, then command-line
// flags.
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/lorekeep/lorekeep/internal/xdg"
)

// Backend names accepted by the storage layer.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

var validBackends = []string{BackendMemory, BackendFile, BackendPostgres}

// Config is the resolved runtime configuration.
type Config struct {
	DataDir           string `koanf:"data_dir"`
	Backend           string `koanf:"backend"`
	DatabaseURL       string `koanf:"database_url"`
	StateKey          string `koanf:"state_key"`
	LogLevel          string `koanf:"log_level"`
	LogFormat         string `koanf:"log_format"`
	HookScript        string `koanf:"hook_script"`
	ObservabilityAddr string `koanf:"observability_addr"`
}

func defaults() map[string]any {
	return map[string]any{
		"data_dir":           xdg.DataDir(),
		"backend":            BackendFile,
		"database_url":       "",
		"state_key":          "campaign",
		"log_level":          "info",
		"log_format":         "text",
		"hook_script":        "",
		"observability_addr": "",
	}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigDir(), "config.yaml")
}

// Load resolves configuration from defaults, the YAML file at path
// (DefaultPath when empty, skipped silently if absent), and flags.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").Wrapf(err, "loading defaults")
	}

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		// A missing default config file is fine; an explicit one is not.
		if explicit || !os.IsNotExist(err) {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("path", path).Wrapf(err, "loading config file")
		}
	}

	if flags != nil {
		// Flag names use dashes; config keys use underscores.
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").Wrapf(err, "loading flags")
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").Wrapf(err, "unmarshalling config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if !slices.Contains(validBackends, c.Backend) {
		return oops.Code("CONFIG_INVALID").With("backend", c.Backend).Errorf("unknown backend %q (valid: memory, file, postgres)", c.Backend)
	}
	if c.Backend == BackendPostgres && c.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("backend postgres requires database_url")
	}
	if c.StateKey == "" {
		return oops.Code("CONFIG_INVALID").Errorf("state_key cannot be empty")
	}
	return nil
}
