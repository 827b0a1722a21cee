// MovieGraph - Graph-Backed Movie Recommendations
// Copyright 2026 MovieGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviegraph/moviegraph

// Package config loads the service configuration from layered sources:
// built-in defaults, then an optional YAML file, then environment
// variables. ENV > file > defaults.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/moviegraph/moviegraph/internal/graph"
	"github.com/moviegraph/moviegraph/internal/graph/duckstore"
	"github.com/moviegraph/moviegraph/internal/importer"
	"github.com/moviegraph/moviegraph/internal/logging"
	"github.com/moviegraph/moviegraph/internal/recommend"
)

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "CONFIG_PATH"

// envPrefix namespaces the service's environment variables. Nested keys use
// a double underscore: MOVIEGRAPH_SERVER__PORT -> server.port.
const envPrefix = "MOVIEGRAPH_"

// defaultConfigPaths lists config file locations in priority order.
var defaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/moviegraph/config.yaml",
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host            string        `koanf:"host" json:"host"`
	Port            int           `koanf:"port" json:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" json:"read_timeout" validate:"min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout" json:"write_timeout" validate:"min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" json:"shutdown_timeout" validate:"min=1s"`
	CORSOrigins     []string      `koanf:"cors_origins" json:"cors_origins"`
	RateLimit       int           `koanf:"rate_limit" json:"rate_limit" validate:"min=0"`
}

// StorageConfig selects and tunes the graph store backend.
type StorageConfig struct {
	Backend string              `koanf:"backend" json:"backend" validate:"oneof=duckdb memory"`
	DuckDB  duckstore.Config    `koanf:"duckdb" json:"duckdb"`
	Breaker graph.BreakerConfig `koanf:"breaker" json:"breaker"`
}

// Config is the root service configuration.
type Config struct {
	Server    ServerConfig     `koanf:"server" json:"server"`
	Storage   StorageConfig    `koanf:"storage" json:"storage"`
	Dataset   importer.Config  `koanf:"dataset" json:"dataset"`
	Recommend recommend.Config `koanf:"recommend" json:"recommend"`
	Logging   logging.Config   `koanf:"logging" json:"logging"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimit:       120, // requests per minute per client
		},
		Storage: StorageConfig{
			Backend: "duckdb",
			DuckDB:  duckstore.DefaultConfig(),
			Breaker: graph.DefaultBreakerConfig(),
		},
		Dataset:   importer.DefaultConfig(),
		Recommend: *recommend.DefaultConfig(),
		Logging:   logging.DefaultConfig(),
	}
}

// Load builds the configuration from defaults, an optional YAML file, and
// MOVIEGRAPH_* environment variables, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider(envPrefix, ".", func(key string) string {
		key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
		return strings.ReplaceAll(key, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the whole configuration tree.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if err := c.Recommend.Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	if c.Storage.Backend == "duckdb" && c.Storage.DuckDB.Path == "" {
		return fmt.Errorf("storage.duckdb.path must be set for the duckdb backend")
	}
	return nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range defaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
