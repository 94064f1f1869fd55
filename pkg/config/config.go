// Copyright (C) 2025 SAGE-X Project
//
// This file is part of oidcpay-go.
//
// oidcpay-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// oidcpay-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with oidcpay-go.  If not, see <https://www.gnu.org/licenses/>.

// Package config loads oidcpay runtime settings from a YAML file and
// OIDCPAY_ prefixed environment variables.
//
// Nested keys map onto environment variables with underscores, so
// certs.cache_ttl is read from OIDCPAY_CERTS_CACHE_TTL.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/sage-x-project/oidcpay-go/pkg/certs"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable
const EnvPrefix = "OIDCPAY"

// Config is the full runtime configuration
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Certs  CertsConfig  `mapstructure:"certs"`
	Log    LogConfig    `mapstructure:"log"`
}

// ServerConfig configures the HTTP surface
type ServerConfig struct {
	Addr        string   `mapstructure:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins"`

	// AllowTestProvider accepts the test identity provider, whose signing
	// key is public. Development only.
	AllowTestProvider bool `mapstructure:"allow_test_provider"`
}

// CertsConfig configures the provider certificate fetcher
type CertsConfig struct {
	GoogleURL  string        `mapstructure:"google_url"`
	CacheTTL   time.Duration `mapstructure:"cache_ttl"`
	MaxRetries int           `mapstructure:"max_retries"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// LogConfig configures logrus
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("server.allow_test_provider", false)
	v.SetDefault("certs.google_url", certs.GoogleCertsURL)
	v.SetDefault("certs.cache_ttl", certs.DefaultCacheTTL)
	v.SetDefault("certs.max_retries", certs.DefaultMaxRetries)
	v.SetDefault("certs.timeout", certs.DefaultTimeout)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// New returns a viper instance with defaults and environment binding applied
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads path (when non-empty) over the defaults and environment
func Load(path string) (*Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}
	return FromViper(v)
}

// FromViper decodes and validates the settings held by v
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values the runtime cannot use
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if !strings.HasPrefix(c.Certs.GoogleURL, "https://") && !strings.HasPrefix(c.Certs.GoogleURL, "http://") {
		return fmt.Errorf("certs.google_url must be an http(s) URL, got %q", c.Certs.GoogleURL)
	}
	if c.Certs.CacheTTL < 0 {
		return fmt.Errorf("certs.cache_ttl cannot be negative")
	}
	if c.Certs.MaxRetries < 0 {
		return fmt.Errorf("certs.max_retries cannot be negative")
	}
	if c.Certs.Timeout <= 0 {
		return fmt.Errorf("certs.timeout must be positive")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// FetcherOptions converts the certs section for certs.NewFetcher
func (c CertsConfig) FetcherOptions(logger logrus.FieldLogger) certs.Options {
	return certs.Options{
		CacheTTL:   c.CacheTTL,
		MaxRetries: c.MaxRetries,
		Timeout:    c.Timeout,
		Logger:     logger,
	}
}

// NewLogger builds a logrus logger for the log section
func (c LogConfig) NewLogger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}

	logger := logrus.New()
	logger.SetLevel(level)
	if c.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}
