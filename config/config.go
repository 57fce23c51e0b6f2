// Package config loads the warden configuration from an optional YAML
// file with command-line flag overrides.
package config

import (
	"fmt"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config is the full runtime configuration.
type Config struct {
	Listen   string        `koanf:"listen"`
	RedisURL string        `koanf:"redis_url"`
	LogLevel string        `koanf:"log_level"`
	Session  SessionConfig `koanf:"session"`
	Captcha  CaptchaConfig `koanf:"captcha"`
	Events   EventsConfig  `koanf:"events"`
	Admin    AdminConfig   `koanf:"admin"`
}

// SessionConfig controls session persistence and the cookie.
type SessionConfig struct {
	CookieName        string        `koanf:"cookie_name"`
	CookieSecure      bool          `koanf:"cookie_secure"`
	TTL               time.Duration `koanf:"ttl"`
	FingerprintHeader string        `koanf:"fingerprint_header"`
}

// CaptchaConfig controls the one-time challenge store.
type CaptchaConfig struct {
	TTL time.Duration `koanf:"ttl"`
}

// EventsConfig controls the security-event publisher.
type EventsConfig struct {
	Enabled bool `koanf:"enabled"`
}

// AdminConfig optionally seeds one account with the admin permission on
// boot, so a fresh deployment is reachable.
type AdminConfig struct {
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Listen:   ":9000",
		RedisURL: "redis://localhost:6379/0",
		LogLevel: "info",
		Session: SessionConfig{
			CookieName:        "warden_session",
			TTL:               30 * time.Minute,
			FingerprintHeader: "User-Agent",
		},
		Captcha: CaptchaConfig{
			TTL: 5 * time.Minute,
		},
		Events: EventsConfig{
			Enabled: true,
		},
	}
}

// Load parses flags, reads the config file if one is given, and applies
// flag overrides on top.
func Load(args []string) (*Config, error) {
	cfg := Default()

	fs := pflag.NewFlagSet("warden", pflag.ContinueOnError)
	fs.String("config", "", "config file path")
	fs.String("listen", cfg.Listen, "listen address")
	fs.String("redis_url", cfg.RedisURL, "redis connection URL")
	fs.String("log_level", cfg.LogLevel, "log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	k := koanf.New(".")

	if path, _ := fs.GetString("config"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
		return nil, fmt.Errorf("failed to load flags: %w", err)
	}

	k.Delete("config")

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}
