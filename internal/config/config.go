// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"net"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration.
type Config struct {
	Bind string `env:"BIND" envDefault:"0.0.0.0"`
	Port string `env:"PORT" envDefault:"4567"`

	UpstreamBaseURL string        `env:"SYOBOCAL_BASE_URL" envDefault:"https://cal.syoboi.jp"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"30s"`

	ChannelTTL time.Duration `env:"CHANNEL_CACHE_TTL" envDefault:"1h"`
	ProgramTTL time.Duration `env:"PROGRAM_CACHE_TTL" envDefault:"30m"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ChannelTTL <= 0 {
		return fmt.Errorf("CHANNEL_CACHE_TTL must be positive, got %s", c.ChannelTTL)
	}
	if c.ProgramTTL <= 0 {
		return fmt.Errorf("PROGRAM_CACHE_TTL must be positive, got %s", c.ProgramTTL)
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive, got %s", c.UpstreamTimeout)
	}
	return nil
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Bind, c.Port)
}
