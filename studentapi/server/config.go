package server

import (
	"fmt"
	"time"

	"github.com/kbukum/studentstats/auth"
)

// Config holds HTTP server configuration.
type Config struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	// PageTimeout bounds a single page fetch from the underlying list.
	PageTimeout time.Duration `yaml:"page_timeout" mapstructure:"page_timeout"`
	Auth        auth.Config   `yaml:"auth" mapstructure:"auth"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 15 * time.Second
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60 * time.Second
	}
	if c.PageTimeout == 0 {
		c.PageTimeout = 5 * time.Second
	}
	if c.Auth.Enabled() {
		c.Auth.ApplyDefaults()
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535 (got: %d)", c.Port)
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 || c.IdleTimeout < 0 {
		return fmt.Errorf("server timeouts must be non-negative")
	}
	if c.PageTimeout < 0 {
		return fmt.Errorf("server.page_timeout must be non-negative (got: %s)", c.PageTimeout)
	}
	if c.Auth.Enabled() {
		if err := c.Auth.Validate(); err != nil {
			return fmt.Errorf("server.auth: %w", err)
		}
	}
	return nil
}
