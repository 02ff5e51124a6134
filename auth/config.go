package auth

import (
	"errors"
	"time"
)

// Config configures the token service.
type Config struct {
	// Secret is the HMAC signing key. An empty secret disables authentication.
	Secret   string        `yaml:"secret" mapstructure:"secret"`
	Issuer   string        `yaml:"issuer" mapstructure:"issuer"`
	Audience string        `yaml:"audience" mapstructure:"audience"`
	TTL      time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// Enabled reports whether a secret is configured.
func (c *Config) Enabled() bool {
	return c.Secret != ""
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Issuer == "" {
		c.Issuer = "studentstats"
	}
	if c.TTL == 0 {
		c.TTL = 15 * time.Minute
	}
}

// Validate checks the configuration for a usable signing setup.
func (c *Config) Validate() error {
	if c.Secret == "" {
		return errors.New("auth: secret is required")
	}
	if len(c.Secret) < 16 {
		return errors.New("auth: secret must be at least 16 bytes")
	}
	if c.TTL < 0 {
		return errors.New("auth: ttl must not be negative")
	}
	return nil
}
