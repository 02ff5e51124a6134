package rest

import (
	"fmt"
	"strings"
	"time"

	"github.com/kbukum/studentstats/auth"
	"github.com/kbukum/studentstats/validation"
)

const defaultTimeout = 10 * time.Second

// Config configures the REST student list client.
type Config struct {
	// BaseURL is the server root, e.g. "http://localhost:8080".
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url" validate:"required,url"`
	// Timeout bounds one HTTP request. A request that hits it counts as a
	// timed out page fetch.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
	// Headers are sent with every request.
	Headers map[string]string `json:"headers" yaml:"headers" mapstructure:"headers"`
	// Auth mints the bearer token when a secret is set.
	Auth auth.Config `json:"auth" yaml:"auth" mapstructure:"auth"`
	// RateLimit caps requests per second; zero disables limiting.
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit" mapstructure:"rate_limit" validate:"gte=0"`
	RateBurst int     `json:"rate_burst" yaml:"rate_burst" mapstructure:"rate_burst" validate:"gte=0"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Auth.Enabled() {
		c.Auth.ApplyDefaults()
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("rest: %w", err)
	}
	if c.Auth.Enabled() {
		if err := c.Auth.Validate(); err != nil {
			return fmt.Errorf("rest: %w", err)
		}
	}
	return nil
}
