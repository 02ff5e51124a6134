package main

import (
	"fmt"
	"slices"

	"github.com/kbukum/studentstats"
	"github.com/kbukum/studentstats/config"
	"github.com/kbukum/studentstats/observability"
	"github.com/kbukum/studentstats/studentapi"
	"github.com/kbukum/studentstats/studentapi/rest"
	"github.com/kbukum/studentstats/studentapi/server"
	"github.com/kbukum/studentstats/studentapi/sqlite"
	"github.com/kbukum/studentstats/validation"
)

const serviceName = "studentstats"

// Student list sources.
const (
	SourceMemory = "memory"
	SourceREST   = "rest"
	SourceSQLite = "sqlite"
)

var sources = []string{SourceMemory, SourceREST, SourceSQLite}

// AppConfig is the studentstats configuration, read from config.yml and
// STUDENTSTATS_* environment variables.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Source   string `yaml:"source" mapstructure:"source"`
	Dataset  string `yaml:"dataset" mapstructure:"dataset"`
	PageSize int    `yaml:"page_size" mapstructure:"page_size"`
	Retries  int    `yaml:"retries" mapstructure:"retries"`

	REST          rest.Config          `yaml:"rest" mapstructure:"rest"`
	SQLite        sqlite.Config        `yaml:"sqlite" mapstructure:"sqlite"`
	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills in unset fields.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	if c.Source == "" {
		c.Source = SourceMemory
	}
	if c.PageSize <= 0 {
		c.PageSize = studentapi.DefaultPageSize
	}
	c.REST.ApplyDefaults()
	c.SQLite.ApplyDefaults()
	c.Server.ApplyDefaults()

	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = c.Name
	}
	if c.Observability.Environment == "" {
		c.Observability.Environment = c.Environment
	}
}

// Validate checks the sections the selected source needs.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}

	v := validation.New().
		Custom(slices.Contains(sources, c.Source), "source", fmt.Sprintf("must be one of %v", sources)).
		Min("retries", c.Retries, 0).
		Min("page_size", c.PageSize, 1)
	if c.Source == SourceMemory {
		v.Required("dataset", c.Dataset)
	}
	if err := v.Err(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	switch c.Source {
	case SourceREST:
		if err := c.REST.Validate(); err != nil {
			return fmt.Errorf("config.rest: %w", err)
		}
	case SourceSQLite:
		if err := c.SQLite.Validate(); err != nil {
			return fmt.Errorf("config.sqlite: %w", err)
		}
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("config.server: %w", err)
	}
	if c.Observability.Enabled {
		if err := validation.Validate(c.Observability); err != nil {
			return fmt.Errorf("config.observability: %w", err)
		}
	}
	return nil
}

func loadConfig(path string) (*AppConfig, error) {
	var opts []config.LoaderOption
	if path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}
	opts = append(opts, config.WithDefaults(map[string]any{"retries": studentstats.DefaultRetries}))

	cfg := &AppConfig{}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	return cfg, nil
}
