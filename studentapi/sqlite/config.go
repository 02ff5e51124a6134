package sqlite

import (
	"fmt"
	"strings"
	"time"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Config holds SQLite connection configuration.
type Config struct {
	// Path is the database file, or MemoryPath.
	Path string `yaml:"path" mapstructure:"path"`

	// BusyTimeout is how long SQLite waits on a locked database before
	// failing with SQLITE_BUSY.
	BusyTimeout time.Duration `yaml:"busy_timeout" mapstructure:"busy_timeout"`

	// SlowQueryThreshold is the duration above which queries are logged as slow.
	SlowQueryThreshold time.Duration `yaml:"slow_query_threshold" mapstructure:"slow_query_threshold"`

	// LogLevel is the GORM log level: silent, error, warn or info.
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Path == "" {
		c.Path = MemoryPath
	}
	if c.BusyTimeout <= 0 {
		c.BusyTimeout = time.Second
	}
	if c.SlowQueryThreshold <= 0 {
		c.SlowQueryThreshold = 200 * time.Millisecond
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
}

// Validate checks that the configuration can be used.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "silent", "error", "warn", "info":
	default:
		return fmt.Errorf("invalid sqlite log_level %q", c.LogLevel)
	}
	if c.BusyTimeout < 0 {
		return fmt.Errorf("busy_timeout must be >= 0")
	}
	return nil
}

func (c *Config) dsn() string {
	if c.Path == MemoryPath {
		return c.Path
	}
	sep := "?"
	if strings.Contains(c.Path, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_busy_timeout=%d", c.Path, sep, c.BusyTimeout.Milliseconds())
}
