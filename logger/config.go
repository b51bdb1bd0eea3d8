package logger

import (
	"fmt"
	"io"

	"github.com/kbukum/demoassets/util"
)

// Config contains logging configuration.
type Config struct {
	Level     string `yaml:"level" mapstructure:"level"`
	Format    string `yaml:"format" mapstructure:"format"`
	Output    string `yaml:"output" mapstructure:"output"`
	NoColor   bool   `yaml:"no_color" mapstructure:"no_color"`
	Timestamp bool   `yaml:"timestamp" mapstructure:"timestamp"`

	// Writer overrides Output when set. Tests use it to capture lines.
	Writer io.Writer `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults applies default values to logging configuration.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "console"
	}
	if c.Output == "" {
		c.Output = "stderr"
	}
}

// Validate validates logging configuration.
func (c *Config) Validate() error {
	validLevels := []string{"debug", "info", "warn", "error", "fatal", "trace"}
	if !util.Contains(validLevels, c.Level) {
		return fmt.Errorf("log level must be one of %v (got: %s)", validLevels, c.Level)
	}
	validFormats := []string{"json", "console", "text"}
	if !util.Contains(validFormats, c.Format) {
		return fmt.Errorf("log format must be one of %v (got: %s)", validFormats, c.Format)
	}
	return nil
}
