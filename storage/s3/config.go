package s3

import (
	"errors"
	"fmt"
)

// DefaultRegion is the default AWS region.
const DefaultRegion = "us-east-1"

// Config holds S3 gateway configuration.
type Config struct {
	// Bucket is the S3 bucket every operation targets.
	Bucket string `mapstructure:"bucket" json:"bucket"`

	// Region is the AWS region.
	Region string `mapstructure:"region" json:"region"`

	// Profile is the shared-config profile credentials are loaded from.
	// Empty means the SDK default chain.
	Profile string `mapstructure:"profile" json:"profile"`

	// Endpoint is a custom S3-compatible endpoint (e.g. MinIO). Requests
	// to it use path-style addressing.
	Endpoint string `mapstructure:"endpoint" json:"endpoint"`
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
}

// Validate checks that the S3 configuration is valid.
func (c *Config) Validate() error {
	var errs []error
	if c.Bucket == "" {
		errs = append(errs, errors.New("s3: bucket is required"))
	}
	if c.Region == "" {
		errs = append(errs, errors.New("s3: region is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("s3: invalid config: %w", errors.Join(errs...))
	}
	return nil
}
