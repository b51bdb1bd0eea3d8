package config

import (
	"math"
	"strings"
	"time"

	"github.com/kbukum/demoassets/errors"
	"github.com/kbukum/demoassets/validation"
)

const (
	// FileName is the persisted config file name in both the working
	// directory and the user's home directory.
	FileName = ".demo-assets.json"
	// EnvPrefix namespaces environment overrides, e.g. DEMO_ASSETS_BUCKET.
	EnvPrefix = "DEMO_ASSETS"
	// MaxHours caps the signing window; SigV4 presigned URLs cannot outlive 7 days.
	MaxHours = 168
)

// Built-in defaults applied when no persisted file exists.
const (
	DefaultRegion  = "us-east-1"
	DefaultBucket  = "audioshake"
	DefaultPrefix  = "demo-assets/"
	DefaultProfile = "admin"
	DefaultHours   = 12
)

// Config is the effective configuration for one invocation.
type Config struct {
	Region  string `json:"region" mapstructure:"region" validate:"required"`
	Bucket  string `json:"bucket" mapstructure:"bucket" validate:"required"`
	Prefix  string `json:"prefix" mapstructure:"prefix"`
	Profile string `json:"profile" mapstructure:"profile"`
	Hours   int    `json:"hours" mapstructure:"hours" validate:"gte=1,lte=168"`

	// Endpoint points the gateway at an S3-compatible service such as
	// MinIO or LocalStack. Empty means AWS.
	Endpoint string `json:"endpoint,omitempty" mapstructure:"endpoint" validate:"omitempty,url"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Region:  DefaultRegion,
		Bucket:  DefaultBucket,
		Prefix:  DefaultPrefix,
		Profile: DefaultProfile,
		Hours:   DefaultHours,
	}
}

// Normalize trims every field and makes a non-empty prefix end with "/".
func (c *Config) Normalize() {
	c.Region = strings.TrimSpace(c.Region)
	c.Bucket = strings.TrimSpace(c.Bucket)
	c.Profile = strings.TrimSpace(c.Profile)
	c.Endpoint = strings.TrimSpace(c.Endpoint)
	c.Prefix = NormalizePrefix(c.Prefix)
}

// Validate checks struct constraints and returns a CONFIG_ERROR on failure.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

// WholeHours rejects a fractional hours value read from a file or the
// environment. Any other raw value is left to decoding.
func WholeHours(raw any) error {
	f, ok := raw.(float64)
	if !ok || f == math.Trunc(f) {
		return nil
	}
	return errors.ConfigError("hours must be a whole number").WithDetail("hours", f)
}

// TTL is the signed-URL validity window.
func (c *Config) TTL() time.Duration {
	return time.Duration(c.Hours) * time.Hour
}

// Key joins the prefix and a bare file name into an object key.
func (c *Config) Key(name string) string {
	return c.Prefix + name
}

// Title strips the prefix from an object key.
func (c *Config) Title(key string) string {
	return strings.TrimPrefix(key, c.Prefix)
}

// NormalizePrefix trims p and appends exactly one "/" when it is non-empty
// and does not already end with one.
func NormalizePrefix(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || strings.HasSuffix(p, "/") {
		return p
	}
	return p + "/"
}

// Overrides carries explicitly given command-line values. A nil field means
// the flag was not set.
type Overrides struct {
	Region   *string
	Bucket   *string
	Prefix   *string
	Profile  *string
	Hours    *int
	Endpoint *string
}
