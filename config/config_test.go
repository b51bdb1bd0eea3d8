package config

import (
	"testing"
	"time"

	"github.com/kbukum/demoassets/errors"
)

func TestNormalizePrefix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"demo-assets", "demo-assets/"},
		{"demo-assets/", "demo-assets/"},
		{"  nested/dir ", "nested/dir/"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			if got := NormalizePrefix(tc.in); got != tc.want {
				t.Errorf("NormalizePrefix(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(*Config) {}, false},
		{"missing bucket", func(c *Config) { c.Bucket = "" }, true},
		{"missing region", func(c *Config) { c.Region = "" }, true},
		{"empty profile uses default chain", func(c *Config) { c.Profile = "" }, false},
		{"hours zero", func(c *Config) { c.Hours = 0 }, true},
		{"hours at cap", func(c *Config) { c.Hours = MaxHours }, false},
		{"hours past cap", func(c *Config) { c.Hours = MaxHours + 1 }, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Defaults()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeConfig) {
				t.Errorf("expected CONFIG_ERROR, got %v", err)
			}
		})
	}
}

func TestConfigHelpers(t *testing.T) {
	cfg := Defaults()
	if cfg.TTL() != 12*time.Hour {
		t.Errorf("TTL() = %v", cfg.TTL())
	}
	if got := cfg.Key("a.mp3"); got != "demo-assets/a.mp3" {
		t.Errorf("Key() = %q", got)
	}
	if got := cfg.Title("demo-assets/sub/a.mp3"); got != "sub/a.mp3" {
		t.Errorf("Title() = %q", got)
	}
}
