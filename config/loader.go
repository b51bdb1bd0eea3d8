package config

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/demoassets/errors"
)

// FileSystem interface for file operations (useful for testing).
type FileSystem interface {
	Exists(path string) bool
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
	Remove(path string) error
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (rfs *RealFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (rfs *RealFileSystem) WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o600)
}

func (rfs *RealFileSystem) Remove(path string) error {
	return os.Remove(path)
}

func (rfs *RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Resolver locates the persisted config files and merges every layer into
// one Config.
type Resolver struct {
	FileSystem FileSystem
	WorkDir    string
	HomeDir    string
}

// ResolverOption is a functional option for NewResolver.
type ResolverOption func(*Resolver)

// WithFileSystem sets a custom filesystem for the resolver.
func WithFileSystem(fs FileSystem) ResolverOption {
	return func(r *Resolver) { r.FileSystem = fs }
}

// WithWorkDir sets the directory searched for the local file and .env.
func WithWorkDir(dir string) ResolverOption {
	return func(r *Resolver) { r.WorkDir = dir }
}

// WithHomeDir sets the directory holding the global file.
func WithHomeDir(dir string) ResolverOption {
	return func(r *Resolver) { r.HomeDir = dir }
}

// NewResolver builds a Resolver rooted at the process working directory and
// the user's home directory unless overridden.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	if r.FileSystem == nil {
		r.FileSystem = &RealFileSystem{}
	}
	if r.WorkDir == "" {
		if wd, err := os.Getwd(); err == nil {
			r.WorkDir = wd
		} else {
			r.WorkDir = "."
		}
	}
	if r.HomeDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			r.HomeDir = home
		}
	}
	return r
}

// LocalPath is the working-directory config file.
func (r *Resolver) LocalPath() string {
	return filepath.Join(r.WorkDir, FileName)
}

// GlobalPath is the home-directory config file, or "" when no home is known.
func (r *Resolver) GlobalPath() string {
	if r.HomeDir == "" {
		return ""
	}
	return filepath.Join(r.HomeDir, FileName)
}

// ActivePath returns the first existing config file, local before global.
func (r *Resolver) ActivePath() (string, bool) {
	for _, p := range r.candidates() {
		if r.FileSystem.Exists(p) {
			return p, true
		}
	}
	return "", false
}

func (r *Resolver) candidates() []string {
	paths := []string{r.LocalPath()}
	if g := r.GlobalPath(); g != "" && g != paths[0] {
		paths = append(paths, g)
	}
	return paths
}

// Resolve merges defaults, the active file, the environment and o into the
// effective configuration. A file that exists but cannot be parsed is fatal.
func (r *Resolver) Resolve(o Overrides) (*Config, error) {
	// 1. .env never overrides variables already set
	envFile := filepath.Join(r.WorkDir, ".env")
	if r.FileSystem.Exists(envFile) {
		if err := r.FileSystem.LoadEnv(envFile); err != nil {
			return nil, errors.InvalidConfigFile(envFile, err)
		}
	}

	v := viper.New()
	v.SetConfigType("json")

	// 2. Built-in defaults
	d := Defaults()
	v.SetDefault("region", d.Region)
	v.SetDefault("bucket", d.Bucket)
	v.SetDefault("prefix", d.Prefix)
	v.SetDefault("profile", d.Profile)
	v.SetDefault("hours", d.Hours)
	v.SetDefault("endpoint", "")

	// 3. Active persisted file
	if path, ok := r.ActivePath(); ok {
		data, err := r.FileSystem.ReadFile(path)
		if err != nil {
			return nil, errors.InvalidConfigFile(path, err)
		}
		if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
			return nil, errors.InvalidConfigFile(path, err)
		}
	}

	// 4. DEMO_ASSETS_* environment
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	// 5. Explicit flags
	applyOverrides(v, o)

	if err := WholeHours(v.Get("hours")); err != nil {
		return nil, err
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.ConfigError("cannot decode configuration").WithCause(err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyOverrides(v *viper.Viper, o Overrides) {
	if o.Region != nil {
		v.Set("region", *o.Region)
	}
	if o.Bucket != nil {
		v.Set("bucket", *o.Bucket)
	}
	if o.Prefix != nil {
		v.Set("prefix", *o.Prefix)
	}
	if o.Profile != nil {
		v.Set("profile", *o.Profile)
	}
	if o.Hours != nil {
		v.Set("hours", *o.Hours)
	}
	if o.Endpoint != nil {
		v.Set("endpoint", *o.Endpoint)
	}
}
