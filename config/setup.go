package config

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/kbukum/demoassets/errors"
	"github.com/kbukum/demoassets/storage"
)

// Prompter asks line-oriented questions over a reader/writer pair.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter wraps in and out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Ask prints label, offering def when non-empty, and returns the trimmed
// answer or def for a blank line. EOF counts as a blank line.
func (p *Prompter) Ask(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}
	line, err := p.in.ReadString('\n')
	if err != nil && !stderrors.Is(err, io.EOF) {
		return "", errors.ConfigError("cannot read answer").WithCause(err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def, nil
	}
	return line, nil
}

// Println writes one line of wizard output.
func (p *Prompter) Println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

// CheckerFactory builds an identity checker for a candidate profile/region pair.
type CheckerFactory func(ctx context.Context, region, profile string) (storage.IdentityChecker, error)

// SetupResult describes what the wizard persisted.
type SetupResult struct {
	Config   Config
	Path     string
	Identity storage.Identity
}

// Setup runs the interactive wizard. Region offers the default; bucket,
// prefix and profile are required. The profile/region pair is verified with
// an identity check before anything is written.
func (r *Resolver) Setup(ctx context.Context, p *Prompter, newChecker CheckerFactory) (*SetupResult, error) {
	p.Println("demo-assets setup")

	region, err := p.Ask("AWS region", DefaultRegion)
	if err != nil {
		return nil, err
	}
	answers := []struct {
		label string
		field string
		value string
	}{
		{label: "S3 bucket", field: "bucket"},
		{label: "Key prefix", field: "prefix"},
		{label: "AWS profile", field: "profile"},
	}
	for i := range answers {
		v, err := p.Ask(answers[i].label, "")
		if err != nil {
			return nil, err
		}
		if v == "" {
			return nil, errors.MissingField(answers[i].field)
		}
		answers[i].value = v
	}

	cfg := Config{
		Region:  region,
		Bucket:  answers[0].value,
		Prefix:  answers[1].value,
		Profile: answers[2].value,
		Hours:   DefaultHours,
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	checker, err := newChecker(ctx, cfg.Region, cfg.Profile)
	if err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("cannot load credentials for profile %q", cfg.Profile)).WithCause(err)
	}
	id, err := checker.CheckIdentity(ctx)
	if err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("credential check failed for profile %q in %s", cfg.Profile, cfg.Region)).WithCause(err)
	}

	path, err := r.Save(cfg)
	if err != nil {
		return nil, err
	}
	return &SetupResult{Config: cfg, Path: path, Identity: id}, nil
}
