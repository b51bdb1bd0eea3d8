package manifest

import (
	"context"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kbukum/demoassets/config"
	"github.com/kbukum/demoassets/errors"
	"github.com/kbukum/demoassets/logger"
	"github.com/kbukum/demoassets/media"
	"github.com/kbukum/demoassets/storage"
	"github.com/kbukum/demoassets/util"
)

// DefaultConcurrency bounds in-flight signing calls.
const DefaultConcurrency = 8

// Outcome classifies how a build or listing ended.
type Outcome string

const (
	// OutcomeWritten means a manifest was written.
	OutcomeWritten Outcome = "written"
	// OutcomeListed means objects were listed without writing anything.
	OutcomeListed Outcome = "listed"
	// OutcomeNoAssets means the prefix holds no objects.
	OutcomeNoAssets Outcome = "no_assets"
	// OutcomeNoMatching means an active allow-list excluded every object.
	OutcomeNoMatching Outcome = "no_matching"
)

// Soft reports whether the run ended with nothing to do.
func (o Outcome) Soft() bool {
	return o == OutcomeNoAssets || o == OutcomeNoMatching
}

// Failure records one object that could not be signed.
type Failure struct {
	Key string
	Err error
}

// Result summarises a Build.
type Result struct {
	Outcome  Outcome
	Path     string
	Manifest *Manifest
	Listed   int
	Matched  int
	Expiry   time.Time
	Failures []Failure
}

// Listing is the result of List.
type Listing struct {
	Outcome   Outcome
	Objects   []storage.Object
	TotalSize int64
}

// Builder produces manifests from a gateway.
type Builder struct {
	gw          storage.Gateway
	cfg         *config.Config
	allow       media.AllowList
	output      string
	concurrency int
	now         func() time.Time
	log         *logger.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithAllowList restricts objects to the given extensions.
func WithAllowList(a media.AllowList) Option {
	return func(b *Builder) { b.allow = a }
}

// WithOutput sets the manifest path.
func WithOutput(path string) Option {
	return func(b *Builder) { b.output = path }
}

// WithConcurrency sets the signing fan-out limit. Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(b *Builder) { b.log = l }
}

// NewBuilder creates a builder over gw using the effective configuration.
func NewBuilder(gw storage.Gateway, cfg *config.Config, opts ...Option) *Builder {
	b := &Builder{
		gw:          gw,
		cfg:         cfg,
		output:      DefaultFileName,
		concurrency: DefaultConcurrency,
		now:         time.Now,
		log:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.log = b.log.WithComponent("manifest")
	return b
}

// list fetches and filters objects. The outcome is empty when objects remain.
func (b *Builder) list(ctx context.Context) ([]storage.Object, int, Outcome, error) {
	objs, err := b.gw.List(ctx, b.cfg.Prefix)
	if err != nil {
		return nil, 0, "", err
	}
	listed := storage.DropDirectoryMarkers(objs)
	matched := util.Filter(listed, func(o storage.Object) bool {
		return b.allow.AllowsKey(o.Key)
	})

	fields := logger.Fields(logger.FieldPrefix, b.cfg.Prefix, logger.FieldCount, len(matched))
	switch {
	case len(matched) > 0:
		return matched, len(listed), "", nil
	case b.allow.Active():
		fields["types"] = b.allow.String()
		b.log.Warn("⚠ no matching assets", fields)
		return nil, len(listed), OutcomeNoMatching, nil
	default:
		b.log.Warn("⚠ no assets found", fields)
		return nil, len(listed), OutcomeNoAssets, nil
	}
}

// List lists and filters objects without signing or writing anything.
func (b *Builder) List(ctx context.Context) (*Listing, error) {
	objs, _, outcome, err := b.list(ctx)
	if err != nil {
		return nil, err
	}
	if outcome != "" {
		return &Listing{Outcome: outcome}, nil
	}
	l := &Listing{Outcome: OutcomeListed, Objects: objs}
	for _, o := range objs {
		l.TotalSize += o.Size
	}
	return l, nil
}

type signResult struct {
	asset Asset
	err   error
}

// Build lists, filters, signs and writes the manifest. Soft outcomes write
// nothing and leave any existing manifest in place.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	objs, listed, outcome, err := b.list(ctx)
	if err != nil {
		return nil, err
	}
	if outcome != "" {
		return &Result{Outcome: outcome, Listed: listed}, nil
	}

	expiry := b.now().Add(b.cfg.TTL())
	expiryStr := FormatExpiry(expiry)
	ttl := b.cfg.TTL()

	results := make([]signResult, len(objs))
	var g errgroup.Group
	g.SetLimit(b.concurrency)
	for i, obj := range objs {
		g.Go(func() error {
			url, err := b.gw.SignedURL(ctx, obj.Key, ttl)
			if err != nil {
				results[i].err = err
				return nil
			}
			results[i].asset = Asset{
				Src:    url,
				Title:  b.cfg.Title(obj.Key),
				Format: media.ContentTypeOf(obj.Key),
				Expiry: expiryStr,
			}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, errors.Internal(err)
	}

	res := &Result{
		Outcome:  OutcomeWritten,
		Path:     b.output,
		Manifest: &Manifest{Assets: make([]Asset, 0, len(objs))},
		Listed:   listed,
		Matched:  len(objs),
		Expiry:   expiry,
	}
	for i, r := range results {
		key := objs[i].Key
		if r.err != nil {
			res.Failures = append(res.Failures, Failure{Key: key, Err: r.err})
			fields := logger.ErrorFields("sign", r.err)
			fields[logger.FieldKey] = key
			b.log.Error("✗ failed to sign", fields)
			continue
		}
		res.Manifest.Assets = append(res.Manifest.Assets, r.asset)
		b.log.Debug("✔ signed", logger.Fields(logger.FieldKey, key))
	}

	if err := Write(b.output, res.Manifest); err != nil {
		return nil, err
	}
	b.log.Info("✔ wrote manifest", logger.Fields(
		logger.FieldPath, filepath.Clean(b.output),
		logger.FieldCount, len(res.Manifest.Assets),
		"failed", len(res.Failures),
		"expiry", expiryStr,
	))
	return res, nil
}
