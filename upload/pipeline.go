package upload

import (
	"context"
	"os"
	"path/filepath"

	"github.com/kbukum/demoassets/config"
	"github.com/kbukum/demoassets/errors"
	"github.com/kbukum/demoassets/logger"
	"github.com/kbukum/demoassets/media"
	"github.com/kbukum/demoassets/storage"
	"github.com/kbukum/demoassets/util"
)

// Skip reasons.
const (
	ReasonNotAllowed  = "extension not in --type list"
	ReasonUnknownType = "unknown extension"
	ReasonNotFile     = "not a regular file"
)

// Pipeline uploads files through a gateway.
type Pipeline struct {
	gw      storage.Gateway
	cfg     *config.Config
	allow   media.AllowList
	workDir string
	log     *logger.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithAllowList restricts uploads to the given extensions.
func WithAllowList(a media.AllowList) Option {
	return func(p *Pipeline) { p.allow = a }
}

// WithWorkDir sets the directory relative paths are resolved against.
func WithWorkDir(dir string) Option {
	return func(p *Pipeline) { p.workDir = dir }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// NewPipeline creates a pipeline for the effective configuration.
func NewPipeline(gw storage.Gateway, cfg *config.Config, opts ...Option) *Pipeline {
	p := &Pipeline{gw: gw, cfg: cfg, log: logger.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.WithComponent("upload")
	return p
}

func (p *Pipeline) resolve(path string) string {
	if filepath.IsAbs(path) || p.workDir == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(p.workDir, path)
}

// Run uploads file and then every eligible file in dir. Either may be empty.
func (p *Pipeline) Run(ctx context.Context, file, dir string) *Report {
	report := &Report{}
	if file != "" {
		report.Merge(p.UploadFile(ctx, file))
	}
	if dir != "" && ctx.Err() == nil {
		report.Merge(p.UploadDir(ctx, dir))
	}
	return report
}

// UploadFile uploads one file. Unknown extensions are sent as generic
// binary; an active allow-list still applies.
func (p *Pipeline) UploadFile(ctx context.Context, path string) *Report {
	report := &Report{}
	full := p.resolve(path)

	info, err := os.Stat(full)
	if err != nil {
		p.fail(report, full, notFoundOr(full, err))
		return report
	}
	if !info.Mode().IsRegular() {
		p.skip(report, full, ReasonNotFile)
		return report
	}
	if !p.allow.Allows(media.Ext(full)) {
		p.skip(report, full, ReasonNotAllowed)
		return report
	}
	p.put(ctx, report, full, info.Size())
	return report
}

// UploadDir uploads the immediate regular files of dir whose extension is
// in the MIME table and, when active, the allow-list. Files are sent one at
// a time in name order.
func (p *Pipeline) UploadDir(ctx context.Context, dir string) *Report {
	report := &Report{}
	full := p.resolve(dir)

	entries, err := os.ReadDir(full)
	if err != nil {
		p.fail(report, full, notFoundOr(full, err))
		return report
	}

	files := util.Filter(entries, func(e os.DirEntry) bool { return e.Type().IsRegular() })
	var eligible []os.DirEntry
	for _, e := range files {
		path := filepath.Join(full, e.Name())
		ext := media.Ext(e.Name())
		switch {
		case !media.IsKnown(ext):
			report.Skipped = append(report.Skipped, Skipped{Path: path, Reason: ReasonUnknownType})
		case !p.allow.Allows(ext):
			report.Skipped = append(report.Skipped, Skipped{Path: path, Reason: ReasonNotAllowed})
		default:
			eligible = append(eligible, e)
		}
	}

	p.log.Debug("scanned directory", logger.Fields(
		logger.FieldPath, full,
		logger.FieldCount, len(eligible),
		"skipped", len(report.Skipped),
	))
	if len(eligible) == 0 {
		p.log.Warn("⚠ no eligible files to upload", logger.Fields(logger.FieldPath, full))
		return report
	}

	for _, e := range eligible {
		if ctx.Err() != nil {
			break
		}
		path := filepath.Join(full, e.Name())
		var size int64
		if info, err := e.Info(); err == nil {
			size = info.Size()
		}
		p.put(ctx, report, path, size)
	}
	p.log.Info("✔ directory upload finished", logger.Fields(
		logger.FieldPath, full,
		logger.FieldCount, len(report.Uploaded),
		"failed", len(report.Failures),
	))
	return report
}

func (p *Pipeline) put(ctx context.Context, report *Report, path string, size int64) {
	key := p.cfg.Key(filepath.Base(path))
	ct := media.ContentTypeOf(path)

	f, err := os.Open(path)
	if err != nil {
		p.fail(report, path, notFoundOr(path, err))
		return
	}
	defer f.Close()

	if err := p.gw.Upload(ctx, key, f, ct); err != nil {
		p.fail(report, path, err)
		return
	}
	report.Uploaded = append(report.Uploaded, Uploaded{Path: path, Key: key, ContentType: ct, Size: size})
	p.log.Info("✔ uploaded", logger.Fields(logger.FieldPath, path, logger.FieldKey, key, "size", util.FormatSize(size)))
}

func (p *Pipeline) fail(report *Report, path string, err error) {
	report.Failures = append(report.Failures, Failure{Path: path, Err: err})
	p.log.Error("✗ upload failed", logger.MergeWithError(logger.Fields(logger.FieldPath, path), err))
}

func (p *Pipeline) skip(report *Report, path, reason string) {
	report.Skipped = append(report.Skipped, Skipped{Path: path, Reason: reason})
	p.log.Warn("⚠ skipped", logger.Fields(logger.FieldPath, path, "reason", reason))
}

func notFoundOr(path string, err error) error {
	if os.IsNotExist(err) {
		return errors.NotFound(path).WithCause(err)
	}
	return errors.FilesystemError("open", path, err)
}
