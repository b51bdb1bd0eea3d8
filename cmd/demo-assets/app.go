package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kbukum/demoassets/config"
	"github.com/kbukum/demoassets/errors"
	"github.com/kbukum/demoassets/logger"
	"github.com/kbukum/demoassets/manifest"
	"github.com/kbukum/demoassets/media"
	"github.com/kbukum/demoassets/storage"
	"github.com/kbukum/demoassets/storage/s3"
	"github.com/kbukum/demoassets/upload"
	"github.com/kbukum/demoassets/util"
	"github.com/kbukum/demoassets/version"
)

const serviceName = "demo-assets"

// gatewayFactory builds a gateway bound to cfg.Bucket.
type gatewayFactory func(ctx context.Context, cfg *config.Config) (storage.Gateway, error)

type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	workDir string
	homeDir string

	newGateway gatewayFactory
	newChecker config.CheckerFactory

	opts options
	log  *logger.Logger
}

func newApp() *app {
	return &app{
		stdin:      os.Stdin,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		newGateway: newS3Gateway,
		newChecker: s3.IdentityCheckerFor,
	}
}

func newS3Gateway(ctx context.Context, cfg *config.Config) (storage.Gateway, error) {
	return s3.New(ctx, &s3.Config{
		Bucket:   cfg.Bucket,
		Region:   cfg.Region,
		Profile:  cfg.Profile,
		Endpoint: cfg.Endpoint,
	})
}

func (a *app) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   serviceName,
		Short: "Build a signed-URL manifest of demo assets in S3",
		Long: `demo-assets lists objects under the configured S3 prefix, presigns a
download URL for each and writes them to demo-assets.json.

Connection settings come from ./.demo-assets.json, then ~/.demo-assets.json,
then built-in defaults. Flags override both.`,
		Example: `  demo-assets                         # build demo-assets.json
  demo-assets --type mp3,wav --hours 24
  demo-assets --list
  demo-assets --upload clip.mp4
  demo-assets --uploadDir ./renders --type mp4
  demo-assets --setup`,
		Version:       version.GetShortVersion(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          a.run,
	}
	registerFlags(cmd.Flags(), &a.opts)
	return cmd
}

// execute runs the command and maps the outcome to a process exit code.
func (a *app) execute(ctx context.Context, args []string) int {
	cmd := a.command()
	cmd.SetArgs(args)
	cmd.SetIn(a.stdin)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return errors.ExitOK
	}
	a.report(err)
	return errors.ExitCode(err)
}

func (a *app) report(err error) {
	appErr, ok := errors.AsAppError(err)
	if a.log == nil || !ok {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return
	}
	fields := logger.Fields("code", string(appErr.Code))
	for k, v := range appErr.Details {
		fields[k] = v
	}
	if appErr.Cause != nil {
		fields = logger.MergeWithError(fields, appErr.Cause)
	}
	a.log.Error("✗ "+appErr.Message, fields)
}

func (a *app) initLogger() error {
	level := "info"
	if a.opts.verbose {
		level = "debug"
	}
	cfg := &logger.Config{
		Level:   level,
		Format:  a.opts.logFormat,
		NoColor: os.Getenv("NO_COLOR") != "",
		Writer:  a.stderr,
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return errors.ConfigError(err.Error()).WithDetail("flag", "logFormat")
	}
	a.log = logger.New(cfg, serviceName).WithFields(logger.Fields(logger.FieldRunID, uuid.NewString()))
	return nil
}

func (a *app) resolver() *config.Resolver {
	return config.NewResolver(config.WithWorkDir(a.workDir), config.WithHomeDir(a.homeDir))
}

func (a *app) run(cmd *cobra.Command, _ []string) error {
	if err := a.initLogger(); err != nil {
		return err
	}
	if a.opts.concurrency < 1 {
		return errors.ConfigError("concurrency must be at least 1").WithDetail("concurrency", a.opts.concurrency)
	}
	if a.workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return errors.Internal(err)
		}
		a.workDir = wd
	}

	ctx := cmd.Context()
	m := selectMode(&a.opts)
	a.log.Debug("selected mode", logger.Fields("mode", string(m)))

	switch m {
	case modeSetup:
		return a.runSetup(ctx)
	case modeShowConfig:
		return a.runShowConfig()
	case modeResetConfig:
		return a.runResetConfig()
	}

	cfg, err := a.resolver().Resolve(overrides(cmd.Flags(), &a.opts))
	if err != nil {
		return err
	}
	a.log.Debug("resolved configuration", logger.Fields(
		"region", cfg.Region,
		logger.FieldBucket, cfg.Bucket,
		logger.FieldPrefix, cfg.Prefix,
		"profile", cfg.Profile,
		"hours", cfg.Hours,
		"endpoint", cfg.Endpoint,
	))
	gw, err := a.newGateway(ctx, cfg)
	if err != nil {
		return err
	}
	allow := media.NewAllowList(a.opts.types...)

	switch m {
	case modeUpload:
		return a.runUpload(ctx, gw, cfg, allow)
	case modeList:
		return a.runList(ctx, gw, cfg, allow)
	default:
		return a.runBuild(ctx, gw, cfg, allow)
	}
}

func (a *app) runSetup(ctx context.Context) error {
	p := config.NewPrompter(a.stdin, a.stdout)
	res, err := a.resolver().Setup(ctx, p, a.newChecker)
	if err != nil {
		return err
	}
	a.log.Info("✔ configuration saved", logger.Fields(
		logger.FieldPath, res.Path,
		"account", res.Identity.Account,
		"arn", res.Identity.ARN,
	))
	return nil
}

func (a *app) runShowConfig() error {
	shown, err := a.resolver().Show()
	if err != nil {
		return err
	}
	if !shown.Found {
		fmt.Fprintln(a.stdout, "No configuration file found.")
		return nil
	}
	a.log.Info("✔ active configuration", logger.Fields(logger.FieldPath, shown.Path))
	content := shown.Content
	if len(content) == 0 || content[len(content)-1] != '\n' {
		content = append(content, '\n')
	}
	_, err = a.stdout.Write(content)
	return err
}

func (a *app) runResetConfig() error {
	removed, err := a.resolver().Reset()
	for _, p := range removed {
		a.log.Info("✔ removed", logger.Fields(logger.FieldPath, p))
	}
	if err != nil {
		return err
	}
	if len(removed) == 0 {
		a.log.Info("no configuration files to remove")
	}
	return nil
}

func (a *app) runUpload(ctx context.Context, gw storage.Gateway, cfg *config.Config, allow media.AllowList) error {
	p := upload.NewPipeline(gw, cfg,
		upload.WithAllowList(allow),
		upload.WithWorkDir(a.workDir),
		upload.WithLogger(a.log),
	)
	report := p.Run(ctx, a.opts.upload, a.opts.uploadDir)
	if err := ctx.Err(); err != nil {
		return errors.Internal(err)
	}
	a.log.Info("✔ upload finished", logger.Fields(
		logger.FieldBucket, cfg.Bucket,
		logger.FieldCount, len(report.Uploaded),
		"skipped", len(report.Skipped),
		"failed", len(report.Failures),
	))
	return nil
}

func (a *app) runList(ctx context.Context, gw storage.Gateway, cfg *config.Config, allow media.AllowList) error {
	b := manifest.NewBuilder(gw, cfg, manifest.WithAllowList(allow), manifest.WithLogger(a.log))
	listing, err := b.List(ctx)
	if err != nil {
		return err
	}
	if listing.Outcome.Soft() {
		return nil
	}
	if err := manifest.WriteListing(a.stdout, listing); err != nil {
		return errors.FilesystemError("write", "stdout", err)
	}
	a.log.Info("✔ listed", logger.Fields(
		logger.FieldPrefix, cfg.Prefix,
		logger.FieldCount, len(listing.Objects),
		"total", util.FormatSize(listing.TotalSize),
	))
	return nil
}

func (a *app) runBuild(ctx context.Context, gw storage.Gateway, cfg *config.Config, allow media.AllowList) error {
	out := util.Coalesce(a.opts.output, manifest.DefaultFileName)
	if !filepath.IsAbs(out) {
		out = filepath.Join(a.workDir, out)
	}
	b := manifest.NewBuilder(gw, cfg,
		manifest.WithAllowList(allow),
		manifest.WithOutput(out),
		manifest.WithConcurrency(a.opts.concurrency),
		manifest.WithLogger(a.log),
	)
	_, err := b.Build(ctx)
	return err
}
