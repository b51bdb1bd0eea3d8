package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/kbukum/demoassets/config"
	"github.com/kbukum/demoassets/logger"
	"github.com/kbukum/demoassets/manifest"
	"github.com/kbukum/demoassets/media"
)

// options is the typed result of parsing the flag table.
type options struct {
	upload      string
	uploadDir   string
	types       []string
	list        bool
	hours       int
	profile     string
	region      string
	bucket      string
	prefix      string
	endpoint    string
	output      string
	concurrency int
	verbose     bool
	logFormat   string
	setup       bool
	showConfig  bool
	resetConfig bool
}

// flagDef declares one flag. Target must be *string, *[]string, *bool or
// *int; Default must have the matching element type.
type flagDef struct {
	Name    string
	Short   string
	Usage   string
	Target  any
	Default any
}

// flagTable lists every flag bound to o. --help and --version are added by
// cobra itself.
func flagTable(o *options) []flagDef {
	return []flagDef{
		{Name: "upload", Usage: "upload one file", Target: &o.upload, Default: ""},
		{Name: "uploadDir", Usage: "upload eligible files in a directory (non-recursive)", Target: &o.uploadDir, Default: ""},
		{Name: "type", Usage: "restrict to these extensions (" + strings.Join(media.KnownExtensions(), ",") + ")", Target: &o.types, Default: []string(nil)},
		{Name: "list", Usage: "list bucket contents only", Target: &o.list, Default: false},
		{Name: "hours", Usage: fmt.Sprintf("signed URL validity in hours (1-%d)", config.MaxHours), Target: &o.hours, Default: config.DefaultHours},
		{Name: "profile", Usage: "AWS credential profile", Target: &o.profile, Default: ""},
		{Name: "region", Usage: "AWS region", Target: &o.region, Default: ""},
		{Name: "bucket", Usage: "S3 bucket", Target: &o.bucket, Default: ""},
		{Name: "prefix", Usage: "key prefix", Target: &o.prefix, Default: ""},
		{Name: "endpoint", Usage: "S3-compatible endpoint URL, e.g. http://localhost:4566", Target: &o.endpoint, Default: ""},
		{Name: "output", Usage: "manifest path", Target: &o.output, Default: manifest.DefaultFileName},
		{Name: "concurrency", Usage: "maximum concurrent signing requests", Target: &o.concurrency, Default: manifest.DefaultConcurrency},
		{Name: "verbose", Short: "v", Usage: "debug logging", Target: &o.verbose, Default: false},
		{Name: "logFormat", Usage: "log line format: console or json", Target: &o.logFormat, Default: logger.FormatConsole},
		{Name: "setup", Usage: "run the interactive configuration wizard", Target: &o.setup, Default: false},
		{Name: "showConfig", Usage: "print the active configuration file", Target: &o.showConfig, Default: false},
		{Name: "resetConfig", Usage: "delete local and global configuration files", Target: &o.resetConfig, Default: false},
	}
}

// registerFlags binds the table onto fs.
func registerFlags(fs *pflag.FlagSet, o *options) {
	for _, d := range flagTable(o) {
		switch t := d.Target.(type) {
		case *string:
			fs.StringVarP(t, d.Name, d.Short, d.Default.(string), d.Usage)
		case *[]string:
			fs.StringSliceVarP(t, d.Name, d.Short, d.Default.([]string), d.Usage)
		case *bool:
			fs.BoolVarP(t, d.Name, d.Short, d.Default.(bool), d.Usage)
		case *int:
			fs.IntVarP(t, d.Name, d.Short, d.Default.(int), d.Usage)
		default:
			panic(fmt.Sprintf("flag %s: unsupported target %T", d.Name, d.Target))
		}
	}
}

// overrides returns only the connection flags the user actually set.
func overrides(fs *pflag.FlagSet, o *options) config.Overrides {
	var ov config.Overrides
	if fs.Changed("region") {
		ov.Region = &o.region
	}
	if fs.Changed("bucket") {
		ov.Bucket = &o.bucket
	}
	if fs.Changed("prefix") {
		ov.Prefix = &o.prefix
	}
	if fs.Changed("profile") {
		ov.Profile = &o.profile
	}
	if fs.Changed("hours") {
		ov.Hours = &o.hours
	}
	if fs.Changed("endpoint") {
		ov.Endpoint = &o.endpoint
	}
	return ov
}

type mode string

const (
	modeSetup       mode = "setup"
	modeShowConfig  mode = "showConfig"
	modeResetConfig mode = "resetConfig"
	modeUpload      mode = "upload"
	modeList        mode = "list"
	modeBuild       mode = "build"
)

// selectMode picks the single mode to run. Help is resolved by cobra before
// this point.
func selectMode(o *options) mode {
	switch {
	case o.setup:
		return modeSetup
	case o.showConfig:
		return modeShowConfig
	case o.resetConfig:
		return modeResetConfig
	case o.upload != "" || o.uploadDir != "":
		return modeUpload
	case o.list:
		return modeList
	default:
		return modeBuild
	}
}
